package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	at := time.Date(2025, 5, 4, 13, 30, 0, 0, time.UTC)
	var c Clock = Fixed(at)
	if !c.Now().Equal(at) {
		t.Fatalf("expected %v, got %v", at, c.Now())
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 5, 4, 13, 30, 15, 99, time.UTC))
	want := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
