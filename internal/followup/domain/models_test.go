package domain

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    time.Time
		stage  Stage
		want   Bucket
		wantOK bool
	}{
		{"earlier today", time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC), StageOpen, BucketToday, true},
		{"later today", time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC), StageOpen, BucketToday, true},
		{"yesterday", time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC), StageOpen, BucketOverdue, true},
		{"tomorrow", time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), StageOpen, BucketUpcoming, true},
		{"closed overdue", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), StageClosed, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(Followup{FollowupDate: tt.due, Stage: tt.stage}, now)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("Classify() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassifyUsesNowLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2025, 6, 10, 1, 0, 0, 0, jakarta)
	// 2025-06-09 20:00 UTC is 2025-06-10 03:00 in WIB.
	due := time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC)

	got, ok := Classify(Followup{FollowupDate: due, Stage: StageOpen}, now)
	if !ok || got != BucketToday {
		t.Fatalf("expected today, got %q", got)
	}
}
