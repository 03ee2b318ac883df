package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const NumberPrefix = "QUO"

// FormatNumber builds the human-facing quotation number, e.g. QUO-2025-0007.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("%s%04d", YearPrefix(year), seq)
}

// YearPrefix is the part of a number shared by every quotation of a year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", NumberPrefix, year)
}

// NextNumber returns the number following last within year. An empty or
// foreign last starts the sequence at 1.
func NextNumber(year int, last string) string {
	prefix := YearPrefix(year)
	seq, err := strconv.ParseInt(strings.TrimPrefix(last, prefix), 10, 64)
	if !strings.HasPrefix(last, prefix) || err != nil || seq < 0 {
		seq = 0
	}
	return FormatNumber(year, seq+1)
}
