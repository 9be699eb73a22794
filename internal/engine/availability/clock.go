package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeToMinutes converts an "HH:MM" clock string to minutes after midnight.
// Malformed input returns -1; callers treat that as zero capacity rather
// than an error.
func TimeToMinutes(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return -1
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return -1
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return -1
	}
	return hours*60 + minutes
}

// MinutesToTime converts minutes after midnight back to "HH:MM".
func MinutesToTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidDate reports whether the string is a calendar date in YYYY-MM-DD form.
func ValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// SortedDates returns the unique dates sorted ascending, dropping invalid
// entries.
func SortedDates(dates []string) []string {
	seen := make(map[string]bool, len(dates))
	valid := make([]string, 0, len(dates))
	for _, date := range dates {
		if ValidDate(date) && !seen[date] {
			seen[date] = true
			valid = append(valid, date)
		}
	}
	// ISO dates sort lexicographically
	for i := 1; i < len(valid); i++ {
		for j := i; j > 0 && valid[j] < valid[j-1]; j-- {
			valid[j], valid[j-1] = valid[j-1], valid[j]
		}
	}
	return valid
}
