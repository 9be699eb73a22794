package allocator

import "github.com/courtkeeper/scheduling-api/internal/models"

// Timing is the resolved average/recovery minutes for one matchUp.
type Timing struct {
	AverageMinutes  int
	RecoveryMinutes int
}

// TimingLookup resolves matchUp timing from the scheduleTiming extension:
// event-level overrides first, then tournament-level, then the configured
// defaults. Entries match on matchUpFormat and categoryType; empty entry
// fields act as wildcards.
type TimingLookup struct {
	defaults   Timing
	tournament []models.MatchUpFormatTiming
	events     map[string][]models.MatchUpFormatTiming
}

// NewTimingLookup builds a lookup from the extension payload. A nil payload
// resolves everything to the defaults.
func NewTimingLookup(timing *models.ScheduleTiming, defaults Timing) *TimingLookup {
	lookup := &TimingLookup{defaults: defaults}
	if timing != nil {
		lookup.tournament = timing.Tournament
		lookup.events = timing.Events
	}
	return lookup
}

// For resolves timing for a matchUp.
func (l *TimingLookup) For(m *models.MatchUp) Timing {
	resolved := l.defaults
	if entry := match(l.tournament, m); entry != nil {
		apply(&resolved, entry)
	}
	if l.events != nil && m.EventID != "" {
		if entry := match(l.events[m.EventID], m); entry != nil {
			apply(&resolved, entry)
		}
	}
	return resolved
}

func match(entries []models.MatchUpFormatTiming, m *models.MatchUp) *models.MatchUpFormatTiming {
	for i := range entries {
		entry := &entries[i]
		if entry.MatchUpFormat != "" && entry.MatchUpFormat != m.MatchUpFormat {
			continue
		}
		if entry.CategoryType != "" && entry.CategoryType != m.CategoryType {
			continue
		}
		return entry
	}
	return nil
}

func apply(timing *Timing, entry *models.MatchUpFormatTiming) {
	if entry.AverageMinutes > 0 {
		timing.AverageMinutes = entry.AverageMinutes
	}
	if entry.RecoveryMinutes > 0 {
		timing.RecoveryMinutes = entry.RecoveryMinutes
	}
}
