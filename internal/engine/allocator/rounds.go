package allocator

import (
	"sort"

	"github.com/courtkeeper/scheduling-api/internal/models"
)

// ResolveRoundSelector expands a profile round selector into the concrete,
// ordered matchUp list it names. BYE matchUps are excluded. Ordering is the
// documented tie-break input: ascending roundNumber then roundPosition then
// matchUpId.
func ResolveRoundSelector(matchUps []*models.MatchUp, selector models.RoundSelector) []*models.MatchUp {
	var selected []*models.MatchUp
	for _, m := range matchUps {
		if m.DrawID != selector.DrawID || m.MatchUpStatus == models.StatusBye {
			continue
		}
		switch {
		case selector.WinnerFinishingPositionRange != nil:
			if m.FinishingPositionRange == nil || m.FinishingPositionRange.Winner != *selector.WinnerFinishingPositionRange {
				continue
			}
		default:
			if selector.StructureID != "" && m.StructureID != selector.StructureID {
				continue
			}
			if selector.RoundNumber > 0 && m.RoundNumber != selector.RoundNumber {
				continue
			}
		}
		selected = append(selected, m)
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.RoundNumber != b.RoundNumber {
			return a.RoundNumber < b.RoundNumber
		}
		if a.RoundPosition != b.RoundPosition {
			return a.RoundPosition < b.RoundPosition
		}
		return a.MatchUpID < b.MatchUpID
	})

	if segment := selector.RoundSegment; segment != nil && segment.SegmentsCount > 1 {
		selected = segmentSlice(selected, segment.SegmentNumber, segment.SegmentsCount)
	}
	return selected
}

// segmentSlice returns the 1-based segmentNumber chunk of the list split
// into segmentsCount near-equal chunks.
func segmentSlice(matchUps []*models.MatchUp, segmentNumber, segmentsCount int) []*models.MatchUp {
	if segmentNumber < 1 || segmentNumber > segmentsCount {
		return nil
	}
	total := len(matchUps)
	base := total / segmentsCount
	remainder := total % segmentsCount

	start := 0
	for segment := 1; segment <= segmentsCount; segment++ {
		size := base
		if segment <= remainder {
			size++
		}
		if segment == segmentNumber {
			return matchUps[start : start+size]
		}
		start += size
	}
	return nil
}
