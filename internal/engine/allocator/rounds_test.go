package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtkeeper/scheduling-api/internal/models"
)

func roundMatchUps() []*models.MatchUp {
	var matchUps []*models.MatchUp
	for p := 4; p >= 1; p-- {
		matchUps = append(matchUps, &models.MatchUp{
			MatchUpID:     matchUpID("r1", p),
			DrawID:        "draw-1",
			StructureID:   "main",
			RoundNumber:   1,
			RoundPosition: p,
			MatchUpStatus: models.StatusToBePlayed,
		})
	}
	matchUps = append(matchUps,
		&models.MatchUp{
			MatchUpID: "bye", DrawID: "draw-1", StructureID: "main",
			RoundNumber: 1, RoundPosition: 5, MatchUpStatus: models.StatusBye,
		},
		&models.MatchUp{
			MatchUpID: "other-draw", DrawID: "draw-2", StructureID: "main",
			RoundNumber: 1, RoundPosition: 1, MatchUpStatus: models.StatusToBePlayed,
		},
		&models.MatchUp{
			MatchUpID: "final", DrawID: "draw-1", StructureID: "main",
			RoundNumber: 2, RoundPosition: 1, MatchUpStatus: models.StatusToBePlayed,
			FinishingPositionRange: &models.FinishingPositionRange{Winner: [2]int{1, 1}, Loser: [2]int{2, 2}},
		},
	)
	return matchUps
}

func matchUpID(prefix string, position int) string {
	return prefix + "-p" + string(rune('0'+position))
}

func TestResolveRoundSelectorByRound(t *testing.T) {
	selected := ResolveRoundSelector(roundMatchUps(), models.RoundSelector{
		DrawID: "draw-1", StructureID: "main", RoundNumber: 1,
	})
	require.Len(t, selected, 4)
	// sorted by position, BYE and foreign draws excluded
	for i, m := range selected {
		assert.Equal(t, i+1, m.RoundPosition)
		assert.Equal(t, "draw-1", m.DrawID)
	}
}

func TestResolveRoundSelectorByFinishingPosition(t *testing.T) {
	winner := [2]int{1, 1}
	selected := ResolveRoundSelector(roundMatchUps(), models.RoundSelector{
		DrawID: "draw-1", WinnerFinishingPositionRange: &winner,
	})
	require.Len(t, selected, 1)
	assert.Equal(t, "final", selected[0].MatchUpID)
}

func TestResolveRoundSelectorSegments(t *testing.T) {
	selector := models.RoundSelector{DrawID: "draw-1", StructureID: "main", RoundNumber: 1}

	selector.RoundSegment = &models.RoundSegment{SegmentNumber: 1, SegmentsCount: 2}
	first := ResolveRoundSelector(roundMatchUps(), selector)
	require.Len(t, first, 2)
	assert.Equal(t, 1, first[0].RoundPosition)
	assert.Equal(t, 2, first[1].RoundPosition)

	selector.RoundSegment = &models.RoundSegment{SegmentNumber: 2, SegmentsCount: 2}
	second := ResolveRoundSelector(roundMatchUps(), selector)
	require.Len(t, second, 2)
	assert.Equal(t, 3, second[0].RoundPosition)

	// uneven split puts the remainder in the leading segments
	selector.RoundSegment = &models.RoundSegment{SegmentNumber: 1, SegmentsCount: 3}
	assert.Len(t, ResolveRoundSelector(roundMatchUps(), selector), 2)
	selector.RoundSegment = &models.RoundSegment{SegmentNumber: 3, SegmentsCount: 3}
	assert.Len(t, ResolveRoundSelector(roundMatchUps(), selector), 1)

	// out-of-range segment selects nothing
	selector.RoundSegment = &models.RoundSegment{SegmentNumber: 4, SegmentsCount: 3}
	assert.Empty(t, ResolveRoundSelector(roundMatchUps(), selector))
}
