// Package depgraph computes, for every matchUp, the transitive set of
// matchUps that must resolve before it, plus round-distance metadata. The
// source draw structures are guaranteed acyclic feeders, so the graph is a
// precomputed adjacency map rather than a live walk.
package depgraph

import (
	"sort"

	"github.com/courtkeeper/scheduling-api/internal/models"
)

// Dependency is the derived precedence record for one matchUp.
type Dependency struct {
	// MatchUpIDs is the transitive prerequisite set.
	MatchUpIDs map[string]bool `json:"matchUpIds"`
	// Sources groups direct and indirect prerequisites by round distance:
	// Sources[0] is one round away, Sources[1] two rounds, and so on.
	// Groups are sorted for deterministic output.
	Sources [][]string `json:"sources"`
}

// Graph maps matchUpId to its dependency record.
type Graph map[string]*Dependency

// Build derives the dependency graph for the supplied matchUps. Elimination
// feeders follow round/position arithmetic; round-robin groups have no
// intra-group precedence; cross-structure precedence follows the declared
// structural links.
func Build(matchUps []*models.MatchUp, links []models.StructureLink) Graph {
	graph := make(Graph, len(matchUps))
	byID := make(map[string]*models.MatchUp, len(matchUps))
	direct := make(map[string][]string, len(matchUps))

	type structureKey struct {
		drawID      string
		structureID string
	}
	structures := make(map[structureKey][]*models.MatchUp)
	position := make(map[string]map[int]map[int]*models.MatchUp)

	for _, m := range matchUps {
		byID[m.MatchUpID] = m
		key := structureKey{m.DrawID, m.StructureID}
		structures[key] = append(structures[key], m)
		if m.RoundNumber > 0 && m.RoundPosition > 0 {
			if position[m.StructureID] == nil {
				position[m.StructureID] = make(map[int]map[int]*models.MatchUp)
			}
			if position[m.StructureID][m.RoundNumber] == nil {
				position[m.StructureID][m.RoundNumber] = make(map[int]*models.MatchUp)
			}
			position[m.StructureID][m.RoundNumber][m.RoundPosition] = m
		}
	}

	// elimination feeders: round N position P is fed by round N-1
	// positions 2P-1 and 2P within the same structure
	for _, m := range matchUps {
		if m.RoundNumber <= 1 || m.RoundPosition <= 0 {
			continue
		}
		rounds := position[m.StructureID]
		if rounds == nil {
			continue
		}
		feeders := rounds[m.RoundNumber-1]
		if feeders == nil {
			continue
		}
		for _, feederPosition := range []int{m.RoundPosition*2 - 1, m.RoundPosition * 2} {
			if feeder, ok := feeders[feederPosition]; ok {
				direct[m.MatchUpID] = append(direct[m.MatchUpID], feeder.MatchUpID)
			}
		}
	}

	// declared structural links: the target structure's entry round depends
	// on every matchUp of the source structure (or of its named round)
	for _, link := range links {
		sourceKey := structureKey{link.DrawID, link.SourceStructureID}
		targetKey := structureKey{link.DrawID, link.TargetStructureID}
		var sourceIDs []string
		for _, m := range structures[sourceKey] {
			if link.SourceRoundNumber > 0 && m.RoundNumber != link.SourceRoundNumber {
				continue
			}
			sourceIDs = append(sourceIDs, m.MatchUpID)
		}
		if len(sourceIDs) == 0 {
			continue
		}
		targetRound := link.TargetRoundNumber
		if targetRound == 0 {
			targetRound = 1
		}
		for _, m := range structures[targetKey] {
			if m.RoundNumber != targetRound {
				continue
			}
			direct[m.MatchUpID] = append(direct[m.MatchUpID], sourceIDs...)
		}
	}

	for _, m := range matchUps {
		graph[m.MatchUpID] = resolve(m.MatchUpID, direct)
	}
	return graph
}

// resolve expands direct feeders into the transitive set plus
// round-distance groups via breadth-first traversal.
func resolve(matchUpID string, direct map[string][]string) *Dependency {
	dep := &Dependency{MatchUpIDs: make(map[string]bool)}
	frontier := direct[matchUpID]
	for len(frontier) > 0 {
		group := make([]string, 0, len(frontier))
		var next []string
		for _, id := range frontier {
			if dep.MatchUpIDs[id] {
				continue
			}
			dep.MatchUpIDs[id] = true
			group = append(group, id)
			next = append(next, direct[id]...)
		}
		if len(group) == 0 {
			break
		}
		sort.Strings(group)
		dep.Sources = append(dep.Sources, group)
		frontier = next
	}
	return dep
}

// DependsOn reports whether matchUp a transitively depends on b.
func (g Graph) DependsOn(a, b string) bool {
	dep := g[a]
	return dep != nil && dep.MatchUpIDs[b]
}

// RoundsDistance returns how many rounds separate b from a: the smallest
// index i such that b appears in a's Sources[i], plus one. Zero means no
// dependency on any path.
func (g Graph) RoundsDistance(a, b string) int {
	dep := g[a]
	if dep == nil {
		return 0
	}
	for i, group := range dep.Sources {
		for _, id := range group {
			if id == b {
				return i + 1
			}
		}
	}
	return 0
}

// Dependencies returns the record for a matchUp, never nil.
func (g Graph) Dependencies(matchUpID string) *Dependency {
	if dep, ok := g[matchUpID]; ok {
		return dep
	}
	return &Dependency{MatchUpIDs: map[string]bool{}}
}
