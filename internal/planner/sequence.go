package planner

import (
	"math"
	"slices"
)

// weightBonus scales a candidate's weight into a cost reduction.
const weightBonus = -0.2

// Sequence orders locations for travel. The heaviest location goes first;
// each following pick minimizes moveCost(last, candidate) + weight*-0.2, with
// ties going to the candidate met first. This is a greedy nearest-neighbour
// heuristic, not an optimal tour.
func (c *Catalog) Sequence(groups []Group) []string {
	if len(groups) < 2 {
		out := make([]string, 0, len(groups))
		for _, g := range groups {
			out = append(out, g.Location)
		}
		return out
	}

	type candidate struct {
		location string
		weight   int
	}
	remaining := make([]candidate, len(groups))
	for i, g := range groups {
		remaining[i] = candidate{location: g.Location, weight: g.Weight()}
	}
	slices.SortStableFunc(remaining, func(a, b candidate) int {
		return b.weight - a.weight
	})

	ordered := []string{remaining[0].location}
	remaining = remaining[1:]

	for len(remaining) > 0 {
		last := ordered[len(ordered)-1]
		bestIdx := 0
		bestTotal := math.Inf(1)
		for i, cand := range remaining {
			total := float64(c.MoveCost(last, cand.location)) + float64(cand.weight)*weightBonus
			if total < bestTotal {
				bestTotal = total
				bestIdx = i
			}
		}
		ordered = append(ordered, remaining[bestIdx].location)
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return ordered
}
