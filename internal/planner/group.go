package planner

import "github.com/hpungsan/indotrip/internal/trip"

// Scored pairs a proposal with its derived tally.
type Scored struct {
	Proposal *trip.Proposal
	trip.Tally
}

// Group is the set of scored proposals sharing one canonical location.
type Group struct {
	Location  string
	Proposals []Scored
}

// Weight is the sum of max(score, 1) over the group's proposals, so
// zero and negative scores still pull a little.
func (g Group) Weight() int {
	w := 0
	for _, s := range g.Proposals {
		w += max(s.Score, 1)
	}
	return w
}

// GroupByLocation buckets proposals by canonical location. Groups come back in
// first-seen order and keep the input order within each group.
func (c *Catalog) GroupByLocation(scored []Scored) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, s := range scored {
		loc := c.Canonical(s.Proposal.Location)
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, Group{Location: loc})
		}
		groups[i].Proposals = append(groups[i].Proposals, s)
	}
	return groups
}

// Weights maps each group's location to its weight.
func Weights(groups []Group) map[string]int {
	w := make(map[string]int, len(groups))
	for _, g := range groups {
		w[g.Location] = g.Weight()
	}
	return w
}
