// Package planner turns a trip's voted proposals into a day-by-day itinerary.
//
// The pipeline is: select voted proposals, group them by canonical location,
// sequence the locations, allocate days by weight, and build the plan. Every
// step is deterministic; the only input not derived from the trip is the
// generation timestamp.
package planner

import (
	"fmt"
	"slices"
	"time"

	"github.com/hpungsan/indotrip/internal/trip"
)

// Placeholder texts used when no proposal has a vote yet.
const (
	EmptySummary    = "Add proposals and votes to generate an itinerary."
	EmptySuggestion = "Propose at least 6 to 10 ideas for a 14-day trip."
)

// Suggestion texts.
const (
	SuggestFewerLocations = "That is a lot of islands: cutting down to 2-3 will limit tiring transfers."
	SuggestBufferDay      = "Keep 1 buffer day before the return flight to limit logistics risk."
	SuggestWeather        = "Group marine activities on stable-weather days and keep a land alternative."
)

// Generate builds an itinerary for t over days using the bundled catalog.
func Generate(t *trip.Trip, days int, at time.Time) *trip.Itinerary {
	return DefaultCatalog().Generate(t, days, at)
}

// Generate builds an itinerary for t over days. It never fails: a trip with no
// voted proposals yields an empty plan with a guidance suggestion.
func (c *Catalog) Generate(t *trip.Trip, days int, at time.Time) *trip.Itinerary {
	days = max(days, 1)
	candidates := SelectCandidates(t.Proposals, days)

	if len(candidates) == 0 {
		return &trip.Itinerary{
			GeneratedAt: at,
			Days:        days,
			Summary:     EmptySummary,
			Suggestions: []string{EmptySuggestion},
			Plan:        []trip.Day{},
		}
	}

	groups := c.GroupByLocation(candidates)
	order := c.Sequence(groups)
	alloc := AllocateDays(order, Weights(groups), days)
	plan := BuildPlan(order, groups, alloc, days)

	return &trip.Itinerary{
		GeneratedAt: at,
		Days:        days,
		Summary:     fmt.Sprintf("%d proposals selected, %d main location(s).", len(candidates), len(order)),
		Suggestions: Suggestions(len(order), days),
		Plan:        plan,
	}
}

// SelectCandidates picks the proposals to plan with. Only voted proposals are
// considered, sorted by score (stable). Proposals with a positive score and at
// least as many likes as noes are preferred; if there are none, the top
// 2*days voted proposals are used whatever their score.
func SelectCandidates(proposals []trip.Proposal, days int) []Scored {
	var scored []Scored
	for i := range proposals {
		tally := trip.AggregateVotes(&proposals[i])
		if tally.Counts.Total() == 0 {
			continue
		}
		scored = append(scored, Scored{Proposal: &proposals[i], Tally: tally})
	}
	slices.SortStableFunc(scored, func(a, b Scored) int {
		return b.Score - a.Score
	})

	var selected []Scored
	for _, s := range scored {
		if s.Score > 0 && s.Counts.Like >= s.Counts.No {
			selected = append(selected, s)
		}
	}
	if len(selected) > 0 {
		return selected
	}
	return scored[:min(len(scored), 2*days)]
}

// Suggestions returns the advisory notes for a plan.
func Suggestions(locations, days int) []string {
	var out []string
	if locations > 3 && days <= 14 {
		out = append(out, SuggestFewerLocations)
	}
	return append(out, SuggestBufferDay, SuggestWeather)
}
