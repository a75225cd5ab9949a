package planner

import (
	"fmt"
	"slices"

	"github.com/hpungsan/indotrip/internal/trip"
)

const (
	// MaxItemsPerDay caps the proposals shown on a single day.
	MaxItemsPerDay = 4

	bufferZone     = "Buffer / rest"
	bufferLocation = "Free"
)

// BuildPlan lays each location's proposals onto its allocated days. Proposals
// are sorted by score and dealt round-robin (proposal i to day i mod n), each
// day keeps its first MaxItemsPerDay items, and the plan is cut or padded with
// buffer days so it holds exactly days entries numbered 1..days.
func BuildPlan(order []string, groups []Group, alloc map[string]int, days int) []trip.Day {
	days = max(days, 1)
	byLocation := make(map[string]Group, len(groups))
	for _, g := range groups {
		byLocation[g.Location] = g
	}

	plan := make([]trip.Day, 0, days)
	previous := ""

	for _, loc := range order {
		if len(plan) >= days {
			break
		}
		scored := slices.Clone(byLocation[loc].Proposals)
		slices.SortStableFunc(scored, func(a, b Scored) int {
			return b.Score - a.Score
		})

		slots := alloc[loc]
		if slots < 1 {
			slots = 1
		}
		buckets := make([][]trip.Item, slots)
		for i, s := range scored {
			buckets[i%slots] = append(buckets[i%slots], toItem(s))
		}

		for i := 0; i < slots && len(plan) < days; i++ {
			items := buckets[i]
			if len(items) > MaxItemsPerDay {
				items = items[:MaxItemsPerDay]
			}
			if items == nil {
				items = []trip.Item{}
			}

			var transition *string
			if previous != "" && previous != loc {
				note := fmt.Sprintf("recommended route: %s → %s", previous, loc)
				transition = &note
			}

			plan = append(plan, trip.Day{
				Day:        len(plan) + 1,
				Location:   loc,
				ZoneHint:   zoneHint(items, loc),
				Transition: transition,
				Items:      items,
				Intensity:  trip.IntensityFor(len(items)),
			})
			previous = loc
		}
	}

	for len(plan) < days {
		loc := bufferLocation
		if len(plan) > 0 {
			loc = plan[len(plan)-1].Location
		}
		plan = append(plan, trip.Day{
			Day:       len(plan) + 1,
			Location:  loc,
			ZoneHint:  bufferZone,
			Items:     []trip.Item{},
			Intensity: trip.IntensityLight,
		})
	}

	return plan
}

// zoneHint picks the first item's zone, then its place, then the location.
func zoneHint(items []trip.Item, loc string) string {
	if len(items) == 0 {
		return loc
	}
	if items[0].Zone != "" {
		return items[0].Zone
	}
	if items[0].Place != "" {
		return items[0].Place
	}
	return loc
}

func toItem(s Scored) trip.Item {
	p := s.Proposal
	return trip.Item{
		ProposalID: p.ID,
		Title:      p.Title,
		Category:   p.Category,
		Location:   p.Location,
		Place:      p.Place,
		Zone:       p.Zone,
		Note:       p.Note,
		Score:      s.Score,
		Votes:      s.Counts,
	}
}
