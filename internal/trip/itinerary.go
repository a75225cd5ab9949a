package trip

import "time"

// Intensity labels a day by how many items it holds.
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityBalanced Intensity = "balanced"
	IntensityIntense  Intensity = "intense"
)

// IntensityFor maps an item count to its label: <2 light, 2-3 balanced, 4+ intense.
func IntensityFor(items int) Intensity {
	switch {
	case items >= 4:
		return IntensityIntense
	case items >= 2:
		return IntensityBalanced
	default:
		return IntensityLight
	}
}

// Itinerary is a generated day-by-day plan.
type Itinerary struct {
	GeneratedAt time.Time `json:"generated_at"`
	Days        int       `json:"days"`
	Summary     string    `json:"summary"`
	Suggestions []string  `json:"suggestions"`
	Plan        []Day     `json:"plan"`
}

// Day is one entry of the plan.
type Day struct {
	Day        int       `json:"day"`
	Location   string    `json:"location"`
	ZoneHint   string    `json:"zone_hint"`
	Transition *string   `json:"transition"`
	Items      []Item    `json:"items"`
	Intensity  Intensity `json:"intensity"`
}

// Item is a proposal summary placed on a day.
type Item struct {
	ProposalID string `json:"proposal_id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Location   string `json:"location"`
	Place      string `json:"place,omitempty"`
	Zone       string `json:"zone,omitempty"`
	Note       string `json:"note,omitempty"`
	Score      int    `json:"score"`
	Votes      Counts `json:"votes"`
}

// Clone returns a deep copy.
func (it *Itinerary) Clone() *Itinerary {
	c := *it
	c.Suggestions = append([]string(nil), it.Suggestions...)
	c.Plan = make([]Day, len(it.Plan))
	for i, d := range it.Plan {
		d.Items = append([]Item(nil), d.Items...)
		if d.Transition != nil {
			note := *d.Transition
			d.Transition = &note
		}
		c.Plan[i] = d
	}
	return &c
}
