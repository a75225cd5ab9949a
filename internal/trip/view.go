package trip

import "time"

// View is the client-facing snapshot of a trip: the stored record with each
// proposal's derived counts and score attached.
type View struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Days      int            `json:"days"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Members   []Member       `json:"members"`
	Proposals []ProposalView `json:"proposals"`
	Itinerary *Itinerary     `json:"itinerary"`
}

// ProposalView is a proposal with its derived tally.
type ProposalView struct {
	Proposal
	Tally
}

// Summary is the list-row form of a trip.
type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Days         int       `json:"days"`
	Members      int       `json:"members"`
	Proposals    int       `json:"proposals"`
	HasItinerary bool      `json:"has_itinerary"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewView derives a snapshot. The result shares nothing mutable with t.
func NewView(t *Trip) *View {
	c := t.Clone()
	v := &View{
		ID:        c.ID,
		Name:      c.Name,
		Days:      c.Days,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Members:   c.Members,
		Proposals: make([]ProposalView, len(c.Proposals)),
		Itinerary: c.Itinerary,
	}
	for i := range c.Proposals {
		v.Proposals[i] = ProposalView{Proposal: c.Proposals[i], Tally: AggregateVotes(&c.Proposals[i])}
	}
	return v
}

// Summarize builds the list-row form of t.
func Summarize(t *Trip) Summary {
	return Summary{
		ID:           t.ID,
		Name:         t.Name,
		Days:         t.Days,
		Members:      len(t.Members),
		Proposals:    len(t.Proposals),
		HasItinerary: t.Itinerary != nil,
		UpdatedAt:    t.UpdatedAt,
	}
}
