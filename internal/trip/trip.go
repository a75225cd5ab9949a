package trip

import (
	"strings"
	"time"
)

// Trip is the persisted record for one group trip. Every field is stored
// verbatim; vote counts and scores are derived on read and never stored.
type Trip struct {
	// ID is the six character invite code, uppercase
	ID string `json:"id"`

	Name string `json:"name"`

	// Days is the target day budget, also updated by itinerary generation
	Days int `json:"days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Members in join order; Members[0] created the trip
	Members []Member `json:"members"`

	// Proposals newest first; ties in the planner follow this order
	Proposals []Proposal `json:"proposals"`

	// Itinerary is replaced wholesale on every generation
	Itinerary *Itinerary `json:"itinerary"`
}

// Member is a participant, identified by id and matched by name on join.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Proposal is a travel idea put up for a vote.
type Proposal struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`

	// Location is the region label used for grouping (an island name)
	Location string `json:"location"`

	// Place is the specific spot within the location
	Place string `json:"place,omitempty"`

	// Zone is the sub-area, used as the day's zone hint
	Zone string `json:"zone,omitempty"`

	Note string `json:"note,omitempty"`

	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`

	// Votes maps member id to that member's single current choice
	Votes map[string]Choice `json:"votes"`
}

// MemberColors is the palette assigned by join order.
var MemberColors = []string{
	"#0B8C88", "#0E7490", "#D9480F", "#A61E4D", "#2B8A3E", "#5F3DC4", "#DD6B20", "#1C7ED6",
}

// ColorFor returns the palette color for the member joining at index.
func ColorFor(index int) string {
	return MemberColors[index%len(MemberColors)]
}

// NormalizeID uppercases and trims a trip id so invite codes match regardless of case.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Member resolves a member by id.
func (t *Trip) Member(id string) (*Member, bool) {
	for i := range t.Members {
		if t.Members[i].ID == id {
			return &t.Members[i], true
		}
	}
	return nil, false
}

// MemberByName finds a member by case-insensitive name.
func (t *Trip) MemberByName(name string) (*Member, bool) {
	for i := range t.Members {
		if strings.EqualFold(t.Members[i].Name, name) {
			return &t.Members[i], true
		}
	}
	return nil, false
}

// Proposal resolves a proposal by id.
func (t *Trip) Proposal(id string) (*Proposal, bool) {
	for i := range t.Proposals {
		if t.Proposals[i].ID == id {
			return &t.Proposals[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy, so a mutation can be applied and discarded on error.
func (t *Trip) Clone() *Trip {
	c := *t
	c.Members = append([]Member(nil), t.Members...)
	c.Proposals = make([]Proposal, len(t.Proposals))
	for i, p := range t.Proposals {
		c.Proposals[i] = p.clone()
	}
	if t.Itinerary != nil {
		c.Itinerary = t.Itinerary.Clone()
	}
	return &c
}

func (p Proposal) clone() Proposal {
	votes := make(map[string]Choice, len(p.Votes))
	for k, v := range p.Votes {
		votes[k] = v
	}
	p.Votes = votes
	return p
}
