package trip

// Choice is a member's vote on a proposal.
type Choice string

const (
	ChoiceLike  Choice = "like"
	ChoiceMaybe Choice = "maybe"
	ChoiceNo    Choice = "no"
)

// ParseChoice accepts the three serialized vote tokens.
func ParseChoice(s string) (Choice, bool) {
	switch c := Choice(s); c {
	case ChoiceLike, ChoiceMaybe, ChoiceNo:
		return c, true
	}
	return "", false
}

// Counts holds the number of votes per choice.
type Counts struct {
	Like  int `json:"like"`
	Maybe int `json:"maybe"`
	No    int `json:"no"`
}

// Total is the number of votes cast.
func (c Counts) Total() int {
	return c.Like + c.Maybe + c.No
}

// Tally is the derived vote summary of one proposal.
type Tally struct {
	Counts Counts `json:"counts"`
	Score  int    `json:"score"`
}

// AggregateVotes counts a proposal's votes and scores them as
// 2*like + maybe - 2*no. Unrecognized tokens are ignored.
func AggregateVotes(p *Proposal) Tally {
	var c Counts
	for _, v := range p.Votes {
		switch v {
		case ChoiceLike:
			c.Like++
		case ChoiceMaybe:
			c.Maybe++
		case ChoiceNo:
			c.No++
		}
	}
	return Tally{
		Counts: c,
		Score:  2*c.Like + c.Maybe - 2*c.No,
	}
}
