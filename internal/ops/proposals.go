package ops

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/store"
	"github.com/hpungsan/indotrip/internal/trip"
)

// AddProposalInput contains parameters for the AddProposal operation.
type AddProposalInput struct {
	TripID   string
	MemberID string
	Title    string // required
	Category string // default: DefaultCategory
	Location string // default: DefaultLocation
	Place    string
	Zone     string
	Note     string
}

// AddProposalOutput contains the result of the AddProposal operation.
type AddProposalOutput struct {
	Trip       *trip.View `json:"trip"`
	ProposalID string     `json:"proposal_id"`
}

// AddProposal appends a proposal created by a member of the trip.
func AddProposal(ctx context.Context, st *store.Store, input AddProposalInput) (*AddProposalOutput, error) {
	id, err := normalizeTripID(input.TripID)
	if err != nil {
		return nil, err
	}
	title := trip.CleanLine(input.Title, trip.MaxTitle)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	now := time.Now().UTC()
	proposalID, err := newID(now)
	if err != nil {
		return nil, err
	}
	p := trip.Proposal{
		ID:        proposalID,
		Title:     title,
		Category:  orDefault(trip.CleanLine(input.Category, trip.MaxCategory), DefaultCategory),
		Location:  orDefault(trip.CleanLine(input.Location, trip.MaxLocation), DefaultLocation),
		Place:     trip.CleanLine(input.Place, trip.MaxPlace),
		Zone:      trip.CleanLine(input.Zone, trip.MaxZone),
		Note:      trip.CleanText(input.Note, trip.MaxNote),
		CreatedAt: now,
		Votes:     map[string]trip.Choice{},
	}

	view, err := st.Update(ctx, id, func(t *trip.Trip) (bool, error) {
		m, err := requireMember(t, input.MemberID)
		if err != nil {
			return false, err
		}
		p.CreatedBy = m.ID
		p.CreatedByName = m.Name
		t.Proposals = slices.Insert(t.Proposals, 0, p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &AddProposalOutput{Trip: view, ProposalID: proposalID}, nil
}

// CastVoteInput contains parameters for the CastVote operation.
type CastVoteInput struct {
	TripID     string
	MemberID   string
	ProposalID string
	Choice     string // like, maybe or no
}

// CastVoteOutput contains the result of the CastVote operation.
type CastVoteOutput struct {
	Trip     *trip.View `json:"trip"`
	Proposal trip.Tally `json:"proposal"`
}

// CastVote records the member's choice on a proposal, replacing any earlier vote.
func CastVote(ctx context.Context, st *store.Store, input CastVoteInput) (*CastVoteOutput, error) {
	id, err := normalizeTripID(input.TripID)
	if err != nil {
		return nil, err
	}
	choice, ok := trip.ParseChoice(strings.ToLower(strings.TrimSpace(input.Choice)))
	if !ok {
		return nil, errors.NewInvalidRequest("choice must be one of: like, maybe, no")
	}
	proposalID := strings.TrimSpace(input.ProposalID)
	if proposalID == "" {
		return nil, errors.NewInvalidRequest("proposal_id is required")
	}

	var tally trip.Tally
	view, err := st.Update(ctx, id, func(t *trip.Trip) (bool, error) {
		m, err := requireMember(t, input.MemberID)
		if err != nil {
			return false, err
		}
		p, ok := t.Proposal(proposalID)
		if !ok {
			return false, errors.NewNotFound("proposal", proposalID)
		}
		if p.Votes == nil {
			p.Votes = map[string]trip.Choice{}
		}
		p.Votes[m.ID] = choice
		tally = trip.AggregateVotes(p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &CastVoteOutput{Trip: view, Proposal: tally}, nil
}
