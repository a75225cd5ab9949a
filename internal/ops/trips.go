package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/store"
	"github.com/hpungsan/indotrip/internal/trip"
)

// CreateTripInput contains parameters for the CreateTrip operation.
type CreateTripInput struct {
	Name        string // default: DefaultTripName
	Days        int    // default: cfg.DefaultDays
	CreatorName string // default: DefaultMemberName
}

// CreateTripOutput contains the result of the CreateTrip operation.
type CreateTripOutput struct {
	Trip     *trip.View `json:"trip"`
	MemberID string     `json:"member_id"`
}

// CreateTrip starts a trip with its creator as the first member.
func CreateTrip(ctx context.Context, st *store.Store, cfg *config.Config, input CreateTripInput) (*CreateTripOutput, error) {
	days := input.Days
	if days == 0 {
		days = cfg.DefaultDays
	}
	if err := validateDays(days, cfg); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	memberID, err := newID(now)
	if err != nil {
		return nil, err
	}

	t := &trip.Trip{
		Name:      orDefault(trip.CleanLine(input.Name, trip.MaxTripName), DefaultTripName),
		Days:      days,
		CreatedAt: now,
		UpdatedAt: now,
		Members: []trip.Member{{
			ID:    memberID,
			Name:  orDefault(trip.CleanLine(input.CreatorName, trip.MaxMemberName), DefaultMemberName),
			Color: trip.ColorFor(0),
		}},
		Proposals: []trip.Proposal{},
	}

	for attempt := 0; attempt < maxInviteAttempts; attempt++ {
		code, err := newInviteCode()
		if err != nil {
			return nil, err
		}
		t.ID = code
		view, err := st.Insert(ctx, t)
		if errors.Is(err, errors.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &CreateTripOutput{Trip: view, MemberID: memberID}, nil
	}
	return nil, errors.NewInternal(fmt.Errorf("no free invite code after %d attempts", maxInviteAttempts))
}

// GetTripInput contains parameters for the GetTrip operation.
type GetTripInput struct {
	ID string
}

// GetTrip returns the client view of a trip.
func GetTrip(ctx context.Context, st *store.Store, input GetTripInput) (*trip.View, error) {
	id, err := normalizeTripID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return st.Get(id)
}

// ListTripsOutput contains the result of the ListTrips operation.
type ListTripsOutput struct {
	Items []trip.Summary `json:"items"`
	Total int            `json:"total"`
}

// ListTrips summarizes every trip, most recently updated first.
func ListTrips(ctx context.Context, st *store.Store) (*ListTripsOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := st.List()
	return &ListTripsOutput{Items: items, Total: len(items)}, nil
}

// JoinTripInput contains parameters for the JoinTrip operation.
type JoinTripInput struct {
	ID   string
	Name string // default: DefaultMemberName
}

// JoinTripOutput contains the result of the JoinTrip operation.
type JoinTripOutput struct {
	Trip     *trip.View `json:"trip"`
	MemberID string     `json:"member_id"`

	// Rejoined is true when the name matched an existing member.
	Rejoined bool `json:"rejoined"`
}

// JoinTrip adds a member, or returns the existing member whose name matches
// case-insensitively. Rejoining changes nothing and broadcasts nothing.
func JoinTrip(ctx context.Context, st *store.Store, input JoinTripInput) (*JoinTripOutput, error) {
	id, err := normalizeTripID(input.ID)
	if err != nil {
		return nil, err
	}
	name := orDefault(trip.CleanLine(input.Name, trip.MaxMemberName), DefaultMemberName)

	out := &JoinTripOutput{}
	view, err := st.Update(ctx, id, func(t *trip.Trip) (bool, error) {
		if m, ok := t.MemberByName(name); ok {
			out.MemberID = m.ID
			out.Rejoined = true
			return false, nil
		}
		memberID, err := newID(time.Now())
		if err != nil {
			return false, err
		}
		t.Members = append(t.Members, trip.Member{
			ID:    memberID,
			Name:  name,
			Color: trip.ColorFor(len(t.Members)),
		})
		out.MemberID = memberID
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	out.Trip = view
	return out, nil
}

func validateDays(days int, cfg *config.Config) error {
	if days < 1 || days > cfg.MaxDays {
		return errors.NewInvalidRequest(fmt.Sprintf("days must be between 1 and %d", cfg.MaxDays))
	}
	return nil
}
