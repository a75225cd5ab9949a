package ops

import (
	"context"
	"time"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/planner"
	"github.com/hpungsan/indotrip/internal/store"
	"github.com/hpungsan/indotrip/internal/trip"
)

// GenerateItineraryInput contains parameters for the GenerateItinerary operation.
type GenerateItineraryInput struct {
	TripID string
	Days   int // default: the trip's current days
}

// GenerateItineraryOutput contains the result of the GenerateItinerary operation.
type GenerateItineraryOutput struct {
	Trip      *trip.View      `json:"trip"`
	Itinerary *trip.Itinerary `json:"itinerary"`
}

// GenerateItinerary plans the trip from its current votes, stores the
// requested days on the trip and replaces any earlier itinerary.
func GenerateItinerary(ctx context.Context, st *store.Store, cfg *config.Config, input GenerateItineraryInput) (*GenerateItineraryOutput, error) {
	id, err := normalizeTripID(input.TripID)
	if err != nil {
		return nil, err
	}
	if input.Days != 0 {
		if err := validateDays(input.Days, cfg); err != nil {
			return nil, err
		}
	}

	view, err := st.Update(ctx, id, func(t *trip.Trip) (bool, error) {
		days := input.Days
		if days == 0 {
			days = t.Days
		}
		if err := validateDays(days, cfg); err != nil {
			return false, err
		}
		t.Days = days
		t.Itinerary = planner.Generate(t, days, time.Now().UTC())
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &GenerateItineraryOutput{Trip: view, Itinerary: view.Itinerary}, nil
}
