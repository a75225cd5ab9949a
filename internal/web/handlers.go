package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/ops"
	"github.com/hpungsan/indotrip/internal/store"
)

// Handlers contains HTTP route handlers for the trip API.
type Handlers struct {
	store     *store.Store
	hub       *live.Hub
	cfg       *config.Config
	log       zerolog.Logger
	keepalive time.Duration
	started   time.Time
}

type createTripBody struct {
	Name        string `json:"name"`
	Days        int    `json:"days"`
	CreatorName string `json:"creator_name"`
}

type joinBody struct {
	Name string `json:"name"`
}

type proposalBody struct {
	MemberID string `json:"member_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Location string `json:"location"`
	Place    string `json:"place"`
	Zone     string `json:"zone"`
	Note     string `json:"note"`
}

type voteBody struct {
	MemberID   string `json:"member_id"`
	ProposalID string `json:"proposal_id"`
	Choice     string `json:"choice"`
}

type generateBody struct {
	Days int `json:"days"`
}

// HandleCreateTrip handles POST /api/trips.
func (h *Handlers) HandleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := ops.CreateTrip(r.Context(), h.store, h.cfg, ops.CreateTripInput{
		Name:        body.Name,
		Days:        body.Days,
		CreatorName: body.CreatorName,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, out)
}

// HandleListTrips handles GET /api/trips.
func (h *Handlers) HandleListTrips(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListTrips(r.Context(), h.store)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, out)
}

// HandleGetTrip handles GET /api/trips/{id}.
func (h *Handlers) HandleGetTrip(w http.ResponseWriter, r *http.Request) {
	view, err := ops.GetTrip(r.Context(), h.store, ops.GetTripInput{ID: mux.Vars(r)["id"]})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, view)
}

// HandleJoin handles POST /api/trips/{id}/join.
func (h *Handlers) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var body joinBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := ops.JoinTrip(r.Context(), h.store, ops.JoinTripInput{ID: mux.Vars(r)["id"], Name: body.Name})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, out)
}

// HandleAddProposal handles POST /api/trips/{id}/proposals.
func (h *Handlers) HandleAddProposal(w http.ResponseWriter, r *http.Request) {
	var body proposalBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := ops.AddProposal(r.Context(), h.store, ops.AddProposalInput{
		TripID:   mux.Vars(r)["id"],
		MemberID: body.MemberID,
		Title:    body.Title,
		Category: body.Category,
		Location: body.Location,
		Place:    body.Place,
		Zone:     body.Zone,
		Note:     body.Note,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, out)
}

// HandleVote handles POST /api/trips/{id}/votes.
func (h *Handlers) HandleVote(w http.ResponseWriter, r *http.Request) {
	var body voteBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := ops.CastVote(r.Context(), h.store, ops.CastVoteInput{
		TripID:     mux.Vars(r)["id"],
		MemberID:   body.MemberID,
		ProposalID: body.ProposalID,
		Choice:     body.Choice,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, out)
}

// HandleGenerate handles POST /api/trips/{id}/itinerary/generate. The body is optional.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, h.log, err)
		return
	}
	out, err := ops.GenerateItinerary(r.Context(), h.store, h.cfg, ops.GenerateItineraryInput{
		TripID: mux.Vars(r)["id"],
		Days:   body.Days,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, out)
}

// HandleItinerary handles GET /api/trips/{id}/itinerary?format=md|html and
// returns the rendered document itself.
func (h *Handlers) HandleItinerary(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ExportItinerary(r.Context(), h.store, h.cfg, ops.ExportItineraryInput{
		TripID: mux.Vars(r)["id"],
		Format: r.URL.Query().Get("format"),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", out.Format.ContentType())
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+out.TripID+out.Format.Extension()+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.Content))
}

// HandleHealth handles GET /healthz. It always answers 200; ok reports
// whether the database answered the probe.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"ok":     true,
		"uptime": time.Since(h.started).Seconds(),
		"trips":  len(h.store.List()),
		"dirty":  h.store.Dirty(),
	}
	persisted, err := h.store.Persisted(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("health probe failed")
		body["ok"] = false
	} else {
		body["persisted"] = persisted
	}
	writeJSON(w, h.log, http.StatusOK, body)
}
