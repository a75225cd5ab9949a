package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/ops"
	"github.com/hpungsan/indotrip/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{store: st, cfg: cfg}
}

// Request types for each tool

// TripCreateRequest represents the arguments for trip_create.
type TripCreateRequest struct {
	Name        string `json:"name,omitempty"`
	Days        int    `json:"days,omitempty"`
	CreatorName string `json:"creator_name,omitempty"`
}

// TripGetRequest represents the arguments for trip_get.
type TripGetRequest struct {
	ID string `json:"id"`
}

// TripJoinRequest represents the arguments for trip_join.
type TripJoinRequest struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProposalAddRequest represents the arguments for proposal_add.
type ProposalAddRequest struct {
	TripID   string `json:"trip_id"`
	MemberID string `json:"member_id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Location string `json:"location,omitempty"`
	Place    string `json:"place,omitempty"`
	Zone     string `json:"zone,omitempty"`
	Note     string `json:"note,omitempty"`
}

// VoteCastRequest represents the arguments for vote_cast.
type VoteCastRequest struct {
	TripID     string `json:"trip_id"`
	MemberID   string `json:"member_id"`
	ProposalID string `json:"proposal_id"`
	Choice     string `json:"choice"`
}

// ItineraryGenerateRequest represents the arguments for itinerary_generate.
type ItineraryGenerateRequest struct {
	TripID string `json:"trip_id"`
	Days   int    `json:"days,omitempty"`
}

// ItineraryExportRequest represents the arguments for itinerary_export.
type ItineraryExportRequest struct {
	TripID    string `json:"trip_id"`
	Format    string `json:"format,omitempty"`
	Path      string `json:"path,omitempty"`
	WriteFile bool   `json:"write_file,omitempty"`
}

// decodeArgs maps tool arguments onto one of the request types above.
// A type mismatch, such as "five" for days, is an INVALID_REQUEST naming the tool.
func decodeArgs[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	tool := req.Params.Name
	if tool == "" {
		tool = "tool"
	}
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, errors.NewInvalidRequest(fmt.Sprintf("%s: arguments are not JSON: %v", tool, err))
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, errors.NewInvalidRequest(fmt.Sprintf("invalid %s arguments: %v", tool, err))
	}
	return out, nil
}

// HandleTripCreate handles the trip_create tool call.
func (h *Handlers) HandleTripCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[TripCreateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.CreateTrip(ctx, h.store, h.cfg, ops.CreateTripInput{
		Name:        input.Name,
		Days:        input.Days,
		CreatorName: input.CreatorName,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTripGet handles the trip_get tool call.
func (h *Handlers) HandleTripGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[TripGetRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.GetTrip(ctx, h.store, ops.GetTripInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTripList handles the trip_list tool call.
func (h *Handlers) HandleTripList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListTrips(ctx, h.store)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTripJoin handles the trip_join tool call.
func (h *Handlers) HandleTripJoin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[TripJoinRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.JoinTrip(ctx, h.store, ops.JoinTripInput{ID: input.ID, Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProposalAdd handles the proposal_add tool call.
func (h *Handlers) HandleProposalAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ProposalAddRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.AddProposal(ctx, h.store, ops.AddProposalInput{
		TripID:   input.TripID,
		MemberID: input.MemberID,
		Title:    input.Title,
		Category: input.Category,
		Location: input.Location,
		Place:    input.Place,
		Zone:     input.Zone,
		Note:     input.Note,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleVoteCast handles the vote_cast tool call.
func (h *Handlers) HandleVoteCast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[VoteCastRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.CastVote(ctx, h.store, ops.CastVoteInput{
		TripID:     input.TripID,
		MemberID:   input.MemberID,
		ProposalID: input.ProposalID,
		Choice:     input.Choice,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleItineraryGenerate handles the itinerary_generate tool call.
func (h *Handlers) HandleItineraryGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ItineraryGenerateRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.GenerateItinerary(ctx, h.store, h.cfg, ops.GenerateItineraryInput{
		TripID: input.TripID,
		Days:   input.Days,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleItineraryExport handles the itinerary_export tool call.
func (h *Handlers) HandleItineraryExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[ItineraryExportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.ExportItinerary(ctx, h.store, h.cfg, ops.ExportItineraryInput{
		TripID:    input.TripID,
		Format:    input.Format,
		Path:      input.Path,
		WriteFile: input.WriteFile,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tErr, ok := errors.As(err); ok {
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": tErr.Message,
			"status":  tErr.Status,
		}
		if tErr.Code != errors.ErrInternal && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
