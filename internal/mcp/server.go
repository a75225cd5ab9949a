package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"trip_create": {
		def:     tripCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTripCreate },
	},
	"trip_get": {
		def:     tripGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTripGet },
	},
	"trip_list": {
		def:     tripListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTripList },
	},
	"trip_join": {
		def:     tripJoinToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTripJoin },
	},
	"proposal_add": {
		def:     proposalAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProposalAdd },
	},
	"vote_cast": {
		def:     voteCastToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVoteCast },
	},
	"itinerary_generate": {
		def:     itineraryGenerateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleItineraryGenerate },
	},
	"itinerary_export": {
		def:     itineraryExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleItineraryExport },
	},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the trip tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(st *store.Store, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"indotrip",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st, cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(st *store.Store, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(st, cfg, version))
}
