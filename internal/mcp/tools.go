package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/indotrip/internal/planner"
)

// locationHelp lists the catalog so agents pick labels the planner can sequence.
var locationHelp = fmt.Sprintf("Island or region (default \"Bali\"). Known: %s. Anything else is planned as %q",
	strings.Join(planner.DefaultCatalog().Names(), ", "), planner.DefaultCatalog().Fallback())

var tripCreateToolDef = mcp.NewTool("trip_create",
	mcp.WithDescription("Create a group trip. Returns the trip (its id is the six character invite code) and the creator's member_id, needed for proposing and voting."),
	mcp.WithString("name", mcp.Description("Trip name, up to 50 characters (default \"Indonesia Roadtrip\")")),
	mcp.WithNumber("days", mcp.Description("Day budget (default 14)")),
	mcp.WithString("creator_name", mcp.Description("Creator display name, up to 30 characters (default \"Traveler\")")),
)

var tripGetToolDef = mcp.NewTool("trip_get",
	mcp.WithDescription("Fetch a trip with members, proposals (with vote counts and score) and the current itinerary."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Trip invite code (case-insensitive)")),
)

var tripListToolDef = mcp.NewTool("trip_list",
	mcp.WithDescription("List all trips, most recently updated first."),
)

var tripJoinToolDef = mcp.NewTool("trip_join",
	mcp.WithDescription("Join a trip by name. An existing member with the same name (case-insensitive) is reused."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Trip invite code")),
	mcp.WithString("name", mcp.Description("Member display name (default \"Traveler\")")),
)

var proposalAddToolDef = mcp.NewTool("proposal_add",
	mcp.WithDescription("Propose a travel idea on behalf of a member."),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip invite code")),
	mcp.WithString("member_id", mcp.Required(), mcp.Description("Proposing member id")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Idea title, up to 100 characters")),
	mcp.WithString("category", mcp.Description("Category label (default \"Activity\")")),
	mcp.WithString("location", mcp.Description(locationHelp)),
	mcp.WithString("place", mcp.Description("Specific spot")),
	mcp.WithString("zone", mcp.Description("Sub-area, used as the day's zone hint")),
	mcp.WithString("note", mcp.Description("Free-text note, up to 240 characters")),
)

var voteCastToolDef = mcp.NewTool("vote_cast",
	mcp.WithDescription("Cast or change a member's vote on a proposal."),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip invite code")),
	mcp.WithString("member_id", mcp.Required(), mcp.Description("Voting member id")),
	mcp.WithString("proposal_id", mcp.Required(), mcp.Description("Proposal id")),
	mcp.WithString("choice", mcp.Required(), mcp.Enum("like", "maybe", "no"), mcp.Description("Vote choice")),
)

var itineraryGenerateToolDef = mcp.NewTool("itinerary_generate",
	mcp.WithDescription("Generate the day-by-day itinerary from current votes, replacing any previous one."),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip invite code")),
	mcp.WithNumber("days", mcp.Description("Number of days to plan (default: the trip's days)")),
)

var itineraryExportToolDef = mcp.NewTool("itinerary_export",
	mcp.WithDescription("Render the current itinerary as Markdown or HTML. Returns the document, or writes it to a file when path or write_file is given."),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip invite code")),
	mcp.WithString("format", mcp.Enum("md", "html"), mcp.Description("Document format (default md)")),
	mcp.WithString("path", mcp.Description("Output file, directly inside the exports directory or an allowed path")),
	mcp.WithBoolean("write_file", mcp.Description("Write to a generated file name in the exports directory")),
)
