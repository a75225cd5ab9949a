package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/ops"
	"github.com/hpungsan/indotrip/internal/store"
	"github.com/hpungsan/indotrip/internal/web"
)

// deps are the long-lived collaborators every command shares.
type deps struct {
	store *store.Store
	hub   *live.Hub
	cfg   *config.Config
	log   zerolog.Logger

	// stdout is where command output goes; nil means os.Stdout.
	stdout io.Writer
}

func (d *deps) out() io.Writer {
	if d.stdout != nil {
		return d.stdout
	}
	return os.Stdout
}

// newCLIApp creates the CLI application with all commands. d may be nil
// when only help or version output is needed.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "indotrip",
		Usage:   "Collaborative trip voting and itinerary planner",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(d),
			createCmd(d),
			listCmd(d),
			showCmd(d),
			joinCmd(d),
			proposeCmd(d),
			voteCmd(d),
			generateCmd(d),
			exportCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API with live trip updates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *d.cfg
			if c.IsSet("bind") {
				cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}
			srv := web.NewServer(d.store, d.hub, &cfg, d.log)
			if err := web.Run(srv, d.store, d.log); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func createCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a trip and print its invite code",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Trip name"},
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Day budget (default from config)"},
			&cli.StringFlag{Name: "creator", Aliases: []string{"c"}, Usage: "Your display name"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.CreateTrip(c.Context, d.store, d.cfg, ops.CreateTripInput{
				Name:        c.String("name"),
				Days:        c.Int("days"),
				CreatorName: c.String("creator"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func listCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List trips, most recently updated first",
		Action: func(c *cli.Context) error {
			output, err := ops.ListTrips(c.Context, d.store)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func showCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a trip with vote tallies and itinerary",
		ArgsUsage: "[options] <trip-id>",
		Action: func(c *cli.Context) error {
			output, err := ops.GetTrip(c.Context, d.store, ops.GetTripInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func joinCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "join",
		Usage:     "Join a trip, reusing an existing member with the same name",
		ArgsUsage: "[options] <trip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Your display name"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.JoinTrip(c.Context, d.store, ops.JoinTripInput{
				ID:   c.Args().First(),
				Name: c.String("name"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func proposeCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "propose",
		Usage:     "Propose a place or activity",
		ArgsUsage: "[options] <trip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "member", Aliases: []string{"m"}, Required: true, Usage: "Your member id"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "What to do"},
			&cli.StringFlag{Name: "category", Usage: "Category (default Activity)"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Island or region (default Bali)"},
			&cli.StringFlag{Name: "place", Usage: "Specific spot"},
			&cli.StringFlag{Name: "zone", Usage: "Sub-area"},
			&cli.StringFlag{Name: "note", Usage: "Free-text note"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.AddProposal(c.Context, d.store, ops.AddProposalInput{
				TripID:   c.Args().First(),
				MemberID: c.String("member"),
				Title:    c.String("title"),
				Category: c.String("category"),
				Location: c.String("location"),
				Place:    c.String("place"),
				Zone:     c.String("zone"),
				Note:     c.String("note"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func voteCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "vote",
		Usage:     "Vote like, maybe or no on a proposal",
		ArgsUsage: "[options] <trip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "member", Aliases: []string{"m"}, Required: true, Usage: "Your member id"},
			&cli.StringFlag{Name: "proposal", Aliases: []string{"p"}, Required: true, Usage: "Proposal id"},
			&cli.StringFlag{Name: "choice", Aliases: []string{"c"}, Required: true, Usage: "like|maybe|no"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.CastVote(c.Context, d.store, ops.CastVoteInput{
				TripID:     c.Args().First(),
				MemberID:   c.String("member"),
				ProposalID: c.String("proposal"),
				Choice:     c.String("choice"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func generateCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate the itinerary from current votes",
		ArgsUsage: "[options] <trip-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Days to plan (default: the trip's days)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.GenerateItinerary(c.Context, d.store, d.cfg, ops.GenerateItineraryInput{
				TripID: c.Args().First(),
				Days:   c.Int("days"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(d.out(), output)
		},
	}
}

func exportCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Render the itinerary as Markdown or HTML",
		ArgsUsage: "[options] <trip-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "md", Usage: "md|html"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file (default: print to stdout)"},
			&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write to ~/.indotrip/exports/<name>-<id>-<timestamp>.<ext>"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ExportItinerary(c.Context, d.store, d.cfg, ops.ExportItineraryInput{
				TripID:    c.Args().First(),
				Format:    c.String("format"),
				Path:      c.String("path"),
				WriteFile: c.Bool("write"),
			})
			if err != nil {
				return outputError(err)
			}
			if output.Path == "" {
				_, err := io.WriteString(d.out(), output.Content)
				return err
			}
			return outputJSON(d.out(), output)
		},
	}
}

// Helper functions

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
