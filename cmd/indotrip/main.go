package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/db"
	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/logger"
	"github.com/hpungsan/indotrip/internal/mcp"
	"github.com/hpungsan/indotrip/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "create": true, "list": true, "show": true,
	"join": true, "propose": true, "vote": true,
	"generate": true, "export": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  indotrip: plan a group trip across Indonesia

  Propose places, vote like / maybe / no, and generate a
  day-by-day itinerary from what the group actually wants.

  Usage: indotrip <command> [options]
         indotrip serve
         indotrip --help

  MCP server mode requires piped input.`)
}

func main() {
	os.Exit(run(os.Args))
}

// run returns the process exit code so deferred cleanup, including the
// store's final flush, always happens.
func run(args []string) int {
	if len(args) < 2 && isTerminal() {
		printBanner()
		return 0
	}

	// Help and version need neither config nor database.
	if isHelpOrVersion(args) {
		if err := newCLIApp(nil).Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	if len(args) >= 2 && !isCLIMode(args) && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[1])
		fmt.Fprintf(os.Stderr, "Run 'indotrip --help' for usage.\n")
		return 1
	}

	baseDir, err := config.BaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		return 1
	}

	log := logger.New("indotrip", cfg.LogLevel)
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn().Strs("tools", unknown).Msg("ignoring unknown disabled_tools entries")
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		return 1
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	hub := live.NewHub(cfg.SubscriberBuffer, log)
	defer hub.Close()

	st, err := store.Open(context.Background(), database, store.Options{
		Debounce:  cfg.SaveDebounce(),
		Publisher: hub,
		Logger:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load trips: %v\n", err)
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to save trips: %v\n", err)
		}
	}()

	if isCLIMode(args) {
		app := newCLIApp(&deps{store: st, hub: hub, cfg: cfg, log: log})
		if err := app.Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// MCP server mode (default)
	if err := mcp.Run(st, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
