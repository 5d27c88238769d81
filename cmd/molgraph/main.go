package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/db"
	"github.com/hpungsan/molgraph/internal/logging"
	"github.com/hpungsan/molgraph/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"decode": true, "fetch": true, "list": true, "delete": true, "purge": true,
	"batch": true, "failures": true, "export": true, "web": true,
	"help": true,
}

// commandArgs returns os.Args[1:] with the global --debug flag removed.
func commandArgs() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return slices.DeleteFunc(slices.Clone(os.Args[1:]), func(a string) bool {
		return a == "--debug"
	})
}

// isDebug reports whether --debug was passed.
func isDebug() bool {
	return len(os.Args) > 1 && slices.Contains(os.Args[1:], "--debug")
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	args := commandArgs()
	if len(args) == 0 {
		return false
	}
	arg := args[0]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	args := commandArgs()
	if len(args) == 0 {
		return false
	}
	arg := args[0]
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
                 _                       _
   _ __ ___   __| | __ _ _ __ __ _ _ __ | |__
  | '_ ' _ \ / _ \ |/ _' | '__/ _' | '_ \| '_ \
  | | | | | | (_) | | (_| | | | (_| | |_) | | | |
  |_| |_| |_|\___/|_|\__, |_|  \__,_| .__/|_| |_|
                     |___/          |_|

  CHON(S) SMILES decoder and molecule store

  Usage: molgraph <command> [options]
         molgraph --help

  MCP server mode requires piped input.`)
}

func main() {
	os.Exit(run())
}

func run() int {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return 0
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, logging.Nop())
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		return 1
	}
	baseDir := filepath.Join(homeDir, ".molgraph")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		return 1
	}
	defer database.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = baseDir
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		return 1
	}
	db.ConfigurePool(database, cfg)

	level := cfg.LogLevel
	if isDebug() {
		level = "debug"
	}
	log, closeLog, err := logging.New(baseDir, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open log: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, log)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(commandArgs()) > 0 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", commandArgs()[0])
		fmt.Fprintf(os.Stderr, "Run 'molgraph --help' for usage.\n")
		return 1
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warnw("unknown disabled_tools entries", "names", unknown)
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		log.Warnw("unknown disabled_types entries", "names", unknown)
	}

	// MCP server mode (default)
	log.Infow("mcp server starting", "version", Version)
	if err := mcp.Run(database, cfg, log, Version); err != nil {
		log.Errorw("mcp server stopped", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
