package main

import (
	"fmt"
	"os"

	"github.com/sonce/newsctl/internal/config"
	"github.com/sonce/newsctl/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"create": true, "rebuild-index": true, "slug": true,
	"validate": true, "import": true, "check-bundle": true,
	"watch": true, "preview": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// resolveRoot picks the site root: explicit value, NEWSCTL_ROOT, or cwd.
func resolveRoot(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("NEWSCTL_ROOT"); env != "" {
		return env, nil
	}
	return os.Getwd()
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _  _  ___ __      __ ___   ___  _____  _
  | \| || __|\ \    / // __| / __||_   _|| |
  | .` + "`" + ` || _|  \ \/\/ / \__ \| (__   | |  | |__
  |_|\_||___|  \_/\_/  |___/ \___|  |_|  |____|

  News content pipeline for static sites

  Usage: newsctl <command> [options]
         newsctl --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// CLI mode: help/version or a known subcommand. Commands resolve the
	// site root themselves (--root flag), so no setup happens here.
	if isCLIMode() {
		app := newCLIApp()
		if err := app.Run(os.Args); err != nil {
			if msg := err.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'newsctl --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	root, err := resolveRoot("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine site root: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		fmt.Fprintf(os.Stderr, "error: unknown disabled tools in config: %v\n", unknown)
		os.Exit(1)
	}

	paths, err := cfg.Resolve(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to resolve site paths: %v\n", err)
		os.Exit(1)
	}

	if err := mcp.Run(cfg, paths, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
