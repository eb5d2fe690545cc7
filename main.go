package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrlokans/bookdb/internal/cli"
	"github.com/mrlokans/bookdb/internal/config"
	"github.com/mrlokans/bookdb/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run(ctx context.Context) error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "list":
		cmd = cli.NewListCommand()
	case "add":
		cmd = cli.NewAddCommand()
	case "update":
		cmd = cli.NewUpdateCommand()
	case "delete":
		cmd = cli.NewDeleteCommand()
	case "delete-all":
		cmd = cli.NewDeleteAllCommand()
	case "export":
		cmd = cli.NewExportCommand()

	case "-h", "--help", "help":
		printUsage()
		return

	case "version":
		fmt.Printf("bookdb %s (%s)\n", Version, Commit)
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  list         List the books in the catalogue\n")
	fmt.Fprintf(os.Stderr, "  add          Add a book\n")
	fmt.Fprintf(os.Stderr, "  update       Change fields of one book\n")
	fmt.Fprintf(os.Stderr, "  delete       Delete one book by id\n")
	fmt.Fprintf(os.Stderr, "  delete-all   Delete every book\n")
	fmt.Fprintf(os.Stderr, "  export       Write the catalogue as markdown\n")
	fmt.Fprintf(os.Stderr, "  version      Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
