package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mrlokans/bookdb/internal/exporters"
)

// ExportCommand writes the catalogue to a markdown file.
type ExportCommand struct {
	StoreFlags
	OutputDir string

	Out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{Out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cmd.register(fs)
	fs.StringVar(&cmd.OutputDir, "dir", envOr("EXPORT_DIR", ""), "Directory that receives "+exporters.CatalogFileName+" (required)")
	fs.Usage = usage(fs, "export -dir <path> [options]", "Write the catalogue as markdown.")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.OutputDir == "" {
		return fmt.Errorf("required flag -dir not provided")
	}
	return nil
}

func (cmd *ExportCommand) Run(ctx context.Context) error {
	p, closeDB, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	absOutputDir, err := filepath.Abs(cmd.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	result, err := exporters.NewCatalogExporter(p, exporters.NewMarkdownExporter(absOutputDir)).Run(ctx)
	if err != nil {
		return err
	}

	green.Fprintf(cmd.Out, "Exported %d books\n", result.BooksProcessed)
	labels := make([]string, 0, len(result.BooksByType))
	for label := range result.BooksByType {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(cmd.Out, "  %-8s %d\n", label, result.BooksByType[label])
	}
	gray.Fprintln(cmd.Out, result.Path)
	return nil
}
