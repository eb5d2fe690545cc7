package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/mrlokans/bookdb/internal/config"
	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/database"
	"github.com/mrlokans/bookdb/internal/entities"
	"github.com/mrlokans/bookdb/internal/provider"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
)

// StoreFlags are the flags every command uses to find the catalogue.
type StoreFlags struct {
	DatabasePath string
	Authority    string
}

func (s *StoreFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.DatabasePath, "db", envOr("DATABASE_PATH", config.DefaultDatabasePath), "Path to the catalogue database")
	fs.StringVar(&s.Authority, "authority", envOr("CONTENT_AUTHORITY", config.DefaultAuthority), "Authority of content addresses")
}

// open opens the catalogue and returns a provider over it. The returned
// function closes the database.
func (s *StoreFlags) open(ctx context.Context) (*provider.BooksProvider, func(), error) {
	absDBPath, err := filepath.Abs(s.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	helper := database.NewHelper(absDBPath, database.Options{})
	if err := helper.Open(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	p := provider.NewBooksProvider(helper, contract.New(s.Authority), nil)
	return p, func() { helper.Close() }, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func printBook(out io.Writer, book entities.Book) {
	gray.Fprintf(out, "%4d  ", book.ID)
	fmt.Fprintf(out, "%s ", book.Title)
	gray.Fprint(out, "by ")
	fmt.Fprintf(out, "%s ", book.Author)
	cyan.Fprintf(out, "[%s]\n", book.TypeLabel())
}

func usage(fs *flag.FlagSet, synopsis, description string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s\n\n", os.Args[0], synopsis)
		fmt.Fprintf(os.Stderr, "%s\n\n", description)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
}
