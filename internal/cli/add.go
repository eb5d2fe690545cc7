package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
)

// AddCommand inserts one book. Only the flags given on the command line are
// sent, so a missing -title is reported by the catalogue itself.
type AddCommand struct {
	StoreFlags
	Values entities.Values

	Out io.Writer
}

func NewAddCommand() *AddCommand {
	return &AddCommand{Out: os.Stdout}
}

func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	cmd.register(fs)
	title := fs.String("title", "", "Book title (required)")
	author := fs.String("author", "", "Book author (required)")
	bookType := fs.Int("type", contract.TypeUnknown, "Book type: 0 unknown, 1 novel, 2 poetry (required)")
	fs.Usage = usage(fs, "add -title <title> -author <author> -type <code> [options]", "Add a book to the catalogue.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	set := visited(fs)
	cmd.Values = entities.Values{}
	if set["title"] {
		cmd.Values[contract.ColumnTitle] = *title
	}
	if set["author"] {
		cmd.Values[contract.ColumnAuthor] = *author
	}
	if set["type"] {
		cmd.Values[contract.ColumnType] = *bookType
	}
	return nil
}

func (cmd *AddCommand) Run(ctx context.Context) error {
	p, closeDB, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	uri, err := p.Insert(ctx, p.Contract().CollectionURI(), cmd.Values)
	if err != nil {
		return err
	}

	green.Fprint(cmd.Out, "Added ")
	gray.Fprintln(cmd.Out, uri)
	return nil
}
