package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
)

// UpdateCommand changes the given fields of one book.
type UpdateCommand struct {
	StoreFlags
	ID     int64
	Values entities.Values

	Out io.Writer
}

func NewUpdateCommand() *UpdateCommand {
	return &UpdateCommand{Out: os.Stdout}
}

func (cmd *UpdateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	cmd.register(fs)
	fs.Int64Var(&cmd.ID, "id", -1, "Id of the book to update (required)")
	title := fs.String("title", "", "New title")
	author := fs.String("author", "", "New author")
	bookType := fs.Int("type", contract.TypeUnknown, "New type: 0 unknown, 1 novel, 2 poetry")
	fs.Usage = usage(fs, "update -id <id> [-title ...] [-author ...] [-type ...]", "Change fields of one book.")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.ID < 0 {
		return fmt.Errorf("required flag -id not provided")
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

func (cmd *UpdateCommand) Run(ctx context.Context) error {
	p, closeDB, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	rows, err := p.Update(ctx, p.Contract().ItemURI(cmd.ID), cmd.Values, "", nil)
	if err != nil {
		return err
	}

	if rows == 0 {
		yellow.Fprintf(cmd.Out, "No book updated (id %d)\n", cmd.ID)
		return nil
	}
	green.Fprintf(cmd.Out, "Updated book %d\n", cmd.ID)
	return nil
}
