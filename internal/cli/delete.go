package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
)

// DeleteCommand removes one book, or every book with -all.
type DeleteCommand struct {
	StoreFlags
	ID  int64
	All bool

	Out io.Writer
}

func NewDeleteCommand() *DeleteCommand {
	return &DeleteCommand{Out: os.Stdout}
}

// NewDeleteAllCommand is the delete-all shorthand.
func NewDeleteAllCommand() *DeleteCommand {
	return &DeleteCommand{All: true, Out: os.Stdout}
}

func (cmd *DeleteCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	cmd.register(fs)
	fs.Int64Var(&cmd.ID, "id", -1, "Id of the book to delete")
	fs.BoolVar(&cmd.All, "all", cmd.All, "Delete every book in the catalogue")
	fs.Usage = usage(fs, "delete -id <id> | -all [options]", "Delete books from the catalogue.")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if !cmd.All && cmd.ID < 0 {
		return fmt.Errorf("either -id or -all is required")
	}
	if cmd.All && cmd.ID >= 0 {
		return fmt.Errorf("-id and -all are mutually exclusive")
	}
	return nil
}

func (cmd *DeleteCommand) Run(ctx context.Context) error {
	p, closeDB, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	uri := p.Contract().ItemURI(cmd.ID)
	if cmd.All {
		uri = p.Contract().CollectionURI()
	}

	rows, err := p.Delete(ctx, uri, "", nil)
	if err != nil {
		return err
	}

	if rows == 0 {
		yellow.Fprintln(cmd.Out, "Nothing deleted")
		return nil
	}
	green.Fprintf(cmd.Out, "Deleted %d books\n", rows)
	return nil
}
