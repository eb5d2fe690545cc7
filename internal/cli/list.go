package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/bookdb/internal/contract"
)

// ListCommand prints the books in the catalogue.
type ListCommand struct {
	StoreFlags
	Type  int
	Sort  string
	Order string

	Out io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{Out: os.Stdout}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	cmd.register(fs)
	fs.IntVar(&cmd.Type, "type", -1, "Only list books of this type (0 unknown, 1 novel, 2 poetry)")
	fs.StringVar(&cmd.Sort, "sort", contract.ColumnID, "Sort column: id, title, author or type")
	fs.StringVar(&cmd.Order, "order", "asc", "Sort direction: asc or desc")
	fs.Usage = usage(fs, "list [options]", "List the books in the catalogue.")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !contract.IsColumn(cmd.Sort) {
		return fmt.Errorf("invalid sort column: %s", cmd.Sort)
	}
	cmd.Order = strings.ToUpper(cmd.Order)
	if cmd.Order != "ASC" && cmd.Order != "DESC" {
		return fmt.Errorf("order must be asc or desc")
	}
	if cmd.Type != -1 && !contract.IsValidType(cmd.Type) {
		return fmt.Errorf("invalid type: %d", cmd.Type)
	}
	return nil
}

func (cmd *ListCommand) Run(ctx context.Context) error {
	p, closeDB, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	var selection string
	var selectionArgs []any
	if cmd.Type != -1 {
		selection = contract.ColumnType + " = ?"
		selectionArgs = []any{cmd.Type}
	}

	cursor, err := p.Query(ctx, p.Contract().CollectionURI(), contract.Columns, selection, selectionArgs, cmd.Sort+" "+cmd.Order)
	if err != nil {
		return err
	}

	books := cursor.Books()
	if len(books) == 0 {
		yellow.Fprintln(cmd.Out, "No books found")
		return nil
	}

	for _, book := range books {
		printBook(cmd.Out, book)
	}
	fmt.Fprintf(cmd.Out, "\n%d books\n", len(books))
	return nil
}
