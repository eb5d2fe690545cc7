package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/exporters"
	"github.com/mrlokans/bookdb/internal/provider"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type runnable interface {
	ParseFlags(args []string) error
	Run(ctx context.Context) error
}

func run(t *testing.T, cmd runnable, out *bytes.Buffer, args ...string) error {
	t.Helper()
	out.Reset()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd.Run(context.Background())
}

func addBook(t *testing.T, dbPath, title, author, bookType string) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewAddCommand()
	cmd.Out = &out
	require.NoError(t, run(t, cmd, &out, "-db", dbPath, "-title", title, "-author", author, "-type", bookType))
}

func listOutput(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewListCommand()
	cmd.Out = &out
	require.NoError(t, run(t, cmd, &out, append([]string{"-db", dbPath}, args...)...))
	return out.String()
}

func TestAddAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	var out bytes.Buffer
	add := NewAddCommand()
	add.Out = &out
	require.NoError(t, run(t, add, &out, "-db", dbPath, "-authority", "test.cli", "-title", "Dune", "-author", "Frank Herbert", "-type", "1"))
	assert.Contains(t, out.String(), "content://test.cli/books/1")

	addBook(t, dbPath, "Odes", "John Keats", "2")

	listed := listOutput(t, dbPath)
	assert.Contains(t, listed, "Dune by Frank Herbert [Novel]")
	assert.Contains(t, listed, "Odes by John Keats [Poetry]")
	assert.Contains(t, listed, "2 books")

	poetry := listOutput(t, dbPath, "-type", "2")
	assert.NotContains(t, poetry, "Dune")
	assert.Contains(t, poetry, "1 books")

	desc := listOutput(t, dbPath, "-sort", "title", "-order", "desc")
	assert.Less(t, bytes.Index([]byte(desc), []byte("Odes")), bytes.Index([]byte(desc), []byte("Dune")))
}

func TestListEmpty(t *testing.T) {
	assert.Contains(t, listOutput(t, filepath.Join(t.TempDir(), "books.db")), "No books found")
}

func TestListCommand_ParseFlags(t *testing.T) {
	assert.Error(t, NewListCommand().ParseFlags([]string{"-sort", "isbn"}))
	assert.Error(t, NewListCommand().ParseFlags([]string{"-order", "sideways"}))
	assert.Error(t, NewListCommand().ParseFlags([]string{"-type", "7"}))

	cmd := NewListCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-order", "desc"}))
	assert.Equal(t, "DESC", cmd.Order)
	assert.Equal(t, -1, cmd.Type)
}

func TestAddCommand_SendsOnlyGivenFlags(t *testing.T) {
	cmd := NewAddCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-db", "x.db", "-author", "Anon", "-type", "0"}))
	assert.False(t, cmd.Values.Contains(contract.ColumnTitle))
	assert.Equal(t, 2, cmd.Values.Size())

	dbPath := filepath.Join(t.TempDir(), "books.db")
	var out bytes.Buffer
	add := NewAddCommand()
	add.Out = &out
	err := run(t, add, &out, "-db", dbPath, "-author", "Anon", "-type", "0")
	assert.ErrorIs(t, err, provider.ErrMissingField)

	err = run(t, add, &out, "-db", dbPath, "-title", "T", "-author", "Anon", "-type", "5")
	assert.ErrorIs(t, err, provider.ErrInvalidEnum)

	assert.Contains(t, listOutput(t, dbPath), "No books found")
}

func TestUpdateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")
	addBook(t, dbPath, "Dune", "Frank Herbert", "1")

	var out bytes.Buffer
	cmd := NewUpdateCommand()
	cmd.Out = &out
	require.NoError(t, run(t, cmd, &out, "-db", dbPath, "-id", "1", "-title", "Dune Messiah"))
	assert.Contains(t, out.String(), "Updated book 1")
	assert.Equal(t, 1, cmd.Values.Size())

	listed := listOutput(t, dbPath)
	assert.Contains(t, listed, "Dune Messiah by Frank Herbert [Novel]")

	require.NoError(t, run(t, cmd, &out, "-db", dbPath, "-id", "42", "-author", "Nobody"))
	assert.Contains(t, out.String(), "No book updated")

	assert.Error(t, NewUpdateCommand().ParseFlags([]string{"-title", "x"}), "id is required")
}

func TestDeleteCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")
	addBook(t, dbPath, "Dune", "Frank Herbert", "1")
	addBook(t, dbPath, "Emma", "Jane Austen", "1")
	addBook(t, dbPath, "Odes", "John Keats", "2")

	var out bytes.Buffer
	del := NewDeleteCommand()
	del.Out = &out
	require.NoError(t, run(t, del, &out, "-db", dbPath, "-id", "2"))
	assert.Contains(t, out.String(), "Deleted 1 books")
	assert.NotContains(t, listOutput(t, dbPath), "Emma")

	require.NoError(t, run(t, del, &out, "-db", dbPath, "-id", "2"))
	assert.Contains(t, out.String(), "Nothing deleted")

	all := NewDeleteAllCommand()
	all.Out = &out
	require.NoError(t, run(t, all, &out, "-db", dbPath))
	assert.Contains(t, out.String(), "Deleted 2 books")
	assert.Contains(t, listOutput(t, dbPath), "No books found")
}

func TestDeleteCommand_ParseFlags(t *testing.T) {
	assert.Error(t, NewDeleteCommand().ParseFlags(nil))
	assert.Error(t, NewDeleteCommand().ParseFlags([]string{"-id", "1", "-all"}))
	assert.NoError(t, NewDeleteAllCommand().ParseFlags(nil))
}

func TestExportCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "books.db")
	addBook(t, dbPath, "Dune", "Frank Herbert", "1")
	addBook(t, dbPath, "Odes", "John Keats", "2")

	exportDir := filepath.Join(t.TempDir(), "out")
	var out bytes.Buffer
	cmd := NewExportCommand()
	cmd.Out = &out
	require.NoError(t, run(t, cmd, &out, "-db", dbPath, "-dir", exportDir))
	assert.Contains(t, out.String(), "Exported 2 books")
	assert.Contains(t, out.String(), "Novel")

	content, err := os.ReadFile(filepath.Join(exportDir, exporters.CatalogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "- **Dune** by Frank Herbert")

	t.Setenv("EXPORT_DIR", "")
	assert.Error(t, NewExportCommand().ParseFlags([]string{"-db", dbPath}))
}
