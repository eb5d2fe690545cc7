package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
)

// CatalogFileName is the file written into the export directory.
const CatalogFileName = "catalog.md"

// MarkdownExporter writes the whole catalogue into one markdown file,
// grouped by book type.
type MarkdownExporter struct {
	ExportDir string
	FileName  string

	// now is replaceable in tests
	now func() time.Time
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir: exportDir,
		FileName:  CatalogFileName,
		now:       time.Now,
	}
}

// Export replaces the catalogue file. The file is written next to its final
// location and renamed, so readers never observe a partial catalogue.
func (e *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{BooksByType: make(map[string]int)}

	if e.ExportDir == "" {
		return result, fmt.Errorf("export directory not configured")
	}
	if err := os.MkdirAll(e.ExportDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create export directory: %w", err)
	}

	content := GenerateCatalog(books, e.now())

	outputPath := filepath.Join(e.ExportDir, e.FileName)
	tmp, err := os.CreateTemp(e.ExportDir, "."+e.FileName+"-*")
	if err != nil {
		return result, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return result, fmt.Errorf("failed to write catalogue: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return result, fmt.Errorf("failed to write catalogue: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return result, fmt.Errorf("failed to replace %s: %w", outputPath, err)
	}

	for _, book := range books {
		result.BooksByType[book.TypeLabel()]++
	}
	result.BooksProcessed = len(books)
	result.Path = outputPath
	return result, nil
}

// GenerateCatalog renders books as markdown. Books keep their input order
// inside each type section; empty sections are omitted.
func GenerateCatalog(books []entities.Book, generatedAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: book_catalog\n")
	fmt.Fprintf(&builder, "created_at: %s\n", generatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&builder, "total_books: %d\n", len(books))
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# Book Catalog\n")

	if len(books) == 0 {
		fmt.Fprintf(&builder, "\nNo books yet.\n")
		return builder.String()
	}

	grouped := make(map[int][]entities.Book)
	for _, book := range books {
		t := book.Type
		if !contract.IsValidType(t) {
			t = contract.TypeUnknown
		}
		grouped[t] = append(grouped[t], book)
	}

	for _, t := range contract.Types {
		group := grouped[t]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&builder, "\n## %s (%d)\n\n", contract.TypeLabel(t), len(group))
		for _, book := range group {
			fmt.Fprintf(&builder, "- **%s** by %s\n", escapeMarkdown(book.Title, "(untitled)"), escapeMarkdown(book.Author, "(unknown author)"))
		}
	}

	return builder.String()
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
	"\n", " ",
)

func escapeMarkdown(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return markdownEscaper.Replace(s)
}
