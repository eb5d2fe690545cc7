package exporters

import "github.com/mrlokans/bookdb/internal/entities"

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

type ExportResult struct {
	Path           string         `json:"path"`
	BooksProcessed int            `json:"books_processed"`
	BooksByType    map[string]int `json:"books_by_type"`
}
