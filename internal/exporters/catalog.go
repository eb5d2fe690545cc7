package exporters

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
	"github.com/mrlokans/bookdb/internal/provider"
)

// catalogOrder sorts books the way they appear in the catalogue.
const catalogOrder = contract.ColumnType + ", " + contract.ColumnTitle + ", " + contract.ColumnID

// CatalogExporter reads every book through the provider and hands them to
// an exporter.
type CatalogExporter struct {
	provider *provider.BooksProvider
	exporter BookExporter
}

func NewCatalogExporter(p *provider.BooksProvider, exporter BookExporter) *CatalogExporter {
	return &CatalogExporter{
		provider: p,
		exporter: exporter,
	}
}

// Run exports the current catalogue.
func (e *CatalogExporter) Run(ctx context.Context) (ExportResult, error) {
	books, err := e.GetAllBooks(ctx)
	if err != nil {
		return ExportResult{}, err
	}

	result, err := e.exporter.Export(books)
	if err != nil {
		return result, fmt.Errorf("failed to export catalogue: %w", err)
	}

	log.Printf("Export completed: %d books written to %s", result.BooksProcessed, result.Path)
	return result, nil
}

// GetAllBooks returns the collection in catalogue order.
func (e *CatalogExporter) GetAllBooks(ctx context.Context) ([]entities.Book, error) {
	uri := e.provider.Contract().CollectionURI()
	cursor, err := e.provider.Query(ctx, uri, contract.Columns, "", nil, catalogOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	return cursor.Books(), nil
}
