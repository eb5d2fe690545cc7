// Package provider is the record access gateway of the catalogue. Every
// read and write of a book goes through BooksProvider, which resolves the
// content address, validates the payload, runs one SQL statement and
// announces the change.
//
// # Addressing
//
// The collection address operates on whatever the caller's selection
// matches. An item address replaces the caller's selection with "id = ?"
// bound to the id taken from the address.
//
// # Validation
//
// Insert requires title and author to be non-null and type to be one of the
// contract.Type* codes. Update checks only the keys present in the payload.
// A payload that fails validation never reaches the store.
package provider

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/database"
	"github.com/mrlokans/bookdb/internal/entities"
	"github.com/mrlokans/bookdb/internal/notify"
)

// idSelection is the filter forced on item addresses.
var idSelection = contract.ColumnID + " = ?"

// BooksProvider routes addressed operations to the books table. It holds the
// helper and the resolver but owns neither.
type BooksProvider struct {
	helper   *database.Helper
	contract contract.Contract
	resolver *notify.Resolver
}

// NewBooksProvider creates a gateway. A nil resolver gets a private inline one.
func NewBooksProvider(helper *database.Helper, c contract.Contract, resolver *notify.Resolver) *BooksProvider {
	if resolver == nil {
		resolver = notify.NewResolver()
	}
	return &BooksProvider{
		helper:   helper,
		contract: c,
		resolver: resolver,
	}
}

// Contract returns the address conventions the provider serves.
func (p *BooksProvider) Contract() contract.Contract {
	return p.contract
}

// Resolver returns the resolver the provider notifies.
func (p *BooksProvider) Resolver() *notify.Resolver {
	return p.resolver
}

// Query returns the rows reachable from uri. On an item address selection
// and selectionArgs are ignored. An empty projection selects every column.
func (p *BooksProvider) Query(ctx context.Context, uri string, projection []string, selection string, selectionArgs []any, sortOrder string) (*Cursor, error) {
	m, err := p.contract.Match(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot query unknown URI %s", ErrInvalidAddress, uri)
	}
	if m.Code == contract.BookID {
		selection, selectionArgs = idSelection, []any{m.ID}
	}

	for _, column := range projection {
		if !contract.IsColumn(column) {
			return nil, fmt.Errorf("%w: no such column %q", ErrPersistenceFailure, column)
		}
	}

	db, err := p.helper.Readable()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	q := db.WithContext(ctx).Table(contract.TableName)
	if len(projection) > 0 {
		q = q.Select(projection)
	}
	if selection != "" {
		q = q.Where(rawSelection(selection, selectionArgs))
	}
	if sortOrder != "" {
		q = q.Order(sortOrder)
	}

	rows, err := q.Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrPersistenceFailure, uri, err)
	}
	defer rows.Close()

	cursor, err := scanCursor(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrPersistenceFailure, uri, err)
	}
	cursor.notificationURI = uri
	cursor.resolver = p.resolver
	return cursor, nil
}

// Insert adds one book through the collection address and returns the item
// address of the new row.
func (p *BooksProvider) Insert(ctx context.Context, uri string, values entities.Values) (string, error) {
	m, err := p.contract.Match(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %w: insertion is not supported for %s", ErrUnsupportedOperation, ErrInvalidAddress, uri)
	}
	if m.Code != contract.Books {
		return "", fmt.Errorf("%w: insertion is not supported for %s", ErrUnsupportedOperation, uri)
	}

	book, err := validateInsert(values)
	if err != nil {
		return "", err
	}

	err = p.helper.Write(ctx, func(tx *gorm.DB) error {
		return tx.Create(&book).Error
	})
	if err != nil {
		log.Printf("Failed to insert row for %s: %v", uri, err)
		return "", fmt.Errorf("%w: insert into %s: %w", ErrPersistenceFailure, uri, err)
	}

	p.resolver.NotifyChange(ctx, uri)
	return contract.WithAppendedID(uri, book.ID), nil
}

// Update applies the partial record to the rows reachable from uri and
// returns how many rows changed. An empty payload returns 0 without touching
// the store. A nil selection on the collection address updates every row.
func (p *BooksProvider) Update(ctx context.Context, uri string, values entities.Values, selection string, selectionArgs []any) (int64, error) {
	m, err := p.contract.Match(uri)
	if err != nil {
		return 0, fmt.Errorf("%w: update is not supported for %s", ErrInvalidAddress, uri)
	}
	if m.Code == contract.BookID {
		selection, selectionArgs = idSelection, []any{m.ID}
	}

	assignments, err := validateUpdate(values)
	if err != nil {
		return 0, err
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	var rowsUpdated int64
	err = p.helper.Write(ctx, func(tx *gorm.DB) error {
		res := scope(tx.Model(&entities.Book{}), selection, selectionArgs).Updates(assignments)
		rowsUpdated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("%w: update %s: %w", ErrPersistenceFailure, uri, err)
	}

	if rowsUpdated != 0 {
		p.resolver.NotifyChange(ctx, uri)
	}
	return rowsUpdated, nil
}

// Delete removes the rows reachable from uri and returns how many were
// removed. A nil selection on the collection address deletes every row.
func (p *BooksProvider) Delete(ctx context.Context, uri string, selection string, selectionArgs []any) (int64, error) {
	m, err := p.contract.Match(uri)
	if err != nil {
		return 0, fmt.Errorf("%w: deletion is not supported for %s", ErrInvalidAddress, uri)
	}
	if m.Code == contract.BookID {
		selection, selectionArgs = idSelection, []any{m.ID}
	}

	var rowsDeleted int64
	err = p.helper.Write(ctx, func(tx *gorm.DB) error {
		res := scope(tx, selection, selectionArgs).Delete(&entities.Book{})
		rowsDeleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("%w: delete %s: %w", ErrPersistenceFailure, uri, err)
	}

	if rowsDeleted != 0 {
		p.resolver.NotifyChange(ctx, uri)
	}
	return rowsDeleted, nil
}

// GetType returns the content type for uri.
func (p *BooksProvider) GetType(uri string) (string, error) {
	m, err := p.contract.Match(uri)
	if err != nil {
		return "", fmt.Errorf("%w: unknown URI %s", ErrInvalidAddress, uri)
	}
	if m.Code == contract.BookID {
		return p.contract.ItemType(), nil
	}
	return p.contract.ListType(), nil
}

// scope applies the selection, or allows a table wide statement when there
// is none.
func scope(db *gorm.DB, selection string, selectionArgs []any) *gorm.DB {
	if selection == "" {
		return db.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	return db.Where(rawSelection(selection, selectionArgs))
}

// rawSelection keeps the caller's filter verbatim. gorm would read a bare
// number such as "1" as a primary key lookup.
func rawSelection(selection string, selectionArgs []any) clause.Expr {
	return clause.Expr{SQL: selection, Vars: selectionArgs}
}

func scanCursor(rows *sql.Rows) (*Cursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	cursor := &Cursor{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		row := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		cursor.Rows = append(cursor.Rows, row)
	}
	return cursor, rows.Err()
}
