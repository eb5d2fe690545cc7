package provider

import (
	"github.com/spf13/cast"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
	"github.com/mrlokans/bookdb/internal/notify"
)

// Cursor is the row-set returned by Query. It remembers the address it was
// queried for so callers can watch it for changes.
type Cursor struct {
	Columns []string
	Rows    [][]any

	notificationURI string
	resolver        *notify.Resolver
}

// Len returns the number of rows.
func (c *Cursor) Len() int {
	return len(c.Rows)
}

// NotificationURI is the address the cursor was queried with.
func (c *Cursor) NotificationURI() string {
	return c.notificationURI
}

// ColumnIndex returns the position of column, or -1.
func (c *Cursor) ColumnIndex(column string) int {
	for i, name := range c.Columns {
		if name == column {
			return i
		}
	}
	return -1
}

// Get returns the value of column in row.
func (c *Cursor) Get(row int, column string) (any, bool) {
	idx := c.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(c.Rows) {
		return nil, false
	}
	return c.Rows[row][idx], true
}

// Values returns row as a column keyed record.
func (c *Cursor) Values(row int) entities.Values {
	out := make(entities.Values, len(c.Columns))
	for i, name := range c.Columns {
		out[name] = c.Rows[row][i]
	}
	return out
}

// Books converts every row into a Book. Columns missing from the projection
// are left at their zero value.
func (c *Cursor) Books() []entities.Book {
	books := make([]entities.Book, 0, len(c.Rows))
	for i := range c.Rows {
		v := c.Values(i)
		books = append(books, entities.Book{
			ID:     cast.ToInt64(v[contract.ColumnID]),
			Title:  cast.ToString(v[contract.ColumnTitle]),
			Author: cast.ToString(v[contract.ColumnAuthor]),
			Type:   cast.ToInt(v[contract.ColumnType]),
		})
	}
	return books
}

// RegisterObserver watches the cursor's address, including the items below
// it, for changes.
func (c *Cursor) RegisterObserver(o notify.Observer) *notify.Subscription {
	return c.resolver.RegisterObserver(c.notificationURI, true, o)
}
