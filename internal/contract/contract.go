// Package contract is the single source of truth for how book records are
// addressed and typed: the table and column names, the type codes, the
// content addresses for the collection and for one book, and the content
// types returned for each address shape.
//
// # Addresses
//
//	content://<authority>/books       the whole collection
//	content://<authority>/books/<id>  one book, id is a non-negative integer
//
// The authority identifies this data source among others in the same
// process. It is configurable, see config.Content.
//
// # Usage
//
//	c := contract.New("bookdb.catalog")
//	m, err := c.Match("content://bookdb.catalog/books/7")
//	// m.Code == contract.BookID, m.ID == 7
package contract

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const (
	// Scheme is the URI scheme of every content address.
	Scheme = "content"

	// DefaultAuthority is used when no authority is configured.
	DefaultAuthority = "bookdb.catalog"

	// PathBooks is the collection path appended to the base address.
	PathBooks = "books"

	// TableName is the name of the books table.
	TableName = "books"

	// MIMEDomain namespaces the content type strings.
	MIMEDomain = "bookdb"
)

// Column names of the books table.
const (
	// ColumnID is the unique id of a book, INTEGER, assigned by the store.
	ColumnID = "id"
	// ColumnTitle is the book title, TEXT.
	ColumnTitle = "title"
	// ColumnAuthor is the book author, TEXT.
	ColumnAuthor = "author"
	// ColumnType is the kind of book, INTEGER, one of the Type* codes.
	ColumnType = "type"
)

// Columns is the full projection in table order.
var Columns = []string{ColumnID, ColumnTitle, ColumnAuthor, ColumnType}

// Possible values of ColumnType.
const (
	TypeUnknown = 0
	TypeNovel   = 1
	TypePoetry  = 2
)

// Types lists the valid type codes in display order.
var Types = []int{TypeUnknown, TypeNovel, TypePoetry}

// IsValidType reports whether v is one of TypeUnknown, TypeNovel or TypePoetry.
func IsValidType(v int) bool {
	return v == TypeUnknown || v == TypeNovel || v == TypePoetry
}

// TypeLabel returns the display name for a type code.
func TypeLabel(v int) string {
	switch v {
	case TypeNovel:
		return "Novel"
	case TypePoetry:
		return "Poetry"
	default:
		return "Unknown"
	}
}

// IsColumn reports whether name is a column of the books table.
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Match codes for the two address shapes.
const (
	NoMatch = -1
	Books   = 100
	BookID  = 101
)

// ErrNoMatch is returned by Match for addresses that are neither the
// collection nor an item of it.
var ErrNoMatch = errors.New("address does not match")

// Match is the result of resolving an address.
type Match struct {
	Code int
	ID   int64 // only set for BookID
}

// Contract binds the address conventions to one authority.
type Contract struct {
	authority string
}

// New creates a Contract for the given authority. An empty authority falls
// back to DefaultAuthority.
func New(authority string) Contract {
	if authority == "" {
		authority = DefaultAuthority
	}
	return Contract{authority: authority}
}

// Authority returns the configured authority.
func (c Contract) Authority() string {
	return c.authority
}

// BaseURI is the root address of this data source.
func (c Contract) BaseURI() string {
	return Scheme + "://" + c.authority
}

// CollectionURI addresses all books.
func (c Contract) CollectionURI() string {
	return c.BaseURI() + "/" + PathBooks
}

// ItemURI addresses the book with the given id.
func (c Contract) ItemURI(id int64) string {
	return WithAppendedID(c.CollectionURI(), id)
}

// ListType is the content type of the collection address.
func (c Contract) ListType() string {
	return "vnd." + MIMEDomain + ".cursor.dir/" + c.authority + "/" + PathBooks
}

// ItemType is the content type of an item address.
func (c Contract) ItemType() string {
	return "vnd." + MIMEDomain + ".cursor.item/" + c.authority + "/" + PathBooks
}

// Match resolves uri to Books or BookID. Anything else, including a foreign
// scheme or authority, yields ErrNoMatch.
func (c Contract) Match(uri string) (Match, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Match{Code: NoMatch}, ErrNoMatch
	}
	if u.Scheme != Scheme || u.Host != c.authority || u.RawQuery != "" || u.Fragment != "" {
		return Match{Code: NoMatch}, ErrNoMatch
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case len(segments) == 1 && segments[0] == PathBooks:
		return Match{Code: Books}, nil
	case len(segments) == 2 && segments[0] == PathBooks:
		id, ok := parseID(segments[1])
		if !ok {
			return Match{Code: NoMatch}, ErrNoMatch
		}
		return Match{Code: BookID, ID: id}, nil
	}
	return Match{Code: NoMatch}, ErrNoMatch
}

// WithAppendedID appends "/<id>" to uri.
func WithAppendedID(uri string, id int64) string {
	return strings.TrimSuffix(uri, "/") + "/" + strconv.FormatInt(id, 10)
}

// ParseID returns the trailing numeric segment of uri.
func ParseID(uri string) (int64, bool) {
	i := strings.LastIndex(uri, "/")
	if i < 0 {
		return 0, false
	}
	return parseID(uri[i+1:])
}

// parseID accepts digits only, so signs and spaces are rejected.
func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsDescendant reports whether child is strictly below parent in the
// address hierarchy.
func IsDescendant(child, parent string) bool {
	parent = strings.TrimSuffix(parent, "/")
	return strings.HasPrefix(child, parent+"/") && len(child) > len(parent)+1
}
