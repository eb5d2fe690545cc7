package entities

import "github.com/mrlokans/bookdb/internal/contract"

// Book is one catalogue entry. Title and Author are required and Type is one
// of the contract.Type* codes; the gateway enforces both before a row is
// written, the table itself has no constraints.
type Book struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title  string `gorm:"column:title" json:"title"`
	Author string `gorm:"column:author" json:"author"`
	Type   int    `gorm:"column:type" json:"type"`
}

func (Book) TableName() string {
	return contract.TableName
}

// TypeLabel returns the display name of the book's type.
func (b Book) TypeLabel() string {
	return contract.TypeLabel(b.Type)
}

// Values converts the book into a full record without the id.
func (b Book) Values() Values {
	return Values{
		contract.ColumnTitle:  b.Title,
		contract.ColumnAuthor: b.Author,
		contract.ColumnType:   b.Type,
	}
}
