package provider

import (
	"fmt"

	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/entities"
)

// validateInsert checks a full record in order: title, author, type. The
// checks on the id and unknown keys come after, they mirror what the store
// itself would reject.
func validateInsert(values entities.Values) (entities.Book, error) {
	title, ok := values.AsString(contract.ColumnTitle)
	if !ok {
		return entities.Book{}, fmt.Errorf("%w: book requires a title", ErrMissingField)
	}

	author, ok := values.AsString(contract.ColumnAuthor)
	if !ok {
		return entities.Book{}, fmt.Errorf("%w: book requires an author", ErrMissingField)
	}

	bookType, ok := values.AsInt(contract.ColumnType)
	if !ok || !contract.IsValidType(bookType) {
		return entities.Book{}, fmt.Errorf("%w: book requires valid type", ErrInvalidEnum)
	}

	if err := checkKeys(values); err != nil {
		return entities.Book{}, err
	}

	return entities.Book{Title: title, Author: author, Type: bookType}, nil
}

// validateUpdate checks only the keys present in values and returns the
// converted column assignments.
func validateUpdate(values entities.Values) (map[string]any, error) {
	assignments := make(map[string]any, values.Size())

	if values.Contains(contract.ColumnTitle) {
		title, ok := values.AsString(contract.ColumnTitle)
		if !ok {
			return nil, fmt.Errorf("%w: book requires a title", ErrMissingField)
		}
		assignments[contract.ColumnTitle] = title
	}

	if values.Contains(contract.ColumnAuthor) {
		author, ok := values.AsString(contract.ColumnAuthor)
		if !ok {
			return nil, fmt.Errorf("%w: book requires an author", ErrMissingField)
		}
		assignments[contract.ColumnAuthor] = author
	}

	if values.Contains(contract.ColumnType) {
		bookType, ok := values.AsInt(contract.ColumnType)
		if !ok || !contract.IsValidType(bookType) {
			return nil, fmt.Errorf("%w: book requires valid type", ErrInvalidEnum)
		}
		assignments[contract.ColumnType] = bookType
	}

	if err := checkKeys(values); err != nil {
		return nil, err
	}

	return assignments, nil
}

func checkKeys(values entities.Values) error {
	for _, key := range values.Keys() {
		switch {
		case key == contract.ColumnID:
			return fmt.Errorf("%w: %s is assigned by the store", ErrImmutableField, key)
		case !contract.IsColumn(key):
			return fmt.Errorf("%w: table %s has no column named %s", ErrPersistenceFailure, contract.TableName, key)
		}
	}
	return nil
}
