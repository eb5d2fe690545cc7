package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/bookdb/internal/contract"
)

func TestValues_Contains(t *testing.T) {
	v := Values{"title": nil, "author": "Herbert"}

	assert.True(t, v.Contains("title"))
	assert.True(t, v.Contains("author"))
	assert.False(t, v.Contains("type"))
	assert.Equal(t, 2, v.Size())
}

func TestValues_AsString(t *testing.T) {
	v := Values{
		"present": "Dune",
		"null":    nil,
		"number":  42,
	}

	s, ok := v.AsString("present")
	assert.True(t, ok)
	assert.Equal(t, "Dune", s)

	_, ok = v.AsString("null")
	assert.False(t, ok)

	_, ok = v.AsString("missing")
	assert.False(t, ok)

	s, ok = v.AsString("number")
	assert.True(t, ok)
	assert.Equal(t, "42", s)
}

func TestValues_AsInt(t *testing.T) {
	v := Values{
		"int":     1,
		"int64":   int64(2),
		"float":   float64(1),
		"frac":    1.5,
		"string":  "2",
		"hex":     "0x2",
		"spaced":  " 2",
		"number":  json.Number("2"),
		"numfrac": json.Number("1.5"),
		"bad":     "novel",
		"bool":    true,
		"null":    nil,
	}

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"int", 1, true},
		{"int64", 2, true},
		{"float", 1, true},
		{"frac", 0, false},
		{"string", 2, true},
		{"hex", 0, false},
		{"spaced", 0, false},
		{"number", 2, true},
		{"numfrac", 0, false},
		{"bad", 0, false},
		{"bool", 0, false},
		{"null", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := v.AsInt(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValues_KeysAndClone(t *testing.T) {
	v := Values{"type": 1, "author": "a", "title": "t"}
	assert.Equal(t, []string{"author", "title", "type"}, v.Keys())

	c := v.Clone()
	c["title"] = "changed"
	assert.Equal(t, "t", v["title"])
}

func TestBook_Values(t *testing.T) {
	b := Book{ID: 9, Title: "Dune", Author: "Herbert", Type: contract.TypeNovel}

	v := b.Values()
	assert.False(t, v.Contains(contract.ColumnID))
	assert.Equal(t, "Dune", v[contract.ColumnTitle])
	assert.Equal(t, "Herbert", v[contract.ColumnAuthor])
	assert.Equal(t, contract.TypeNovel, v[contract.ColumnType])
	assert.Equal(t, "Novel", b.TypeLabel())
	assert.Equal(t, "books", b.TableName())
}
