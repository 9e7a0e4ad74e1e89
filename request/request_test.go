package request

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/structquery"
)

func buildQuery(t *testing.T) *structquery.Expression {
	t.Helper()
	expr, err := structquery.And(
		structquery.Named("title", "star"),
		structquery.Named("actor", "Harrison Ford"),
	)
	assert.NoError(t, err)
	return expr
}

func TestValues(t *testing.T) {
	filter, err := structquery.Term(structquery.Opt("field", "genres"), structquery.Value("sci-fi"))
	assert.NoError(t, err)

	req := &SearchRequest{
		Query:       buildQuery(t),
		FilterQuery: filter,
		Size:        20,
		Start:       40,
		Sort:        []SortKey{{Field: "year", Descending: true}, {Field: "title"}},
		Return:      []string{"title", "year"},
	}

	values, err := req.Values()
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star' actor:'Harrison Ford')", values.Get("q"))
	assert.Equal(t, "structured", values.Get("q.parser"))
	assert.Equal(t, "(term field=genres 'sci-fi')", values.Get("fq"))
	assert.Equal(t, "20", values.Get("size"))
	assert.Equal(t, "40", values.Get("start"))
	assert.Equal(t, "year desc,title asc", values.Get("sort"))
	assert.Equal(t, "title,year", values.Get("return"))
}

func TestValuesMinimal(t *testing.T) {
	req := &SearchRequest{Query: buildQuery(t)}

	values, err := req.Values()
	assert.NoError(t, err)
	assert.Equal(t, "structured", values.Get("q.parser"))
	assert.False(t, values.Has("fq"))
	assert.False(t, values.Has("size"))
	assert.False(t, values.Has("start"))
	assert.False(t, values.Has("cursor"))
	assert.False(t, values.Has("sort"))
	assert.False(t, values.Has("return"))
}

func TestValuesCursor(t *testing.T) {
	req := &SearchRequest{Query: buildQuery(t), Cursor: "initial"}

	values, err := req.Values()
	assert.NoError(t, err)
	assert.Equal(t, "initial", values.Get("cursor"))
	assert.False(t, values.Has("start"))
}

func TestValuesMissingQuery(t *testing.T) {
	req := &SearchRequest{Size: 10}
	_, err := req.Values()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingQuery))
}

func TestValuesStartAndCursor(t *testing.T) {
	req := &SearchRequest{Query: buildQuery(t), Start: 10, Cursor: "abc"}
	_, err := req.Values()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStartAndCursor))
}

func TestEncode(t *testing.T) {
	expr, err := structquery.Phrase(structquery.Value("star wars"))
	assert.NoError(t, err)

	req := &SearchRequest{Query: expr, Size: 5}
	encoded, err := req.Encode()
	assert.NoError(t, err)
	assert.Equal(t, "q=%28phrase+%27star+wars%27%29&q.parser=structured&size=5", encoded)
}

func TestSortKeyString(t *testing.T) {
	tests := []struct {
		name     string
		key      SortKey
		expected string
	}{
		{name: "ascending by default", key: SortKey{Field: "year"}, expected: "year asc"},
		{name: "descending", key: SortKey{Field: "year", Descending: true}, expected: "year desc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.String())
		})
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SortKey
		wantErr  bool
	}{
		{name: "bare field", input: "year", expected: SortKey{Field: "year"}},
		{name: "ascending", input: "year asc", expected: SortKey{Field: "year"}},
		{name: "descending", input: "year desc", expected: SortKey{Field: "year", Descending: true}},
		{name: "extra whitespace", input: "  year   desc ", expected: SortKey{Field: "year", Descending: true}},
		{name: "bad direction", input: "year down", wantErr: true},
		{name: "too many fields", input: "year desc extra", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseSortKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrSortSyntax))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, key)
		})
	}
}
