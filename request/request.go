// Package request assembles the query-string parameters of a structured
// search call around built expressions. It is pure assembly: no HTTP, no
// I/O, just url.Values ready for whatever transport the caller uses.
package request

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shibukawa/structquery"
)

var (
	// ErrMissingQuery is returned when a request has no query expression.
	ErrMissingQuery = errors.New("search request requires a query")
	// ErrStartAndCursor is returned when both Start and Cursor are set;
	// the search API accepts only one paging mode per request.
	ErrStartAndCursor = errors.New("start and cursor are mutually exclusive")
	// ErrSortSyntax is returned by ParseSortKey for malformed sort entries.
	ErrSortSyntax = errors.New("sort key must be \"field\", \"field asc\" or \"field desc\"")
)

// SortKey is one entry of the sort parameter.
type SortKey struct {
	Field      string
	Descending bool
}

func (k SortKey) String() string {
	if k.Descending {
		return k.Field + " desc"
	}
	return k.Field + " asc"
}

// ParseSortKey parses one sort entry. The direction defaults to ascending
// when omitted.
func ParseSortKey(s string) (SortKey, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return SortKey{Field: fields[0]}, nil
	case 2:
		switch fields[1] {
		case "asc":
			return SortKey{Field: fields[0]}, nil
		case "desc":
			return SortKey{Field: fields[0], Descending: true}, nil
		}
	}

	return SortKey{}, fmt.Errorf("%w: %q", ErrSortSyntax, s)
}

// SearchRequest collects the parameters of one structured search call.
// Size and Start are omitted while zero; paging uses either Start or
// Cursor, never both.
type SearchRequest struct {
	Query       *structquery.Expression
	FilterQuery *structquery.Expression
	Size        int
	Start       int
	Cursor      string
	Sort        []SortKey
	Return      []string
}

// Values renders the request as query-string parameters. The query itself
// goes out as q with q.parser=structured; the filter query as fq.
func (r *SearchRequest) Values() (url.Values, error) {
	if r.Query == nil {
		return nil, ErrMissingQuery
	}
	if r.Start > 0 && r.Cursor != "" {
		return nil, ErrStartAndCursor
	}

	values := url.Values{}
	values.Set("q", r.Query.String())
	values.Set("q.parser", "structured")

	if r.FilterQuery != nil {
		values.Set("fq", r.FilterQuery.String())
	}
	if r.Size > 0 {
		values.Set("size", strconv.Itoa(r.Size))
	}
	if r.Start > 0 {
		values.Set("start", strconv.Itoa(r.Start))
	}
	if r.Cursor != "" {
		values.Set("cursor", r.Cursor)
	}
	if len(r.Sort) > 0 {
		parts := make([]string, len(r.Sort))
		for i, key := range r.Sort {
			parts[i] = key.String()
		}
		values.Set("sort", strings.Join(parts, ","))
	}
	if len(r.Return) > 0 {
		values.Set("return", strings.Join(r.Return, ","))
	}

	return values, nil
}

// Encode renders the request as a URL-encoded query string.
func (r *SearchRequest) Encode() (string, error) {
	values, err := r.Values()
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}
