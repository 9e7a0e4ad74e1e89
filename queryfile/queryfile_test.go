package queryfile

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/structquery"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{path: "query.yaml", expected: FormatYAML},
		{path: "query.yml", expected: FormatYAML},
		{path: "query.json", expected: FormatJSON},
		{path: "query.md", expected: FormatMarkdown},
		{path: "query.markdown", expected: FormatMarkdown},
		{path: "query.xml", expected: FormatXML},
		{path: "QUERY.YAML", expected: FormatYAML},
		{path: "query.txt", expected: FormatUnknown},
		{path: "query", expected: FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatForPath(tt.path))
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
name: movies
description: Title search
parameters:
  classic: false
query:
  operator: and
  options:
    boost: 2
  fields:
    - name: title
      value: star
    - name: year
      if: params.classic
      range:
        lower: 1950
        upper: 1980
`)
	doc, err := Decode(data, FormatYAML)
	assert.NoError(t, err)
	assert.Equal(t, "movies", doc.Name)
	assert.Equal(t, "Title search", doc.Description)
	assert.Equal(t, "and", doc.Query.Operator)
	assert.Equal(t, 2, len(doc.Query.Fields))
	assert.Equal(t, "params.classic", doc.Query.Fields[1].If)
	assert.NotZero(t, doc.Query.Fields[1].Range)
}

func TestDecodeYAMLStrict(t *testing.T) {
	data := []byte(`
name: movies
query:
  operator: and
  bogus: true
`)
	_, err := Decode(data, FormatYAML)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrDescriptor))
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{"name": "quick", "query": {"operator": "phrase", "fields": [{"value": "star wars"}]}}`)
	doc, err := Decode(data, FormatJSON)
	assert.NoError(t, err)

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(phrase 'star wars')", expr.String())
}

func TestDecodeMarkdown(t *testing.T) {
	data := []byte("# recent releases\n\nSearch descriptor for the release window.\n\n" +
		"```yaml\n" +
		"query:\n" +
		"  operator: term\n" +
		"  fields:\n" +
		"    - name: title\n" +
		"      value: star\n" +
		"```\n")
	doc, err := Decode(data, FormatMarkdown)
	assert.NoError(t, err)
	assert.Equal(t, "recent releases", doc.Name)

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(term title:'star')", expr.String())
}

func TestDecodeMarkdownWithoutBlock(t *testing.T) {
	data := []byte("# notes\n\nJust prose, no descriptor.\n\n```go\npackage main\n```\n")
	_, err := Decode(data, FormatMarkdown)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDescriptor))
}

func TestDecodeXML(t *testing.T) {
	data := []byte(`<query name="promoted" description="Prefix search">
  <param name="min_year">1990</param>
  <clause operator="and">
    <option name="boost">2</option>
    <field name="title">star</field>
    <field name="year"><range lower="1990" upper="2000"/></field>
  </clause>
</query>`)
	doc, err := Decode(data, FormatXML)
	assert.NoError(t, err)
	assert.Equal(t, "promoted", doc.Name)
	assert.Equal(t, "Prefix search", doc.Description)
	assert.Equal(t, int64(1990), doc.Parameters["min_year"].(int64))

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and boost=2 title:'star' year:[1990,2000])", expr.String())
}

func TestDecodeXMLNestedClause(t *testing.T) {
	data := []byte(`<query name="filtered">
  <clause operator="and">
    <field name="title">star</field>
    <clause operator="not">
      <field name="status">archived</field>
    </clause>
  </clause>
</query>`)
	doc, err := Decode(data, FormatXML)
	assert.NoError(t, err)

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star' (not status:'archived'))", expr.String())
}

func TestDecodeXMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not xml", data: "{{"},
		{name: "missing query element", data: "<descriptor/>"},
		{name: "unexpected element", data: "<query><mystery/></query>"},
		{name: "bad type attribute", data: `<query><clause operator="term"><field name="x" type="complex">1</field></clause></query>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatXML)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrDescriptor))
		})
	}
}

func TestBuildGuards(t *testing.T) {
	doc := &Document{
		Parameters: map[string]any{"include_year": false},
		Query: &ClauseDef{
			Operator: "and",
			Fields: []*FieldDef{
				{Name: "title", Value: "star"},
				{Name: "year", If: "params.include_year", Value: 1977},
			},
		},
	}

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star')", expr.String())

	expr, err = doc.Build(map[string]any{"include_year": true})
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star' year:1977)", expr.String())
}

func TestBuildGuardMembership(t *testing.T) {
	doc := &Document{
		Query: &ClauseDef{
			Operator: "and",
			Fields: []*FieldDef{
				{Name: "title", Value: "star"},
				{Name: "year", If: `"year" in params`, Value: 1977},
			},
		},
	}

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star')", expr.String())

	expr, err = doc.Build(map[string]any{"year": 1977})
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star' year:1977)", expr.String())
}

func TestBuildNestedClauseGuard(t *testing.T) {
	doc := &Document{
		Parameters: map[string]any{"hide_archived": true},
		Query: &ClauseDef{
			Operator: "and",
			Fields: []*FieldDef{
				{Name: "title", Value: "star"},
				{Clause: &ClauseDef{
					Operator: "not",
					If:       "params.hide_archived",
					Fields:   []*FieldDef{{Name: "status", Value: "archived"}},
				}},
			},
		},
	}

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star' (not status:'archived'))", expr.String())

	expr, err = doc.Build(map[string]any{"hide_archived": false})
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star')", expr.String())
}

func TestBuildRootGuardFalse(t *testing.T) {
	doc := &Document{
		Query: &ClauseDef{
			Operator: "and",
			If:       "false",
			Fields:   []*FieldDef{{Name: "title", Value: "star"}},
		},
	}
	_, err := doc.Build(nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoQuery))
}

func TestBuildAllFieldsExcluded(t *testing.T) {
	doc := &Document{
		Query: &ClauseDef{
			Operator: "and",
			Fields:   []*FieldDef{{Name: "title", If: "false", Value: "star"}},
		},
	}
	_, err := doc.Build(nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, structquery.ErrNoFieldValues))
}

func TestBuildParameterMerge(t *testing.T) {
	doc := &Document{
		Parameters: map[string]any{"wanted": "star"},
		Query: &ClauseDef{
			Operator: "and",
			Fields: []*FieldDef{
				{Name: "title", If: `params.wanted == "star"`, Value: "star"},
				{Name: "title", If: `params.wanted == "solo"`, Value: "solo"},
			},
		},
	}

	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'star')", expr.String())

	expr, err = doc.Build(map[string]any{"wanted": "solo"})
	assert.NoError(t, err)
	assert.Equal(t, "(and title:'solo')", expr.String())
}

func TestBuildOptionsSorted(t *testing.T) {
	doc := &Document{
		Query: &ClauseDef{
			Operator: "near",
			Options:  map[string]any{"distance": 4, "boost": 2},
			Fields:   []*FieldDef{{Value: "star wars"}},
		},
	}
	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(near boost=2 distance=4 'star wars')", expr.String())
}

func TestBuildOperatorNamedField(t *testing.T) {
	doc := &Document{
		Query: &ClauseDef{
			Operator: "and",
			Fields: []*FieldDef{
				{Name: "not", Value: "star"},
			},
		},
	}
	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(and (not 'star'))", expr.String())
}

func TestBuildTimeHint(t *testing.T) {
	doc := &Document{
		Query: &ClauseDef{
			Operator: "range",
			Fields: []*FieldDef{
				{
					Name: "release",
					Range: &RangeDef{
						Lower: "2013-01-01T00:00:00Z",
						Upper: "2013-12-31T23:59:59Z",
						Type:  "time",
					},
				},
			},
		},
	}
	expr, err := doc.Build(nil)
	assert.NoError(t, err)
	assert.Equal(t, "(range release:['2013-01-01T00:00:00+00:00','2013-12-31T23:59:59+00:00'])", expr.String())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "no query clause",
			doc:     &Document{Name: "empty"},
			wantErr: ErrNoQuery,
		},
		{
			name: "unknown operator",
			doc: &Document{
				Query: &ClauseDef{Operator: "bogus", Fields: []*FieldDef{{Value: "x"}}},
			},
			wantErr: structquery.ErrUnknownOperator,
		},
		{
			name: "guard compile failure",
			doc: &Document{
				Query: &ClauseDef{
					Operator: "and",
					Fields:   []*FieldDef{{Name: "title", If: "params.", Value: "star"}},
				},
			},
			wantErr: ErrGuard,
		},
		{
			name: "guard not boolean",
			doc: &Document{
				Parameters: map[string]any{"size": 10},
				Query: &ClauseDef{
					Operator: "and",
					Fields:   []*FieldDef{{Name: "title", If: "params.size", Value: "star"}},
				},
			},
			wantErr: ErrGuard,
		},
		{
			name: "bad time hint",
			doc: &Document{
				Query: &ClauseDef{
					Operator: "and",
					Fields:   []*FieldDef{{Name: "release", Value: "yesterday", Type: "time"}},
				},
			},
			wantErr: ErrDescriptor,
		},
		{
			name: "unknown type hint",
			doc: &Document{
				Query: &ClauseDef{
					Operator: "and",
					Fields:   []*FieldDef{{Name: "title", Value: "star", Type: "complex"}},
				},
			},
			wantErr: ErrDescriptor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Build(nil)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestHintedScalar(t *testing.T) {
	ts := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		value    any
		hint     string
		expected any
	}{
		{name: "no hint passes through", value: "star", hint: "", expected: "star"},
		{name: "int hint", value: "1990", hint: "int", expected: int64(1990)},
		{name: "float hint", value: "4.5", hint: "float", expected: 4.5},
		{name: "string hint", value: "1990", hint: "string", expected: "1990"},
		{name: "time hint", value: "2013-01-01T00:00:00Z", hint: "time", expected: ts},
		{name: "native value ignores hint", value: 1990, hint: "int", expected: 1990},
		{name: "nil passes through", value: nil, hint: "time", expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hintedScalar(tt.value, tt.hint)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
