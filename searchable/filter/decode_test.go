package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/ministore/searchable/searchable/errors"
)

func TestDecodeSpecKeepsOrder(t *testing.T) {
	s, err := DecodeSpec([]byte(`
zeta: 1
alpha: {like: "car%"}
mid:
  field: [author.firstName, author.lastName]
  condition: eq
  value: Lewis
range: {between: [1, 5]}
missing: {null: true}
`))
	require.NoError(t, err)
	require.Len(t, s, 5)

	assert.Equal(t, Equal("zeta", 1), s[0])
	assert.Equal(t, Where("alpha", Like, "car%"), s[1])
	assert.Equal(t, Triple{Field: AnyOf("author.firstName", "author.lastName"), Condition: Eq, Value: "Lewis"}, s[2].Normalize())
	assert.Equal(t, Where("range", Between, []any{1, 5}), s[3])
	assert.Equal(t, Where("missing", Null, true), s[4])
}

func TestDecodeSpecJSON(t *testing.T) {
	s, err := DecodeSpec([]byte(`{"b": "x", "a": {"field": "name", "value": 3}, "c": [1, 2]}`))
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, "b", s[0].Key)
	assert.Equal(t, Triple{Field: Path("name"), Condition: Eq, Value: 3}, s[1].Normalize())
	assert.Equal(t, Equal("c", []any{1, 2}), s[2])

	var viaJSON Spec
	require.NoError(t, json.Unmarshal([]byte(`{"b": "x", "a": {"lt": 2}}`), &viaJSON))
	assert.Equal(t, Spec{Equal("b", "x"), Where("a", Lt, 2)}, viaJSON)
}

func TestDecodeSpecEmpty(t *testing.T) {
	for _, doc := range []string{``, `null`, `{}`} {
		s, err := DecodeSpec([]byte(doc))
		require.NoError(t, err, doc)
		assert.Empty(t, s, doc)
	}
}

func TestDecodeSpecErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"not a mapping":       `[1, 2]`,
		"two conditions":      `x: {gt: 1, lt: 3}`,
		"empty condition map": `x: {}`,
		"field not string":    `x: {field: {a: 1}}`,
		"condition not str":   `x: {field: a, condition: [eq]}`,
		"syntax":              `x: [`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSpec([]byte(doc))
			require.Error(t, err)
			assert.True(t, serrors.IsKind(err, serrors.ErrSpec), "got %v", err)
		})
	}
}

func TestDecodeOrderAndDocument(t *testing.T) {
	o, err := DecodeOrder([]byte(`{"name": "ASC", "author.lastName": "desc"}`))
	require.NoError(t, err)
	assert.Equal(t, Order{By("name", "ASC"), By("author.lastName", "desc")}, o)

	_, err = DecodeOrder([]byte(`name: [ASC]`))
	assert.True(t, serrors.IsKind(err, serrors.ErrSpec))

	d, err := DecodeDocument([]byte(`
filters:
  author.lastName: {starts_with: Car}
orders:
  nbSales: DESC
`))
	require.NoError(t, err)
	assert.Equal(t, Spec{Where("author.lastName", StartsWith, "Car")}, d.Filters)
	assert.Equal(t, Order{By("nbSales", "DESC")}, d.Orders)

	var viaJSON Document
	require.NoError(t, json.Unmarshal([]byte(`{"filters": {"a": 1}, "orders": {"a": "ASC"}}`), &viaJSON))
	assert.Equal(t, Spec{Equal("a", 1)}, viaJSON.Filters)
	assert.Equal(t, Order{By("a", "ASC")}, viaJSON.Orders)
}

func TestDecodeAnchors(t *testing.T) {
	s, err := DecodeSpec([]byte(`
base: &v {eq: 3}
again: *v
`))
	require.NoError(t, err)
	assert.Equal(t, Where("again", Eq, 3), s[1])
}

func TestDecodeSpecJSONEscapes(t *testing.T) {
	s, err := DecodeSpec([]byte(`{"title": {"like": "caf\u00e9\/x"}, "path": "a\/b"}`))
	require.NoError(t, err)
	assert.Equal(t, Spec{Where("title", Like, "café/x"), Equal("path", "a/b")}, s)

	o, err := DecodeOrder([]byte(`{"author\/name": "ASC"}`))
	require.NoError(t, err)
	assert.Equal(t, Order{By("author/name", "ASC")}, o)

	d, err := DecodeDocument([]byte(`{"filters": {"name": {"starts_with": "A\/B"}}, "orders": {"name": "DESC"}}`))
	require.NoError(t, err)
	assert.Equal(t, Spec{Where("name", StartsWith, "A/B")}, d.Filters)
	assert.Equal(t, Order{By("name", "DESC")}, d.Orders)

	var viaJSON Spec
	require.NoError(t, json.Unmarshal([]byte(`{"n": {"in": [1, 2.5, "x\/y", true, null]}}`), &viaJSON))
	assert.Equal(t, Spec{Where("n", In, []any{1, 2.5, "x/y", true, nil})}, viaJSON)
}

func TestDecodeYAMLFlowMapping(t *testing.T) {
	s, err := DecodeSpec([]byte(`{name: {like: "car%"}}`))
	require.NoError(t, err)
	assert.Equal(t, Spec{Where("name", Like, "car%")}, s)
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	for name, decode := range map[string]func() error{
		"json filters": func() error { _, err := DecodeSpec([]byte(`{"a": 1, "a": 2}`)); return err },
		"yaml filters": func() error { _, err := DecodeSpec([]byte("a: 1\na: 2\n")); return err },
		"explicit":     func() error { _, err := DecodeSpec([]byte(`{"x": {"field": "a", "field": "b"}}`)); return err },
		"json orders":  func() error { _, err := DecodeOrder([]byte(`{"name": "ASC", "name": "DESC"}`)); return err },
		"yaml orders":  func() error { _, err := DecodeOrder([]byte("name: ASC\nname: DESC\n")); return err },
	} {
		t.Run(name, func(t *testing.T) {
			err := decode()
			require.Error(t, err)
			assert.True(t, serrors.IsKind(err, serrors.ErrSpec), "got %v", err)
			assert.Contains(t, err.Error(), "duplicate key")
		})
	}
}

func TestDecodeKeepsDatesAsWritten(t *testing.T) {
	s, err := DecodeSpec([]byte(`
pub: {gte: 2020-01-01}
window: {between: [2020-01-01, 2021-06-30]}
quoted: "2020-01-01"
`))
	require.NoError(t, err)
	assert.Equal(t, Spec{
		Where("pub", Gte, "2020-01-01"),
		Where("window", Between, []any{"2020-01-01", "2021-06-30"}),
		Equal("quoted", "2020-01-01"),
	}, s)
}
