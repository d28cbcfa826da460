package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/ministore/searchable/searchable/errors"
)

func TestConditionCatalog(t *testing.T) {
	all := Conditions()
	assert.Len(t, all, 19)
	assert.Equal(t, Eq, all[0])
	for _, c := range all {
		assert.True(t, c.Known(), c.String())
	}
	assert.False(t, Condition("regex").Known())

	all[0] = "mutated"
	assert.Equal(t, Eq, Conditions()[0])
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  Triple
	}{
		{"scalar", Equal("name", "Alice"), Triple{Field: Path("name"), Condition: Eq, Value: "Alice"}},
		{"conditioned", Where("nbSales", Gt, 3), Triple{Field: Path("nbSales"), Condition: Gt, Value: 3}},
		{
			"explicit overrides key",
			Entry{Key: "label", Value: Explicit{Field: Path("author.lastName"), Condition: Like, Value: "C%"}},
			Triple{Field: Path("author.lastName"), Condition: Like, Value: "C%"},
		},
		{
			"explicit defaults to eq",
			Entry{Key: "label", Value: Explicit{Field: Path("name"), Value: "x"}},
			Triple{Field: Path("name"), Condition: Eq, Value: "x"},
		},
		{
			"field set",
			Across("who", []string{"firstName", "lastName"}, Eq, "Lewis"),
			Triple{Field: AnyOf("firstName", "lastName"), Condition: Eq, Value: "Lewis"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Normalize())
		})
	}
}

func TestSpecPaths(t *testing.T) {
	s := Spec{
		Equal("name", 1),
		Across("who", []string{"author.firstName", "author.lastName"}, Eq, "x"),
		Entry{Key: "label", Value: Explicit{Field: Path("nbSales"), Condition: Gt, Value: 2}},
	}
	assert.Equal(t, []string{"name", "author.firstName", "author.lastName", "nbSales"}, s.Paths())
	assert.Equal(t, "[a, b]", AnyOf("a", "b").String())
	assert.Equal(t, "a", Path("a").String())
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(map[string]any{
		"name":    "Alice",
		"nbSales": map[string]any{"gte": 10},
		"who":     map[string]any{"field": []any{"firstName", "lastName"}, "condition": "eq", "value": "Lewis"},
	})
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, Equal("name", "Alice"), s[0])
	assert.Equal(t, Where("nbSales", Gte, 10), s[1])
	assert.Equal(t, Triple{Field: AnyOf("firstName", "lastName"), Condition: Eq, Value: "Lewis"}, s[2].Normalize())

	_, err = FromMap(map[string]any{"x": map[string]any{"gt": 1, "lt": 5}})
	assert.True(t, serrors.IsKind(err, serrors.ErrSpec))

	_, err = FromMap(map[string]any{"x": map[string]any{"field": 5}})
	assert.True(t, serrors.IsKind(err, serrors.ErrSpec))

	_, err = FromMap(map[string]any{"x": map[string]any{"field": "a", "condition": 3}})
	assert.True(t, serrors.IsKind(err, serrors.ErrSpec))
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"ASC": Asc, "asc": Asc, " Desc ": Desc} {
		got, err := ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDirection("up")
	assert.True(t, serrors.IsKind(err, serrors.ErrInvalidArgument))

	o := Order{By("a", "ASC"), By("b.c", "DESC")}
	assert.Equal(t, []string{"a", "b.c"}, o.Paths())
}
