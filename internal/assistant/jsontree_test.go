package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONTreePreservesKeyOrder(t *testing.T) {
	tree, err := parseJSONTree([]byte(`{"zeta": 1, "alfa": 2, "media": 3}`))
	require.NoError(t, err)
	require.Equal(t, kindObject, tree.kind)

	keys := make([]string, 0, len(tree.members))
	for _, m := range tree.members {
		keys = append(keys, m.key)
	}
	assert.Equal(t, []string{"zeta", "alfa", "media"}, keys)
}

func TestParseJSONTreeNested(t *testing.T) {
	tree, err := parseJSONTree([]byte(`{"a": {"b": [1, "dos", true, null]}}`))
	require.NoError(t, err)

	inner, ok := tree.lookup("a")
	require.True(t, ok)
	require.Equal(t, kindObject, inner.kind)

	arr, ok := inner.lookup("b")
	require.True(t, ok)
	require.Equal(t, kindArray, arr.kind)
	require.Len(t, arr.arr, 4)
	assert.True(t, arr.scalarArray())
}

func TestParseJSONTreeMalformed(t *testing.T) {
	for _, raw := range []string{``, `{`, `{"a": }`, `{"a": 1} trailing`} {
		_, err := parseJSONTree([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestLookupIsFoldInsensitive(t *testing.T) {
	tree, err := parseJSONTree([]byte(`{"Reglas Específica": [], "Otro": 1}`))
	require.NoError(t, err)

	_, ok := tree.lookup("reglas especifica")
	assert.True(t, ok)

	_, ok = tree.lookup("reglas_especifica")
	assert.True(t, ok)

	_, ok = tree.lookup("inexistente")
	assert.False(t, ok)
}

func TestScalarArray(t *testing.T) {
	tree, err := parseJSONTree([]byte(`{"catalogo": ["DNI", "RUC"], "bloques": [{"a": 1}], "vacio": []}`))
	require.NoError(t, err)

	catalog, _ := tree.lookup("catalogo")
	assert.True(t, catalog.scalarArray())

	blocks, _ := tree.lookup("bloques")
	assert.False(t, blocks.scalarArray())

	empty, _ := tree.lookup("vacio")
	assert.True(t, empty.scalarArray())
}
