package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FlattensInDocumentOrder(t *testing.T) {
	data := []byte(`{
		"nav": {"home": "Accueil", "products": "Nos produits"},
		"home": {"hero": {"title": "Bienvenue", "cta": "Découvrir"}},
		"footer": "© Boucherie"
	}`)

	c, err := Parse("fr", data)
	require.NoError(t, err)

	want := []Entry{
		{Key: "nav.home", Value: "Accueil"},
		{Key: "nav.products", Value: "Nos produits"},
		{Key: "home.hero.title", Value: "Bienvenue"},
		{Key: "home.hero.cta", Value: "Découvrir"},
		{Key: "footer", Value: "© Boucherie"},
	}
	if diff := cmp.Diff(want, c.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "fr", c.Language)
	assert.Equal(t, 5, c.Len())
}

func TestParse_Coercion(t *testing.T) {
	data := []byte(`{
		"count": 12,
		"price": 1.50,
		"big": 1e21,
		"flag": true,
		"nothing": null,
		"list": ["a", 2, null, false],
		"nested": [["x", "y"], "z"],
		"objects": [{"a": 1}, "b"],
		"empty": {}
	}`)

	c, err := Parse("fr", data)
	require.NoError(t, err)

	want := map[string]string{
		"count":   "12",
		"price":   "1.5",
		"big":     "1e+21",
		"flag":    "true",
		"nothing": "null",
		"list":    "a,2,,false",
		"nested":  "x,y,z",
		"objects": "[object Object],b",
	}
	for k, v := range want {
		got, ok := c.Lookup(k)
		assert.True(t, ok, k)
		assert.Equal(t, v, got, k)
	}
	_, ok := c.Lookup("empty")
	assert.False(t, ok, "empty objects have no leaves")
	assert.Equal(t, len(want), c.Len())
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	c, err := Parse("fr", []byte(`{"a": "one", "b": "two", "a": "three"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, c.Keys())
	v, _ := c.Lookup("a")
	assert.Equal(t, "three", v)
}

func TestParse_DuplicateKeyReplacesSubtree(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []Entry
	}{
		{
			name: "object replaces leaf",
			data: `{"a": "x", "c": "z", "a": {"b": "y"}}`,
			want: []Entry{{Key: "a.b", Value: "y"}, {Key: "c", Value: "z"}},
		},
		{
			name: "leaf replaces object",
			data: `{"a": {"b": "y"}, "c": "z", "a": "x"}`,
			want: []Entry{{Key: "a", Value: "x"}, {Key: "c", Value: "z"}},
		},
		{
			name: "later object replaces earlier object",
			data: `{"a": {"b": "y", "d": "w"}, "a": {"e": "v"}}`,
			want: []Entry{{Key: "a.e", Value: "v"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse("fr", []byte(tt.data))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, c.Entries()); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_IntegerKeysFirst(t *testing.T) {
	data := []byte(`{
		"title": "Horaires",
		"10": "dix",
		"2": "deux",
		"steps": {"b": "B", "1": "un", "01": "zéro un", "0": "zéro"},
		"-1": "moins un",
		"4294967295": "max"
	}`)

	c, err := Parse("fr", data)
	require.NoError(t, err)

	want := []string{
		"2", "10",
		"title",
		"steps.0", "steps.1", "steps.b", "steps.01",
		"-1", "4294967295",
	}
	if diff := cmp.Diff(want, c.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_StripsBOM(t *testing.T) {
	c, err := Parse("de", append([]byte{0xEF, 0xBB, 0xBF}, `{"a": "b"}`...))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty input", data: ""},
		{name: "truncated", data: `{"a": "b"`},
		{name: "trailing data", data: `{"a": "b"} {}`},
		{name: "not json", data: `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("fr", []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_RootMustBeObject(t *testing.T) {
	for _, data := range []string{`["a"]`, `"text"`, `42`} {
		_, err := Parse("fr", []byte(data))
		assert.ErrorIs(t, err, ErrNotObject, data)
	}
}

func TestCatalog_KeysIsACopy(t *testing.T) {
	c := New("fr", Entry{Key: "a", Value: "1"})
	keys := c.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, c.Keys())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "translation.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": {"b": "c"}}`), 0o644))

	c, err := Load("fr", path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path)
	v, ok := c.Lookup("a.b")
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	_, err = Load("fr", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
