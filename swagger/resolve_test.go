package swagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolveDoc(t *testing.T) *Document {
	t.Helper()

	doc, err := NewDocument(map[string]any{
		"definitions": map[string]any{
			"Id": map[string]any{"name": "id", "in": "path"},
			"Nested": map[string]any{
				"type":  "array",
				"items": map[string]any{"$ref": "#/definitions/Item"},
			},
			"Item":  map[string]any{"type": "integer"},
			"Loop":  map[string]any{"$ref": "#/definitions/Loop2"},
			"Loop2": map[string]any{"$ref": "#/definitions/Loop"},
			"Self": map[string]any{
				"type":       "object",
				"properties": map[string]any{"child": map[string]any{"$ref": "#/definitions/Self"}},
			},
			"List":     []any{"a", "b"},
			"a/b":      map[string]any{"type": "string"},
			"Dangling": map[string]any{"$ref": "#/definitions/Missing"},
		},
		"parameters": map[string]any{
			"shared": []any{
				map[string]any{"$ref": "#/definitions/Id"},
			},
		},
	})
	require.NoError(t, err)

	return doc
}

func TestLookup(t *testing.T) {
	doc := newResolveDoc(t)

	t.Run("walks pointer", func(t *testing.T) {
		v, err := doc.Lookup("#/definitions/Id")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "id", "in": "path"}, v)
	})

	t.Run("array index", func(t *testing.T) {
		v, err := doc.Lookup("#/definitions/List/1")
		require.NoError(t, err)
		assert.Equal(t, "b", v)
	})

	t.Run("escaped token", func(t *testing.T) {
		v, err := doc.Lookup("#/definitions/a~1b")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"type": "string"}, v)
	})

	t.Run("non local reference", func(t *testing.T) {
		_, err := doc.Lookup("other.yaml#/definitions/Id")
		assert.ErrorIs(t, err, ErrReference)
		assert.ErrorIs(t, err, ErrSpec)
	})

	t.Run("missing hash prefix", func(t *testing.T) {
		_, err := doc.Lookup("/definitions/Id")
		assert.ErrorIs(t, err, ErrReference)
	})

	t.Run("dangling reference", func(t *testing.T) {
		_, err := doc.Lookup("#/definitions/Missing")
		require.ErrorIs(t, err, ErrReference)

		var refErr *ReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "#/definitions/Missing", refErr.Ref)
		assert.False(t, refErr.IsCircular)
	})
}

func TestResolve(t *testing.T) {
	doc := newResolveDoc(t)

	t.Run("replaces reference", func(t *testing.T) {
		v, err := doc.Resolve(map[string]any{"$ref": "#/definitions/Id"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "id", "in": "path"}, v)
	})

	t.Run("nested references", func(t *testing.T) {
		v, err := doc.Resolve(map[string]any{"$ref": "#/definitions/Nested"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "integer"},
		}, v)
	})

	t.Run("reference inside sequence", func(t *testing.T) {
		v, err := doc.Resolve(map[string]any{
			"parameters": []any{
				map[string]any{"$ref": "#/definitions/Id"},
				map[string]any{"name": "q", "in": "query"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"parameters": []any{
				map[string]any{"name": "id", "in": "path"},
				map[string]any{"name": "q", "in": "query"},
			},
		}, v)
	})

	t.Run("referenced keys override siblings", func(t *testing.T) {
		v, err := doc.Resolve(map[string]any{
			"$ref":        "#/definitions/Id",
			"in":          "query",
			"description": "kept",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "id", "in": "path", "description": "kept"}, v)
	})

	t.Run("non mapping target", func(t *testing.T) {
		v, err := doc.Resolve(map[string]any{"$ref": "#/parameters/shared"})
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"name": "id", "in": "path"}}, v)
	})

	t.Run("scalars pass through", func(t *testing.T) {
		v, err := doc.Resolve("plain")
		require.NoError(t, err)
		assert.Equal(t, "plain", v)

		v, err = doc.Resolve(nil)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := doc.Resolve(map[string]any{"$ref": "#/definitions/Nested"})
		require.NoError(t, err)
		second, err := doc.Resolve(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("does not modify input", func(t *testing.T) {
		input := map[string]any{"schema": map[string]any{"$ref": "#/definitions/Item"}}
		_, err := doc.Resolve(input)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"$ref": "#/definitions/Item"}, input["schema"])

		def, _ := doc.Lookup("#/definitions/Nested")
		assert.Equal(t, map[string]any{"$ref": "#/definitions/Item"}, def.(map[string]any)["items"])
	})

	t.Run("same reference twice is not circular", func(t *testing.T) {
		v, err := doc.Resolve(map[string]any{
			"a": map[string]any{"$ref": "#/definitions/Item"},
			"b": map[string]any{"$ref": "#/definitions/Item"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"a": map[string]any{"type": "integer"},
			"b": map[string]any{"type": "integer"},
		}, v)
	})

	t.Run("circular reference", func(t *testing.T) {
		_, err := doc.Resolve(map[string]any{"$ref": "#/definitions/Loop"})
		assert.ErrorIs(t, err, ErrCircularReference)
		assert.ErrorIs(t, err, ErrSpec)
	})

	t.Run("self referencing schema", func(t *testing.T) {
		_, err := doc.Resolve(map[string]any{"$ref": "#/definitions/Self"})
		assert.ErrorIs(t, err, ErrCircularReference)
	})

	t.Run("dangling nested reference", func(t *testing.T) {
		_, err := doc.Resolve([]any{map[string]any{"$ref": "#/definitions/Dangling"}})
		assert.ErrorIs(t, err, ErrReference)
		assert.NotErrorIs(t, err, ErrCircularReference)
	})

	t.Run("non string reference", func(t *testing.T) {
		_, err := doc.Resolve(map[string]any{"$ref": 42})
		assert.ErrorIs(t, err, ErrReference)
	})
}

func TestReferenceErrorMessage(t *testing.T) {
	assert.Equal(t, `reference "#/a": circular reference`, (&ReferenceError{Ref: "#/a", IsCircular: true}).Error())
	assert.Equal(t, `reference "#/a": not found`, (&ReferenceError{Ref: "#/a", Message: "not found"}).Error())
}
