package swagger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
swagger: "2.0"
info:
  title: Test API
  version: 1.0.0
paths:
  /zebra:
    get:
      responses:
        200:
          description: ok
  /users/{id}:
    get:
      parameters:
        - name: id
          in: path
          type: integer
      responses:
        default:
          description: error
  /apple:
    post:
      parameters:
        - name: since
          in: query
          type: string
          format: date
          default: 2016-10-18
`

func TestParse(t *testing.T) {
	t.Run("keeps path order", func(t *testing.T) {
		doc, err := Parse([]byte(testYAML))
		require.NoError(t, err)
		assert.Equal(t, []string{"/zebra", "/users/{id}", "/apple"}, doc.Paths())

		require.Len(t, doc.Templates(), 3)
		assert.Equal(t, "/users/{id}", doc.Templates()[1].String())
	})

	t.Run("response codes become string keys", func(t *testing.T) {
		doc, err := Parse([]byte(testYAML))
		require.NoError(t, err)

		item, ok := doc.PathItem("/zebra")
		require.True(t, ok)
		responses := item["get"].(map[string]any)["responses"].(map[string]any)
		assert.Contains(t, responses, "200")
	})

	t.Run("timestamps stay textual", func(t *testing.T) {
		doc, err := Parse([]byte(testYAML))
		require.NoError(t, err)

		item, _ := doc.PathItem("/apple")
		params := item["post"].(map[string]any)["parameters"].([]any)
		assert.Equal(t, "2016-10-18", params[0].(map[string]any)["default"])
	})

	t.Run("integers decode as numbers", func(t *testing.T) {
		doc, err := Parse([]byte("paths: {}\nx-limit: 10\n"))
		require.NoError(t, err)
		v, ok := doc.Get("x-limit")
		require.True(t, ok)
		assert.Equal(t, 10, v)
	})

	t.Run("json input", func(t *testing.T) {
		doc, err := Parse([]byte(`{"swagger":"2.0","paths":{"/b":{},"/a":{}}}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"/b", "/a"}, doc.Paths())
	})

	t.Run("aliases and merge keys", func(t *testing.T) {
		src := `
x-common: &common
  description: shared
  in: query
paths:
  /a:
    get:
      parameters:
        - <<: *common
          name: q
          type: string
`
		doc, err := Parse([]byte(src))
		require.NoError(t, err)
		item, _ := doc.PathItem("/a")
		param := item["get"].(map[string]any)["parameters"].([]any)[0].(map[string]any)
		assert.Equal(t, "query", param["in"])
		assert.Equal(t, "q", param["name"])
	})

	t.Run("no paths", func(t *testing.T) {
		doc, err := Parse([]byte(`swagger: "2.0"`))
		require.NoError(t, err)
		assert.Empty(t, doc.Paths())
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := Parse([]byte(""))
		assert.ErrorIs(t, err, ErrSpec)
	})

	t.Run("scalar root", func(t *testing.T) {
		_, err := Parse([]byte("just a string"))
		assert.ErrorIs(t, err, ErrSpec)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := Parse([]byte("paths: [unclosed"))
		assert.ErrorIs(t, err, ErrSpec)
	})

	t.Run("paths not a mapping", func(t *testing.T) {
		_, err := Parse([]byte("paths: [a, b]"))
		assert.ErrorIs(t, err, ErrSpec)
	})

	t.Run("malformed template", func(t *testing.T) {
		_, err := Parse([]byte("paths:\n  /users/{id: {}\n"))
		require.ErrorIs(t, err, ErrSpec)

		var specErr *SpecError
		require.ErrorAs(t, err, &specErr)
		assert.Equal(t, "/paths/~1users~1{id", specErr.Pointer)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "swagger.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, doc.Paths(), 3)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("error names the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

		_, err := Load(path)
		require.ErrorIs(t, err, ErrSpec)
		assert.Contains(t, err.Error(), "broken.yaml")
	})
}

func TestNewDocument(t *testing.T) {
	raw := map[string]any{
		"paths": map[string]any{
			"/c": map[string]any{},
			"/a": map[string]any{},
			"/b": map[string]any{},
		},
	}

	t.Run("explicit order", func(t *testing.T) {
		doc, err := NewDocument(raw, "/c", "/a", "/b")
		require.NoError(t, err)
		assert.Equal(t, []string{"/c", "/a", "/b"}, doc.Paths())
	})

	t.Run("partial order appends the rest sorted", func(t *testing.T) {
		doc, err := NewDocument(raw, "/c", "/missing")
		require.NoError(t, err)
		assert.Equal(t, []string{"/c", "/a", "/b"}, doc.Paths())
	})

	t.Run("no order", func(t *testing.T) {
		doc, err := NewDocument(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"/a", "/b", "/c"}, doc.Paths())
	})

	t.Run("nil tree", func(t *testing.T) {
		doc, err := NewDocument(nil)
		require.NoError(t, err)
		assert.Empty(t, doc.Paths())
		assert.NotNil(t, doc.Raw())
	})

	t.Run("unknown path item", func(t *testing.T) {
		doc, err := NewDocument(raw)
		require.NoError(t, err)
		_, ok := doc.PathItem("/nope")
		assert.False(t, ok)
	})
}

func TestSpecError(t *testing.T) {
	err := NewSpecError("/paths/~1a", "bad %s", "thing")
	assert.Equal(t, "invalid swagger document at /paths/~1a: bad thing", err.Error())
	assert.ErrorIs(t, err, ErrSpec)
	assert.NotErrorIs(t, err, ErrReference)
}
