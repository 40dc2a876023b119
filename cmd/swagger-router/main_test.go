package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/swaggerrouter/swagger"
)

const testDoc = `
swagger: "2.0"
info: {title: users, version: "1"}
consumes: [application/json]
paths:
  /users/{id}:
    parameters:
      - {name: id, in: path, type: integer}
    get:
      operationId: getUser
    put:
      parameters:
        - name: user
          in: body
          schema: {type: object}
  /health:
    get: {}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func serveFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("spec", "", "")
	fs.String("log-level", "info", "")
	fs.String("log-format", "console", "")
	bindServeFlags(fs, defaultConfig())
	require.NoError(t, fs.Parse(args))

	return fs
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig("", nil)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Listen)
		assert.Equal(t, "/api-docs", cfg.DocsPath)
		assert.Equal(t, int64(32<<20), cfg.MaxMemory)
		assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.True(t, cfg.AccessLog)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeFile(t, "config.yaml", `
spec: users.yaml
listen: ":9000"
max_body: 1024
read_timeout: 5s
log:
  level: debug
  format: json
`)
		cfg, err := loadConfig(path, nil)
		require.NoError(t, err)

		assert.Equal(t, "users.yaml", cfg.Spec)
		assert.Equal(t, ":9000", cfg.Listen)
		assert.Equal(t, int64(1024), cfg.MaxBody)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("changed flags override file", func(t *testing.T) {
		path := writeFile(t, "config.yaml", `
listen: ":9000"
read_timeout: 5s
log:
  level: debug
`)
		fs := serveFlags(t, "--listen", ":7000", "--log-format", "json", "--docs-yaml-path", "/api-docs.yaml", "--trust-request-id")

		cfg, err := loadConfig(path, fs)
		require.NoError(t, err)

		assert.Equal(t, ":7000", cfg.Listen)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "/api-docs.yaml", cfg.DocsYAMLPath)
		assert.True(t, cfg.TrustRequestID)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := defaultConfig()
		cfg.Spec = "users.yaml"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(_ *Config) {}},
		{name: "missing spec", mutate: func(c *Config) { c.Spec = "" }, wantErr: ErrSpecRequired},
		{name: "missing listen", mutate: func(c *Config) { c.Listen = "" }, wantErr: ErrListenRequired},
		{name: "zero max memory", mutate: func(c *Config) { c.MaxMemory = 0 }, wantErr: ErrInvalidSize},
		{name: "negative max body", mutate: func(c *Config) { c.MaxBody = -1 }, wantErr: ErrInvalidSize},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("bad level", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "loud"
		assert.Error(t, cfg.validate())
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	_, err = newLogger(LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}

func TestRoutesCommand(t *testing.T) {
	spec := writeFile(t, "users.yaml", testDoc)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes", "--spec", spec})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TEMPLATE")
	assert.Contains(t, lines[1], "/users/{id}")
	assert.Contains(t, lines[1], "GET, PUT")
	assert.Contains(t, lines[2], "/health")

	cmd = newRootCmd()
	cmd.SetArgs([]string{"routes"})
	assert.ErrorIs(t, cmd.Execute(), ErrSpecRequired)
}

func TestNewHandler(t *testing.T) {
	doc, err := swagger.Parse([]byte(testDoc))
	require.NoError(t, err)

	cfg := defaultConfig()
	cfg.Spec = "users.yaml"
	cfg.MaxBody = 16
	cfg.AccessLog = false

	h, err := newHandler(&cfg, doc, zerolog.Nop())
	require.NoError(t, err)

	t.Run("echoes decoration", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

		var resp echoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, "/users/{id}", resp.APIPath)
		assert.Equal(t, "getUser", resp.OperationID)
		require.Len(t, resp.Params, 1)
		assert.Equal(t, "id", resp.Params[0].Name)
		assert.Equal(t, "path", resp.Params[0].In)
		assert.InDelta(t, 42, resp.Params[0].Value, 0)
		assert.True(t, resp.Params[0].Present)
	})

	t.Run("serves docs", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"swagger"`)
	})

	t.Run("routing errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/1", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, PUT", w.Header().Get("Allow"))

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("body limits", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"name":"longer than the limit"}`))
		r.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		r = httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")

		w = httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}
