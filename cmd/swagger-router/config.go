package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/vitalvas/swaggerrouter/router"
)

// Config errors.
var (
	ErrSpecRequired   = errors.New("spec file is required")
	ErrListenRequired = errors.New("listen address is required")
	ErrInvalidFormat  = errors.New("log format must be console or json")
	ErrInvalidSize    = errors.New("size must be positive")
)

// Config holds the settings of the swagger-router command.
type Config struct {
	Spec           string        `koanf:"spec"`
	Listen         string        `koanf:"listen"`
	DocsPath       string        `koanf:"docs_path"`
	DocsYAMLPath   string        `koanf:"docs_yaml_path"`
	MaxMemory      int64         `koanf:"max_memory"`
	MaxBody        int64         `koanf:"max_body"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	TrustRequestID bool          `koanf:"trust_request_id"`
	AccessLog      bool          `koanf:"access_log"`
	Log            LogConfig     `koanf:"log"`
}

// LogConfig selects the level and encoding of the process logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		Listen:       ":8080",
		DocsPath:     router.DefaultDocsPath,
		MaxMemory:    32 << 20,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		AccessLog:    true,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// flagKeys maps flag names that do not follow the dash-to-underscore rule.
var flagKeys = map[string]string{
	"config":     "",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// loadConfig merges defaults, the optional YAML file at path and the flags
// set on the command line, in that order.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// validate checks the settings needed to serve.
func (c *Config) validate() error {
	if c.Spec == "" {
		return ErrSpecRequired
	}

	if c.Listen == "" {
		return ErrListenRequired
	}

	if c.MaxMemory <= 0 {
		return fmt.Errorf("max_memory: %w", ErrInvalidSize)
	}

	if c.MaxBody < 0 {
		return fmt.Errorf("max_body: %w", ErrInvalidSize)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return ErrInvalidFormat
	}

	return nil
}

// newLogger builds the process logger described by cfg.
func newLogger(cfg LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
