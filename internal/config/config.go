package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/gyobango/internal/config/loader"
	"github.com/dshills/gyobango/internal/engine/buffer"
	"github.com/dshills/gyobango/internal/sequence"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "GYOBANGO_"

// Config is the full gyobango configuration.
type Config struct {
	Sequence SequenceConfig `yaml:"sequence"`
	Scratch  ScratchConfig  `yaml:"scratch"`
	Logging  LoggingConfig  `yaml:"logging"`
	Script   ScriptConfig   `yaml:"script"`
	Watch    WatchConfig    `yaml:"watch"`

	// Source is the file the configuration was read from, if any.
	Source string `yaml:"-"`
}

// SequenceConfig controls identifier allocation.
type SequenceConfig struct {
	// Width is the number of digits in an identifier.
	Width int `yaml:"width"`
	// Headroom is how far past the requested count each allocation reaches.
	Headroom int `yaml:"headroom"`
}

// ScratchConfig describes the scratch document.
type ScratchConfig struct {
	Path       string `yaml:"path"`
	LineEnding string `yaml:"lineEnding"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScriptConfig controls the Lua runtime.
type ScriptConfig struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig controls file watching.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sequence: SequenceConfig{
			Width:    sequence.DefaultWidth,
			Headroom: sequence.DefaultHeadroom,
		},
		Scratch: ScratchConfig{
			Path:       "numbers.txt",
			LineEnding: "lf",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Script: ScriptConfig{
			Timeout: 5 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
	}
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is an explicit config file. When empty, DefaultPaths are searched
	// and a missing file is not an error.
	Path string

	// FS overrides the file system. Defaults to the OS.
	FS loader.FileSystem

	// Env overrides the environment loader. Defaults to EnvPrefix.
	Env loader.Loader
}

// DefaultPaths returns the config file locations searched when no path is given.
func DefaultPaths() []string {
	paths := []string{"gyobango.toml", "gyobango.yaml", "gyobango.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "gyobango", "config.toml"),
			filepath.Join(dir, "gyobango", "config.yaml"),
		)
	}
	return paths
}

// Load builds the configuration from defaults, a file and the environment.
func Load(opts LoadOptions) (*Config, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}
	env := opts.Env
	if env == nil {
		el := loader.NewEnvLoader(EnvPrefix)
		el.KeepString(stringPaths()...)
		env = el
	}

	path, err := resolvePath(fsys, opts.Path)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any)
	if path != "" {
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := fl.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	envData, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envData)

	cfg := Default()
	if err := decode(merged, cfg); err != nil {
		return nil, err
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePath returns the file to load, or "" when none exists.
func resolvePath(fsys loader.FileSystem, explicit string) (string, error) {
	if explicit != "" {
		if _, err := fsys.Stat(explicit); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrFileNotFound, explicit)
			}
			return "", err
		}
		return explicit, nil
	}

	for _, p := range DefaultPaths() {
		if _, err := fsys.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// decode overlays the merged settings onto cfg.
func decode(settings map[string]any, cfg *Config) error {
	if len(settings) == 0 {
		return nil
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ValidationError{Path: "config", Message: err.Error(), Value: cfg.Source}
	}
	return nil
}

// stringPaths returns the dotted paths of the string settings, which the
// environment loader must not convert to numbers or booleans.
func stringPaths() []string {
	var paths []string
	t := reflect.TypeFor[Config]()
	for i := range t.NumField() {
		section := t.Field(i)
		name, _, _ := strings.Cut(section.Tag.Get("yaml"), ",")
		if name == "" || name == "-" || section.Type.Kind() != reflect.Struct {
			continue
		}
		for j := range section.Type.NumField() {
			field := section.Type.Field(j)
			key, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
			if key != "" && key != "-" && field.Type.Kind() == reflect.String {
				paths = append(paths, name+"."+key)
			}
		}
	}
	return paths
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Sequence.Width < 1 || c.Sequence.Width > 9 {
		errs = append(errs, &ValidationError{Path: "sequence.width", Message: "must be between 1 and 9", Value: c.Sequence.Width})
	}
	if c.Sequence.Headroom < 0 || c.Sequence.Headroom > sequence.MaxHeadroom {
		errs = append(errs, &ValidationError{Path: "sequence.headroom", Message: fmt.Sprintf("must be between 0 and %d", sequence.MaxHeadroom), Value: c.Sequence.Headroom})
	}
	if _, ok := buffer.ParseLineEnding(c.Scratch.LineEnding); !ok {
		errs = append(errs, &ValidationError{Path: "scratch.lineEnding", Message: "must be lf, crlf or cr", Value: c.Scratch.LineEnding})
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "must be debug, info, warn or error", Value: c.Logging.Level})
	}
	if c.Script.Timeout <= 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout", Message: "must be positive", Value: c.Script.Timeout})
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce", Message: "must not be negative", Value: c.Watch.Debounce})
	}

	return errors.Join(errs...)
}

// Allocator builds an allocator from the sequence settings.
func (c *Config) Allocator() *sequence.Allocator {
	return sequence.New(
		sequence.WithWidth(c.Sequence.Width),
		sequence.WithHeadroom(c.Sequence.Headroom),
	)
}

// LineEnding returns the configured scratch line ending.
func (c *Config) LineEnding() buffer.LineEnding {
	le, _ := buffer.ParseLineEnding(c.Scratch.LineEnding)
	return le
}
