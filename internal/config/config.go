// Package config loads nixkit.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"nixkit/internal/assist"
	"nixkit/internal/diag"
	"nixkit/internal/trace"
)

// FileName is looked up from the target directory towards the filesystem root.
const FileName = "nixkit.toml"

var (
	ErrNotFound      = errors.New("nixkit.toml not found")
	ErrBadTraceLevel = errors.New("invalid [trace].level")
	ErrBadMax        = errors.New("[diagnostics].max must be >= 0")
	ErrUnknownAssist = errors.New("unknown assist in [assists].disabled")
	ErrBadSeverity   = errors.New("invalid [diagnostics].min_severity")
)

type Config struct {
	// Path is empty for the built-in defaults.
	Path        string
	Assists     Assists
	Diagnostics Diagnostics
	Trace       Trace
}

type Assists struct {
	Disabled []string `toml:"disabled" validate:"dive,assist_id"`
}

type Diagnostics struct {
	Max            int    `toml:"max" validate:"gte=0"`
	UnusedBindings bool   `toml:"unused_bindings"`
	MinSeverity    string `toml:"min_severity" validate:"severity"`
}

type Trace struct {
	Level string `toml:"level" validate:"trace_level"`
}

// Default is the configuration used when no nixkit.toml exists.
func Default() Config {
	return Config{
		Diagnostics: Diagnostics{Max: 100, UnusedBindings: true, MinSeverity: "info"},
		Trace:       Trace{Level: "off"},
	}
}

// Find walks up from startDir to locate nixkit.toml.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load decodes path over the defaults; keys absent from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the nearest nixkit.toml; without one it returns Default.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Load(path)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	known := assist.NewEngine(assist.DefaultProviders()...).IDs()
	_ = v.RegisterValidation("assist_id", func(fl validator.FieldLevel) bool {
		return slices.Contains(known, fl.Field().String())
	})
	_ = v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		_, err := diag.ParseSeverity(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("trace_level", func(fl validator.FieldLevel) bool {
		_, err := trace.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate reports every invalid field; each error wraps one of the Err* sentinels.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "gte":
			errs = append(errs, ErrBadMax)
		case "trace_level":
			errs = append(errs, fmt.Errorf("%w: %q", ErrBadTraceLevel, fe.Value()))
		case "severity":
			errs = append(errs, fmt.Errorf("%w: %q", ErrBadSeverity, fe.Value()))
		case "assist_id":
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownAssist, fe.Value()))
		default:
			errs = append(errs, fe)
		}
	}
	return errors.Join(errs...)
}

func (c Config) TraceLevel() trace.Level {
	lvl, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.LevelOff
	}
	return lvl
}

// SeverityFloor is the least severe diagnostic the CLI prints.
func (c Config) SeverityFloor() diag.Severity {
	sev, err := diag.ParseSeverity(c.Diagnostics.MinSeverity)
	if err != nil {
		return diag.SevInfo
	}
	return sev
}

// AssistEnabled reports whether provider id is not listed in [assists].disabled.
func (c Config) AssistEnabled(id string) bool {
	return !slices.Contains(c.Assists.Disabled, id)
}
