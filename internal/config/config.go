// Package config resolves command settings from defaults, an optional YAML
// file, FORMWIZARD_* environment variables and command flags, each layer
// overriding the previous one.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/submission"
)

// EnvPrefix prefixes every environment key: listen becomes FORMWIZARD_LISTEN.
const EnvPrefix = "FORMWIZARD_"

// ErrInvalid wraps every validation problem.
var ErrInvalid = errors.New("config: invalid")

// Config holds every tunable of the commands.
type Config struct {
	ListenAddr        string        `yaml:"listen"`
	JWTSecret         string        `yaml:"jwtSecret"`
	TokenTTL          time.Duration `yaml:"tokenTTL"`
	LogLevel          string        `yaml:"logLevel"`
	LogFormat         string        `yaml:"logFormat"`
	SubmissionDelay   time.Duration `yaml:"submissionDelay"`
	SubmissionTimeout time.Duration `yaml:"submissionTimeout"`
	MaxRetries        int           `yaml:"maxRetries"`
	BackendURL        string        `yaml:"backendURL"`
	SuffixLength      int           `yaml:"suffixLength"`
	TemplatesDir      string        `yaml:"templatesDir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ListenAddr:        ":8080",
		JWTSecret:         "formwizard-dev-secret-change-me",
		TokenTTL:          time.Hour,
		LogLevel:          "info",
		LogFormat:         "json",
		SubmissionDelay:   submission.DefaultMockDelay,
		SubmissionTimeout: submission.DefaultTimeout,
		MaxRetries:        submission.DefaultMaxRetries,
		SuffixLength:      submission.DefaultSuffixLength,
	}
}

// setters maps each key to the field it writes. Keys double as flag names
// and, upper-cased with dashes turned into underscores, as environment names.
var setters = map[string]func(*Config, string) error{
	"listen":             func(c *Config, v string) error { c.ListenAddr = v; return nil },
	"jwt-secret":         func(c *Config, v string) error { c.JWTSecret = v; return nil },
	"token-ttl":          durationSetter(func(c *Config) *time.Duration { return &c.TokenTTL }),
	"log-level":          func(c *Config, v string) error { c.LogLevel = v; return nil },
	"log-format":         func(c *Config, v string) error { c.LogFormat = v; return nil },
	"submission-delay":   durationSetter(func(c *Config) *time.Duration { return &c.SubmissionDelay }),
	"submission-timeout": durationSetter(func(c *Config) *time.Duration { return &c.SubmissionTimeout }),
	"max-retries":        intSetter(func(c *Config) *int { return &c.MaxRetries }),
	"backend-url":        func(c *Config, v string) error { c.BackendURL = v; return nil },
	"suffix-length":      intSetter(func(c *Config) *int { return &c.SuffixLength }),
	"templates-dir":      func(c *Config, v string) error { c.TemplatesDir = v; return nil },
}

var usage = map[string]string{
	"listen":             "HTTP listen address",
	"jwt-secret":         "HMAC secret for bearer tokens",
	"token-ttl":          "lifetime of issued tokens",
	"log-level":          "log level (debug, info, warn, error)",
	"log-format":         "log format (json or console)",
	"submission-delay":   "simulated backend delay",
	"submission-timeout": "overall submission timeout, retries included",
	"max-retries":        "submission retries after the first attempt",
	"backend-url":        "submit to this URL instead of the simulated backend",
	"suffix-length":      "reference ID suffix length",
	"templates-dir":      "directory with review and acknowledgement overrides",
}

// Load applies the YAML file at path (when non-empty) and then the
// environment read through lookup over Default.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if lookup == nil {
		return cfg, nil
	}
	var problems []error
	for key, set := range setters {
		name := EnvName(key)
		if value, ok := lookup(name); ok && value != "" {
			if err := set(&cfg, value); err != nil {
				problems = append(problems, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err))
			}
		}
	}
	if len(problems) > 0 {
		return Config{}, errors.Join(problems...)
	}
	return cfg, nil
}

// EnvName returns the environment variable for key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// RegisterFlags declares one string flag per key on fs. Only flags the user
// sets are applied by ApplyFlags.
func RegisterFlags(fs *flag.FlagSet) {
	for key := range setters {
		fs.String(key, "", usage[key])
	}
}

// ApplyFlags overlays every flag that was set on the command line.
func ApplyFlags(cfg *Config, fs *flag.FlagSet) error {
	var problems []error
	fs.Visit(func(f *flag.Flag) {
		set, ok := setters[f.Name]
		if !ok {
			return
		}
		if err := set(cfg, f.Value.String()); err != nil {
			problems = append(problems, fmt.Errorf("%w: -%s: %w", ErrInvalid, f.Name, err))
		}
	})
	return errors.Join(problems...)
}

// Validate reports every inconsistent setting.
func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.ListenAddr) == "" {
		problems = append(problems, fmt.Errorf("%w: listen address is empty", ErrInvalid))
	}
	if c.JWTSecret == "" {
		problems = append(problems, fmt.Errorf("%w: jwt secret is empty", ErrInvalid))
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, fmt.Errorf("%w: token ttl must be positive", ErrInvalid))
	}
	if f := strings.ToLower(c.LogFormat); f != "json" && f != "console" {
		problems = append(problems, fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat))
	}
	if c.SubmissionDelay < 0 {
		problems = append(problems, fmt.Errorf("%w: submission delay is negative", ErrInvalid))
	}
	if c.SubmissionTimeout <= 0 {
		problems = append(problems, fmt.Errorf("%w: submission timeout must be positive", ErrInvalid))
	}
	if c.MaxRetries < 0 {
		problems = append(problems, fmt.Errorf("%w: max retries is negative", ErrInvalid))
	}
	if c.SuffixLength < 1 || c.SuffixLength > 32 {
		problems = append(problems, fmt.Errorf("%w: suffix length %d outside 1..32", ErrInvalid, c.SuffixLength))
	}
	return errors.Join(problems...)
}

func durationSetter(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}
