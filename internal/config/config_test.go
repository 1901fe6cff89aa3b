package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func envOf(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadLayers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "formwizard.yaml")
	yamlDoc := "listen: \":9090\"\nsubmissionDelay: 500ms\nmaxRetries: 5\nlogFormat: console\n"
	if err := os.WriteFile(path, []byte(yamlDoc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path, envOf(map[string]string{
		"FORMWIZARD_MAX_RETRIES": "1",
		"FORMWIZARD_TOKEN_TTL":   "15m",
		"FORMWIZARD_BACKEND_URL": "",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"-listen", ":7070"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := ApplyFlags(&cfg, fs); err != nil {
		t.Fatalf("ApplyFlags: %v", err)
	}

	want := Default()
	want.ListenAddr = ":7070"
	want.SubmissionDelay = 500 * time.Millisecond
	want.MaxRetries = 1
	want.TokenTTL = 15 * time.Minute
	want.LogFormat = "console"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Parallel()

	_, err := Load("", envOf(map[string]string{
		"FORMWIZARD_SUBMISSION_DELAY": "soon",
		"FORMWIZARD_SUFFIX_LENGTH":    "nine",
	}))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyFlagsRejectsBadValue(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"-max-retries", "many"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := Default()
	if err := ApplyFlags(&cfg, fs); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.ListenAddr = ""
	cfg.LogFormat = "xml"
	cfg.SuffixLength = 0
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 3 {
		t.Fatalf("expected three problems, got %v", err)
	}
}

func TestEnvName(t *testing.T) {
	t.Parallel()

	if got := EnvName("submission-timeout"); got != "FORMWIZARD_SUBMISSION_TIMEOUT" {
		t.Fatalf("EnvName = %q", got)
	}
}
