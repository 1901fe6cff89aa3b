// Command formwizard runs government-document forms in the terminal or over
// HTTP, and exports their submission schemas.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/internal/logging"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		os.Exit(1)
	}
}

// env holds what every subcommand needs.
type env struct {
	cfg     config.Config
	catalog *forms.Set
	logger  zerolog.Logger
	stdout  io.Writer
	args    []string
}

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, e env) error
}

var commands = []command{
	{name: "run", usage: "run [flags] <form>", summary: "fill in a form in the terminal", run: runWizard},
	{name: "serve", usage: "serve [flags]", summary: "serve the wizard HTTP API", run: serve},
	{name: "schema", usage: "schema [flags] [form]", summary: "print the OpenAPI document, or one form's payload schema", run: printSchema},
	{name: "forms", usage: "forms [flags]", summary: "list the bundled forms", run: listForms},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return flag.ErrHelp
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: formwizard %s\n\n%s.\n\nFlags:\n", cmd.usage, cmd.summary)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, os.LookupEnv)
	if err != nil {
		return err
	}
	if err := config.ApplyFlags(&cfg, fs); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	catalog, err := forms.Catalog()
	if err != nil {
		return fmt.Errorf("load form catalog: %w", err)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})
	return cmd.run(ctx, env{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger.With().Str("command", cmd.name).Logger(),
		stdout:  stdout,
		args:    fs.Args(),
	})
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: formwizard <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}
