package main

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

// mockBackend is the simulated backend the settings describe.
func mockBackend(cfg config.Config) *submission.MockBackend {
	return submission.NewMockBackend(
		submission.WithDelay(cfg.SubmissionDelay),
		submission.WithReferenceGenerator(submission.NewReferenceGenerator(
			submission.WithSuffixLength(cfg.SuffixLength),
		)),
	)
}

// submitter wraps backend in a Service with the configured timeout, retries
// and payload schema check.
func submitter(cfg config.Config, catalog *forms.Set, backend submission.Backend, logger zerolog.Logger, extra ...submission.Option) *submission.Service {
	opts := []submission.Option{
		submission.WithTimeout(cfg.SubmissionTimeout),
		submission.WithRetry(uint64(cfg.MaxRetries), submission.DefaultInitialInterval, submission.DefaultMaxInterval),
		submission.WithPayloadValidator(openapi.NewValidator(catalog).Validate),
		submission.WithLogger(logger),
	}
	return submission.New(backend, append(opts, extra...)...)
}

// pages returns the page renderer, reading overrides from the templates
// directory when one is configured.
func pages(cfg config.Config) (*render.Renderer, error) {
	if cfg.TemplatesDir == "" {
		return render.New()
	}
	engine, err := render.NewEngine(render.WithBaseDir(cfg.TemplatesDir), render.WithFS(render.Templates()))
	if err != nil {
		return nil, err
	}
	return render.New(render.WithEngine(engine))
}
