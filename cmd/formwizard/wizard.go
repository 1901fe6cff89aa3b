package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/components/regions"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func runWizard(ctx context.Context, e env) error {
	if len(e.args) != 1 {
		return fmt.Errorf("run: expected one form id, got %d (try: formwizard forms)", len(e.args))
	}
	def, err := e.catalog.Lookup(e.args[0])
	if err != nil {
		return err
	}

	var backend submission.Backend = mockBackend(e.cfg)
	if e.cfg.BackendURL != "" {
		backend = submission.NewHTTPBackend(e.cfg.BackendURL)
	}
	svc := submitter(e.cfg, e.catalog, backend, e.logger)

	w := wizard.New(def,
		wizard.WithSubmitter(svc),
		wizard.WithLogger(e.logger),
		wizard.WithChecks(forms.Checks()),
		wizard.WithChoiceResolver(regions.Resolver()),
	)

	p, err := pages(e.cfg)
	if err != nil {
		return err
	}
	r, err := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(e.stdout)),
		tui.WithPages(p),
		tui.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}

	rec, err := r.Run(ctx, w)
	if errors.Is(err, tui.ErrExited) {
		fmt.Fprintln(e.stdout, "Application discarded.")
		return nil
	}
	if err != nil {
		return err
	}
	e.logger.Info().Str("form", def.ID).Str("reference_id", rec.ReferenceID).Msg("application submitted")
	return nil
}
