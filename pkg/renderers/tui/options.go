package tui

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/render"
)

// Theme captures message prefixes the renderer applies when printing.
type Theme struct {
	StepPrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme keeps output readable without ANSI codes.
func DefaultTheme() Theme {
	return Theme{StepPrefix: "==", InfoPrefix: "--", ErrorPrefix: "!!"}
}

// Option configures the renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithPicker overrides the file picker. The default asks for local paths
// through the prompt driver.
func WithPicker(picker documents.Picker) Option {
	return func(r *Renderer) {
		if picker != nil {
			r.picker = picker
		}
	}
}

// WithPages sets the review and acknowledgement renderer.
func WithPages(pages *render.Renderer) Option {
	return func(r *Renderer) {
		if pages != nil {
			r.pages = pages
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}
