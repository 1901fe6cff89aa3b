package httpapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/components/regions"
	"github.com/goliatone/go-formwizard/pkg/forms"
	"github.com/goliatone/go-formwizard/pkg/metrics"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/submission"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// DefaultBasePath prefixes every API route except /metrics.
const DefaultBasePath = "/api/v1"

// Catalog lists the forms the server can open.
type Catalog interface {
	Get(id string) (model.Definition, bool)
	List() []model.Definition
}

// Server is the HTTP host.
type Server struct {
	catalog   Catalog
	basePath  string
	version   string
	issuer    *Issuer
	submitter wizard.Submitter
	backend   submission.Backend
	validator *openapi.Validator
	pages     *render.Renderer
	checks    *validation.Registry
	regions   *regions.Component
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	sessions  *sessionTable
	clean     sanitizer
	logger    zerolog.Logger

	receiptsMu sync.Mutex
	receipts   map[string]storedReceipt
}

// Option configures a Server.
type Option func(*Server)

// WithBasePath overrides DefaultBasePath.
func WithBasePath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.basePath = path
		}
	}
}

// WithVersion labels the exported OpenAPI document.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithIssuer sets the token issuer. Without one New fails.
func WithIssuer(issuer *Issuer) Option {
	return func(s *Server) { s.issuer = issuer }
}

// WithSubmitter replaces the in-process submission service wizards use.
func WithSubmitter(sub wizard.Submitter) Option {
	return func(s *Server) { s.submitter = sub }
}

// WithSimulatedBackend replaces the backend behind POST /submissions/{form}.
// The default is a submission.MockBackend with its standard delay.
func WithSimulatedBackend(b submission.Backend) Option {
	return func(s *Server) { s.backend = b }
}

// WithPages sets the acknowledgement renderer.
func WithPages(pages *render.Renderer) Option {
	return func(s *Server) { s.pages = pages }
}

// WithChecks sets the cross-field checks every wizard runs.
func WithChecks(registry *validation.Registry) Option {
	return func(s *Server) { s.checks = registry }
}

// WithRegions replaces the state and UT options component.
func WithRegions(c *regions.Component) Option {
	return func(s *Server) { s.regions = c }
}

// WithRegistry registers metrics on reg and serves it on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds a Server over catalog.
func New(catalog Catalog, opts ...Option) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("httpapi: catalog is required")
	}
	s := &Server{
		catalog:  catalog,
		basePath: DefaultBasePath,
		version:  "1.0.0",
		clean:    newSanitizer(),
		logger:   zerolog.Nop(),
		receipts: make(map[string]storedReceipt),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.issuer == nil {
		return nil, ErrMissingSecret
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.New(s.registry)
	s.sessions = newSessionTable(s.metrics.SessionOpened, s.metrics.SessionClosed)
	s.validator = openapi.NewValidator(catalog)
	if s.pages == nil {
		pages, err := render.New()
		if err != nil {
			return nil, err
		}
		s.pages = pages
	}
	if s.checks == nil {
		s.checks = forms.Checks()
	}
	if s.regions == nil {
		s.regions = regions.New()
	}
	if s.backend == nil {
		s.backend = submission.NewMockBackend()
	}
	if s.submitter == nil {
		s.submitter = submission.New(s.backend,
			submission.WithAuth(TokenAuth()),
			submission.WithPayloadValidator(s.validator.Validate),
			submission.WithLogger(s.logger),
		)
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(s.issuer.Authenticate)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route(s.basePath, func(r chi.Router) {
		r.Post("/auth/token", s.issueToken)
		r.Get("/forms", s.listForms)
		r.Get("/forms/{form}/schema", s.formSchema)
		r.Get("/openapi.json", s.document)
		if _, err := s.regions.RegisterRoutes(r, ""); err != nil {
			s.logger.Error().Err(err).Msg("register region options")
		}

		r.Route("/wizards", func(r chi.Router) {
			r.Post("/", s.createWizard)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getWizard)
				r.Delete("/", s.deleteWizard)
				r.Put("/fields/{field}", s.setField)
				r.Post("/slots/{slot}", s.attach)
				r.Delete("/slots/{slot}", s.detach)
				r.Post("/advance", s.advance)
				r.Post("/retreat", s.retreat)
				r.Post("/edit/{step}", s.beginEdit)
				r.Get("/acknowledgement", s.acknowledgement)
			})
		})

		r.With(RequireToken).Post("/submissions/{form}", s.acceptSubmission)
	})
	return r
}

// expirer is implemented by submitters that keep per-key records.
type expirer interface {
	Expire(cutoff time.Time) int
}

// ExpireSessions drops wizards older than maxAge and returns how many were
// dropped. Stored receipts and submitter records of the same age go too.
func (s *Server) ExpireSessions(maxAge time.Duration) int {
	cutoff := s.sessions.now().Add(-maxAge)
	n := s.sessions.expire(cutoff)
	if n > 0 {
		s.logger.Info().Int("expired", n).Int("live", s.sessions.len()).Msg("wizard sessions expired")
	}
	receipts := s.expireReceipts(cutoff)
	records := 0
	if e, ok := s.submitter.(expirer); ok {
		records = e.Expire(cutoff)
	}
	if receipts > 0 || records > 0 {
		s.logger.Info().Int("receipts", receipts).Int("records", records).Msg("submission records expired")
	}
	return n
}

// observe logs each request and counts it by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.ObserveRequest(r.Method, route, status)
		s.logger.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
