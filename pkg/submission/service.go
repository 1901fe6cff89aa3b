package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout         = 10 * time.Second
	DefaultMaxRetries      = 3
	DefaultInitialInterval = 250 * time.Millisecond
	DefaultMaxInterval     = 2 * time.Second
)

// Option configures a Service.
type Option func(*Service)

// WithAuth sets the auth status provider. Without it every caller is
// treated as authenticated.
func WithAuth(auth AuthStatusProvider) Option {
	return func(s *Service) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithPayloadValidator checks payloads before the backend is called.
func WithPayloadValidator(fn PayloadValidator) Option {
	return func(s *Service) {
		s.validate = fn
	}
}

// WithTimeout bounds the whole submission, retries included.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetry configures exponential backoff between attempts. maxRetries of
// zero disables retries.
func WithRetry(maxRetries uint64, initial, max time.Duration) Option {
	return func(s *Service) {
		s.maxRetries = maxRetries
		if initial > 0 {
			s.initialInterval = initial
		}
		if max > 0 {
			s.maxInterval = max
		}
	}
}

// WithClock overrides time.Now for SubmittedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service submits forms through a Backend with an auth gate, a timeout,
// retries with exponential backoff and idempotency-key de-duplication.
type Service struct {
	backend         Backend
	auth            AuthStatusProvider
	validate        PayloadValidator
	timeout         time.Duration
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	clock           func() time.Time
	logger          zerolog.Logger

	mu       sync.Mutex
	records  map[string]Record
	inflight map[string]bool
}

// New returns a Service submitting to backend.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend:         backend,
		auth:            AllowAll(),
		timeout:         DefaultTimeout,
		maxRetries:      DefaultMaxRetries,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
		clock:           time.Now,
		logger:          zerolog.Nop(),
		records:         make(map[string]Record),
		inflight:        make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewIdempotencyKey returns a fresh key.
func NewIdempotencyKey() string { return uuid.NewString() }

// Submit sends req once per idempotency key. Repeating a key that already
// succeeded returns the original record without calling the backend again.
func (s *Service) Submit(ctx context.Context, req Request) (Record, error) {
	if !s.auth.Authenticated(ctx) {
		return Record{}, ErrNotAuthenticated
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = NewIdempotencyKey()
	}
	log := s.logger.With().Str("form", req.FormID).Str("idempotency_key", req.IdempotencyKey).Logger()

	s.mu.Lock()
	if rec, ok := s.records[req.IdempotencyKey]; ok {
		s.mu.Unlock()
		log.Info().Str("reference_id", rec.ReferenceID).Msg("duplicate submission served from record")
		return rec, nil
	}
	if s.inflight[req.IdempotencyKey] {
		s.mu.Unlock()
		return Record{}, ErrSubmissionInProgress
	}
	s.inflight[req.IdempotencyKey] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, req.IdempotencyKey)
		s.mu.Unlock()
	}()

	if s.validate != nil {
		if err := s.validate(req.FormID, req.Payload); err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	attempts := 0
	op := func() (Receipt, error) {
		attempts++
		receipt, err := s.backend.Submit(ctx, req)
		if err == nil {
			return receipt, nil
		}
		if errors.Is(err, ErrRejected) {
			return Receipt{}, backoff.Permanent(err)
		}
		log.Warn().Err(err).Int("attempt", attempts).Msg("submission attempt failed")
		return Receipt{}, err
	}

	policy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(s.initialInterval),
		backoff.WithMaxInterval(s.maxInterval),
		backoff.WithMaxElapsedTime(0),
	)
	receipt, err := backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(policy, s.maxRetries), ctx))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.Join(ErrTimeout, err)
		}
		log.Error().Err(err).Int("attempts", attempts).Msg("submission failed")
		return Record{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	rec := Record{
		ReferenceID:    receipt.ReferenceID,
		FormID:         req.FormID,
		IdempotencyKey: req.IdempotencyKey,
		SubmittedAt:    s.clock(),
		Attempts:       attempts,
	}
	s.mu.Lock()
	s.records[req.IdempotencyKey] = rec
	s.mu.Unlock()

	log.Info().Str("reference_id", rec.ReferenceID).Int("attempts", attempts).Msg("submission accepted")
	return rec, nil
}

// Lookup returns the record stored for an idempotency key.
func (s *Service) Lookup(key string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Expire drops records submitted before cutoff and returns how many went.
// A key whose record expired is submitted afresh on its next use.
func (s *Service) Expire(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, rec := range s.records {
		if rec.SubmittedAt.Before(cutoff) {
			delete(s.records, key)
			n++
		}
	}
	return n
}
