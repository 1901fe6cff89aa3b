package submission

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultMockDelay mirrors the pause a user sees before the acknowledgement.
const DefaultMockDelay = 2 * time.Second

// MockBackend simulates the application backend: it waits a fixed delay and
// returns a generated reference ID. It can be told to fail a number of calls
// to exercise retries.
type MockBackend struct {
	delay time.Duration
	ids   *ReferenceGenerator

	mu       sync.Mutex
	failures int
	failWith error
	calls    int
}

// MockOption configures a MockBackend.
type MockOption func(*MockBackend)

// WithDelay overrides DefaultMockDelay.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockBackend) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithReferenceGenerator overrides the reference ID generator.
func WithReferenceGenerator(g *ReferenceGenerator) MockOption {
	return func(m *MockBackend) {
		if g != nil {
			m.ids = g
		}
	}
}

// WithFailures makes the next n calls fail with err (ErrUnavailable when
// nil) after the delay.
func WithFailures(n int, err error) MockOption {
	return func(m *MockBackend) {
		m.failures = n
		m.failWith = err
	}
}

// NewMockBackend returns a MockBackend.
func NewMockBackend(opts ...MockOption) *MockBackend {
	m := &MockBackend{delay: DefaultMockDelay, ids: NewReferenceGenerator()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit waits for the delay, honouring ctx, then returns a receipt.
func (m *MockBackend) Submit(ctx context.Context, req Request) (Receipt, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	m.mu.Lock()
	if m.failures > 0 {
		m.failures--
		err := m.failWith
		m.mu.Unlock()
		if err == nil {
			err = ErrUnavailable
		}
		return Receipt{}, fmt.Errorf("mock backend: %w", err)
	}
	m.mu.Unlock()

	return Receipt{ReferenceID: m.ids.Generate(req.Prefix)}, nil
}

// Calls reports how many submissions reached the backend.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
