package submission

import (
	"math/rand/v2"
	"strings"
)

const (
	// DefaultSuffixLength is the number of base36 characters after the prefix.
	DefaultSuffixLength = 9
	base36              = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ReferenceGenerator builds placeholder reference IDs: a form prefix followed
// by a fixed-length uppercase base36 suffix. IDs are random, not unique; a
// real backend must issue its own.
type ReferenceGenerator struct {
	length int
	intN   func(n int) int
}

// ReferenceOption configures a ReferenceGenerator.
type ReferenceOption func(*ReferenceGenerator)

// WithSuffixLength overrides DefaultSuffixLength.
func WithSuffixLength(n int) ReferenceOption {
	return func(g *ReferenceGenerator) {
		if n > 0 {
			g.length = n
		}
	}
}

// WithRandom replaces the random source, for deterministic tests.
func WithRandom(intN func(n int) int) ReferenceOption {
	return func(g *ReferenceGenerator) {
		if intN != nil {
			g.intN = intN
		}
	}
}

// NewReferenceGenerator returns a generator using math/rand/v2.
func NewReferenceGenerator(opts ...ReferenceOption) *ReferenceGenerator {
	g := &ReferenceGenerator{length: DefaultSuffixLength, intN: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns prefix + suffix.
func (g *ReferenceGenerator) Generate(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix) + g.length)
	b.WriteString(strings.ToUpper(prefix))
	for i := 0; i < g.length; i++ {
		b.WriteByte(base36[g.intN(len(base36))])
	}
	return b.String()
}
