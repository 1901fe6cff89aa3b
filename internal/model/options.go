package model

const (
	defaultMaxUploadMB = 2
	bytesPerMB         = 1024 * 1024
)

var defaultAccept = []string{"application/pdf", "image/*"}

// Options configures the Builder. The public adapter in pkg/model constructs
// them from functional options.
type Options struct {
	Labeler func(string) string
	// Compile validates a rule expression. Nil disables syntax checks.
	Compile func(rule string) (identifiers []string, err error)
	// DefaultMaxUploadMB applies to slots that declare no ceiling and belong
	// to a form without maxUploadMB.
	DefaultMaxUploadMB float64
}

func defaultOptions() Options {
	return Options{
		Labeler:            DefaultLabeler,
		DefaultMaxUploadMB: defaultMaxUploadMB,
	}
}
