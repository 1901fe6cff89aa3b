package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// IdempotencyHeader carries the submission's idempotency key.
const IdempotencyHeader = "Idempotency-Key"

// TokenSource returns the bearer token sent with each submission.
type TokenSource func(ctx context.Context) (string, error)

// HTTPBackend posts submissions as JSON to {endpoint}/{formID}. 4xx
// responses are rejections; 5xx responses and transport errors are
// transient.
type HTTPBackend struct {
	endpoint string
	client   *http.Client
	token    TokenSource
}

// HTTPOption configures an HTTPBackend.
type HTTPOption func(*HTTPBackend)

// WithHTTPClient overrides the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(b *HTTPBackend) {
		if client != nil {
			b.client = client
		}
	}
}

// WithTokenSource sets the bearer token source.
func WithTokenSource(source TokenSource) HTTPOption {
	return func(b *HTTPBackend) {
		b.token = source
	}
}

// NewHTTPBackend returns a backend posting to endpoint.
func NewHTTPBackend(endpoint string, opts ...HTTPOption) *HTTPBackend {
	b := &HTTPBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type httpSubmission struct {
	Payload map[string]any `json:"payload"`
	Files   any            `json:"files,omitempty"`
}

type httpError struct {
	Error string `json:"error"`
}

// Submit sends req and decodes the receipt.
func (b *HTTPBackend) Submit(ctx context.Context, req Request) (Receipt, error) {
	body, err := json.Marshal(httpSubmission{Payload: req.Payload, Files: req.Files})
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: encode payload: %v", ErrRejected, err)
	}

	target := b.endpoint + "/" + url.PathEscape(req.FormID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(IdempotencyHeader, req.IdempotencyKey)
	if b.token != nil {
		token, err := b.token(ctx)
		if err != nil {
			return Receipt{}, fmt.Errorf("%w: token: %v", ErrRejected, err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return Receipt{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var e httpError
		_ = json.Unmarshal(raw, &e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return Receipt{}, fmt.Errorf("%w: %s", ErrRejected, e.Error)
	}

	var receipt Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return Receipt{}, fmt.Errorf("%w: decode receipt: %v", ErrUnavailable, err)
	}
	if receipt.ReferenceID == "" {
		return Receipt{}, fmt.Errorf("%w: empty reference id", ErrUnavailable)
	}
	return receipt, nil
}
