package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/submission"
)

type submissionBody struct {
	Payload map[string]any                    `json:"payload"`
	Files   map[string][]documents.Descriptor `json:"files,omitempty"`
}

// acceptSubmission is the simulated government backend. It checks the
// payload against the form schema, issues a reference ID through the
// configured backend and replays the stored receipt for a repeated
// Idempotency-Key.
func (s *Server) acceptSubmission(w http.ResponseWriter, r *http.Request) {
	def, ok := s.formOf(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}
	key := r.Header.Get(submission.IdempotencyHeader)
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing "+submission.IdempotencyHeader+" header")
		return
	}
	if receipt, ok := s.receipt(key); ok {
		writeJSON(w, http.StatusOK, receipt)
		return
	}

	var body submissionBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.validator.Validate(def.ID, body.Payload); err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	receipt, err := s.backend.Submit(r.Context(), submission.Request{
		FormID:         def.ID,
		Prefix:         def.Prefix,
		IdempotencyKey: key,
		Payload:        body.Payload,
		Files:          body.Files,
	})
	switch {
	case errors.Is(err, submission.ErrRejected):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Warn().Err(err).Str("form", def.ID).Msg("simulated backend failed")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	receipt, replayed := s.storeReceipt(key, receipt)
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	s.logger.Info().Str("form", def.ID).Str("reference_id", receipt.ReferenceID).Msg("submission accepted")
	writeJSON(w, status, receipt)
}

func (s *Server) receipt(key string) (submission.Receipt, bool) {
	s.receiptsMu.Lock()
	defer s.receiptsMu.Unlock()
	r, ok := s.receipts[key]
	return r.Receipt, ok
}

// storeReceipt keeps the first receipt issued for key. A concurrent
// duplicate gets that one back instead of its own.
func (s *Server) storeReceipt(key string, r submission.Receipt) (submission.Receipt, bool) {
	s.receiptsMu.Lock()
	defer s.receiptsMu.Unlock()
	if prev, ok := s.receipts[key]; ok {
		return prev.Receipt, true
	}
	s.receipts[key] = storedReceipt{Receipt: r, stored: s.sessions.now()}
	return r, false
}

type storedReceipt struct {
	submission.Receipt
	stored time.Time
}

// expireReceipts drops receipts stored before cutoff. A later request with
// the same key is accepted as new.
func (s *Server) expireReceipts(cutoff time.Time) int {
	s.receiptsMu.Lock()
	defer s.receiptsMu.Unlock()
	n := 0
	for key, r := range s.receipts {
		if r.stored.Before(cutoff) {
			delete(s.receipts, key)
			n++
		}
	}
	return n
}
