package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/documents"
	"github.com/goliatone/go-formwizard/pkg/fields"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type formSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Prefix      string `json:"prefix"`
	Steps       int    `json:"steps"`
	Editable    bool   `json:"editable"`
}

type tokenRequest struct {
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type createRequest struct {
	Form string `json:"form"`
}

type fieldRequest struct {
	Value any `json:"value"`
}

type transitionResponse struct {
	wizard.Transition
	Snapshot wizard.Snapshot `json:"snapshot"`
}

type stepErrorResponse struct {
	errorBody
	Snapshot wizard.Snapshot `json:"snapshot"`
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	subject := strings.TrimSpace(s.clean.Text(req.Subject))
	if subject == "" {
		subject = uuid.NewString()
	}
	token, expires, err := s.issuer.Issue(subject, s.clean.Text(req.Name))
	if err != nil {
		s.logger.Error().Err(err).Msg("issue token")
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, ExpiresAt: expires.UTC()})
}

func (s *Server) listForms(w http.ResponseWriter, _ *http.Request) {
	defs := s.catalog.List()
	out := make([]formSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, formSummary{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Prefix:      def.Prefix,
			Steps:       def.TotalSteps(),
			Editable:    def.Editable,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) formSchema(w http.ResponseWriter, r *http.Request) {
	def, ok := s.formOf(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown form")
		return
	}
	raw, err := openapi.FormSchema(def)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, raw)
}

func (s *Server) document(w http.ResponseWriter, _ *http.Request) {
	raw, err := openapi.Document(s.catalog, openapi.Info{
		Title:    "Form wizard submissions",
		Version:  s.version,
		BasePath: s.basePath,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, raw)
}

func writeRaw(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) createWizard(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	def, ok := s.catalog.Get(req.Form)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown form %q", req.Form))
		return
	}
	wz := wizard.New(def,
		wizard.WithID(uuid.NewString()),
		wizard.WithSubmitter(s.submitter),
		wizard.WithObserver(s.metrics),
		wizard.WithLogger(s.logger),
		wizard.WithChecks(s.checks),
		wizard.WithChoiceResolver(s.regions.Resolver()),
	)
	s.sessions.put(wz)
	s.logger.Info().Str("form", def.ID).Str("wizard", wz.ID()).Msg("wizard opened")

	w.Header().Set("Location", s.basePath+"/wizards/"+wz.ID())
	writeJSON(w, http.StatusCreated, wz.Snapshot())
}

// withWizard resolves the {id} parameter.
func (s *Server) withWizard(w http.ResponseWriter, r *http.Request) (*wizard.Wizard, bool) {
	wz, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return wz, true
}

// fail writes err with its mapped status. Step errors carry the failed
// result and the unchanged snapshot.
func (s *Server) fail(w http.ResponseWriter, wz *wizard.Wizard, err error) {
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		writeJSON(w, http.StatusUnprocessableEntity, stepErrorResponse{
			errorBody: errorBody{
				Error:  stepErr.Result.Reason,
				Code:   stepErr.Result.Code,
				Target: stepErr.Result.Target,
				Step:   stepErr.Step,
			},
			Snapshot: wz.Snapshot(),
		})
		return
	}
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("wizard", wz.ID()).Msg("wizard request failed")
	}
	writeError(w, status, err.Error())
}

func (s *Server) getWizard(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, wz.Snapshot())
}

func (s *Server) deleteWizard(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, errSessionNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setField(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "field")
	var err error
	switch v := req.Value.(type) {
	case bool:
		err = wz.SetField(id, fields.Bool(v))
	case string:
		err = wz.SetFieldRaw(id, s.clean.Text(v))
	case json.Number:
		err = wz.SetFieldRaw(id, v.String())
	case nil:
		err = wz.SetFieldRaw(id, "")
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported value type %T", v))
		return
	}
	if err != nil {
		s.fail(w, wz, err)
		return
	}
	writeJSON(w, http.StatusOK, wz.Snapshot())
}

func (s *Server) attach(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	var d documents.Descriptor
	if err := readJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.Name = s.clean.Text(d.Name)
	if strings.TrimSpace(d.Name) == "" {
		writeError(w, http.StatusBadRequest, "descriptor name is required")
		return
	}
	if err := wz.Attach(chi.URLParam(r, "slot"), d); err != nil {
		s.fail(w, wz, err)
		return
	}
	writeJSON(w, http.StatusOK, wz.Snapshot())
}

func (s *Server) detach(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	var index *int
	if raw := r.URL.Query().Get("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be an integer")
			return
		}
		index = documents.Index(n)
	}
	if err := wz.Detach(chi.URLParam(r, "slot"), index); err != nil {
		s.fail(w, wz, err)
		return
	}
	writeJSON(w, http.StatusOK, wz.Snapshot())
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	t, err := wz.Advance(r.Context())
	if err != nil {
		s.fail(w, wz, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse{Transition: t, Snapshot: wz.Snapshot()})
}

func (s *Server) retreat(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	t, err := wz.Retreat()
	if err != nil {
		s.fail(w, wz, err)
		return
	}
	if t.Exit {
		s.sessions.remove(wz.ID())
		s.logger.Info().Str("wizard", wz.ID()).Msg("wizard exited")
	}
	writeJSON(w, http.StatusOK, transitionResponse{Transition: t, Snapshot: wz.Snapshot()})
}

func (s *Server) beginEdit(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "step must be an integer")
		return
	}
	if err := wz.BeginEdit(step); err != nil {
		s.fail(w, wz, err)
		return
	}
	writeJSON(w, http.StatusOK, wz.Snapshot())
}

func (s *Server) acknowledgement(w http.ResponseWriter, r *http.Request) {
	wz, ok := s.withWizard(w, r)
	if !ok {
		return
	}
	rec, submitted := wz.Record()
	if !submitted {
		writeError(w, http.StatusConflict, "form has not been submitted")
		return
	}
	out, err := s.pages.Acknowledgement(wz.Definition(), &rec)
	if err != nil {
		s.fail(w, wz, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) formOf(r *http.Request) (model.Definition, bool) {
	return s.catalog.Get(chi.URLParam(r, "form"))
}
