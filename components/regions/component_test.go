package regions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

func serve(t *testing.T, c *Component, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_EmptyQueryListsEverything(t *testing.T) {
	rec := serve(t, New(), http.MethodGet, "/options/states")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 36 {
		t.Fatalf("expected 36 options, got %d", len(payload.Data))
	}
}

func TestHandler_SearchLabelsUnionTerritories(t *testing.T) {
	rec := serve(t, New(), http.MethodGet, "/options/states?q=del&limit=5")

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := []Option{{Value: "Delhi", Label: "Delhi (UT)", Code: "DL"}}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_KindFilter(t *testing.T) {
	rec := serve(t, New(), http.MethodGet, "/options/states?kind=UT")

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 8 {
		t.Fatalf("expected 8 union territories, got %d", len(payload.Data))
	}
}

func TestHandler_RejectsBadParameters(t *testing.T) {
	for _, target := range []string{
		"/options/states?kind=province",
		"/options/states?limit=0",
		"/options/states?limit=ten",
	} {
		if rec := serve(t, New(), http.MethodGet, target); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_LimitIsCapped(t *testing.T) {
	regions := make([]Region, 0, MaxLimit+10)
	for i := range MaxLimit + 10 {
		regions = append(regions, Region{Code: "R" + string(rune('A'+i%26)), Name: "Region", Kind: KindState})
	}
	rec := serve(t, New(WithRegions(regions)), http.MethodGet, "/options/states?limit=500")

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != MaxLimit {
		t.Fatalf("expected %d options, got %d", MaxLimit, len(payload.Data))
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rec := serve(t, New(), http.MethodPost, "/options/states")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	rec := serve(t, New(), http.MethodHead, "/options/states")

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200, got %d with %q", rec.Code, rec.Body.String())
	}
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New().RegisterRoutes(mux, "/api/v1/")
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	if pattern != "/api/v1/options/states" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/options/states?q=goa", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Goa"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	if _, err := New(WithRoutePath("states")).RegisterRoutes(nil, ""); err == nil {
		t.Fatalf("expected an error for a nil mux")
	}
}
