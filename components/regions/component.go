package regions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// DefaultRoutePath is where RegisterRoutes mounts the handler.
const DefaultRoutePath = "/options/states"

// MaxLimit caps the limit parameter.
const MaxLimit = 50

// Mux is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Option is one entry of the handler response. Value is the plain name,
// which is what the state fields store.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Component serves a region list over HTTP and as a choice source.
type Component struct {
	routePath string
	regions   []Region
}

// OptionFn configures a Component.
type OptionFn func(*Component)

// WithRoutePath overrides DefaultRoutePath.
func WithRoutePath(path string) OptionFn {
	return func(c *Component) { c.routePath = path }
}

// WithRegions replaces the embedded list.
func WithRegions(regions []Region) OptionFn {
	return func(c *Component) { c.regions = append([]Region(nil), regions...) }
}

// New builds a component over the embedded list unless WithRegions is given.
func New(fns ...OptionFn) *Component {
	c := &Component{routePath: DefaultRoutePath}
	for _, fn := range fns {
		if fn != nil {
			fn(c)
		}
	}
	return c
}

func (c *Component) list() ([]Region, error) {
	if c.regions != nil {
		return c.regions, nil
	}
	return DefaultRegions()
}

// Resolver resolves the "states" choice source to region names. Other
// sources resolve to nil.
func (c *Component) Resolver() func(source string) []string {
	return func(source string) []string {
		if source != ChoiceSource {
			return nil
		}
		regions, err := c.list()
		if err != nil {
			return nil
		}
		return Names(regions)
	}
}

// Resolver is the embedded list's resolver.
func Resolver() func(source string) []string {
	return New().Resolver()
}

// RegisterRoutes mounts the handler under basePath and returns the pattern.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("regions: missing mux")
	}
	pattern := strings.TrimRight(basePath, "/") + "/" + strings.TrimLeft(c.routePath, "/")
	mux.Handle(pattern, c)
	return pattern, nil
}

func (c *Component) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, r, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	params := r.URL.Query()
	q := Query{Text: params.Get("q"), Kind: Kind(strings.ToLower(params.Get("kind")))}
	if q.Kind != "" && q.Kind != KindState && q.Kind != KindUT {
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("kind must be %q or %q", KindState, KindUT)})
		return
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		q.Limit = min(n, MaxLimit)
	}

	regions, err := c.list()
	if err != nil {
		writeJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "region list unavailable"})
		return
	}
	matched := Filter(regions, q)
	out := make([]Option, 0, len(matched))
	for _, region := range matched {
		out = append(out, Option{Value: region.Name, Label: region.Label(), Code: region.Code})
	}
	writeJSON(w, r, http.StatusOK, map[string][]Option{"data": out})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
