package regions

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/regions.txt
var dataFS embed.FS

const defaultListPath = "data/regions.txt"

// ChoiceSource is the choiceSource name form definitions use for this list.
const ChoiceSource = "states"

// Kind distinguishes states from union territories.
type Kind string

const (
	KindState Kind = "state"
	KindUT    Kind = "ut"
)

// Region is one state or union territory.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Label is the display text: union territories carry a (UT) suffix.
func (r Region) Label() string {
	if r.Kind == KindUT {
		return r.Name + " (UT)"
	}
	return r.Name
}

var (
	defaultOnce    sync.Once
	defaultRegions []Region
	defaultErr     error
)

// DefaultRegions returns a copy of the embedded list sorted by name.
func DefaultRegions() ([]Region, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		defaultRegions, defaultErr = LoadRegions(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Region{}, defaultRegions...), nil
}

// LoadRegions reads code|name|kind lines. Blank lines and # comments are
// skipped; duplicate codes keep the first entry.
func LoadRegions(r io.Reader) ([]Region, error) {
	if r == nil {
		return nil, fmt.Errorf("regions: missing reader")
	}

	scanner := bufio.NewScanner(r)
	regions := make([]Region, 0, 40)
	seen := map[string]struct{}{}

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Split(text, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("regions: line %d: want code|name|kind, got %q", line, text)
		}
		region := Region{
			Code: strings.ToUpper(strings.TrimSpace(parts[0])),
			Name: strings.TrimSpace(parts[1]),
			Kind: Kind(strings.ToLower(strings.TrimSpace(parts[2]))),
		}
		if region.Kind != KindState && region.Kind != KindUT {
			return nil, fmt.Errorf("regions: line %d: unknown kind %q", line, parts[2])
		}
		if _, ok := seen[region.Code]; ok {
			continue
		}
		seen[region.Code] = struct{}{}
		regions = append(regions, region)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions, nil
}

// Names returns the region names in list order.
func Names(regions []Region) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.Name)
	}
	return out
}
