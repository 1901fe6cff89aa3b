package regions

import "strings"

// Query narrows the list. The zero value matches everything.
type Query struct {
	Text  string
	Kind  Kind
	Limit int
}

// Filter returns the regions matching q. A text that equals a code or
// prefixes a name ranks before one found inside a name; ties keep list
// order. A negative limit matches nothing.
func Filter(regions []Region, q Query) []Region {
	if q.Limit < 0 {
		return nil
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	var exact, inner []Region
	for _, r := range regions {
		if q.Kind != "" && r.Kind != q.Kind {
			continue
		}
		name := strings.ToLower(r.Name)
		switch {
		case text == "" || strings.EqualFold(r.Code, text) || strings.HasPrefix(name, text):
			exact = append(exact, r)
		case strings.Contains(name, text):
			inner = append(inner, r)
		}
	}
	out := append(exact, inner...)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

