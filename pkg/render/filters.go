package render

import (
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formwizard/pkg/validation"
)

var filtersOnce sync.Once

// registerFilters installs the package filters into pongo2's global filter
// table once per process.
func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("rupees") {
			_ = pongo2.RegisterFilter("rupees", filterRupees)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterRupees groups a whole amount the Indian way: 1234567 -> 12,34,567.
// Values that are not amounts pass through unchanged.
func filterRupees(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw := strings.TrimSpace(in.String())
	n, err := validation.ParseAmount(raw)
	if err != nil {
		return pongo2.AsValue(raw), nil
	}
	return pongo2.AsValue(GroupIndian(n)), nil
}

// GroupIndian formats n with lakh and crore separators.
func GroupIndian(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	digits := []byte(strconv.FormatInt(n, 10))
	if len(digits) <= 3 {
		return sign + string(digits)
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{string(head[len(head)-2:])}, groups...)
		head = head[:len(head)-2]
	}
	if len(head) > 0 {
		groups = append([]string{string(head)}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + string(tail)
}
