package expr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/condition"
)

const extrasPrefix = "extras."

// IsExtra reports whether identifier addresses host-provided context rather
// than a form value.
func IsExtra(identifier string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(identifier)), extrasPrefix)
}

// lookup resolves key against the form values, or against the extras when
// it carries the extras. prefix. A flat key such as "address.state" wins
// over a nested walk.
func lookup(ctx condition.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	values := ctx.Values
	if IsExtra(key) {
		values, key = ctx.Extras, strings.TrimSpace(key[len(extrasPrefix):])
	}
	if key == "" || values == nil {
		return nil, false
	}
	if v, ok := values[key]; ok {
		return v, true
	}

	node := values
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := node[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if node, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

// truthy treats nil, false, zero, blank text and empty collections as false.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := coerceNumber(value); ok {
		return n != 0
	}
	return true
}

func coerceBool(value any) (bool, bool) {
	s, isString := value.(string)
	if !isString {
		return truthy(value), value != nil
	}
	switch text := strings.ToLower(strings.TrimSpace(s)); text {
	case "yes", "y", "on":
		return true, true
	case "no", "n", "off":
		return false, true
	default:
		if parsed, err := strconv.ParseBool(text); err == nil {
			return parsed, true
		}
		return text != "", true
	}
}

// coerceNumber accepts Go numbers, json.Number and amount text with rupee
// symbols or digit grouping ("₹ 2,50,000").
func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		text := strings.NewReplacer("₹", "", ",", "", " ", "").Replace(strings.TrimSpace(v))
		if text == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(text, 64)
		return f, err == nil
	}
	return 0, false
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}
