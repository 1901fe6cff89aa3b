package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/requirements"
)

var (
	panPattern  = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	patternCache sync.Map
)

// IsDigits reports whether value is exactly length ASCII digits.
func IsDigits(value string, length int) bool {
	if len(value) != length {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// IsPAN reports whether value matches five letters, four digits, one letter.
func IsPAN(value string) bool { return panPattern.MatchString(value) }

// IsTime reports whether value is a 24h HH:MM time.
func IsTime(value string) bool { return timePattern.MatchString(value) }

// ParseAmount reads a non-negative whole number, allowing grouping commas
// after the first digit (8,00,000).
func ParseAmount(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("validation: empty amount")
	}
	if trimmed[0] < '0' || trimmed[0] > '9' {
		return 0, fmt.Errorf("validation: %q is not a whole number", value)
	}
	clean := strings.ReplaceAll(trimmed, ",", "")
	for i := 0; i < len(clean); i++ {
		if clean[i] < '0' || clean[i] > '9' {
			return 0, fmt.Errorf("validation: %q is not a whole number", value)
		}
	}
	return strconv.ParseInt(clean, 10, 64)
}

func compiled(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache.Store(pattern, re)
	return re, nil
}

func intParam(rule model.Rule, keys ...string) (int, error) {
	for _, key := range keys {
		if raw, ok := rule.Params[key]; ok {
			return strconv.Atoi(strings.TrimSpace(raw))
		}
	}
	return 0, fmt.Errorf("validation: rule %s needs one of %v", rule.Kind, keys)
}

// applyRule returns the default message suffix when value breaks rule, or ""
// when it passes.
func applyRule(rule model.Rule, value string, today requirements.Date) (string, error) {
	switch rule.Kind {
	case model.RuleRequired:
		return "", nil
	case model.RuleDigits:
		n, err := intParam(rule, "length", "value")
		if err != nil {
			return "", err
		}
		if !IsDigits(value, n) {
			return fmt.Sprintf("must be exactly %d digits", n), nil
		}
	case model.RulePAN:
		if !IsPAN(value) {
			return "must look like ABCDE1234F", nil
		}
	case model.RuleDate:
		if _, err := requirements.ParseDate(value); err != nil {
			return "must be a date in DD/MM/YYYY format", nil
		}
	case model.RuleNotFuture:
		d, err := requirements.ParseDate(value)
		if err == nil && today.Before(d) {
			return "cannot be in the future", nil
		}
	case model.RuleTime:
		if !IsTime(value) {
			return "must be a time in HH:MM format", nil
		}
	case model.RulePattern:
		re, err := compiled(rule.Params["pattern"])
		if err != nil {
			return "", err
		}
		if !re.MatchString(value) {
			return "has an invalid format", nil
		}
	case model.RuleMinLength:
		n, err := intParam(rule, "value", "length")
		if err != nil {
			return "", err
		}
		if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
			return fmt.Sprintf("must be at least %d characters", n), nil
		}
	case model.RuleMaxLength:
		n, err := intParam(rule, "value", "length")
		if err != nil {
			return "", err
		}
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("must be at most %d characters", n), nil
		}
	case model.RuleNumber:
		if _, err := ParseAmount(value); err != nil {
			return "must be a whole number", nil
		}
	case model.RuleLessThan:
		limit, err := strconv.ParseInt(strings.TrimSpace(rule.Params["value"]), 10, 64)
		if err != nil {
			return "", fmt.Errorf("validation: lessThan needs an integer value: %w", err)
		}
		amount, err := ParseAmount(value)
		if err != nil {
			return "must be a whole number", nil
		}
		if amount >= limit {
			return fmt.Sprintf("must be less than %d", limit), nil
		}
	default:
		return "", fmt.Errorf("validation: unknown rule kind %q", rule.Kind)
	}
	return "", nil
}
