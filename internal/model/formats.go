package model

import (
	"fmt"
	"sort"
)

// Named formats expand into concrete rules during Build so validators only
// deal with rule kinds.
var formats = map[string][]Rule{
	"aadhaar": {{Kind: RuleDigits, Params: map[string]string{"length": "12"}, Message: "must be a 12 digit Aadhaar number"}},
	"mobile":  {{Kind: RuleDigits, Params: map[string]string{"length": "10"}, Message: "must be a 10 digit mobile number"}},
	"pincode": {{Kind: RuleDigits, Params: map[string]string{"length": "6"}, Message: "must be a 6 digit pincode"}},
	"pan":     {{Kind: RulePAN, Message: "must look like ABCDE1234F"}},
	"date":    {{Kind: RuleDate, Message: "must be a date in DD/MM/YYYY format"}},
	"dob": {
		{Kind: RuleDate, Message: "must be a date in DD/MM/YYYY format"},
		{Kind: RuleNotFuture, Message: "cannot be in the future"},
	},
	"time":   {{Kind: RuleTime, Message: "must be a time in HH:MM format"}},
	"amount": {{Kind: RuleNumber, Message: "must be a whole number"}},
	"epic": {{Kind: RulePattern, Params: map[string]string{"pattern": `^[A-Z]{3}[0-9]{7}$`}, Message: "must be 3 letters followed by 7 digits"}},
	"gstin": {{Kind: RulePattern, Params: map[string]string{
		"pattern": `^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`,
	}, Message: "must be a valid 15 character GSTIN"}},
	"ifsc": {{Kind: RulePattern, Params: map[string]string{"pattern": `^[A-Z]{4}0[A-Z0-9]{6}$`}, Message: "must be a valid IFSC code"}},
}

var ruleKinds = map[string]bool{
	RuleRequired:  true,
	RuleDigits:    true,
	RulePattern:   true,
	RulePAN:       true,
	RuleDate:      true,
	RuleTime:      true,
	RuleNotFuture: true,
	RuleMinLength: true,
	RuleMaxLength: true,
	RuleNumber:    true,
	RuleLessThan:  true,
}

// Formats lists the named formats accepted in field declarations.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for name := range formats {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func expandFormat(name string) ([]Rule, error) {
	rules, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", name)
	}
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Kind: r.Kind, Message: r.Message, Params: cloneParams(r.Params)}
	}
	return out, nil
}

func cloneParams(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
