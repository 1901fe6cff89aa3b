package fields

import "strings"

// FormatDate groups the digits of raw into DD/MM/YYYY as the user types.
// Non-digits are dropped and input beyond eight digits is ignored.
func FormatDate(raw string) string {
	return group(digitsOf(raw, 8), []int{2, 4}, '/')
}

// FormatTime groups the digits of raw into HH:MM.
func FormatTime(raw string) string {
	return group(digitsOf(raw, 4), []int{2}, ':')
}

func digitsOf(raw string, limit int) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

func group(digits string, cuts []int, sep byte) string {
	var b strings.Builder
	for i := 0; i < len(digits); i++ {
		for _, c := range cuts {
			if i == c {
				b.WriteByte(sep)
			}
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}
