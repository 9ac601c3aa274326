package checkout

import "strings"

// NormalizePhone best-efforts a locally formatted Bangladeshi number
// into E.164. Anything it cannot recognize is returned stripped of
// separators and left for validation to reject.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case ' ', '-', '(', ')':
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	switch {
	case strings.HasPrefix(s, "+"):
		return s
	case strings.HasPrefix(s, "880"):
		return "+" + s
	case strings.HasPrefix(s, "01") && len(s) == 11:
		return "+880" + s[1:]
	}
	return s
}
