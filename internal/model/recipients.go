package model

import "strings"

// SplitRecipients normalizes a comma-separated recipient string into a
// recipient list: split, trim, drop empties. `"a, , b,"` becomes
// ["a","b"]. Order is preserved and duplicates are kept.
func SplitRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
