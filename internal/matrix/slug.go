package matrix

import "strings"

// Slugify normalizes a resolved attribute value into the key it is grouped
// and columned under: lowercase, alphanumeric runs joined by single
// hyphens. Mirrors how the storefront sanitizes titles, so slugs stay
// stable across both sides of a sync.
func Slugify(value string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
