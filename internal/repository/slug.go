package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Slugify lowercases a name and reduces it to hyphen-separated
// alphanumeric runs: "Sky High Media Ltd." -> "sky-high-media-ltd".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // avoid a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// NextSlug resolves a slug collision by suffixing -2, -3, ... past the
// highest suffix already taken.  existing must contain only slugs equal
// to base or of the form base-N; other values are ignored.
func NextSlug(base string, existing []string) string {
	if len(existing) == 0 {
		return base
	}
	highest := 0
	for _, s := range existing {
		if s == base {
			if highest < 1 {
				highest = 1
			}
			continue
		}
		suffix, ok := strings.CutPrefix(s, base+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest {
			highest = n
		}
	}
	if highest == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, highest+1)
}
