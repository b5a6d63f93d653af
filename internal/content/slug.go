package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify: нижний регистр, диакритика снимается, любая серия
// не-[a-z0-9] превращается в один дефис, дефисы по краям обрезаются.
func Slugify(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = cases.Lower(language.Und).String(folded)

	var sb strings.Builder
	hyphen := true // не даём слагу начинаться с дефиса
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen {
			sb.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
