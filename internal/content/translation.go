package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	OGImage         string   `json:"ogImage,omitempty"`
	CanonicalURL    string   `json:"canonicalUrl,omitempty"`
}

// Translation — переопределение полей поста для одной локали.
// Пустые поля означают «взять из основного поста».
type Translation struct {
	Title     string  `json:"title,omitempty"`
	Slug      string  `json:"slug,omitempty"`
	Excerpt   string  `json:"excerpt,omitempty"`
	HeroImage string  `json:"heroImage,omitempty"`
	Content   []Block `json:"content,omitempty"`
	SEO       *SEO    `json:"seo,omitempty"`
}

func SanitizeSEO(s SEO) SEO {
	out := SEO{
		MetaTitle:       strings.TrimSpace(SanitizeText(s.MetaTitle)),
		MetaDescription: strings.TrimSpace(SanitizeText(s.MetaDescription)),
		OGImage:         SafeURL(s.OGImage),
		CanonicalURL:    SafeURL(s.CanonicalURL),
	}
	for _, k := range s.Keywords {
		if k = strings.TrimSpace(SanitizeText(k)); k != "" {
			out.Keywords = append(out.Keywords, k)
		}
	}
	return out
}

// SanitizeTranslations разбирает карту переводов, пришедшую извне.
// Записи с неподдерживаемой локалью, значением не-объектом или
// не разбираемым JSON молча пропускаются.
func SanitizeTranslations(raw map[string]json.RawMessage, supported []string) map[string]Translation {
	allowed := make(map[string]bool, len(supported))
	for _, l := range supported {
		allowed[strings.ToLower(strings.TrimSpace(l))] = true
	}

	out := make(map[string]Translation, len(raw))
	for key, val := range raw {
		locale := strings.ToLower(strings.TrimSpace(key))
		if !allowed[locale] {
			continue
		}
		v := bytes.TrimSpace(val)
		if len(v) == 0 || v[0] != '{' {
			continue
		}
		var t Translation
		if err := json.Unmarshal(v, &t); err != nil {
			continue
		}
		out[locale] = sanitizeTranslation(t)
	}
	return out
}

func sanitizeTranslation(t Translation) Translation {
	t.Title = strings.TrimSpace(SanitizeText(t.Title))
	t.Excerpt = strings.TrimSpace(SanitizeText(t.Excerpt))
	t.HeroImage = SafeURL(t.HeroImage)
	switch {
	case strings.TrimSpace(t.Slug) != "":
		t.Slug = Slugify(t.Slug)
	case t.Title != "":
		t.Slug = Slugify(t.Title)
	}
	if len(t.Content) > 0 {
		t.Content = SanitizeBlocks(t.Content)
	}
	if t.SEO != nil {
		s := SanitizeSEO(*t.SEO)
		t.SEO = &s
	}
	return t
}
