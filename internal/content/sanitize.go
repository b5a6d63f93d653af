package content

import (
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var strictPolicy = bluemonday.StrictPolicy()

var alignments = map[string]bool{"left": true, "center": true, "right": true, "justify": true}

var voidAtoms = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true, atom.Embed: true,
	atom.Hr: true, atom.Img: true, atom.Input: true, atom.Link: true, atom.Meta: true,
	atom.Source: true, atom.Track: true, atom.Wbr: true,
}

// SanitizeText снимает вставленную HTML-разметку с однострочных полей.
// Разметкой считается только ввод из известных тегов с парными закрывающими;
// всё остальное ("a<b", "x <y and z> w") литеральный текст и не трогается.
// bluemonday экранирует сущности, поэтому результат раскодируется обратно:
// экранирование делает рендерер.
func SanitizeText(s string) string {
	s = NormalizeText(s)
	if !isMarkup(s) {
		return s
	}
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// NormalizeText приводит переводы строк к \n и выбрасывает управляющие
// символы, кроме \n и \t. Больше ничего не меняет.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// isMarkup: хотя бы один тег, все теги известны HTML, все незакрытые
// (кроме void) закрыты в правильном порядке.
func isMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := nethtml.NewTokenizer(strings.NewReader(s))
	var open []atom.Atom
	tags := 0
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return z.Err() == io.EOF && tags > 0 && len(open) == 0
		case nethtml.StartTagToken:
			a := tagAtom(z)
			if a == 0 {
				return false
			}
			tags++
			if !voidAtoms[a] {
				open = append(open, a)
			}
		case nethtml.SelfClosingTagToken:
			if tagAtom(z) == 0 {
				return false
			}
			tags++
		case nethtml.EndTagToken:
			a := tagAtom(z)
			if a == 0 || len(open) == 0 || open[len(open)-1] != a {
				return false
			}
			open = open[:len(open)-1]
		}
	}
}

func tagAtom(z *nethtml.Tokenizer) atom.Atom {
	name, _ := z.TagName()
	return atom.Lookup(name)
}

// SafeURL пропускает только http(s) и пути от корня сайта.
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// SanitizeBlocks готовит блоки, пришедшие извне, к сохранению:
// нормализует текст, проверяет URL картинок и метаданные,
// выдаёт id блокам без id и дублям. Текст блоков литеральный и
// разметку не теряет: её экранирует рендерер. Код хранится как есть.
func SanitizeBlocks(in []Block) []Block {
	if len(in) == 0 {
		return Seed()
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]Block, 0, len(in))
	for _, b := range in {
		b = cloneBlock(b)

		b.ID = strings.TrimSpace(b.ID)
		if _, dup := seen[b.ID]; b.ID == "" || dup {
			b.ID = NewID()
		}
		seen[b.ID] = struct{}{}

		if b.Type != "" && !b.Type.Valid() {
			b.Type = TypeParagraph
		}

		switch b.Type {
		case TypeImage:
			b.Content = SafeURL(b.Content)
		case TypeCode:
		default:
			b.Content = NormalizeText(b.Content)
		}

		b.Metadata = sanitizeMetadata(b.Type, b.Metadata)
		out = append(out, b)
	}
	return out
}

func sanitizeMetadata(t BlockType, m *Metadata) *Metadata {
	if m == nil {
		if t == TypeHeading || t == TypeList || t == TypeCode {
			return DefaultMetadata(t)
		}
		return nil
	}
	c := *m
	c.Caption = strings.TrimSpace(NormalizeText(c.Caption))
	c.Alt = strings.TrimSpace(NormalizeText(c.Alt))
	c.FontSize = strings.TrimSpace(NormalizeText(c.FontSize))
	c.FontWeight = strings.TrimSpace(NormalizeText(c.FontWeight))
	if !alignments[c.Alignment] {
		c.Alignment = ""
	}
	c.Language = cleanLanguage(c.Language)

	switch t {
	case TypeHeading:
		c.Level = ClampLevel(c.Level)
	case TypeList:
		if c.ListType != ListOrdered {
			c.ListType = ListUnordered
		}
	case TypeCode:
		if c.Language == "" {
			c.Language = DefaultCodeLanguage
		}
	}
	return &c
}

func cleanLanguage(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '#' || r == '-' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
