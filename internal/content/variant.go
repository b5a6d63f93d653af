package content

import (
	"path"
	"strings"
)

// Variant — типизированное представление блока. Рендереры работают только с ним.
type Variant interface {
	blockType() BlockType
}

type Paragraph struct{ Text string }

type Heading struct {
	Text  string
	Level int
}

type Image struct {
	URL     string
	Alt     string
	Caption string
}

type Quote struct{ Text string }

type List struct {
	Items   []string
	Ordered bool
}

type Code struct {
	Source   string
	Language string
}

func (Paragraph) blockType() BlockType { return TypeParagraph }
func (Heading) blockType() BlockType   { return TypeHeading }
func (Image) blockType() BlockType     { return TypeImage }
func (Quote) blockType() BlockType     { return TypeQuote }
func (List) blockType() BlockType      { return TypeList }
func (Code) blockType() BlockType      { return TypeCode }

// Variant раскладывает плоский блок в payload нужного типа.
// Неизвестный тип становится параграфом.
func (b Block) Variant() Variant {
	m := b.Metadata
	if m == nil {
		m = &Metadata{}
	}
	switch b.Type {
	case TypeHeading:
		return Heading{Text: b.Content, Level: ClampLevel(m.Level)}
	case TypeImage:
		alt := strings.TrimSpace(m.Alt)
		if alt == "" {
			alt = AltFromURL(b.Content)
		}
		return Image{URL: strings.TrimSpace(b.Content), Alt: alt, Caption: strings.TrimSpace(m.Caption)}
	case TypeQuote:
		return Quote{Text: b.Content}
	case TypeList:
		return List{Items: ListItems(b.Content), Ordered: m.ListType == ListOrdered}
	case TypeCode:
		lang := strings.TrimSpace(m.Language)
		if lang == "" {
			lang = DefaultCodeLanguage
		}
		return Code{Source: b.Content, Language: lang}
	default:
		return Paragraph{Text: b.Content}
	}
}

// ClampLevel: 0 (нет в метаданных) → уровень по умолчанию, остальное в [1,6].
func ClampLevel(level int) int {
	switch {
	case level == 0:
		return DefaultHeadingLevel
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}

// ListItems режет содержимое списка по строкам и снимает маркеры •, -, *.
func ListItems(s string) []string {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(stripMarker(line))
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

func stripMarker(line string) string {
	for _, m := range []string{"•", "-", "*"} {
		if strings.HasPrefix(line, m) {
			return line[len(m):]
		}
	}
	return line
}

// AltFromURL строит alt из имени файла: "/uploads/team-photo_2024.jpg" → "team photo 2024".
func AltFromURL(raw string) string {
	u := strings.TrimSpace(raw)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	name := path.Base(u)
	if name == "." || name == "/" {
		return "image"
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "image"
	}
	return name
}
