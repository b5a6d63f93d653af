package content

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// PlainText достаёт видимый текст из HTML-фрагмента (script/style пропускаются).
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF или битая разметка: отдаём то, что успели прочитать
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}

func isRawTag(name string) bool { return name == "script" || name == "style" }

// Excerpt — первые max символов текста поста (без кода и картинок), по границе слова.
func Excerpt(blocks []Block, max int) string {
	textual := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == TypeCode || b.Type == TypeImage {
			continue
		}
		textual = append(textual, b)
	}
	return Truncate(PlainText(RenderSafeHTML(textual)), max)
}

func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	cut := string(r[:max])
	// режем по границе слова, если обрезка пришлась на середину слова
	if r[max] != ' ' {
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}
