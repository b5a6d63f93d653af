package content

import (
	"html"
	"strconv"
	"strings"
)

// RenderHTML сериализует блоки в HTML без экранирования.
// Текст блоков литеральный, поэтому только для доверенного содержимого;
// публичные страницы рендерятся через RenderSafeHTML.
func RenderHTML(blocks []Block) string {
	return render(blocks, func(s string) string { return s })
}

// RenderSafeHTML — та же разметка, но весь текст и атрибуты экранируются.
func RenderSafeHTML(blocks []Block) string {
	return render(blocks, html.EscapeString)
}

func render(blocks []Block, esc func(string) string) string {
	var sb strings.Builder
	for _, b := range blocks {
		if !Renderable(b) {
			continue
		}
		writeBlock(&sb, b.Variant(), esc)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, v Variant, esc func(string) string) {
	switch v := v.(type) {
	case Heading:
		tag := "h" + strconv.Itoa(v.Level)
		sb.WriteString("<" + tag + ">" + esc(v.Text) + "</" + tag + ">")
	case Image:
		sb.WriteString(`<figure><img src="` + esc(v.URL) + `" alt="` + esc(v.Alt) + `" loading="lazy">`)
		if v.Caption != "" {
			sb.WriteString("<figcaption>" + esc(v.Caption) + "</figcaption>")
		}
		sb.WriteString("</figure>")
	case Quote:
		sb.WriteString("<blockquote>" + esc(v.Text) + "</blockquote>")
	case List:
		tag := "ul"
		if v.Ordered {
			tag = "ol"
		}
		sb.WriteString("<" + tag + ">")
		for _, it := range v.Items {
			sb.WriteString("<li>" + esc(it) + "</li>")
		}
		sb.WriteString("</" + tag + ">")
	case Code:
		sb.WriteString(`<pre><code class="language-` + esc(v.Language) + `">` + esc(v.Source) + "</code></pre>")
	case Paragraph:
		sb.WriteString("<p>" + esc(v.Text) + "</p>")
	}
}
