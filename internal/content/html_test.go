package content

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestRenderHTML_SkipsEmptyBlocks(t *testing.T) {
	got := RenderHTML([]Block{
		{ID: "1", Type: TypeParagraph, Content: "Hello"},
		{ID: "2", Type: TypeParagraph, Content: ""},
		{ID: "3", Type: TypeQuote, Content: "   "},
		{ID: "4", Content: "без типа"},
	})
	if got != "<p>Hello</p>" {
		t.Fatalf("получено %q", got)
	}
}

func TestRenderHTML_PerType(t *testing.T) {
	cases := []struct {
		name  string
		block Block
		want  string
	}{
		{"heading clamped", Block{Type: TypeHeading, Content: "T", Metadata: &Metadata{Level: 7}}, "<h6>T</h6>"},
		{"heading default", Block{Type: TypeHeading, Content: "T"}, "<h2>T</h2>"},
		{"heading negative", Block{Type: TypeHeading, Content: "T", Metadata: &Metadata{Level: -3}}, "<h1>T</h1>"},
		{"bullets stripped", Block{Type: TypeList, Content: "• A\n• B", Metadata: &Metadata{ListType: ListUnordered}}, "<ul><li>A</li><li>B</li></ul>"},
		{"ordered list", Block{Type: TypeList, Content: "- x\n\n* y", Metadata: &Metadata{ListType: ListOrdered}}, "<ol><li>x</li><li>y</li></ol>"},
		{"quote", Block{Type: TypeQuote, Content: "Q"}, "<blockquote>Q</blockquote>"},
		{"code default language", Block{Type: TypeCode, Content: "a < b"}, `<pre><code class="language-text">a < b</code></pre>`},
		{"code language", Block{Type: TypeCode, Content: "x", Metadata: &Metadata{Language: "go"}}, `<pre><code class="language-go">x</code></pre>`},
		{"unknown type", Block{Type: "callout", Content: "C"}, "<p>C</p>"},
		{
			"image with caption",
			Block{Type: TypeImage, Content: "/uploads/team-photo.jpg", Metadata: &Metadata{Caption: "Команда"}},
			`<figure><img src="/uploads/team-photo.jpg" alt="team photo" loading="lazy"><figcaption>Команда</figcaption></figure>`,
		},
		{
			"image with alt",
			Block{Type: TypeImage, Content: "https://cdn.example.com/a.png?w=1", Metadata: &Metadata{Alt: "Логотип"}},
			`<figure><img src="https://cdn.example.com/a.png?w=1" alt="Логотип" loading="lazy"></figure>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenderHTML([]Block{tc.block}); got != tc.want {
				t.Fatalf("получено %q, ожидалось %q", got, tc.want)
			}
		})
	}
}

func TestRenderHTML_DocumentStructure(t *testing.T) {
	out := RenderHTML([]Block{
		{ID: "1", Type: TypeHeading, Content: "О нас", Metadata: &Metadata{Level: 1}},
		{ID: "2", Type: TypeParagraph, Content: "Первый абзац"},
		{ID: "3", Type: TypeImage, Content: "/uploads/office.webp"},
		{ID: "4", Type: TypeList, Content: "* раз\n* два"},
	})

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("разбор HTML: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "О нас" {
		t.Fatalf("h1: %q", got)
	}
	img := doc.Find("figure img")
	if img.AttrOr("loading", "") != "lazy" || img.AttrOr("alt", "") != "office" {
		t.Fatalf("img атрибуты: loading=%q alt=%q", img.AttrOr("loading", ""), img.AttrOr("alt", ""))
	}
	if n := doc.Find("ul li").Length(); n != 2 {
		t.Fatalf("ожидалось 2 li, получено %d", n)
	}
}

func TestRenderSafeHTML_Escapes(t *testing.T) {
	got := RenderSafeHTML([]Block{
		{Type: TypeParagraph, Content: "<script>x</script>"},
		{Type: TypeImage, Content: `/a.jpg" onerror="x`},
	})
	if strings.Contains(got, "<script>") || strings.Contains(got, `" onerror="`) {
		t.Fatalf("разметка не экранирована: %s", got)
	}
	if !strings.HasPrefix(got, "<p>&lt;script&gt;x&lt;/script&gt;</p>") {
		t.Fatalf("получено %q", got)
	}
}

func TestAltFromURL(t *testing.T) {
	cases := map[string]string{
		"/uploads/team-photo_2024.jpg": "team photo 2024",
		"https://x.io/p/img.png#top":   "img",
		"":                             "image",
		"/uploads/.jpg":                "image",
	}
	for in, want := range cases {
		if got := AltFromURL(in); got != want {
			t.Errorf("AltFromURL(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}
