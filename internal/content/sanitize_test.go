package content

import (
	"encoding/json"
	"testing"
)

func TestSanitizeBlocks(t *testing.T) {
	in := []Block{
		{ID: "a", Type: TypeParagraph, Content: "<b>Привет</b> мир<script>alert(1)</script>"},
		{ID: "a", Type: TypeParagraph, Content: "a < b"},
		{Type: TypeImage, Content: "javascript:alert(1)"},
		{ID: "c", Type: TypeCode, Content: "<div>как есть</div>"},
		{ID: "h", Type: TypeHeading, Content: "H", Metadata: &Metadata{Level: 12, Alignment: "diagonal"}},
		{ID: "x", Type: "widget", Content: "W"},
		{ID: "lt", Type: TypeParagraph, Content: "if a<b then swap"},
		{ID: "gt", Type: TypeQuote, Content: "x <y and z> w"},
		{ID: "nl", Type: TypeList, Content: "один\r\nдва\x00"},
	}

	out := SanitizeBlocks(in)
	if len(out) != len(in) {
		t.Fatalf("количество блоков изменилось: %d", len(out))
	}
	// текст блока литеральный: разметку экранирует рендерер
	if out[0].Content != in[0].Content {
		t.Fatalf("текст блока изменён: %q", out[0].Content)
	}
	if out[1].ID == "a" || out[1].ID == "" {
		t.Fatalf("дубликат id должен получить новый id: %q", out[1].ID)
	}
	if out[1].Content != "a < b" {
		t.Fatalf("текст не должен оставаться экранированным: %q", out[1].Content)
	}
	if out[2].ID == "" || out[2].Content != "" {
		t.Fatalf("небезопасный URL картинки: %+v", out[2])
	}
	if out[3].Content != "<div>как есть</div>" || out[3].Metadata.Language != "text" {
		t.Fatalf("код: %+v", out[3])
	}
	if out[4].Metadata.Level != 6 || out[4].Metadata.Alignment != "" {
		t.Fatalf("метаданные заголовка: %+v", out[4].Metadata)
	}
	if out[5].Type != TypeParagraph {
		t.Fatalf("неизвестный тип: %q", out[5].Type)
	}

	if out[6].Content != "if a<b then swap" {
		t.Fatalf("текст после '<' потерян: %q", out[6].Content)
	}
	if out[7].Content != "x <y and z> w" {
		t.Fatalf("текст в угловых скобках потерян: %q", out[7].Content)
	}
	if out[8].Content != "один\nдва" {
		t.Fatalf("переводы строк не нормализованы: %q", out[8].Content)
	}

	if in[1].ID != "a" || in[2].ID != "" || in[8].Content != "один\r\nдва\x00" {
		t.Fatal("вход не должен изменяться")
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"<b>Привет</b> мир<script>alert(1)</script>": "Привет мир",
		"строка<br>":                                 "строка",
		"if a<b then swap":                           "if a<b then swap",
		"x <y and z> w":                              "x <y and z> w",
		"<b>жирный":                                  "<b>жирный",
		"<i>a</b>":                                   "<i>a</b>",
		"a < b && c > d":                             "a < b && c > d",
		"Tom &amp; Jerry":                            "Tom &amp; Jerry",
		"<p>Tom &amp; Jerry</p>":                     "Tom & Jerry",
	}
	for in, want := range cases {
		if got := SanitizeText(in); got != want {
			t.Errorf("SanitizeText(%q) = %q, ожидали %q", in, got, want)
		}
	}
}

func TestSanitizeBlocks_SeedsEmptyDocument(t *testing.T) {
	out := SanitizeBlocks(nil)
	if len(out) != 1 || out[0].Type != TypeParagraph {
		t.Fatalf("получено %+v", out)
	}
}

func TestSafeURL(t *testing.T) {
	cases := map[string]string{
		"/uploads/a.jpg":        "/uploads/a.jpg",
		"https://cdn.io/a.png":  "https://cdn.io/a.png",
		"//evil.io/a.png":       "",
		"data:image/png;base64": "",
		"ftp://host/a.png":      "",
		"  ":                    "",
	}
	for in, want := range cases {
		if got := SafeURL(in); got != want {
			t.Errorf("SafeURL(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}

func TestSanitizeTranslations_SkipsMalformed(t *testing.T) {
	raw := map[string]json.RawMessage{
		"ES": json.RawMessage(`{"title":"Hola <i>Mundo</i>","content":[{"id":"1","type":"paragraph","content":"Texto"}]}`),
		"xx": json.RawMessage(`{"title":"?"}`),
		"fr": json.RawMessage(`"texte"`),
		"de": json.RawMessage(`[1,2]`),
		"en": json.RawMessage(`{"title": 5}`),
	}

	out := SanitizeTranslations(raw, []string{"en", "es", "fr", "de"})
	if len(out) != 1 {
		t.Fatalf("ожидалась одна локаль, получено %v", out)
	}
	es, ok := out["es"]
	if !ok {
		t.Fatal("нет es")
	}
	if es.Title != "Hola Mundo" || es.Slug != "hola-mundo" {
		t.Fatalf("перевод: %+v", es)
	}
	if len(es.Content) != 1 || es.Content[0].Content != "Texto" {
		t.Fatalf("контент перевода: %+v", es.Content)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":                "hello-world",
		"  Crème Brûlée -- Recipe  ":   "creme-brulee-recipe",
		"Go 1.24 release notes":        "go-1-24-release-notes",
		"---":                          "",
		"already-a-slug":               "already-a-slug",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	blocks := []Block{
		{Type: TypeHeading, Content: "Заголовок"},
		{Type: TypeCode, Content: "code()"},
		{Type: TypeParagraph, Content: "Один два три четыре"},
	}
	if got := Excerpt(blocks, 200); got != "Заголовок Один два три четыре" {
		t.Fatalf("получено %q", got)
	}
	if got := Excerpt(blocks, 14); got != "Заголовок Один…" {
		t.Fatalf("обрезка: %q", got)
	}
}
