package content

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("слово ", n))
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		name   string
		blocks []Block
		want   int
	}{
		{"пусто", nil, 1},
		{"400 слов", []Block{{Type: TypeParagraph, Content: words(250)}, {Type: TypeParagraph, Content: words(150)}}, 2},
		{"401 слово", []Block{{Type: TypeParagraph, Content: words(401)}}, 3},
		{"только параграфы", []Block{{Type: TypeHeading, Content: words(900)}, {Type: TypeQuote, Content: words(900)}}, 1},
	}
	for _, tc := range cases {
		if got := ReadingTime(tc.blocks); got != tc.want {
			t.Errorf("%s: получено %d, ожидалось %d", tc.name, got, tc.want)
		}
	}
}

func TestBuildPreview_EmptyState(t *testing.T) {
	p := BuildPreview([]Block{{ID: "1", Type: TypeParagraph, Content: "  "}})
	if !p.Empty || len(p.Nodes) != 1 || p.Nodes[0].Text != EmptyPreviewText {
		t.Fatalf("ожидалась заглушка, получено %+v", p)
	}
	if p.ReadingTime != 1 {
		t.Fatalf("минимальное время чтения 1, получено %d", p.ReadingTime)
	}
}

func TestBuildPreview_Tree(t *testing.T) {
	p := BuildPreview([]Block{
		{ID: "h", Type: TypeHeading, Content: "Заголовок", Metadata: &Metadata{Level: 9}},
		{ID: "l", Type: TypeList, Content: "• A\n• B", Metadata: &Metadata{ListType: ListOrdered}},
		{ID: "c", Type: TypeCode, Content: "fmt.Println()", Metadata: &Metadata{Language: "go"}},
		{ID: "e", Type: TypeParagraph},
	})
	if p.Empty || len(p.Nodes) != 3 {
		t.Fatalf("ожидалось 3 узла, получено %d", len(p.Nodes))
	}
	if p.Nodes[0].Tag != "h6" || p.Nodes[0].Attrs[0].Value != "h" {
		t.Fatalf("заголовок: %+v", p.Nodes[0])
	}
	if p.Nodes[1].Tag != "ol" || len(p.Nodes[1].Children) != 2 || p.Nodes[1].Children[1].Text != "B" {
		t.Fatalf("список: %+v", p.Nodes[1])
	}
	code := p.Nodes[2].Children[0]
	if code.Tag != "code" || code.Attrs[0].Value != "language-go" {
		t.Fatalf("код: %+v", code)
	}
}

func TestPreviewComponent_EscapesText(t *testing.T) {
	p := BuildPreview([]Block{
		{ID: "x", Type: TypeParagraph, Content: "<b>жирный</b>"},
		{ID: "i", Type: TypeImage, Content: "/uploads/a.png", Metadata: &Metadata{Caption: "подпись"}},
	})

	var buf bytes.Buffer
	if err := p.Component().Render(context.Background(), &buf); err != nil {
		t.Fatalf("рендер: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<b>") {
		t.Fatalf("текст должен экранироваться: %s", out)
	}
	if !strings.Contains(out, `<img src="/uploads/a.png" alt="a" loading="lazy">`) {
		t.Fatalf("нет картинки: %s", out)
	}
	if strings.Contains(out, "</img>") {
		t.Fatal("img — пустой элемент")
	}
	if !strings.Contains(out, "<figcaption>подпись</figcaption>") {
		t.Fatalf("нет подписи: %s", out)
	}
}
