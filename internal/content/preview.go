package content

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

const EmptyPreviewText = "Начните писать, чтобы увидеть предпросмотр"

type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Node — элемент дерева предпросмотра. Text выводится после открывающего тега, до детей.
type Node struct {
	Tag      string  `json:"tag"`
	Attrs    []Attr  `json:"attrs,omitempty"`
	Text     string  `json:"text,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

type Preview struct {
	Nodes       []*Node `json:"nodes"`
	WordCount   int     `json:"wordCount"`
	ReadingTime int     `json:"readingTime"`
	Empty       bool    `json:"empty"`
}

// BuildPreview строит дерево живого предпросмотра редактора.
func BuildPreview(blocks []Block) Preview {
	p := Preview{WordCount: WordCount(blocks)}
	p.ReadingTime = readingMinutes(p.WordCount)

	for _, b := range blocks {
		if !Renderable(b) {
			continue
		}
		n := previewNode(b.Variant())
		n.Attrs = append([]Attr{{Key: "data-block-id", Value: b.ID}}, n.Attrs...)
		if b.Metadata != nil && b.Metadata.Alignment != "" {
			n.Attrs = append(n.Attrs, Attr{Key: "class", Value: "text-" + b.Metadata.Alignment})
		}
		p.Nodes = append(p.Nodes, n)
	}

	if len(p.Nodes) == 0 {
		p.Empty = true
		p.Nodes = []*Node{{
			Tag:   "div",
			Attrs: []Attr{{Key: "class", Value: "preview-empty"}},
			Text:  EmptyPreviewText,
		}}
	}
	return p
}

func previewNode(v Variant) *Node {
	switch v := v.(type) {
	case Heading:
		return &Node{Tag: "h" + strconv.Itoa(v.Level), Text: v.Text}
	case Image:
		fig := &Node{Tag: "figure", Children: []*Node{{
			Tag: "img",
			Attrs: []Attr{
				{Key: "src", Value: v.URL},
				{Key: "alt", Value: v.Alt},
				{Key: "loading", Value: "lazy"},
			},
		}}}
		if v.Caption != "" {
			fig.Children = append(fig.Children, &Node{Tag: "figcaption", Text: v.Caption})
		}
		return fig
	case Quote:
		return &Node{Tag: "blockquote", Text: v.Text}
	case List:
		n := &Node{Tag: "ul"}
		if v.Ordered {
			n.Tag = "ol"
		}
		for _, it := range v.Items {
			n.Children = append(n.Children, &Node{Tag: "li", Text: it})
		}
		return n
	case Code:
		return &Node{Tag: "pre", Children: []*Node{{
			Tag:   "code",
			Attrs: []Attr{{Key: "class", Value: "language-" + v.Language}},
			Text:  v.Source,
		}}}
	case Paragraph:
		return &Node{Tag: "p", Text: v.Text}
	}
	return &Node{Tag: "p"}
}

var voidTags = map[string]bool{"img": true, "br": true, "hr": true}

// Component рендерит дерево через templ; текст и атрибуты экранируются.
func (p Preview) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<article class="post-preview">`)
		for _, n := range p.Nodes {
			writeNode(&sb, n)
		}
		sb.WriteString("</article>")
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func writeNode(sb *strings.Builder, n *Node) {
	sb.WriteString("<" + n.Tag)
	for _, a := range n.Attrs {
		sb.WriteString(" " + a.Key + `="` + templ.EscapeString(a.Value) + `"`)
	}
	sb.WriteString(">")
	if voidTags[n.Tag] {
		return
	}
	sb.WriteString(templ.EscapeString(n.Text))
	for _, c := range n.Children {
		writeNode(sb, c)
	}
	sb.WriteString("</" + n.Tag + ">")
}
