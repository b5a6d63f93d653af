package content

import (
	"strings"

	"github.com/google/uuid"
)

// BlockType — тип блока контента поста.
type BlockType string

const (
	TypeParagraph BlockType = "paragraph"
	TypeHeading   BlockType = "heading"
	TypeImage     BlockType = "image"
	TypeQuote     BlockType = "quote"
	TypeList      BlockType = "list"
	TypeCode      BlockType = "code"
)

var blockTypes = []BlockType{TypeParagraph, TypeHeading, TypeImage, TypeQuote, TypeList, TypeCode}

// Types возвращает все поддерживаемые типы блоков в порядке панели редактора.
func Types() []BlockType {
	out := make([]BlockType, len(blockTypes))
	copy(out, blockTypes)
	return out
}

func (t BlockType) Valid() bool {
	for _, bt := range blockTypes {
		if bt == t {
			return true
		}
	}
	return false
}

type ListType string

const (
	ListOrdered   ListType = "ordered"
	ListUnordered ListType = "unordered"
)

const (
	DefaultHeadingLevel = 2
	DefaultCodeLanguage = "text"
)

// Metadata — плоская форма метаданных блока (как хранится в jsonb и приходит с фронта).
// Значимые поля зависят от типа блока, см. Variant.
type Metadata struct {
	Level      int      `json:"level,omitempty"`
	ListType   ListType `json:"listType,omitempty"`
	Caption    string   `json:"caption,omitempty"`
	Alt        string   `json:"alt,omitempty"`
	Alignment  string   `json:"alignment,omitempty"`
	FontSize   string   `json:"fontSize,omitempty"`
	FontWeight string   `json:"fontWeight,omitempty"`
	Language   string   `json:"language,omitempty"`
}

type Block struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Content  string    `json:"content"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// NewID генерирует идентификатор блока.
func NewID() string { return uuid.NewString() }

// New создаёт блок с дефолтными метаданными для типа.
func New(t BlockType, id string) Block {
	return Block{ID: id, Type: t, Metadata: DefaultMetadata(t)}
}

// Seed — документ по умолчанию: один пустой параграф.
func Seed() []Block {
	return []Block{New(TypeParagraph, NewID())}
}

func DefaultMetadata(t BlockType) *Metadata {
	switch t {
	case TypeHeading:
		return &Metadata{Level: DefaultHeadingLevel}
	case TypeList:
		return &Metadata{ListType: ListUnordered}
	case TypeImage:
		return &Metadata{}
	case TypeCode:
		return &Metadata{Language: DefaultCodeLanguage}
	default:
		return nil
	}
}

// Renderable — false для блоков без типа или с пустым/пробельным содержимым.
// Такие блоки пропускаются при рендере, но остаются в редакторе.
func Renderable(b Block) bool {
	return b.Type != "" && strings.TrimSpace(b.Content) != ""
}

// Equal сравнивает последовательности блоков по значению.
func Equal(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !blockEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func blockEqual(a, b Block) bool {
	if a.ID != b.ID || a.Type != b.Type || a.Content != b.Content {
		return false
	}
	switch {
	case a.Metadata == nil && b.Metadata == nil:
		return true
	case a.Metadata == nil || b.Metadata == nil:
		return false
	default:
		return *a.Metadata == *b.Metadata
	}
}

// Clone — глубокая копия (метаданные не разделяются между копиями).
func Clone(in []Block) []Block {
	if in == nil {
		return nil
	}
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = cloneBlock(b)
	}
	return out
}

func cloneBlock(b Block) Block {
	if b.Metadata != nil {
		m := *b.Metadata
		b.Metadata = &m
	}
	return b
}

// IndexOf возвращает позицию блока или -1.
func IndexOf(blocks []Block, id string) int {
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
