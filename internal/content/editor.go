package content

import (
	"sync"
	"time"
)

// Patch — частичное обновление блока. nil-поля не трогаются,
// Metadata заменяется целиком.
type Patch struct {
	Type     *BlockType `json:"type,omitempty"`
	Content  *string    `json:"content,omitempty"`
	Metadata *Metadata  `json:"metadata,omitempty"`
}

type EditorOption func(*Editor)

// WithOnChange задаёт получателя полной последовательности после изменений.
func WithOnChange(fn func([]Block)) EditorOption {
	return func(e *Editor) { e.onChange = fn }
}

// WithDebounce склеивает серии изменений в одно уведомление.
func WithDebounce(d time.Duration) EditorOption {
	return func(e *Editor) { e.debounce = d }
}

func WithIDGenerator(fn func() string) EditorOption {
	return func(e *Editor) { e.newID = fn }
}

// Editor хранит редактируемую последовательность блоков.
// Все операции тотальны: неизвестный id — это no-op, а не ошибка.
type Editor struct {
	mu       sync.Mutex
	blocks   []Block
	last     []Block // последнее отправленное состояние
	newID    func() string
	onChange func([]Block)
	debounce time.Duration
	deb      *Debouncer
}

func NewEditor(initial []Block, opts ...EditorOption) *Editor {
	e := &Editor{newID: NewID}
	for _, o := range opts {
		o(e)
	}
	if len(initial) == 0 {
		initial = []Block{New(TypeParagraph, e.newID())}
	}
	e.blocks = Clone(initial)
	e.last = Clone(initial)
	if e.debounce > 0 {
		e.deb = NewDebouncer(e.debounce, e.emit)
	}
	return e
}

// Blocks возвращает копию текущей последовательности.
func (e *Editor) Blocks() []Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Clone(e.blocks)
}

func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.blocks)
}

// Insert добавляет блок после afterID; пустой или неизвестный afterID — в конец.
func (e *Editor) Insert(t BlockType, afterID string) Block {
	e.mu.Lock()
	b := New(t, e.newID())
	pos := len(e.blocks)
	if afterID != "" {
		if i := IndexOf(e.blocks, afterID); i >= 0 {
			pos = i + 1
		}
	}
	e.blocks = append(e.blocks, Block{})
	copy(e.blocks[pos+1:], e.blocks[pos:])
	e.blocks[pos] = b
	e.mu.Unlock()

	e.changed()
	return cloneBlock(b)
}

func (e *Editor) Update(id string, p Patch) bool {
	e.mu.Lock()
	i := IndexOf(e.blocks, id)
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	b := &e.blocks[i]
	if p.Type != nil {
		b.Type = *p.Type
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.Metadata != nil {
		m := *p.Metadata
		b.Metadata = &m
	}
	e.mu.Unlock()

	e.changed()
	return true
}

// Delete никогда не удаляет последний блок.
func (e *Editor) Delete(id string) bool {
	e.mu.Lock()
	i := IndexOf(e.blocks, id)
	if i < 0 || len(e.blocks) <= 1 {
		e.mu.Unlock()
		return false
	}
	e.blocks = append(e.blocks[:i], e.blocks[i+1:]...)
	e.mu.Unlock()

	e.changed()
	return true
}

// Move вынимает draggedID и вставляет его на исходный индекс targetID.
func (e *Editor) Move(draggedID, targetID string) bool {
	e.mu.Lock()
	from := IndexOf(e.blocks, draggedID)
	to := IndexOf(e.blocks, targetID)
	if from < 0 || to < 0 {
		e.mu.Unlock()
		return false
	}
	b := e.blocks[from]
	rest := append(e.blocks[:from:from], e.blocks[from+1:]...)
	out := make([]Block, 0, len(e.blocks))
	out = append(out, rest[:to]...)
	out = append(out, b)
	out = append(out, rest[to:]...)
	e.blocks = out
	e.mu.Unlock()

	e.changed()
	return true
}

// SetBlocks принимает состояние от владельца. Он его уже знает,
// поэтому уведомление не отправляется.
func (e *Editor) SetBlocks(blocks []Block) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(blocks) == 0 {
		blocks = []Block{New(TypeParagraph, e.newID())}
	}
	if Equal(blocks, e.blocks) {
		return
	}
	e.blocks = Clone(blocks)
	e.last = Clone(blocks)
}

// Flush отправляет отложенное уведомление сразу.
func (e *Editor) Flush() {
	if e.deb != nil {
		e.deb.Flush()
	}
}

// Close останавливает таймеры; отложенное уведомление теряется.
func (e *Editor) Close() {
	if e.deb != nil {
		e.deb.Stop()
	}
}

func (e *Editor) changed() {
	if e.deb != nil {
		e.deb.Trigger()
		return
	}
	e.emit()
}

func (e *Editor) emit() {
	e.mu.Lock()
	if Equal(e.blocks, e.last) {
		e.mu.Unlock()
		return
	}
	e.last = Clone(e.blocks)
	snapshot := Clone(e.blocks)
	fn := e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
