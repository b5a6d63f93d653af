package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const DefaultAutoSaveInterval = 30 * time.Second

type SaveFunc func(ctx context.Context, blocks []Block) error

// AutoSaver периодически сохраняет документ, если его сериализация
// отличается от последнего успешно сохранённого снимка.
// При ошибке снимок не меняется, и следующий тик повторит попытку.
type AutoSaver struct {
	mu       sync.Mutex
	interval time.Duration
	source   func() []Block
	save     SaveFunc
	last     []byte
	savedAt  time.Time
}

func NewAutoSaver(interval time.Duration, source func() []Block, save SaveFunc) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}
	return &AutoSaver{interval: interval, source: source, save: save}
}

// Prime запоминает уже сохранённое состояние, чтобы первый тик его не дублировал.
func (a *AutoSaver) Prime(blocks []Block) error {
	data, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("autosave: сериализация: %w", err)
	}
	a.mu.Lock()
	a.last = data
	a.mu.Unlock()
	return nil
}

// Tick — одна проверка: сохраняет только изменившийся документ.
func (a *AutoSaver) Tick(ctx context.Context) (bool, error) {
	return a.run(ctx, false)
}

// SaveNow — ручное сохранение, без сравнения со снимком.
func (a *AutoSaver) SaveNow(ctx context.Context) error {
	_, err := a.run(ctx, true)
	return err
}

func (a *AutoSaver) run(ctx context.Context, force bool) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	blocks := a.source()
	data, err := json.Marshal(blocks)
	if err != nil {
		return false, fmt.Errorf("autosave: сериализация: %w", err)
	}
	if !force && bytes.Equal(data, a.last) {
		return false, nil
	}
	if err := a.save(ctx, blocks); err != nil {
		return false, err
	}
	a.last = data
	a.savedAt = time.Now()
	return true, nil
}

// Dirty — есть ли несохранённые изменения.
func (a *AutoSaver) Dirty() bool {
	data, err := json.Marshal(a.source())
	if err != nil {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return !bytes.Equal(data, a.last)
}

func (a *AutoSaver) SavedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.savedAt
}

// Run тикает до отмены контекста. onErr получает ошибки сохранения.
func (a *AutoSaver) Run(ctx context.Context, onErr func(error)) {
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.Tick(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
