package content

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAutoSaver_SavesOnlyChangedDocument(t *testing.T) {
	e := NewEditor(abc())
	saves := 0
	var fail error
	as := NewAutoSaver(time.Minute, e.Blocks, func(_ context.Context, _ []Block) error {
		if fail != nil {
			return fail
		}
		saves++
		return nil
	})
	if err := as.Prime(e.Blocks()); err != nil {
		t.Fatalf("prime: %v", err)
	}

	if saved, _ := as.Tick(context.Background()); saved || saves != 0 {
		t.Fatal("без изменений сохранять нечего")
	}

	e.Insert(TypeQuote, "a")
	if !as.Dirty() {
		t.Fatal("документ должен быть грязным")
	}

	fail = errors.New("db down")
	if _, err := as.Tick(context.Background()); err == nil {
		t.Fatal("ожидалась ошибка сохранения")
	}
	if !as.Dirty() {
		t.Fatal("после ошибки изменения не должны считаться сохранёнными")
	}
	if e.Len() != 4 {
		t.Fatal("содержимое редактора должно сохраниться после ошибки")
	}

	fail = nil
	if saved, err := as.Tick(context.Background()); !saved || err != nil {
		t.Fatalf("повторная попытка: saved=%v err=%v", saved, err)
	}
	if saved, _ := as.Tick(context.Background()); saved {
		t.Fatal("повторный тик без изменений не должен сохранять")
	}
	if saves != 1 {
		t.Fatalf("ожидалось 1 сохранение, получено %d", saves)
	}
	if as.SavedAt().IsZero() {
		t.Fatal("время сохранения не выставлено")
	}
}

func TestAutoSaver_RunStopsOnCancel(t *testing.T) {
	e := NewEditor(abc())
	saved := make(chan struct{}, 1)
	as := NewAutoSaver(10*time.Millisecond, e.Blocks, func(_ context.Context, _ []Block) error {
		select {
		case saved <- struct{}{}:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		as.Run(ctx, nil)
		close(done)
	}()

	select {
	case <-saved:
	case <-time.After(time.Second):
		t.Fatal("автосохранение не сработало")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run не завершился после отмены")
	}
}
