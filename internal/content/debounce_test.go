package content

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_FlushWaitsForInFlightCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	d := NewDebouncer(time.Millisecond, func() {
		close(started)
		<-release
		finished.Store(true)
	})
	defer d.Stop()

	d.Trigger()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("отложенный вызов не начался")
	}
	if !d.Pending() {
		t.Fatal("пока вызов идёт, Pending должен быть true")
	}

	flushed := make(chan bool)
	go func() { flushed <- d.Flush() }()

	select {
	case <-flushed:
		t.Fatal("Flush вернулся до окончания вызова")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case ok := <-flushed:
		if !ok || !finished.Load() {
			t.Fatalf("Flush = %v, вызов завершён = %v", ok, finished.Load())
		}
	case <-time.After(time.Second):
		t.Fatal("Flush не дождался вызова")
	}
	if d.Pending() {
		t.Fatal("после Flush ничего не должно ожидать")
	}
}

func TestDebouncer_CallsDoNotOverlap(t *testing.T) {
	var active, overlaps, calls atomic.Int32
	d := NewDebouncer(time.Millisecond, func() {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		calls.Add(1)
	})
	defer d.Stop()

	for i := 0; i < 20; i++ {
		d.Trigger()
		if i%3 == 0 {
			d.Flush()
		}
		time.Sleep(time.Millisecond)
	}
	d.Flush()

	if overlaps.Load() != 0 {
		t.Fatalf("вызовы fn пересеклись %d раз", overlaps.Load())
	}
	if calls.Load() == 0 {
		t.Fatal("fn не вызван ни разу")
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	time.Sleep(30 * time.Millisecond)

	if calls.Load() != 0 || d.Flush() {
		t.Fatalf("после Stop вызовов быть не должно: %d", calls.Load())
	}
}
