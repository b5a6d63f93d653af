package content

import (
	"sync"
	"time"
)

// Debouncer откладывает вызов fn до тех пор, пока Trigger не перестанет
// вызываться в течение delay. Stop отменяет ожидающий вызов навсегда.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	stopped bool
	// running закрывается, когда текущий вызов fn завершился
	running chan struct{}
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	d.waitIdle()
	// таймер мог быть перезапущен или остановлен, пока мы ждали
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.call()
}

// Flush немедленно выполняет отложенный вызов, если он есть. Если вызов
// уже идёт, Flush дожидается его: после возврата fn гарантированно отработал.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	waited := d.waitIdle()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return waited
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.call()
	return true
}

// waitIdle ждёт окончания текущего вызова fn. Вызывается и возвращается
// с захваченным mu.
func (d *Debouncer) waitIdle() bool {
	waited := false
	for d.running != nil {
		ch := d.running
		d.mu.Unlock()
		<-ch
		d.mu.Lock()
		waited = true
	}
	return waited
}

// call вызывается с захваченным mu и отпускает его.
func (d *Debouncer) call() {
	done := make(chan struct{})
	d.running = done
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = nil
		d.mu.Unlock()
		close(done)
	}()
	d.fn()
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil || d.running != nil
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
