package topology

import (
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/visualtopo/pkg/canvas"
	"github.com/matzehuels/visualtopo/pkg/observability"
	"github.com/matzehuels/visualtopo/pkg/scene"
)

// Scheduler runs fn every d until the returned stop function is called.
// Stop must be safe to call more than once and must not wait for an
// in-flight fn to return.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

// TickerScheduler schedules on the wall clock with a time.Ticker per timer.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// Blinker owns one periodic toggle per node id. Each timer alternates
// between on and off starting with on.
type Blinker struct {
	mu     sync.Mutex
	sched  Scheduler
	period time.Duration
	timers map[string]func()
}

// NewBlinker creates a blinker toggling every period.
func NewBlinker(sched Scheduler, period time.Duration) *Blinker {
	if period <= 0 {
		period = scene.DefaultBlinkPeriod
	}
	return &Blinker{
		sched:  sched,
		period: period,
		timers: make(map[string]func()),
	}
}

// Start begins toggling for id. A timer already running for id is stopped
// first, so at most one timer exists per id.
func (b *Blinker) Start(id string, toggle func(on bool)) {
	var (
		mu sync.Mutex
		on bool
	)
	tick := func() {
		mu.Lock()
		on = !on
		state := on
		mu.Unlock()
		toggle(state)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if stop, ok := b.timers[id]; ok {
		stop()
	}
	b.timers[id] = b.sched.Every(b.period, tick)
}

// Stop cancels the timer for id and reports whether one was running.
func (b *Blinker) Stop(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	stop, ok := b.timers[id]
	if ok {
		stop()
		delete(b.timers, id)
	}
	return ok
}

// StopAll cancels every timer and returns how many were running.
func (b *Blinker) StopAll() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.timers)
	for id, stop := range b.timers {
		stop()
		delete(b.timers, id)
	}
	return n
}

// Active returns the ids with a running timer, sorted.
func (b *Blinker) Active() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.timers))
	for id := range b.timers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of running timers.
func (b *Blinker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

// startBlinking alternates img between the node's error image and its
// normal image. Ticks from a previous render generation are ignored.
//
// Timers are keyed by id, so a later node with the same id takes over the
// timer; the earlier image is put back on its normal image and late ticks
// of the replaced timer are dropped.
//
// Must be called with e.mu held.
func (e *Engine) startBlinking(n *scene.Node, img canvas.Element) {
	if prev, ok := e.drawn.blinking[n.ID]; ok {
		prev.img.SetAttr("href", prev.node.Image)
	}
	e.drawn.blinking[n.ID] = blinkTarget{node: n, img: img}

	gen := e.generation
	e.blink.Start(n.ID, func(on bool) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.generation != gen || e.drawn.blinking[n.ID].img != img {
			return
		}
		if on {
			img.SetAttr("href", n.ErrorImage)
		} else {
			img.SetAttr("href", n.Image)
		}
	})
	e.logger.Debug("blinking node", "node", n.ID, "period", e.period)
	observability.Blink().OnBlinkStart(e.ctx, n.ID)
}

// stopBlinking cancels every blink timer.
//
// Must be called with e.mu held.
func (e *Engine) stopBlinking() {
	if n := e.blink.StopAll(); n > 0 {
		e.logger.Debug("stopped blink timers", "count", n)
		observability.Blink().OnBlinkStopAll(e.ctx, n)
	}
}
