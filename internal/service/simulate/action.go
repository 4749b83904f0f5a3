package simulate

import (
	"slices"
	"sync"
	"time"
)

// Phase is the lifecycle position of an action
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSettled Phase = "settled"
)

// Status is a point-in-time view of an action, safe to serialize
type Status struct {
	Kind      string     `json:"kind"`
	Phase     Phase      `json:"phase"`
	Progress  int        `json:"progress"`
	Result    any        `json:"result,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
	Settles   int        `json:"settles"`
}

// Tracker is the type-erased view of an Action used by sessions and handlers
type Tracker interface {
	Kind() string
	Status() Status
	Cancel() bool
	Subscribe() (<-chan Status, func())
}

// Action models an operation that takes time and always succeeds.
//
// Idle -> Pending happens synchronously inside Start. Pending -> Settled happens
// after the configured delay (or when the progress ramp reaches 100), at most
// once per Start. Starting again while pending supersedes the previous run;
// cancelling or superseding a run guarantees it never settles.
type Action[T any] struct {
	kind  string
	clock Clock

	delay    time.Duration
	step     int // progress mode when > 0
	interval time.Duration

	mu        sync.Mutex
	phase     Phase
	progress  int
	result    *T
	current   *run
	timer     Timer
	startedAt time.Time
	settledAt time.Time
	settles   int
	listeners []func(T)
	subs      map[int]chan Status
	nextSub   int
}

// run is one Start call
type run struct {
	done    chan struct{}
	once    sync.Once
	settled bool
}

func (r *run) finish(settled bool) {
	r.once.Do(func() {
		r.settled = settled
		close(r.done)
	})
}

// NewAction creates an action that settles a fixed delay after Start
func NewAction[T any](kind string, clock Clock, delay time.Duration) *Action[T] {
	return &Action[T]{
		kind:  kind,
		clock: clock,
		delay: delay,
		phase: PhaseIdle,
		subs:  make(map[int]chan Status),
	}
}

// NewProgressAction creates an action whose progress grows by step every
// interval and which settles the moment progress reaches exactly 100
func NewProgressAction[T any](kind string, clock Clock, step int, interval time.Duration) *Action[T] {
	if step <= 0 {
		step = 1
	}
	if step > 100 {
		step = 100
	}
	a := NewAction[T](kind, clock, 0)
	a.step = step
	a.interval = interval
	return a
}

// Kind returns the action's identifier (e.g. "document.upload")
func (a *Action[T]) Kind() string { return a.kind }

// OnSettle registers a callback invoked with every settled payload.
// Callbacks run after the action's state has been updated.
func (a *Action[T]) OnSettle(f func(T)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, f)
}

// Start moves the action to pending and schedules settlement.
// compute produces the payload when the action settles; it must be pure.
func (a *Action[T]) Start(compute func() T) *Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()

	r := &run{done: make(chan struct{})}
	a.current = r
	a.phase = PhasePending
	a.progress = 0
	a.result = nil
	a.startedAt = a.clock.Now()
	a.settledAt = time.Time{}

	if a.step > 0 {
		a.scheduleTickLocked(r, compute)
	} else {
		a.timer = a.clock.AfterFunc(a.delay, func() { a.settle(r, compute) })
	}

	a.publishLocked()
	return &Handle{owner: a, r: r}
}

// Cancel abandons the pending run, if any, and returns the action to idle
func (a *Action[T]) Cancel() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return false
	}
	a.stopLocked()
	a.phase = PhaseIdle
	a.progress = 0
	a.publishLocked()
	return true
}

// Status returns the current state
func (a *Action[T]) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

// Result returns the last settled payload
func (a *Action[T]) Result() (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.result == nil {
		var zero T
		return zero, false
	}
	return *a.result, true
}

// Subscribe streams status changes, starting with the current status.
// The returned function unsubscribes and closes the channel.
func (a *Action[T]) Subscribe() (<-chan Status, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan Status, 32)
	a.subs[id] = ch
	ch <- a.statusLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			delete(a.subs, id)
			close(ch)
		})
	}
}

func (a *Action[T]) cancelRun(r *run) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != r {
		return false
	}
	a.stopLocked()
	a.phase = PhaseIdle
	a.progress = 0
	a.publishLocked()
	return true
}

func (a *Action[T]) scheduleTickLocked(r *run, compute func() T) {
	a.timer = a.clock.AfterFunc(a.interval, func() { a.tick(r, compute) })
}

func (a *Action[T]) tick(r *run, compute func() T) {
	a.mu.Lock()
	if a.current != r {
		a.mu.Unlock()
		return
	}

	next := a.progress + a.step
	if next > 100 {
		next = 100
	}
	a.progress = next

	if a.progress < 100 {
		a.scheduleTickLocked(r, compute)
		a.publishLocked()
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.settle(r, compute)
}

func (a *Action[T]) settle(r *run, compute func() T) {
	value := compute()

	a.mu.Lock()
	if a.current != r {
		a.mu.Unlock()
		return
	}
	a.current = nil
	a.timer = nil
	a.phase = PhaseSettled
	a.progress = 100
	a.result = &value
	a.settledAt = a.clock.Now()
	a.settles++
	a.publishLocked()
	listeners := slices.Clone(a.listeners)
	a.mu.Unlock()

	r.finish(true)
	for _, l := range listeners {
		l(value)
	}
}

// stopLocked stops the pending run without touching phase
func (a *Action[T]) stopLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.current != nil {
		a.current.finish(false)
		a.current = nil
	}
}

func (a *Action[T]) statusLocked() Status {
	st := Status{
		Kind:     a.kind,
		Phase:    a.phase,
		Progress: a.progress,
		Settles:  a.settles,
	}
	if a.result != nil {
		st.Result = *a.result
	}
	if !a.startedAt.IsZero() {
		started := a.startedAt
		st.StartedAt = &started
	}
	if !a.settledAt.IsZero() {
		settled := a.settledAt
		st.SettledAt = &settled
	}
	return st
}

// publishLocked fans the current status out to subscribers without blocking.
// A slow subscriber loses intermediate updates but always sees the latest one.
func (a *Action[T]) publishLocked() {
	if len(a.subs) == 0 {
		return
	}
	st := a.statusLocked()
	for _, ch := range a.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

// Handle refers to a single Start call
type Handle struct {
	owner interface{ cancelRun(*run) bool }
	r     *run
}

// Cancel stops this run if it is still pending.
// Returns false if it already settled, was superseded or was cancelled.
func (h *Handle) Cancel() bool { return h.owner.cancelRun(h.r) }

// Done is closed when the run settles, is cancelled or is superseded
func (h *Handle) Done() <-chan struct{} { return h.r.done }

// Settled reports whether the run reached the settled phase.
// Only meaningful after Done is closed.
func (h *Handle) Settled() bool {
	select {
	case <-h.r.done:
		return h.r.settled
	default:
		return false
	}
}
