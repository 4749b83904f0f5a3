package simulate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lumina/internal/domain/models/mesh"
)

// Rand is the random source a LiveFeed picks templates with.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// EventSink receives every synthetic event; it must prepend and truncate atomically
type EventSink interface {
	Prepend(ctx context.Context, event mesh.HistoryEvent) error
}

// LiveFeedConfig holds the tunables of a LiveFeed
type LiveFeedConfig struct {
	Interval  time.Duration
	Templates []mesh.HistoryEvent
	Rand      Rand
	NewID     func() string
}

// LiveFeed prepends a randomly chosen synthetic event to a history sink on a
// fixed interval while running. Stop guarantees no further mutation.
type LiveFeed struct {
	clock  Clock
	cfg    LiveFeedConfig
	sink   EventSink
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	gen     uint64
	timer   Timer
	emitted int
	subs    map[int]chan mesh.HistoryEvent
	nextSub int
}

// NewLiveFeed creates a stopped feed
func NewLiveFeed(clock Clock, cfg LiveFeedConfig, sink EventSink, logger *slog.Logger) *LiveFeed {
	return &LiveFeed{
		clock:  clock,
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		subs:   make(map[int]chan mesh.HistoryEvent),
	}
}

// Start begins emitting events. Returns false if already running.
func (f *LiveFeed) Start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return false
	}
	f.running = true
	f.gen++
	f.scheduleLocked(f.gen)

	f.logger.Debug("live feed started", "interval", f.cfg.Interval)
	return true
}

// Stop cancels the pending tick. Returns false if the feed was not running.
func (f *LiveFeed) Stop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return false
	}
	f.running = false
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	f.logger.Debug("live feed stopped", "emitted", f.emitted)
	return true
}

// Running reports whether the feed is emitting
func (f *LiveFeed) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Emitted returns the number of events produced since creation
func (f *LiveFeed) Emitted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emitted
}

// Subscribe receives each emitted event. The returned function unsubscribes.
func (f *LiveFeed) Subscribe() (<-chan mesh.HistoryEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextSub
	f.nextSub++
	ch := make(chan mesh.HistoryEvent, 16)
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
}

func (f *LiveFeed) scheduleLocked(gen uint64) {
	f.timer = f.clock.AfterFunc(f.cfg.Interval, func() { f.tick(gen) })
}

func (f *LiveFeed) tick(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running || gen != f.gen || len(f.cfg.Templates) == 0 {
		return
	}

	event := f.cfg.Templates[f.cfg.Rand.Intn(len(f.cfg.Templates))]
	event.ID = f.cfg.NewID()

	// The sink is called under f.mu so Stop cannot interleave with a prepend
	if err := f.sink.Prepend(context.Background(), event); err != nil {
		f.logger.Error("live feed prepend failed", "error", err)
	} else {
		f.emitted++
		for _, ch := range f.subs {
			select {
			case ch <- event:
			default:
				f.logger.Warn("live feed subscriber lagging, event dropped", "event_id", event.ID)
			}
		}
	}

	f.scheduleLocked(gen)
}
