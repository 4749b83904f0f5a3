// Package session holds the mutable per-page state of one visitor: the chat
// transcript, the history list with its live feed and one slot per simulated
// action kind. Closing a session cancels everything it scheduled.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lumina/internal/config"
	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/fixtures"
	"lumina/internal/repository/memory"
	"lumina/internal/service/simulate"
	"lumina/internal/service/synthesis"
)

// TimestampLayout formats chat timestamps ("10:42 AM")
const TimestampLayout = "03:04 PM"

// ErrClosed is returned by every operation on a torn-down session
var ErrClosed = fmt.Errorf("%w: session closed", domain.ErrNotFound)

// Deps are the collaborators shared by every session
type Deps struct {
	Clock    simulate.Clock
	Timings  config.ActionTimings
	Feed     config.FeedConfig
	Fixtures *fixtures.Set

	Search    meshSvc.SearchService
	Assistant meshSvc.AssistantService
	Catalog   meshSvc.CatalogService
	Synth     *synthesis.Generator

	// NewRand returns the random source for one session's live feed
	NewRand func() simulate.Rand
	NewID   func() string
	Logger  *slog.Logger
}

// Session is one visitor's page state
type Session struct {
	id     string
	deps   *Deps
	logger *slog.Logger

	done chan struct{}

	mu         sync.Mutex
	closed     bool
	lastSeen   time.Time
	transcript []mesh.ChatMessage
	queue      []string
	replying   bool
	awaiting   string // id of the assistant message currently being composed
	provisions int

	history *memory.HistoryStore
	feed    *simulate.LiveFeed

	scan       *simulate.Action[mesh.ScanResult]
	reply      *simulate.Action[mesh.ChatMessage]
	reader     *simulate.Action[mesh.ReaderAnswer]
	synthesize *simulate.Action[mesh.Synthesis]
	provision  *simulate.Action[mesh.ProvisionReceipt]
	upload     *simulate.Action[mesh.UploadReceipt]
	invite     *simulate.Action[mesh.InviteReceipt]
	role       *simulate.Action[mesh.RoleChangeAck]
	rollback   *simulate.Action[mesh.RollbackReceipt]
	verify     *simulate.Action[mesh.VerifyReport]

	trackers map[string]simulate.Tracker
}

// New creates a session seeded from the fixtures
func New(id string, deps *Deps) *Session {
	clock := deps.Clock
	t := deps.Timings
	logger := deps.Logger.With("session_id", id)

	s := &Session{
		id:         id,
		deps:       deps,
		logger:     logger,
		done:       make(chan struct{}),
		lastSeen:   clock.Now(),
		transcript: cloneMessages(deps.Fixtures.Chat),
		history:    memory.NewHistoryStore(deps.Fixtures.History, deps.Feed.Capacity),

		scan:       simulate.NewAction[mesh.ScanResult](mesh.KindSearchScan, clock, t.Scan),
		reply:      simulate.NewAction[mesh.ChatMessage](mesh.KindAskReply, clock, t.Reply),
		reader:     simulate.NewAction[mesh.ReaderAnswer](mesh.KindReaderQuery, clock, t.ReaderQuery),
		synthesize: simulate.NewAction[mesh.Synthesis](mesh.KindSynthesize, clock, t.Synthesize),
		provision:  simulate.NewAction[mesh.ProvisionReceipt](mesh.KindProvision, clock, t.Provision),
		upload:     simulate.NewProgressAction[mesh.UploadReceipt](mesh.KindUpload, clock, t.UploadStep, t.UploadTick),
		invite:     simulate.NewAction[mesh.InviteReceipt](mesh.KindInvite, clock, t.Invite),
		role:       simulate.NewAction[mesh.RoleChangeAck](mesh.KindRoleChange, clock, t.RoleChange),
		rollback:   simulate.NewAction[mesh.RollbackReceipt](mesh.KindRollback, clock, t.Rollback),
		verify:     simulate.NewProgressAction[mesh.VerifyReport](mesh.KindVerify, clock, t.VerifyStep, t.VerifyTick),
	}

	s.feed = simulate.NewLiveFeed(clock, simulate.LiveFeedConfig{
		Interval:  deps.Feed.Interval,
		Templates: deps.Fixtures.LiveTemplates,
		Rand:      deps.NewRand(),
		NewID:     func() string { return "live-" + deps.NewID() },
	}, s.history, logger)

	s.trackers = map[string]simulate.Tracker{}
	for _, tr := range []simulate.Tracker{
		s.scan, s.reply, s.reader, s.synthesize, s.provision,
		s.upload, s.invite, s.role, s.rollback, s.verify,
	} {
		s.trackers[tr.Kind()] = tr
	}

	s.reply.OnSettle(s.onReply)

	return s
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Touch records activity at now
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// LastSeen returns the time of the last recorded activity
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Done is closed when the session is torn down
func (s *Session) Done() <-chan struct{} { return s.done }

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the session down: the live feed stops and every pending action
// is cancelled, so nothing it scheduled can settle afterwards.
// Returns false if the session was already closed.
func (s *Session) Close() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	s.queue = nil
	s.replying = false
	s.awaiting = ""
	close(s.done)
	s.mu.Unlock()

	s.feed.Stop()
	cancelled := 0
	for _, tr := range s.trackers {
		if tr.Cancel() {
			cancelled++
		}
	}

	s.logger.Info("session closed", "cancelled_actions", cancelled)
	return true
}

// Tracker returns the action slot for kind
func (s *Session) Tracker(kind string) (simulate.Tracker, error) {
	tr, ok := s.trackers[kind]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("unknown action kind %q", kind)}
	}
	return tr, nil
}

// CancelAction abandons the pending run of one slot. Cancelling the chat
// reply drops that answer and moves on to the next queued question.
func (s *Session) CancelAction(kind string) (simulate.Status, error) {
	tr, err := s.Tracker(kind)
	if err != nil {
		return simulate.Status{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return simulate.Status{}, err
	}

	if kind != mesh.KindAskReply {
		tr.Cancel()
		return tr.Status(), nil
	}

	if s.reply.Cancel() {
		s.awaiting = ""
		s.replying = false
		if len(s.queue) > 0 {
			next := s.queue[0]
			s.queue = s.queue[1:]
			s.startReplyLocked(next)
		}
	}
	return s.reply.Status(), nil
}

// Actions returns a snapshot of every action slot
func (s *Session) Actions() []simulate.Status {
	out := make([]simulate.Status, 0, len(mesh.AllActionKinds))
	for _, kind := range mesh.AllActionKinds {
		out = append(out, s.trackers[kind].Status())
	}
	return out
}

// checkOpen must be called with s.mu held
func (s *Session) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Session) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkOpen()
}

// whileOpen runs start under the session lock, so a concurrent Close either
// sees the started run and cancels it or start never runs
func (s *Session) whileOpen(start func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	start()
	return nil
}

func (s *Session) now() string {
	return s.deps.Clock.Now().Format(TimestampLayout)
}

func cloneMessages(in []mesh.ChatMessage) []mesh.ChatMessage {
	out := make([]mesh.ChatMessage, len(in))
	for i, m := range in {
		m.Sources = append([]mesh.Document(nil), m.Sources...)
		m.SourceIDs = append([]string(nil), m.SourceIDs...)
		out[i] = m
	}
	return out
}
