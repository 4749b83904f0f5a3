package session

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lumina/internal/config"
	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
	"lumina/internal/service/search"
	"lumina/internal/service/simulate"
)

// verifyChecks are the integrity checkpoints, each passing once progress
// exceeds its threshold. The signature only passes at exactly 100.
var verifyChecks = []mesh.CheckItem{
	{Node: "APAC_NODE", Threshold: 30},
	{Node: "EMEA_NODE", Threshold: 60},
	{Node: "US_VAULT", Threshold: 80},
	{Node: "SIGNATURE_X", Threshold: 100},
}

// Checklist evaluates the verification checklist at progress
func Checklist(progress int) []mesh.CheckItem {
	out := make([]mesh.CheckItem, len(verifyChecks))
	for i, c := range verifyChecks {
		if c.Threshold == 100 {
			c.Passed = progress == 100
		} else {
			c.Passed = progress > c.Threshold
		}
		out[i] = c
	}
	return out
}

// HistoryPage is the audit timeline state
type HistoryPage struct {
	Events []mesh.HistoryEvent `json:"events"`
	Total  int                 `json:"total"`
	Live   bool                `json:"live"`
	Reset  bool                `json:"reset"`
}

// History lists the session's events filtered by query and type ("all" or an event type)
func (s *Session) History(ctx context.Context, query, eventType string) (*HistoryPage, error) {
	if err := validateHistoryFilter(query, eventType); err != nil {
		return nil, err
	}
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	events, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := search.FilterHistory(events, query, eventType)

	return &HistoryPage{
		Events: filtered,
		Total:  len(filtered),
		Live:   s.feed.Running(),
		Reset:  len(filtered) == 0,
	}, nil
}

func validateHistoryFilter(query, eventType string) error {
	types := []interface{}{"", search.HistoryFilterAll}
	for _, t := range mesh.AllEventTypes {
		types = append(types, string(t))
	}

	err := validation.Errors{
		"q":    validation.Validate(query, validation.Length(0, config.MaxQueryLength)),
		"type": validation.Validate(eventType, validation.In(types...)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// StartLive starts the live feed. Returns false if it was already running.
func (s *Session) StartLive() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	return s.feed.Start(), nil
}

// StopLive stops the live feed. Returns false if it was not running.
func (s *Session) StopLive() (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	return s.feed.Stop(), nil
}

// LiveRunning reports whether the live feed is on
func (s *Session) LiveRunning() bool { return s.feed.Running() }

// SubscribeLive streams events prepended by the live feed
func (s *Session) SubscribeLive() (<-chan mesh.HistoryEvent, func(), error) {
	if err := s.ensureOpen(); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe()
	return ch, cancel, nil
}

// Rollback schedules a simulated rollback of one event. The list is not changed.
func (s *Session) Rollback(ctx context.Context, eventID string) (simulate.Status, error) {
	if err := s.ensureOpen(); err != nil {
		return simulate.Status{}, err
	}

	event, err := s.history.GetByID(ctx, eventID)
	if err != nil {
		return simulate.Status{}, err
	}

	receipt := mesh.RollbackReceipt{
		EventID: event.ID,
		Target:  event.Target,
		Status:  "restored",
	}
	if err := s.whileOpen(func() {
		s.rollback.Start(func() mesh.RollbackReceipt { return receipt })
	}); err != nil {
		return simulate.Status{}, err
	}

	s.logger.Info("rollback started", "event_id", event.ID)
	return s.rollback.Status(), nil
}

// Verify starts the integrity verification ramp
func (s *Session) Verify() (simulate.Status, error) {
	if err := s.whileOpen(func() {
		s.verify.Start(func() mesh.VerifyReport {
			return mesh.VerifyReport{Progress: 100, Checklist: Checklist(100), Verified: true}
		})
	}); err != nil {
		return simulate.Status{}, err
	}
	return s.verify.Status(), nil
}

// VerifyState reports the verification overlay at the current progress
func (s *Session) VerifyState() (*mesh.VerifyReport, simulate.Status, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, simulate.Status{}, err
	}

	st := s.verify.Status()
	return &mesh.VerifyReport{
		Progress:  st.Progress,
		Checklist: Checklist(st.Progress),
		Verified:  st.Phase == simulate.PhaseSettled,
	}, st, nil
}
