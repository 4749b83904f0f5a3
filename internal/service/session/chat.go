package session

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lumina/internal/config"
	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
)

// replyUnavailable is used if the assistant itself errors; actions never fail
const replyUnavailable = "The knowledge mesh is temporarily unreachable. Please repeat your query."

// Transcript is the Ask-AI page state
type Transcript struct {
	Messages []mesh.ChatMessage `json:"messages"`
	Typing   bool               `json:"typing"`
	Queued   int                `json:"queued"`
	Ignored  bool               `json:"ignored,omitempty"`
}

// Transcript returns the current chat state
func (s *Session) Transcript() (*Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.transcriptLocked(false), nil
}

// Ask appends the user's message immediately and schedules the assistant's
// reply. Questions asked while a reply is pending queue behind it, so replies
// land in question order. Blank questions leave the transcript untouched.
func (s *Session) Ask(query string) (*Transcript, error) {
	if err := validation.Validate(query, validation.Length(0, config.MaxMessageLength)); err != nil {
		return nil, fmt.Errorf("%w: message %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(query) == "" {
		return s.transcriptLocked(true), nil
	}

	s.transcript = append(s.transcript, mesh.ChatMessage{
		ID:        s.deps.NewID(),
		Role:      mesh.ChatRoleUser,
		Content:   query,
		Timestamp: s.now(),
	})

	if s.replying {
		s.queue = append(s.queue, query)
		s.logger.Debug("question queued", "queued", len(s.queue))
	} else {
		s.startReplyLocked(query)
	}

	return s.transcriptLocked(false), nil
}

// AskIfFresh asks query only when the transcript holds at most two messages,
// which is how a deep link like /ask?q=... starts a conversation
func (s *Session) AskIfFresh(query string) (*Transcript, error) {
	s.mu.Lock()
	fresh := len(s.transcript) <= 2
	s.mu.Unlock()

	if fresh && strings.TrimSpace(query) != "" {
		return s.Ask(query)
	}
	return s.Transcript()
}

// ClearChat empties the transcript and abandons any pending reply
func (s *Session) ClearChat() (*Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	s.transcript = []mesh.ChatMessage{}
	s.queue = nil
	s.replying = false
	s.awaiting = ""
	s.reply.Cancel()

	return s.transcriptLocked(false), nil
}

func (s *Session) startReplyLocked(query string) {
	id := s.deps.NewID()
	s.replying = true
	s.awaiting = id

	s.reply.Start(func() mesh.ChatMessage {
		reply, err := s.deps.Assistant.Respond(context.Background(), query)
		if err != nil {
			s.logger.Error("assistant failed", "error", err)
			reply = &mesh.Reply{Content: replyUnavailable, Sources: []mesh.Document{}}
		}
		return mesh.ChatMessage{
			ID:        id,
			Role:      mesh.ChatRoleAssistant,
			Content:   reply.Content,
			Sources:   reply.Sources,
			Timestamp: s.now(),
		}
	})
}

// onReply runs after the reply action settles
func (s *Session) onReply(msg mesh.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Cleared or closed while the reply was being composed
	if s.closed || msg.ID != s.awaiting {
		return
	}

	s.transcript = append(s.transcript, msg)
	s.awaiting = ""

	if len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.startReplyLocked(next)
		return
	}
	s.replying = false
}

func (s *Session) transcriptLocked(ignored bool) *Transcript {
	return &Transcript{
		Messages: cloneMessages(s.transcript),
		Typing:   s.replying,
		Queued:   len(s.queue),
		Ignored:  ignored,
	}
}
