package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"educa_backend/internals/features/chat/assistant/model"
	schoolModel "educa_backend/internals/features/schools/schools/model"
)

var ErrEmptyMessage = errors.New("message is empty")

// SchoolSource returns the live directory at call time.
type SchoolSource func() []schoolModel.SchoolModel

// Session is one visitor's conversation with the assistant. The upstream conversation is
// created lazily and keeps the directory snapshot taken at that moment.
type Session struct {
	ID string

	streamer     Streamer // nil when no API key is configured
	schools      SchoolSource
	municipality string
	log          *zap.Logger
	now          func() time.Time

	sendMu sync.Mutex // one send at a time

	mu        sync.RWMutex
	conv      Conversation
	messages  []model.Message
	createdAt time.Time
	updatedAt time.Time
}

func newSession(id string, streamer Streamer, schools SchoolSource, municipality string, log *zap.Logger, now func() time.Time) *Session {
	s := &Session{
		ID:           id,
		streamer:     streamer,
		schools:      schools,
		municipality: municipality,
		log:          log,
		now:          now,
	}
	s.createdAt = now()
	s.messages = []model.Message{s.welcome()}
	s.updatedAt = s.createdAt
	return s
}

func (s *Session) welcome() model.Message {
	return model.Message{ID: "welcome", Role: model.RoleModel, Text: model.WelcomeText, CreatedAt: s.now()}
}

// Transcript returns a copy of the messages.
func (s *Session) Transcript() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Message(nil), s.messages...)
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Started reports whether an upstream conversation is open.
func (s *Session) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conv != nil
}

// Reset drops the upstream conversation and the transcript, then opens a fresh conversation
// with the current directory. A failed open is left for the next Send to retry.
func (s *Session) Reset(ctx context.Context) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	s.conv = nil
	s.messages = []model.Message{s.welcome()}
	s.updatedAt = s.now()
	s.mu.Unlock()

	if _, err := s.conversation(ctx); err != nil {
		s.log.Warn("chat reset: upstream not ready", zap.String("session", s.ID), zap.Error(err))
	}
}

// Send appends the user message and a loading placeholder, then streams the reply into the
// placeholder. onFragment, when set, sees each fragment as it arrives. Upstream failures end up
// inside the transcript, never as an error; only an empty message is rejected.
func (s *Session) Send(ctx context.Context, text string, onFragment func(string)) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, ErrEmptyMessage
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.append(model.Message{ID: uuid.NewString(), Role: model.RoleUser, Text: text, CreatedAt: s.now()})
	replyID := uuid.NewString()
	s.append(model.Message{ID: replyID, Role: model.RoleModel, Loading: true, CreatedAt: s.now()})

	emit := func(fragment string) {
		if onFragment != nil {
			onFragment(fragment)
		}
	}

	conv, err := s.conversation(ctx)
	if err != nil {
		s.log.Warn("chat unavailable", zap.String("session", s.ID), zap.Error(err))
		emit(model.UnavailableText)
		return s.finish(replyID, model.UnavailableText, true), nil
	}

	for fragment, err := range conv.SendStream(ctx, text) {
		if err != nil {
			s.log.Error("chat stream failed", zap.String("session", s.ID), zap.Error(err))
			emit(model.ApologyText)
			return s.finish(replyID, model.ApologyText, true), nil
		}
		s.grow(replyID, fragment)
		emit(fragment)
	}
	// An empty stream still clears the loading flag.
	return s.finish(replyID, "", false), nil
}

// conversation returns the open conversation or starts one from the live directory.
func (s *Session) conversation(ctx context.Context) (Conversation, error) {
	s.mu.RLock()
	conv := s.conv
	s.mu.RUnlock()
	if conv != nil {
		return conv, nil
	}
	if s.streamer == nil {
		return nil, ErrMissingAPIKey
	}

	var schools []schoolModel.SchoolModel
	if s.schools != nil {
		schools = s.schools()
	}
	conv, err := s.streamer.StartChat(ctx, BuildInstruction(s.municipality, schools))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conv = conv
	s.mu.Unlock()
	return conv, nil
}

func (s *Session) append(m model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	s.updatedAt = s.now()
}

func (s *Session) grow(id, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.messages[i].Text += fragment
		s.messages[i].Loading = false
		s.updatedAt = s.now()
	}
}

// finish clears the loading flag; with replace the text becomes exactly text.
func (s *Session) finish(id, text string, replace bool) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Message{}
	}
	if replace {
		s.messages[i].Text = text
	}
	s.messages[i].Loading = false
	s.updatedAt = s.now()
	return s.messages[i]
}

// Reset may have dropped the transcript between append and finish.
func (s *Session) indexOf(id string) int {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}
