package agent

import (
	"time"

	"github.com/google/uuid"

	"github.com/deo-labs/deoai/src/ai/core"
)

// Session is the per-conversation state: an append-only message history plus
// identity. Created at session start, discarded at session end; a session is
// owned by a single caller and is not safe for concurrent use.
type Session struct {
	ID       string
	Created  time.Time
	Messages []core.Message
}

func NewSession() *Session {
	return &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
	}
}

func (s *Session) append(role, content string) {
	s.Messages = append(s.Messages, core.Message{Role: role, Content: content})
}
