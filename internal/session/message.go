package session

import (
	"sync"
	"time"

	"github.com/ensigniasec/cybershield/internal/clock"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageID orders messages; it is assigned by the Store and never reused
// within a session.
type MessageID uint64

// Message is one immutable terminal entry.
type Message struct {
	ID        MessageID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Severity  *int      `json:"severity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HasSeverity reports whether the message is a scan verdict.
func (m Message) HasSeverity() bool { return m.Severity != nil }

// SeverityLevel returns the severity or 0 when absent.
func (m Message) SeverityLevel() int {
	if m.Severity == nil {
		return 0
	}
	return *m.Severity
}

// Store is the append-only message log of a session.
type Store struct {
	clock clock.Clock

	mu       sync.RWMutex
	messages []Message
	nextID   MessageID
}

// NewStore returns an empty store stamping messages with c.
func NewStore(c clock.Clock) *Store {
	return &Store{clock: c}
}

// Append records a new message and returns it.
func (s *Store) Append(role Role, content string, severity *int) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(role, content, severity)
}

func (s *Store) appendLocked(role Role, content string, severity *int) Message {
	s.nextID++
	var sev *int
	if severity != nil {
		v := *severity
		sev = &v
	}
	m := Message{
		ID:        s.nextID,
		Role:      role,
		Content:   content,
		Severity:  sev,
		Timestamp: s.clock.Now(),
	}
	s.messages = append(s.messages, m)
	return m
}

// Reset discards every message and starts over with a single system message.
func (s *Store) Reset(content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	return s.appendLocked(RoleSystem, content, nil)
}

// Messages returns a copy of the log in append order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the newest message.
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastNonUser returns the newest assistant or system message.
func (s *Store) LastNonUser() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role != RoleUser {
			return s.messages[i], true
		}
	}
	return Message{}, false
}
