package webserver

import (
	"sync"

	"github.com/deo-labs/deoai/src/agent"
)

// AgentFactory builds an agent for a session. apiKey overrides the default
// provider credential when the user supplies their own; empty means use the
// service default.
type AgentFactory func(apiKey string) (*agent.Agent, error)

// entry pairs a session with the agent serving it. Turns within one session
// are serialized by mu; sessions are independent of each other.
type entry struct {
	mu      sync.Mutex
	session *agent.Session
	agent   *agent.Agent
}

// Store holds live chat sessions in memory for the lifetime of the process.
// Nothing is persisted.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	factory AgentFactory
}

func NewStore(factory AgentFactory) *Store {
	return &Store{
		entries: make(map[string]*entry),
		factory: factory,
	}
}

// Create opens a session backed by the default-credential agent. A missing
// default credential is not fatal here: the session starts without an agent
// and chat requests report that a key is needed.
func (s *Store) Create() (*agent.Session, error) {
	sess := agent.NewSession()
	ag, err := s.factory("")
	if err != nil {
		ag = nil
	}

	s.mu.Lock()
	s.entries[sess.ID] = &entry{session: sess, agent: ag}
	s.mu.Unlock()
	return sess, nil
}

func (s *Store) Get(sid string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[sid]
	return e, ok
}

// SetKey rebuilds the session's agent with a user-supplied credential.
func (s *Store) SetKey(sid, apiKey string) error {
	e, ok := s.Get(sid)
	if !ok {
		return ErrNoSession
	}
	ag, err := s.factory(apiKey)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.agent = ag
	e.mu.Unlock()
	return nil
}
