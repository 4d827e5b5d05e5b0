package conversation

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationExists   = errors.New("conversation already exists")
)

// Registry maps conversation ids to their managers. Each conversation is
// one independent ledger/tracker pair; the registry only handles lookup.
type Registry struct {
	mu            sync.RWMutex
	conversations map[string]*Manager
	logger        *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		conversations: make(map[string]*Manager),
		logger:        logger,
	}
}

// Create starts a new conversation under the given id.
func (r *Registry) Create(conversationID, topic string, goals []string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conversations[conversationID]; exists {
		return nil, ErrConversationExists
	}
	m := NewManager(r.logger)
	m.StartConversation(conversationID, topic, goals)
	r.conversations[conversationID] = m
	return m, nil
}

// Get returns the manager for a conversation id.
func (r *Registry) Get(conversationID string) (*Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.conversations[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return m, nil
}

// Len reports how many conversations are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations)
}
