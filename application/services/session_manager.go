package services

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"canvas-backend/application/commands"
	"canvas-backend/application/ports"
	"canvas-backend/domain/config"
)

// SessionManager owns the interaction sessions of all connected clients
type SessionManager struct {
	canvasRepo ports.CanvasRepository
	mover      *commands.MoveNodeHandler
	connector  *commands.ConnectNodesHandler
	cfg        *config.DomainConfig
	logger     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a session manager
func NewSessionManager(
	canvasRepo ports.CanvasRepository,
	mover *commands.MoveNodeHandler,
	connector *commands.ConnectNodesHandler,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *SessionManager {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &SessionManager{
		canvasRepo: canvasRepo,
		mover:      mover,
		connector:  connector,
		cfg:        cfg,
		logger:     logger,
		sessions:   make(map[string]*Session),
	}
}

// Create starts a new session for a connecting client
func (m *SessionManager) Create() *Session {
	session := NewSession(uuid.New().String(), m.canvasRepo, m.mover, m.connector, m.cfg, m.logger)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", session.ID()))
	return session
}

// Get returns a session by id, or nil
func (m *SessionManager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove drops a session when its client disconnects
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.logger.Info("session removed", zap.String("session_id", id))
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
