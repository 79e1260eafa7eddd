package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"triage-assist/internal/domain"
	"triage-assist/internal/oracle"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionManager mantiene las conversaciones vivas en memoria. Cada sesion vive
// un TTL fijo desde su creacion, igual que su token; al expirar se descarta
// sin persistir nada.
type SessionManager struct {
	classifier oracle.Classifier
	observer   TurnObserver
	logger     *zap.Logger
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	conv      *Conversation
	expiresAt time.Time
}

func NewSessionManager(classifier oracle.Classifier, observer TurnObserver, ttl time.Duration, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionManager{
		classifier: classifier,
		observer:   observer,
		logger:     logger,
		ttl:        ttl,
		now:        time.Now,
		sessions:   make(map[string]*sessionEntry),
	}
}

// Create abre una sesion nueva con el saludo inicial. El descriptor devuelto
// no lleva token; lo firma quien expone la sesion.
func (m *SessionManager) Create() (*Conversation, domain.Session) {
	id := uuid.NewString()
	conv := newConversationWithClock(id, m.classifier, m.observer, m.logger, m.now)
	createdAt := conv.CreatedAt()
	// Segundos exactos: el exp del JWT no tiene mas precision.
	session := domain.Session{
		ID:        id,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(m.ttl).Truncate(time.Second),
	}

	m.mu.Lock()
	m.sessions[id] = &sessionEntry{conv: conv, expiresAt: session.ExpiresAt}
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", id), zap.Time("expires_at", session.ExpiresAt))
	return conv, session
}

// Get devuelve la conversacion si la sesion no expiro.
func (m *SessionManager) Get(id string) (*Conversation, error) {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok || !m.now().Before(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}
	return entry.conv, nil
}

func (m *SessionManager) Close(id string) error {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep descarta las sesiones vencidas. Una sesion con una solicitud en vuelo
// se conserva hasta que termine, aunque ya no sea accesible.
func (m *SessionManager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if now.Before(entry.expiresAt) || entry.conv.InFlight() {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.logger.Info("expired sessions swept", zap.Int("count", removed))
	}
	return removed
}

// Run barre sesiones expiradas cada interval hasta que ctx termine.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
