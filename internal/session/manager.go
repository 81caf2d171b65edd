package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/priyankgupta/doi-monitor/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one viewer's interaction state: which dataset they are looking
// at, the active filter selection and the analysis window. Nothing here
// survives a process restart.
type Session struct {
	ID         string           `json:"id"`
	DatasetID  string           `json:"dataset_id"`
	Selection  domain.Selection `json:"selection"`
	WindowDays int              `json:"window_days"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Manager keeps sessions in memory behind a mutex. Mutations go through the
// manager so the selection reset rules are applied consistently.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create opens a session bound to an ingested dataset.
func (m *Manager) Create(datasetID string, windowDays int) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:         uuid.NewString(),
		DatasetID:  datasetID,
		WindowDays: windowDays,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return copySession(s)
}

// Get returns a copy of the session, or ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(s), nil
}

// ApplySelection updates one filter dimension of the session. The dimension
// is "sku", "city" or "pan"; the value "None" clears it. Setting a concrete
// SKU or city resets the pan mode, and setting a pan mode resets both, so a
// session never holds a contradictory selection.
func (m *Manager) ApplySelection(id, dimension, value string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	switch dimension {
	case "sku":
		s.Selection = s.Selection.WithSKU(value)
	case "city":
		s.Selection = s.Selection.WithCity(value)
	case "pan":
		mode, ok := domain.ParsePanMode(value)
		if !ok {
			return nil, fmt.Errorf("unknown pan mode %q", value)
		}
		s.Selection = s.Selection.WithPan(mode)
	default:
		return nil, fmt.Errorf("unknown selection dimension %q", dimension)
	}

	s.UpdatedAt = time.Now().UTC()
	return copySession(s), nil
}

// SetWindow updates the session's analysis window length.
func (m *Manager) SetWindow(id string, days int) (*Session, error) {
	if days < 1 {
		return nil, fmt.Errorf("window must be at least 1 day, got %d", days)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.WindowDays = days
	s.UpdatedAt = time.Now().UTC()
	return copySession(s), nil
}

func copySession(s *Session) *Session {
	c := *s
	return &c
}
