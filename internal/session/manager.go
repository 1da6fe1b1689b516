package session

import (
	"context"
	"strings"
	"sync"

	"studycopilot/internal/api"
)

// Service is the slice of the transport client the session manager needs.
type Service interface {
	SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error)
	ListSessions(ctx context.Context) ([]api.SessionMeta, error)
	SessionHistory(ctx context.Context, sessionID string) ([]api.Message, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// failureNotice is appended to the displayed history when a chat round trip
// fails at the transport level. The optimistic user message stays in place.
const failureNotice = "Sorry, something went wrong."

// Item is one entry of the session list view-model.
type Item struct {
	ID     string
	Title  string
	Active bool
}

// Snapshot is the chat view-model: a point-in-time copy for rendering.
type Snapshot struct {
	// ActiveID is empty for a brand-new session the server has not seen yet.
	ActiveID string
	Messages []api.Message
	Thinking bool
	Sessions []Item
}

// Manager owns the current session id, the displayed history, and the session
// list. It is the only writer of that state; concurrent async results are
// reconciled here, never in the render layer.
//
// Staleness rule: every operation that changes which session is displayed
// (new chat, switch, delete-active) bumps an epoch. An async result tagged
// with an older epoch is discarded when it resolves. History loads carry an
// additional sequence number so that of two overlapping switches, the
// later-issued one wins regardless of arrival order.
type Manager struct {
	mu        sync.Mutex
	svc       Service
	currentID string
	messages  []api.Message
	sessions  []api.SessionMeta
	pending   int
	epoch     uint64
	loadSeq   uint64

	onScheduleChanged func()
}

func NewManager(svc Service) *Manager {
	return &Manager{svc: svc}
}

// SetScheduleChangedHook registers the callback fired when a chat response
// reports that the schedule changed (events_updated).
func (m *Manager) SetScheduleChangedHook(fn func()) {
	m.mu.Lock()
	m.onScheduleChanged = fn
	m.mu.Unlock()
}

// StartNewChat clears the displayed history and detaches from any persisted
// session. It never contacts the server: an empty session is created lazily
// by the first message round trip.
func (m *Manager) StartNewChat() {
	m.mu.Lock()
	m.resetLocked()
	m.mu.Unlock()
}

func (m *Manager) resetLocked() {
	m.currentID = ""
	m.messages = nil
	m.epoch++
	m.loadSeq++
}

// SendMessage runs one chat turn. Empty input (after trimming) is a no-op.
// The user message is appended optimistically and never rolled back; a
// transport failure appends a generic failure bubble instead of the reply.
// A reply that arrives after the user has switched away from the session the
// send was issued against is discarded.
func (m *Manager) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	m.mu.Lock()
	m.messages = append(m.messages, api.Message{Role: api.RoleUser, Content: text})
	m.pending++
	issuedAgainst := m.currentID
	epoch := m.epoch
	m.mu.Unlock()

	resp, err := m.svc.SendMessage(ctx, api.ChatRequest{Message: text, SessionID: issuedAgainst})

	m.mu.Lock()
	m.pending--
	stale := m.epoch != epoch || m.currentID != issuedAgainst
	var notify func()
	switch {
	case stale:
		// The displayed session changed while the send was in flight.
	case err != nil:
		m.messages = append(m.messages, api.Message{Role: api.RoleAgent, Content: failureNotice})
	default:
		if resp.SessionID != "" {
			m.currentID = resp.SessionID
		}
		if resp.Response != "" {
			m.messages = append(m.messages, api.Message{Role: api.RoleAgent, Content: resp.Response})
		}
		if resp.EventsUpdated {
			notify = m.onScheduleChanged
		}
	}
	m.mu.Unlock()

	if notify != nil {
		notify()
	}

	// The title may have changed server-side after the first turn.
	m.refreshSessions(ctx)
	return err
}

// LoadSessions fetches the session list from the server.
func (m *Manager) LoadSessions(ctx context.Context) error {
	return m.refreshSessions(ctx)
}

func (m *Manager) refreshSessions(ctx context.Context) error {
	sessions, err := m.svc.ListSessions(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions = sessions
	m.mu.Unlock()
	return nil
}

// LoadSession switches the displayed history to the given session. Loading
// the already-active session is a no-op (no fetch). Of overlapping switches
// the later-issued one wins even if an earlier fetch resolves after it.
func (m *Manager) LoadSession(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil
	}

	m.mu.Lock()
	if id == m.currentID {
		m.mu.Unlock()
		return nil
	}
	m.loadSeq++
	seq := m.loadSeq
	epoch := m.epoch
	m.mu.Unlock()

	history, err := m.svc.SessionHistory(ctx, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if seq != m.loadSeq || epoch != m.epoch {
		m.mu.Unlock()
		return nil
	}
	m.currentID = id
	m.messages = history
	m.epoch++
	m.mu.Unlock()
	return nil
}

// DeleteSession removes a session server-side. Deleting the active session
// falls back to a fresh unsaved chat. The session list is re-fetched in
// either case so it reflects post-mutation server state.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil
	}

	err := m.svc.DeleteSession(ctx, id)
	if err == nil {
		m.mu.Lock()
		if id == m.currentID {
			m.resetLocked()
		}
		m.mu.Unlock()
	}

	if refreshErr := m.refreshSessions(ctx); refreshErr != nil && err == nil {
		err = refreshErr
	}
	return err
}

// ActiveID returns the current session id ("" for an unsaved session).
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Snapshot returns a copy of the chat view-model.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		ActiveID: m.currentID,
		Messages: append([]api.Message(nil), m.messages...),
		Thinking: m.pending > 0,
	}
	for _, s := range m.sessions {
		title := s.Title
		if strings.TrimSpace(title) == "" {
			title = "New Chat"
		}
		snap.Sessions = append(snap.Sessions, Item{
			ID:     s.ID,
			Title:  title,
			Active: s.ID != "" && s.ID == m.currentID,
		})
	}
	return snap
}
