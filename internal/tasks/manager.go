package tasks

import (
	"context"
	"strings"
	"sync"

	"studycopilot/internal/api"
)

// Service is the slice of the transport client the schedule manager needs.
type Service interface {
	ListEvents(ctx context.Context) (api.EventsResult, error)
	MarkEventComplete(ctx context.Context, eventID, summary string) error
	DeleteEvent(ctx context.Context, eventID string) error
	ListManualTasks(ctx context.Context) ([]api.ManualTask, error)
	AddManualTask(ctx context.Context, text string) error
	ToggleManualTask(ctx context.Context, taskID string) error
	DeleteManualTask(ctx context.Context, taskID string) error
}

// EventItem is the calendar view-model row. Title never carries the
// completion marker; Completed reflects it instead.
type EventItem struct {
	ID        string
	Title     string
	When      string
	AllDay    bool
	Completed bool
}

// Snapshot is the tasks view-model. An error and an empty list render
// differently, so both states are kept apart.
type Snapshot struct {
	Events       []EventItem
	EventsErr    string
	EventsLoaded bool
	Manual       []api.ManualTask
	ManualErr    string
	ManualLoaded bool
}

// Manager owns the calendar-event and manual-task state. Mutations go
// through the server and are followed by a refetch: server state is the
// truth, local state is a cache of the last fetch.
type Manager struct {
	mu  sync.Mutex
	svc Service

	events       []api.CalendarEvent
	eventsErr    string
	eventsLoaded bool

	manual       []api.ManualTask
	manualErr    string
	manualLoaded bool
}

func NewManager(svc Service) *Manager {
	return &Manager{svc: svc}
}

// RefreshEvents refetches the calendar events. A transport failure is
// returned and also recorded so the view can show an error state instead of
// an empty one.
func (m *Manager) RefreshEvents(ctx context.Context) error {
	result, err := m.svc.ListEvents(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsLoaded = true
	switch {
	case err != nil:
		m.events = nil
		m.eventsErr = err.Error()
		return err
	case !result.OK:
		m.events = nil
		m.eventsErr = result.Error
		if m.eventsErr == "" {
			m.eventsErr = "could not load events"
		}
		return &api.ServiceError{Message: m.eventsErr}
	default:
		m.events = result.Events
		m.eventsErr = ""
		return nil
	}
}

// ToggleEventCompletion flips the completion marker of one event and pushes
// the new summary to the server, then refetches. The toggle is computed from
// the event's current summary, so toggling twice restores the original text.
func (m *Manager) ToggleEventCompletion(ctx context.Context, eventID string) error {
	m.mu.Lock()
	var summary string
	found := false
	for _, ev := range m.events {
		if ev.ID == eventID {
			summary = ev.Summary
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return &api.ServiceError{Message: "unknown event"}
	}

	if err := m.svc.MarkEventComplete(ctx, eventID, Toggle(summary)); err != nil {
		return err
	}
	return m.RefreshEvents(ctx)
}

// DeleteCalendarEvent removes an event server-side and refetches.
func (m *Manager) DeleteCalendarEvent(ctx context.Context, eventID string) error {
	if err := m.svc.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	return m.RefreshEvents(ctx)
}

// RefreshManualTasks refetches the manual task list.
func (m *Manager) RefreshManualTasks(ctx context.Context) error {
	list, err := m.svc.ListManualTasks(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.manualLoaded = true
	if err != nil {
		m.manual = nil
		m.manualErr = err.Error()
		return err
	}
	m.manual = list
	m.manualErr = ""
	return nil
}

// AddManualTask creates a manual task. Empty input is a no-op.
func (m *Manager) AddManualTask(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := m.svc.AddManualTask(ctx, text); err != nil {
		return err
	}
	return m.RefreshManualTasks(ctx)
}

// ToggleManualTask flips a task's completion server-side and refetches.
func (m *Manager) ToggleManualTask(ctx context.Context, taskID string) error {
	if err := m.svc.ToggleManualTask(ctx, taskID); err != nil {
		return err
	}
	return m.RefreshManualTasks(ctx)
}

// DeleteManualTask removes a task server-side and refetches.
func (m *Manager) DeleteManualTask(ctx context.Context, taskID string) error {
	if err := m.svc.DeleteManualTask(ctx, taskID); err != nil {
		return err
	}
	return m.RefreshManualTasks(ctx)
}

// Refresh refetches both events and manual tasks, returning the first error.
func (m *Manager) Refresh(ctx context.Context) error {
	err := m.RefreshEvents(ctx)
	if taskErr := m.RefreshManualTasks(ctx); err == nil {
		err = taskErr
	}
	return err
}

// Snapshot returns a copy of the tasks view-model.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		EventsErr:    m.eventsErr,
		EventsLoaded: m.eventsLoaded,
		Manual:       append([]api.ManualTask(nil), m.manual...),
		ManualErr:    m.manualErr,
		ManualLoaded: m.manualLoaded,
	}
	for _, ev := range m.events {
		item := EventItem{
			ID:        ev.ID,
			Title:     Strip(ev.Summary),
			Completed: IsCompleted(ev.Summary),
		}
		if ev.Start.DateTime != "" {
			item.When = ev.Start.DateTime
		} else {
			item.When = ev.Start.Date
			item.AllDay = true
		}
		snap.Events = append(snap.Events, item)
	}
	return snap
}
