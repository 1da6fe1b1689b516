package tasks

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"studycopilot/internal/api"
)

type fakeSchedule struct {
	events     []api.CalendarEvent
	eventsErr  error
	listFails  bool
	listErrMsg string

	manual     []api.ManualTask
	nextTaskID int

	marked  map[string]string
	deleted []string
}

func newFakeSchedule() *fakeSchedule {
	return &fakeSchedule{marked: map[string]string{}}
}

func (f *fakeSchedule) ListEvents(ctx context.Context) (api.EventsResult, error) {
	if f.eventsErr != nil {
		return api.EventsResult{}, f.eventsErr
	}
	if f.listFails {
		return api.EventsResult{OK: false, Error: f.listErrMsg}, nil
	}
	return api.EventsResult{OK: true, Events: append([]api.CalendarEvent(nil), f.events...)}, nil
}

func (f *fakeSchedule) MarkEventComplete(ctx context.Context, eventID, summary string) error {
	f.marked[eventID] = summary
	for i := range f.events {
		if f.events[i].ID == eventID {
			f.events[i].Summary = summary
		}
	}
	return nil
}

func (f *fakeSchedule) DeleteEvent(ctx context.Context, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.ID != eventID {
			kept = append(kept, ev)
		}
	}
	f.events = kept
	return nil
}

func (f *fakeSchedule) ListManualTasks(ctx context.Context) ([]api.ManualTask, error) {
	return append([]api.ManualTask(nil), f.manual...), nil
}

func (f *fakeSchedule) AddManualTask(ctx context.Context, text string) error {
	f.nextTaskID++
	f.manual = append(f.manual, api.ManualTask{ID: strconv.Itoa(f.nextTaskID), Text: text})
	return nil
}

func (f *fakeSchedule) ToggleManualTask(ctx context.Context, taskID string) error {
	for i := range f.manual {
		if f.manual[i].ID == taskID {
			f.manual[i].Completed = !f.manual[i].Completed
			return nil
		}
	}
	return errors.New("no such task")
}

func (f *fakeSchedule) DeleteManualTask(ctx context.Context, taskID string) error {
	kept := f.manual[:0]
	for _, task := range f.manual {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	f.manual = kept
	return nil
}

func TestRefreshEventsSeparatesErrorFromEmpty(t *testing.T) {
	svc := newFakeSchedule()
	m := NewManager(svc)
	ctx := context.Background()

	// Empty but successful.
	if err := m.RefreshEvents(ctx); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	if !snap.EventsLoaded || snap.EventsErr != "" || len(snap.Events) != 0 {
		t.Fatalf("empty list snapshot = %+v", snap)
	}

	// Service-level failure.
	svc.listFails = true
	svc.listErrMsg = "calendar unavailable"
	if err := m.RefreshEvents(ctx); err == nil {
		t.Fatal("expected error")
	}
	snap = m.Snapshot()
	if snap.EventsErr != "calendar unavailable" {
		t.Fatalf("EventsErr=%q", snap.EventsErr)
	}
}

func TestToggleEventCompletionRoundTrip(t *testing.T) {
	svc := newFakeSchedule()
	svc.events = []api.CalendarEvent{{ID: "e1", Summary: "Study algebra", Start: api.EventTime{Date: "2026-08-29"}}}
	m := NewManager(svc)
	ctx := context.Background()

	if err := m.RefreshEvents(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.ToggleEventCompletion(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	if got := svc.marked["e1"]; got != "✅ Study algebra" {
		t.Fatalf("pushed summary=%q", got)
	}
	snap := m.Snapshot()
	if !snap.Events[0].Completed || snap.Events[0].Title != "Study algebra" {
		t.Fatalf("event item = %+v", snap.Events[0])
	}
	if !snap.Events[0].AllDay || snap.Events[0].When != "2026-08-29" {
		t.Fatalf("event time = %+v", snap.Events[0])
	}

	// Toggling back restores the exact original summary.
	if err := m.ToggleEventCompletion(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	if got := svc.marked["e1"]; got != "Study algebra" {
		t.Fatalf("restored summary=%q", got)
	}
}

func TestToggleUnknownEvent(t *testing.T) {
	m := NewManager(newFakeSchedule())
	if err := m.ToggleEventCompletion(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown event")
	}
}

func TestDeleteEventRefetches(t *testing.T) {
	svc := newFakeSchedule()
	svc.events = []api.CalendarEvent{{ID: "e1", Summary: "A"}, {ID: "e2", Summary: "B"}}
	m := NewManager(svc)
	ctx := context.Background()

	if err := m.RefreshEvents(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteCalendarEvent(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	if len(snap.Events) != 1 || snap.Events[0].ID != "e2" {
		t.Fatalf("events=%+v, want only e2", snap.Events)
	}
}

func TestManualTaskLifecycle(t *testing.T) {
	svc := newFakeSchedule()
	m := NewManager(svc)
	ctx := context.Background()

	if err := m.AddManualTask(ctx, "  "); err != nil {
		t.Fatal(err)
	}
	if len(svc.manual) != 0 {
		t.Fatal("blank task was created")
	}

	if err := m.AddManualTask(ctx, "read notes"); err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	if len(snap.Manual) != 1 || snap.Manual[0].Text != "read notes" {
		t.Fatalf("manual=%+v", snap.Manual)
	}

	id := snap.Manual[0].ID
	if err := m.ToggleManualTask(ctx, id); err != nil {
		t.Fatal(err)
	}
	if !m.Snapshot().Manual[0].Completed {
		t.Fatal("task not completed after toggle")
	}

	if err := m.DeleteManualTask(ctx, id); err != nil {
		t.Fatal(err)
	}
	snap = m.Snapshot()
	if len(snap.Manual) != 0 || !snap.ManualLoaded {
		t.Fatalf("post-delete snapshot = %+v", snap)
	}
}
