package controller

import (
	"context"

	"studycopilot/internal/dashboard"
	"studycopilot/internal/quiz"
	"studycopilot/internal/session"
	"studycopilot/internal/tasks"
)

// View identifies one of the four top-level panels.
type View int

const (
	ViewChat View = iota
	ViewTasks
	ViewDashboard
	ViewQuizzes
)

func (v View) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewTasks:
		return "tasks"
	case ViewDashboard:
		return "dashboard"
	case ViewQuizzes:
		return "quizzes"
	default:
		return "unknown"
	}
}

// Controller owns the active view and the per-view entry side effects.
// Chat state is never touched by navigation: switching away and back keeps
// the conversation exactly as it was.
type Controller struct {
	Sessions  *session.Manager
	Tasks     *tasks.Manager
	Dashboard *dashboard.Manager
	Quiz      *quiz.Engine

	active View
}

func New(sessions *session.Manager, tasks *tasks.Manager, dash *dashboard.Manager, engine *quiz.Engine) *Controller {
	c := &Controller{
		Sessions:  sessions,
		Tasks:     tasks,
		Dashboard: dash,
		Quiz:      engine,
		active:    ViewChat,
	}
	sessions.SetScheduleChangedHook(func() {
		// A chat turn changed the schedule; stale panels refetch on next
		// entry, but the currently mounted one must catch up now.
		ctx := context.Background()
		_ = c.Tasks.RefreshEvents(ctx)
		_ = c.Dashboard.Refresh(ctx)
	})
	return c
}

// Active returns the currently mounted view.
func (c *Controller) Active() View {
	return c.active
}

// EnterView switches panels and runs the target's entry refresh.
//
// Re-entering the active view is a no-op, except for Tasks and Dashboard
// whose data is externally mutable and therefore refetched on every entry.
// Entering Quizzes from another view resets the engine to mode selection;
// a generation or attempt in progress is abandoned.
func (c *Controller) EnterView(ctx context.Context, v View) error {
	reentry := v == c.active
	if reentry && v != ViewTasks && v != ViewDashboard {
		return nil
	}
	c.active = v

	switch v {
	case ViewChat:
		return nil
	case ViewTasks:
		return c.Tasks.Refresh(ctx)
	case ViewDashboard:
		return c.Dashboard.Refresh(ctx)
	case ViewQuizzes:
		c.Quiz.Reset()
		return nil
	}
	return nil
}
