package tui

import (
	"context"
	"testing"

	"studycopilot/internal/api"
	"studycopilot/internal/controller"
	"studycopilot/internal/dashboard"
	"studycopilot/internal/quiz"
	"studycopilot/internal/session"
	"studycopilot/internal/tasks"

	tea "github.com/charmbracelet/bubbletea"
)

type stubBackend struct{}

func (stubBackend) SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	return api.ChatResponse{SessionID: "s1", Response: "ok"}, nil
}
func (stubBackend) ListSessions(ctx context.Context) ([]api.SessionMeta, error) { return nil, nil }
func (stubBackend) SessionHistory(ctx context.Context, id string) ([]api.Message, error) {
	return nil, nil
}
func (stubBackend) DeleteSession(ctx context.Context, id string) error { return nil }
func (stubBackend) ListEvents(ctx context.Context) (api.EventsResult, error) {
	return api.EventsResult{OK: true}, nil
}
func (stubBackend) MarkEventComplete(ctx context.Context, id, summary string) error { return nil }
func (stubBackend) DeleteEvent(ctx context.Context, id string) error                { return nil }
func (stubBackend) ListManualTasks(ctx context.Context) ([]api.ManualTask, error)   { return nil, nil }
func (stubBackend) AddManualTask(ctx context.Context, text string) error            { return nil }
func (stubBackend) ToggleManualTask(ctx context.Context, id string) error           { return nil }
func (stubBackend) DeleteManualTask(ctx context.Context, id string) error           { return nil }
func (stubBackend) DashboardStats(ctx context.Context) (api.DashboardStats, error) {
	return api.DashboardStats{}, nil
}
func (stubBackend) GenerateQuiz(ctx context.Context, req api.QuizRequest) (api.QuizResult, error) {
	return api.QuizResult{Questions: []api.Question{
		{Question: "q", Options: []string{"a", "b"}, Correct: 0},
	}}, nil
}
func (stubBackend) SubmitQuizResult(ctx context.Context, topic string, score, total int) error {
	return nil
}
func (stubBackend) EvaluateInterview(ctx context.Context, req api.InterviewRequest) (api.InterviewEvaluation, error) {
	return api.InterviewEvaluation{}, nil
}

func newTestApp() App {
	backend := stubBackend{}
	ctrl := controller.New(
		session.NewManager(backend),
		tasks.NewManager(backend),
		dashboard.NewManager(backend),
		quiz.NewEngine(backend, nil),
	)
	app := NewApp(ctrl, nil, 30, "Software Developer")
	app.width, app.height = 100, 30
	app.relayout()
	return app
}

func TestTabSwitchesPanel(t *testing.T) {
	app := newTestApp()

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	updated := m.(App)
	if cmd == nil {
		t.Fatal("expected entry-refresh command")
	}
	// EnterView 在命令中执行 / EnterView runs inside the command
	if msg := cmd(); msg == nil {
		t.Fatal("expected viewEnteredMsg")
	}
	if updated.ctrl.Active() != controller.ViewTasks {
		t.Fatalf("active=%v, want tasks", updated.ctrl.Active())
	}
}

func TestQuizModeSelectionStartsGeneration(t *testing.T) {
	app := newTestApp()
	ctx := context.Background()
	if err := app.ctrl.EnterView(ctx, controller.ViewQuizzes); err != nil {
		t.Fatal(err)
	}

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	updated := m.(App)
	if !updated.busy || cmd == nil {
		t.Fatal("expected busy state with a generation command")
	}
}

func TestChatEnterSendsMessage(t *testing.T) {
	app := newTestApp()
	app.input.SetValue("hello")

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := m.(App)
	if !updated.busy || cmd == nil {
		t.Fatal("expected send in flight")
	}
	if updated.input.Value() != "" {
		t.Fatalf("input not cleared: %q", updated.input.Value())
	}
}

func TestDeleteSessionNeedsConfirmation(t *testing.T) {
	app := newTestApp()
	if err := app.ctrl.Sessions.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	updated := m.(App)
	if cmd != nil {
		t.Fatal("delete must wait for confirmation")
	}
	if updated.confirmCmd == nil {
		t.Fatal("expected a pending confirmation")
	}

	// 按 n 取消 / any key but y cancels
	m, cmd = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	updated = m.(App)
	if cmd != nil || updated.confirmCmd != nil {
		t.Fatal("cancel should drop the pending delete")
	}

	m, _ = updated.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m, cmd = m.(App).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	updated = m.(App)
	if cmd == nil {
		t.Fatal("confirm should run the delete command")
	}
	if msg := cmd(); msgErr(msg) != nil {
		t.Fatalf("delete failed: %v", msgErr(msg))
	}
	if updated.confirmCmd != nil {
		t.Fatal("confirmation should be consumed")
	}
}

func TestEscCancelsPrompt(t *testing.T) {
	app := newTestApp()
	app.prompt = promptAddTask

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updated := m.(App)
	if updated.prompt != promptNone {
		t.Fatalf("prompt=%v, want none", updated.prompt)
	}
}
