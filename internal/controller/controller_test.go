package controller

import (
	"context"
	"sync"
	"testing"

	"studycopilot/internal/api"
	"studycopilot/internal/dashboard"
	"studycopilot/internal/quiz"
	"studycopilot/internal/session"
	"studycopilot/internal/tasks"
)

// fakeBackend implements every manager's service slice with call counters.
type fakeBackend struct {
	mu           sync.Mutex
	eventCalls   int
	statsCalls   int
	chatResponse api.ChatResponse
	quizResult   api.QuizResult
}

func (f *fakeBackend) SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	return f.chatResponse, nil
}
func (f *fakeBackend) ListSessions(ctx context.Context) ([]api.SessionMeta, error) { return nil, nil }
func (f *fakeBackend) SessionHistory(ctx context.Context, id string) ([]api.Message, error) {
	return nil, nil
}
func (f *fakeBackend) DeleteSession(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) ListEvents(ctx context.Context) (api.EventsResult, error) {
	f.mu.Lock()
	f.eventCalls++
	f.mu.Unlock()
	return api.EventsResult{OK: true}, nil
}
func (f *fakeBackend) MarkEventComplete(ctx context.Context, id, summary string) error { return nil }
func (f *fakeBackend) DeleteEvent(ctx context.Context, id string) error                { return nil }
func (f *fakeBackend) ListManualTasks(ctx context.Context) ([]api.ManualTask, error)   { return nil, nil }
func (f *fakeBackend) AddManualTask(ctx context.Context, text string) error            { return nil }
func (f *fakeBackend) ToggleManualTask(ctx context.Context, id string) error           { return nil }
func (f *fakeBackend) DeleteManualTask(ctx context.Context, id string) error           { return nil }

func (f *fakeBackend) DashboardStats(ctx context.Context) (api.DashboardStats, error) {
	f.mu.Lock()
	f.statsCalls++
	f.mu.Unlock()
	return api.DashboardStats{}, nil
}

func (f *fakeBackend) GenerateQuiz(ctx context.Context, req api.QuizRequest) (api.QuizResult, error) {
	return f.quizResult, nil
}
func (f *fakeBackend) SubmitQuizResult(ctx context.Context, topic string, score, total int) error {
	return nil
}
func (f *fakeBackend) EvaluateInterview(ctx context.Context, req api.InterviewRequest) (api.InterviewEvaluation, error) {
	return api.InterviewEvaluation{}, nil
}

func (f *fakeBackend) counts() (events, stats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventCalls, f.statsCalls
}

func newController(backend *fakeBackend) *Controller {
	return New(
		session.NewManager(backend),
		tasks.NewManager(backend),
		dashboard.NewManager(backend),
		quiz.NewEngine(backend, nil),
	)
}

func TestReenteringChatIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)
	ctx := context.Background()

	if err := c.EnterView(ctx, ViewChat); err != nil {
		t.Fatal(err)
	}
	if c.Active() != ViewChat {
		t.Fatalf("active=%v", c.Active())
	}
	events, stats := backend.counts()
	if events != 0 || stats != 0 {
		t.Fatalf("chat entry triggered fetches: events=%d stats=%d", events, stats)
	}
}

func TestTasksAndDashboardRefreshOnEveryEntry(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := c.EnterView(ctx, ViewTasks); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := c.EnterView(ctx, ViewDashboard); err != nil {
			t.Fatal(err)
		}
	}
	events, stats := backend.counts()
	if events < 2 {
		t.Fatalf("eventCalls=%d, want one per tasks entry", events)
	}
	if stats != 2 {
		t.Fatalf("statsCalls=%d, want one per dashboard entry", stats)
	}
}

func TestEnteringQuizzesResetsEngine(t *testing.T) {
	backend := &fakeBackend{quizResult: api.QuizResult{Questions: []api.Question{
		{Question: "q", Options: []string{"a", "b"}, Correct: 0},
	}}}
	c := newController(backend)
	ctx := context.Background()

	if err := c.EnterView(ctx, ViewQuizzes); err != nil {
		t.Fatal(err)
	}
	if err := c.Quiz.Start(ctx, api.QuizRequest{Mode: api.QuizModeRecall}); err != nil {
		t.Fatal(err)
	}
	if got := c.Quiz.Snapshot().Phase; got != quiz.PhaseActive {
		t.Fatalf("phase=%v, want active", got)
	}

	// Leave and come back: the attempt is abandoned.
	if err := c.EnterView(ctx, ViewChat); err != nil {
		t.Fatal(err)
	}
	if err := c.EnterView(ctx, ViewQuizzes); err != nil {
		t.Fatal(err)
	}
	if got := c.Quiz.Snapshot().Phase; got != quiz.PhaseSelection {
		t.Fatalf("phase=%v, want selection after re-entry", got)
	}
}

func TestScheduleChangeRefreshesTasksAndDashboard(t *testing.T) {
	backend := &fakeBackend{chatResponse: api.ChatResponse{
		SessionID:     "s1",
		Response:      "scheduled it",
		EventsUpdated: true,
	}}
	c := newController(backend)

	if err := c.Sessions.SendMessage(context.Background(), "add study session tomorrow"); err != nil {
		t.Fatal(err)
	}
	events, stats := backend.counts()
	if events != 1 || stats != 1 {
		t.Fatalf("events=%d stats=%d, want 1 and 1 after schedule change", events, stats)
	}
}
