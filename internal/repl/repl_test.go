package repl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"studycopilot/internal/api"
	"studycopilot/internal/controller"
	"studycopilot/internal/dashboard"
	"studycopilot/internal/i18n"
	"studycopilot/internal/quiz"
	"studycopilot/internal/session"
	"studycopilot/internal/tasks"
)

type replBackend struct {
	manual []api.ManualTask
	files  []api.FileInfo
}

func (b *replBackend) SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	return api.ChatResponse{SessionID: "s1", Response: "echo: " + req.Message}, nil
}
func (b *replBackend) ListSessions(ctx context.Context) ([]api.SessionMeta, error) {
	return []api.SessionMeta{{ID: "s1", Title: "Notes"}}, nil
}
func (b *replBackend) SessionHistory(ctx context.Context, id string) ([]api.Message, error) {
	return nil, nil
}
func (b *replBackend) DeleteSession(ctx context.Context, id string) error { return nil }
func (b *replBackend) ListEvents(ctx context.Context) (api.EventsResult, error) {
	return api.EventsResult{OK: true}, nil
}
func (b *replBackend) MarkEventComplete(ctx context.Context, id, summary string) error { return nil }
func (b *replBackend) DeleteEvent(ctx context.Context, id string) error                { return nil }
func (b *replBackend) ListManualTasks(ctx context.Context) ([]api.ManualTask, error) {
	return append([]api.ManualTask(nil), b.manual...), nil
}
func (b *replBackend) AddManualTask(ctx context.Context, text string) error {
	b.manual = append(b.manual, api.ManualTask{ID: "t1", Text: text})
	return nil
}
func (b *replBackend) ToggleManualTask(ctx context.Context, id string) error { return nil }
func (b *replBackend) DeleteManualTask(ctx context.Context, id string) error { return nil }
func (b *replBackend) DashboardStats(ctx context.Context) (api.DashboardStats, error) {
	return api.DashboardStats{TotalChats: 2}, nil
}
func (b *replBackend) GenerateQuiz(ctx context.Context, req api.QuizRequest) (api.QuizResult, error) {
	return api.QuizResult{}, nil
}
func (b *replBackend) SubmitQuizResult(ctx context.Context, topic string, score, total int) error {
	return nil
}
func (b *replBackend) EvaluateInterview(ctx context.Context, req api.InterviewRequest) (api.InterviewEvaluation, error) {
	return api.InterviewEvaluation{}, nil
}
func (b *replBackend) ListUploads(ctx context.Context) ([]api.FileInfo, error) {
	return append([]api.FileInfo(nil), b.files...), nil
}
func (b *replBackend) UploadFile(ctx context.Context, name string, r io.Reader) error {
	b.files = append(b.files, api.FileInfo{Name: name})
	return nil
}
func (b *replBackend) DeleteFile(ctx context.Context, name string) error { return nil }

func newTestLoop(backend *replBackend) (*Loop, *bytes.Buffer) {
	ctrl := controller.New(
		session.NewManager(backend),
		tasks.NewManager(backend),
		dashboard.NewManager(backend),
		quiz.NewEngine(backend, nil),
	)
	loop := NewLoop(ctrl, backend, nil, "Software Developer")
	loop.locale = i18n.New("en")
	var buf bytes.Buffer
	loop.out = &buf
	return loop, &buf
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		input     string
		name, arg string
	}{
		{"/open abc123", "/open", "abc123"},
		{"/help", "/help", ""},
		{"  /delete  s1  ", "/delete", "s1"},
		{"/ADD buy milk", "/add", "buy milk"},
	}
	for _, tc := range cases {
		name, arg := splitCommand(tc.input)
		if name != tc.name || arg != tc.arg {
			t.Fatalf("splitCommand(%q) = %q, %q", tc.input, name, arg)
		}
	}
}

func TestExitCommand(t *testing.T) {
	loop, _ := newTestLoop(&replBackend{})
	if err := loop.runCommand(context.Background(), "/exit"); err != errExit {
		t.Fatalf("err=%v, want errExit", err)
	}
}

func TestSessionsCommand(t *testing.T) {
	loop, buf := newTestLoop(&replBackend{})
	if err := loop.runCommand(context.Background(), "/sessions"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Notes") {
		t.Fatalf("output=%q, want session title", buf.String())
	}
}

func TestAddTaskCommand(t *testing.T) {
	backend := &replBackend{}
	loop, _ := newTestLoop(backend)
	if err := loop.runCommand(context.Background(), "/add read chapter 4"); err != nil {
		t.Fatal(err)
	}
	if len(backend.manual) != 1 || backend.manual[0].Text != "read chapter 4" {
		t.Fatalf("manual=%+v", backend.manual)
	}
}

func TestFilesCommandEmpty(t *testing.T) {
	loop, buf := newTestLoop(&replBackend{})
	if err := loop.runCommand(context.Background(), "/files"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No files uploaded yet") {
		t.Fatalf("output=%q", buf.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	loop, buf := newTestLoop(&replBackend{})
	if err := loop.runCommand(context.Background(), "/bogus"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "/bogus") {
		t.Fatalf("output=%q, want unknown-command notice", buf.String())
	}
}

func TestChatTurnPrintsReply(t *testing.T) {
	loop, buf := newTestLoop(&replBackend{})
	loop.runChatTurn(context.Background(), "hello")
	if !strings.Contains(buf.String(), "echo: hello") {
		t.Fatalf("output=%q, want agent reply", buf.String())
	}
}
