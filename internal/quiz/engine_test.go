package quiz

import (
	"context"
	"errors"
	"testing"

	"studycopilot/internal/api"
)

type fakeQuizService struct {
	quiz    api.QuizResult
	quizErr error

	submitted []submittedResult

	eval    api.InterviewEvaluation
	evalErr error
}

type submittedResult struct {
	topic        string
	score, total int
}

func (f *fakeQuizService) GenerateQuiz(ctx context.Context, req api.QuizRequest) (api.QuizResult, error) {
	return f.quiz, f.quizErr
}

func (f *fakeQuizService) SubmitQuizResult(ctx context.Context, topic string, score, total int) error {
	f.submitted = append(f.submitted, submittedResult{topic, score, total})
	return nil
}

func (f *fakeQuizService) EvaluateInterview(ctx context.Context, req api.InterviewRequest) (api.InterviewEvaluation, error) {
	return f.eval, f.evalErr
}

type fakeRecorder struct {
	attempts []recordedAttempt
}

type recordedAttempt struct {
	mode, topic            string
	score, total, percent int
}

func (r *fakeRecorder) RecordAttempt(ctx context.Context, mode, topic string, score, total, percent int) error {
	r.attempts = append(r.attempts, recordedAttempt{mode, topic, score, total, percent})
	return nil
}

func threeQuestions() []api.Question {
	return []api.Question{
		{Question: "q0", Options: []string{"a", "b", "c"}, Correct: 1},
		{Question: "q1", Options: []string{"a", "b", "c"}, Correct: 1},
		{Question: "q2", Options: []string{"a", "b", "c"}, Correct: 2},
	}
}

func startedEngine(t *testing.T, svc *fakeQuizService, rec Recorder) *Engine {
	t.Helper()
	e := NewEngine(svc, rec)
	if err := e.Start(context.Background(), api.QuizRequest{Mode: api.QuizModeRecall}); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestGradingCountsExactMatches(t *testing.T) {
	svc := &fakeQuizService{quiz: api.QuizResult{Questions: threeQuestions(), Topics: []string{"algebra"}}}
	rec := &fakeRecorder{}
	e := startedEngine(t, svc, rec)

	// Correct answers are [1,1,2]; the user picks [1,0,2].
	for i, pick := range []int{1, 0, 2} {
		if err := e.SelectAnswer(i, pick); err != nil {
			t.Fatal(err)
		}
	}
	score, percent, err := e.SubmitQuiz(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if score != 2 || percent != 67 {
		t.Fatalf("score=%d percent=%d, want 2 and 67", score, percent)
	}
	if len(svc.submitted) != 1 || svc.submitted[0].topic != "algebra" || svc.submitted[0].score != 2 {
		t.Fatalf("submitted=%+v", svc.submitted)
	}
	if len(rec.attempts) != 1 || rec.attempts[0].percent != 67 {
		t.Fatalf("recorded=%+v", rec.attempts)
	}
}

func TestUnansweredNeverScoresEvenWhenCorrectIsZero(t *testing.T) {
	svc := &fakeQuizService{quiz: api.QuizResult{Questions: []api.Question{
		{Question: "q0", Options: []string{"a", "b"}, Correct: 0},
		{Question: "q1", Options: []string{"a", "b"}, Correct: 0},
	}}}
	e := startedEngine(t, svc, nil)

	if err := e.SelectAnswer(1, 0); err != nil {
		t.Fatal(err)
	}
	score, percent, err := e.SubmitQuiz(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if score != 1 || percent != 50 {
		t.Fatalf("score=%d percent=%d, want 1 and 50", score, percent)
	}
}

func TestLastSelectionWins(t *testing.T) {
	svc := &fakeQuizService{quiz: api.QuizResult{Questions: threeQuestions()}}
	e := startedEngine(t, svc, nil)

	if err := e.SelectAnswer(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.SelectAnswer(0, 1); err != nil {
		t.Fatal(err)
	}
	score, _, err := e.SubmitQuiz(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if score != 1 {
		t.Fatalf("score=%d, want 1 (last selection counts)", score)
	}
}

func TestGradedIsTerminal(t *testing.T) {
	svc := &fakeQuizService{quiz: api.QuizResult{Questions: threeQuestions()}}
	e := startedEngine(t, svc, nil)

	if _, _, err := e.SubmitQuiz(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.SubmitQuiz(context.Background()); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("second submit err=%v, want ErrAlreadyGraded", err)
	}
	if err := e.SelectAnswer(0, 1); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("post-grade select err=%v, want ErrAlreadyGraded", err)
	}
}

func TestStartFailureReturnsToSelection(t *testing.T) {
	svc := &fakeQuizService{quiz: api.QuizResult{Error: "no uploads found"}}
	e := NewEngine(svc, nil)

	err := e.Start(context.Background(), api.QuizRequest{Mode: api.QuizModeUpload, Filename: "notes.pdf"})
	if err == nil {
		t.Fatal("expected generation error")
	}
	snap := e.Snapshot()
	if snap.Phase != PhaseSelection || snap.Err != "no uploads found" {
		t.Fatalf("snapshot=%+v", snap)
	}
}

func TestInterviewSubmitReEnablesOnFailure(t *testing.T) {
	svc := &fakeQuizService{
		quiz:    api.QuizResult{Questions: []api.Question{{Question: "tell me about Go"}}},
		evalErr: errors.New("evaluation service down"),
	}
	e := NewEngine(svc, nil)
	ctx := context.Background()
	if err := e.Start(ctx, api.QuizRequest{Mode: api.QuizModeInterview, JobRole: "Software Developer"}); err != nil {
		t.Fatal(err)
	}
	if err := e.SetAnswerText(0, "channels and goroutines"); err != nil {
		t.Fatal(err)
	}

	if err := e.SubmitInterview(ctx, "Software Developer"); err == nil {
		t.Fatal("expected evaluation failure")
	}
	snap := e.Snapshot()
	if snap.Submitting || snap.Phase != PhaseActive {
		t.Fatalf("control not re-enabled: %+v", snap)
	}

	// A later retry succeeds and grades the attempt.
	svc.evalErr = nil
	svc.eval = api.InterviewEvaluation{
		OverallFeedback: "solid",
		Evaluations:     []api.QuestionEvaluation{{QuestionIndex: 0, Rating: 8, Feedback: "good"}},
	}
	if err := e.SubmitInterview(ctx, "Software Developer"); err != nil {
		t.Fatal(err)
	}
	snap = e.Snapshot()
	if snap.Phase != PhaseGraded || snap.Evaluation == nil || snap.Evaluation.OverallFeedback != "solid" {
		t.Fatalf("snapshot=%+v", snap)
	}
	if err := e.SubmitInterview(ctx, "Software Developer"); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("resubmit err=%v, want ErrAlreadyGraded", err)
	}
}

func TestResetDropsAttempt(t *testing.T) {
	svc := &fakeQuizService{quiz: api.QuizResult{Questions: threeQuestions()}}
	e := startedEngine(t, svc, nil)

	e.Reset()
	snap := e.Snapshot()
	if snap.Phase != PhaseSelection || len(snap.Questions) != 0 || snap.Mode != "" {
		t.Fatalf("snapshot after reset = %+v", snap)
	}
	if _, _, err := e.SubmitQuiz(context.Background()); !errors.Is(err, ErrNotActive) {
		t.Fatalf("submit after reset err=%v, want ErrNotActive", err)
	}
}
