package quiz

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"studycopilot/internal/api"
)

// Phase is the assessment lifecycle. Graded is terminal: a graded attempt is
// never re-graded, a new attempt starts from Selection.
type Phase int

const (
	PhaseSelection Phase = iota
	PhaseLoading
	PhaseActive
	PhaseGraded
)

var (
	ErrAlreadyGraded = errors.New("attempt already graded")
	ErrNotActive     = errors.New("no active attempt")
	ErrSubmitting    = errors.New("evaluation already in progress")
)

// Service is the slice of the transport client the engine needs.
type Service interface {
	GenerateQuiz(ctx context.Context, req api.QuizRequest) (api.QuizResult, error)
	SubmitQuizResult(ctx context.Context, topic string, score, total int) error
	EvaluateInterview(ctx context.Context, req api.InterviewRequest) (api.InterviewEvaluation, error)
}

// Recorder persists graded attempts locally. Recording is best effort and
// never affects grading.
type Recorder interface {
	RecordAttempt(ctx context.Context, mode, topic string, score, total, percent int) error
}

// Snapshot is the quiz view-model.
type Snapshot struct {
	Phase     Phase
	Mode      string
	Questions []api.Question
	Topics    []string
	// Answers holds selected option indexes keyed by question index. A
	// missing key means unanswered, which is distinct from option 0.
	Answers     map[int]int
	AnswerTexts map[int]string
	Score       int
	Percent     int
	Evaluation  *api.InterviewEvaluation
	Submitting  bool
	Err         string
}

// Engine runs one assessment attempt at a time: objective quizzes (upload and
// recall modes) graded locally, and interview mode graded by the server.
type Engine struct {
	mu  sync.Mutex
	svc Service
	rec Recorder

	gen         uint64 // bumped by Reset; in-flight results from older gens are dropped
	phase       Phase
	mode        string
	questions   []api.Question
	topics      []string
	answers     map[int]int
	answerTexts map[int]string
	score       int
	percent     int
	evaluation  *api.InterviewEvaluation
	submitting  bool
	errMsg      string
}

func NewEngine(svc Service, rec Recorder) *Engine {
	return &Engine{svc: svc, rec: rec}
}

// Reset returns the engine to mode selection, dropping any attempt state.
// A generation in flight when Reset is called is discarded on arrival.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.gen++
	e.phase = PhaseSelection
	e.mode = ""
	e.questions = nil
	e.topics = nil
	e.answers = nil
	e.answerTexts = nil
	e.score = 0
	e.percent = 0
	e.evaluation = nil
	e.submitting = false
	e.errMsg = ""
	e.mu.Unlock()
}

// Start requests a question set for the given mode and moves to Active on
// success. Generation failure returns to Selection with the error recorded.
func (e *Engine) Start(ctx context.Context, req api.QuizRequest) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.phase = PhaseLoading
	e.mode = req.Mode
	e.errMsg = ""
	e.mu.Unlock()

	result, err := e.svc.GenerateQuiz(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return nil
	}
	if err == nil && result.Error != "" {
		err = &api.ServiceError{Message: result.Error}
	}
	if err == nil && len(result.Questions) == 0 {
		err = &api.ServiceError{Message: "no questions generated"}
	}
	if err != nil {
		e.phase = PhaseSelection
		e.errMsg = err.Error()
		return err
	}

	e.phase = PhaseActive
	e.questions = result.Questions
	e.topics = result.Topics
	e.answers = map[int]int{}
	e.answerTexts = map[int]string{}
	return nil
}

// SelectAnswer records the chosen option for a question. Re-selecting
// replaces the previous choice (last write wins).
func (e *Engine) SelectAnswer(questionIndex, optionIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseGraded {
		return ErrAlreadyGraded
	}
	if e.phase != PhaseActive {
		return ErrNotActive
	}
	if questionIndex < 0 || questionIndex >= len(e.questions) {
		return errors.New("question index out of range")
	}
	q := e.questions[questionIndex]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return errors.New("option index out of range")
	}
	e.answers[questionIndex] = optionIndex
	return nil
}

// SetAnswerText records a free-text interview answer for a question.
func (e *Engine) SetAnswerText(questionIndex int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseGraded {
		return ErrAlreadyGraded
	}
	if e.phase != PhaseActive {
		return ErrNotActive
	}
	if questionIndex < 0 || questionIndex >= len(e.questions) {
		return errors.New("question index out of range")
	}
	e.answerTexts[questionIndex] = text
	return nil
}

// SubmitQuiz grades an objective attempt deterministically: one point per
// question whose recorded answer equals the correct index. An unanswered
// question never scores, even when the correct index is 0. The percentage is
// rounded half up; an attempt with zero questions scores 0%.
//
// The graded result is pushed to the server and the local ledger best effort;
// neither failure disturbs the grade.
func (e *Engine) SubmitQuiz(ctx context.Context) (score, percent int, err error) {
	e.mu.Lock()
	if e.phase == PhaseGraded {
		e.mu.Unlock()
		return 0, 0, ErrAlreadyGraded
	}
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return 0, 0, ErrNotActive
	}

	total := len(e.questions)
	for i, q := range e.questions {
		if selected, answered := e.answers[i]; answered && selected == q.Correct {
			score++
		}
	}
	percent = 0
	if total > 0 {
		percent = int(math.Round(float64(score) / float64(total) * 100))
	}
	e.phase = PhaseGraded
	e.score = score
	e.percent = percent
	mode := e.mode
	topics := append([]string(nil), e.topics...)
	e.mu.Unlock()

	topic := mode
	if len(topics) > 0 {
		topic = strings.Join(topics, ", ")
	}
	_ = e.svc.SubmitQuizResult(ctx, topic, score, total)
	if e.rec != nil {
		_ = e.rec.RecordAttempt(ctx, mode, topic, score, total, percent)
	}
	return score, percent, nil
}

// SubmitInterview sends all answers as one batch for evaluation. While a
// batch is in flight further submits are rejected; the control re-enables
// only when evaluation fails. Unanswered questions go out as empty strings.
func (e *Engine) SubmitInterview(ctx context.Context, jobRole string) error {
	e.mu.Lock()
	if e.phase == PhaseGraded {
		e.mu.Unlock()
		return ErrAlreadyGraded
	}
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return ErrNotActive
	}
	if e.submitting {
		e.mu.Unlock()
		return ErrSubmitting
	}
	e.submitting = true
	gen := e.gen
	pairs := make([]api.QAPair, len(e.questions))
	for i, q := range e.questions {
		pairs[i] = api.QAPair{Question: q.Question, Answer: e.answerTexts[i]}
	}
	e.mu.Unlock()

	eval, err := e.svc.EvaluateInterview(ctx, api.InterviewRequest{QAPairs: pairs, JobRole: jobRole})

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return nil
	}
	if err != nil {
		e.submitting = false
		return err
	}
	e.submitting = false
	e.phase = PhaseGraded
	e.evaluation = &eval

	if e.rec != nil {
		score := 0
		for _, q := range eval.Evaluations {
			score += q.Rating
		}
		total := len(eval.Evaluations) * 10
		percent := 0
		if total > 0 {
			percent = int(math.Round(float64(score) / float64(total) * 100))
		}
		_ = e.rec.RecordAttempt(ctx, api.QuizModeInterview, jobRole, score, total, percent)
	}
	return nil
}

// Snapshot returns a copy of the quiz view-model.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Phase:      e.phase,
		Mode:       e.mode,
		Questions:  append([]api.Question(nil), e.questions...),
		Topics:     append([]string(nil), e.topics...),
		Score:      e.score,
		Percent:    e.percent,
		Evaluation: e.evaluation,
		Submitting: e.submitting,
		Err:        e.errMsg,
	}
	if e.answers != nil {
		snap.Answers = make(map[int]int, len(e.answers))
		for k, v := range e.answers {
			snap.Answers[k] = v
		}
	}
	if e.answerTexts != nil {
		snap.AnswerTexts = make(map[int]string, len(e.answerTexts))
		for k, v := range e.answerTexts {
			snap.AnswerTexts[k] = v
		}
	}
	return snap
}
