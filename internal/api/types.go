package api

// Role values used in chat history.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is one entry of a session's chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionMeta identifies a server-held chat session.
type SessionMeta struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ChatRequest is the payload of a chat turn. SessionID is empty for a
// not-yet-persisted session; the server then creates one and returns its id.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the server's answer to a chat turn.
type ChatResponse struct {
	SessionID     string `json:"session_id"`
	Response      string `json:"response"`
	Title         string `json:"title,omitempty"`
	EventsUpdated bool   `json:"events_updated,omitempty"`
}

// EventTime is the calendar wire format: either a timed start (dateTime)
// or an all-day start (date).
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// CalendarEvent is an externally owned calendar entry. Completion is encoded
// as a literal "✅ " prefix on Summary; see the tasks package.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Start       EventTime `json:"start"`
	Description string    `json:"description,omitempty"`
}

// EventsResult is the /events envelope.
type EventsResult struct {
	OK     bool            `json:"ok"`
	Events []CalendarEvent `json:"events,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ManualTask is a server-held todo item.
type ManualTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// KnowledgeTopic is one bar of the dashboard knowledge profile.
type KnowledgeTopic struct {
	Topic string  `json:"topic"`
	Level float64 `json:"level"`
}

// DashboardStats is the /dashboard_stats payload.
type DashboardStats struct {
	UserName            string           `json:"user_name,omitempty"`
	TotalChats          int              `json:"total_chats"`
	TotalFiles          int              `json:"total_files"`
	UpcomingEventsCount int              `json:"upcoming_events_count"`
	KnowledgeProfile    []KnowledgeTopic `json:"knowledge_profile"`
	UpcomingEvents      []CalendarEvent  `json:"upcoming_events"`
}

// Quiz generation modes.
const (
	QuizModeUpload    = "upload"
	QuizModeRecall    = "recall"
	QuizModeInterview = "interview"
)

// QuizRequest asks the server to generate a question set. Filename applies to
// upload mode, JobRole to interview mode; recall mode needs neither (the
// server infers yesterday's topics).
type QuizRequest struct {
	Mode     string `json:"mode"`
	Filename string `json:"filename,omitempty"`
	JobRole  string `json:"job_role,omitempty"`
}

// Question is an objective multiple-choice question. Correct indexes into
// Options; index 0 is a valid answer and must not be conflated with
// "unanswered".
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Correct  int      `json:"correct"`
}

// QuizResult is the /generate_quiz envelope. Interview mode returns
// option-less questions; recall mode additionally returns the topics the
// questions were drawn from.
type QuizResult struct {
	Questions []Question `json:"questions,omitempty"`
	Topics    []string   `json:"topics,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// QAPair is one interview question with the user's free-text answer.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// InterviewRequest submits all answers as one batch for evaluation.
type InterviewRequest struct {
	QAPairs []QAPair `json:"qa_pairs"`
	JobRole string   `json:"job_role"`
}

// QuestionEvaluation is the per-question grading of an interview answer.
type QuestionEvaluation struct {
	QuestionIndex int    `json:"question_index"`
	Rating        int    `json:"rating"` // 0-10
	Feedback      string `json:"feedback"`
}

// InterviewEvaluation is the /evaluate_interview response.
type InterviewEvaluation struct {
	OverallFeedback string               `json:"overall_feedback"`
	Evaluations     []QuestionEvaluation `json:"evaluations"`
}

// FileInfo describes an uploaded study file.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
