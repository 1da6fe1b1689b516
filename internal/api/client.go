package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"studycopilot/internal/config"
)

// ServiceError is an application-level failure: the exchange itself
// succeeded but the server reported a problem (ok:false, an error field, or
// a non-2xx status with a message). Transport failures are returned as plain
// wrapped errors instead.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("service error: status=%d", e.Status)
}

// Client talks to the remote StudyCopilot service. All persistence,
// scheduling, and content generation live behind it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.ServerConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Chat & sessions ---

func (c *Client) SendMessage(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return ChatResponse{}, fmt.Errorf("send chat message: %w", err)
	}
	return resp, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]SessionMeta, error) {
	var sessions []SessionMeta
	if err := c.doJSON(ctx, http.MethodGet, "/sessions", nil, &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (c *Client) NewChat(ctx context.Context) (SessionMeta, error) {
	var meta SessionMeta
	if err := c.doJSON(ctx, http.MethodPost, "/new_chat", nil, &meta); err != nil {
		return SessionMeta{}, fmt.Errorf("create chat: %w", err)
	}
	return meta, nil
}

func (c *Client) SessionHistory(ctx context.Context, sessionID string) ([]Message, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, fmt.Errorf("session id is empty")
	}
	var history []Message
	if err := c.doJSON(ctx, http.MethodGet, "/history/"+url.PathEscape(id), nil, &history); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	// The service stores the assistant side as role "model".
	for i := range history {
		if history[i].Role != RoleUser {
			history[i].Role = RoleAgent
		}
	}
	return history, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return fmt.Errorf("session id is empty")
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !resp.Success {
		return &ServiceError{Message: orDefault(resp.Error, "session not deleted")}
	}
	return nil
}

// --- Calendar events ---

func (c *Client) ListEvents(ctx context.Context) (EventsResult, error) {
	var resp EventsResult
	if err := c.doJSON(ctx, http.MethodGet, "/events", nil, &resp); err != nil {
		return EventsResult{}, fmt.Errorf("list events: %w", err)
	}
	return resp, nil
}

func (c *Client) MarkEventComplete(ctx context.Context, eventID, summary string) error {
	payload := map[string]string{"event_id": eventID, "summary": summary}
	var resp okEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/mark_event_complete", payload, &resp); err != nil {
		return fmt.Errorf("toggle event completion: %w", err)
	}
	return resp.err()
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	payload := map[string]string{"event_id": eventID}
	var resp okEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/delete_calendar_event", payload, &resp); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return resp.err()
}

// --- Manual tasks ---

func (c *Client) ListManualTasks(ctx context.Context) ([]ManualTask, error) {
	var tasks []ManualTask
	if err := c.doJSON(ctx, http.MethodGet, "/manual_tasks", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list manual tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) AddManualTask(ctx context.Context, text string) error {
	payload := map[string]string{"text": text}
	if err := c.doJSON(ctx, http.MethodPost, "/manual_tasks", payload, nil); err != nil {
		return fmt.Errorf("add manual task: %w", err)
	}
	return nil
}

func (c *Client) ToggleManualTask(ctx context.Context, taskID string) error {
	id := strings.TrimSpace(taskID)
	if id == "" {
		return fmt.Errorf("task id is empty")
	}
	if err := c.doJSON(ctx, http.MethodPut, "/manual_tasks/"+url.PathEscape(id)+"/toggle", nil, nil); err != nil {
		return fmt.Errorf("toggle manual task: %w", err)
	}
	return nil
}

func (c *Client) DeleteManualTask(ctx context.Context, taskID string) error {
	id := strings.TrimSpace(taskID)
	if id == "" {
		return fmt.Errorf("task id is empty")
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/manual_tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete manual task: %w", err)
	}
	return nil
}

// --- Dashboard ---

func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard_stats", nil, &stats); err != nil {
		return DashboardStats{}, fmt.Errorf("fetch dashboard stats: %w", err)
	}
	return stats, nil
}

// --- Quiz & interview ---

func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (QuizResult, error) {
	var resp QuizResult
	if err := c.doJSON(ctx, http.MethodPost, "/generate_quiz", req, &resp); err != nil {
		return QuizResult{}, fmt.Errorf("generate quiz: %w", err)
	}
	return resp, nil
}

func (c *Client) SubmitQuizResult(ctx context.Context, topic string, score, total int) error {
	payload := map[string]any{"topic": topic, "score": score, "total": total}
	if err := c.doJSON(ctx, http.MethodPost, "/submit_quiz_result", payload, nil); err != nil {
		return fmt.Errorf("submit quiz result: %w", err)
	}
	return nil
}

func (c *Client) EvaluateInterview(ctx context.Context, req InterviewRequest) (InterviewEvaluation, error) {
	var resp InterviewEvaluation
	if err := c.doJSON(ctx, http.MethodPost, "/evaluate_interview", req, &resp); err != nil {
		return InterviewEvaluation{}, fmt.Errorf("evaluate interview: %w", err)
	}
	return resp, nil
}

// --- Uploaded files ---

func (c *Client) ListUploads(ctx context.Context) ([]FileInfo, error) {
	var resp struct {
		Files []FileInfo `json:"files"`
		Error string     `json:"error,omitempty"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/list_uploads", nil, &resp); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	if resp.Error != "" {
		return nil, &ServiceError{Message: resp.Error}
	}
	return resp.Files, nil
}

func (c *Client) UploadFile(ctx context.Context, name string, r io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	var out successEnvelope
	if err := decodeResponse(resp, &out); err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	return out.err()
}

func (c *Client) DeleteFile(ctx context.Context, name string) error {
	payload := map[string]string{"filename": name}
	var resp successEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/delete_file", payload, &resp); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return resp.err()
}

// --- Plumbing ---

type okEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (e okEnvelope) err() error {
	if e.OK {
		return nil
	}
	return &ServiceError{Message: orDefault(e.Error, "request rejected")}
}

type successEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (e successEnvelope) err() error {
	if e.Success {
		return nil
	}
	return &ServiceError{Message: orDefault(e.Error, "request rejected")}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decodeResponse(resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			return &ServiceError{Status: resp.StatusCode, Message: failure.Error}
		}
		return &ServiceError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
