package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// UI - Panel titles
	"panel.chat":      "Chat",
	"panel.tasks":     "Tasks",
	"panel.dashboard": "Dashboard",
	"panel.quizzes":   "Quizzes",

	// UI - Status bar
	"status.ready":    "Ready",
	"status.thinking": "Thinking...",
	"status.loading":  "Loading...",
	"status.offline":  "Server unreachable",

	// UI - Input
	"input.placeholder": "Ask your study copilot... (Shift+Enter for newline)",
	"input.submit_hint": "Enter to send",

	// UI - Keybindings
	"keys.tab":  "tab switch panel",
	"keys.quit": "ctrl+c quit",

	// Chat
	"chat.new":           "New Chat",
	"chat.empty":         "No messages yet. Say hello!",
	"chat.sessions":      "Sessions",
	"chat.delete_hint":   "d delete session",
	"chat.send_failed":   "Sorry, something went wrong.",
	"chat.session_count": "%d sessions",

	// Tasks
	"tasks.events":        "Calendar",
	"tasks.manual":        "My Tasks",
	"tasks.empty_events":  "No upcoming events",
	"tasks.empty_manual":  "No tasks yet",
	"tasks.load_failed":   "Could not load events: %s",
	"tasks.add_prompt":    "New task",
	"tasks.toggle_hint":   "space toggle",
	"tasks.delete_hint":   "d delete",
	"tasks.completed_tag": "done",

	// Dashboard
	"dash.greeting.morning":   "Good morning",
	"dash.greeting.afternoon": "Good afternoon",
	"dash.greeting.evening":   "Good evening",
	"dash.total_chats":        "Chats",
	"dash.total_files":        "Files",
	"dash.upcoming":           "Upcoming events",
	"dash.knowledge":          "Knowledge profile",
	"dash.no_profile":         "Take a quiz to build your knowledge profile",

	// Quizzes
	"quiz.mode_prompt":      "Choose an assessment mode",
	"quiz.mode.upload":      "Quiz from an uploaded file",
	"quiz.mode.recall":      "Recall quiz from yesterday's topics",
	"quiz.mode.interview":   "Mock interview",
	"quiz.pick_file":        "Pick a file",
	"quiz.job_role":         "Job role",
	"quiz.generating":       "Generating questions...",
	"quiz.submit":           "Submit",
	"quiz.submitting":       "Evaluating...",
	"quiz.score":            "Score: %d/%d (%d%%)",
	"quiz.topics":           "Topics: %s",
	"quiz.failed":           "Could not generate a quiz: %s",
	"quiz.unanswered":       "%d unanswered",
	"quiz.overall_feedback": "Overall feedback",
	"quiz.rating":           "Rating: %d/10",
	"quiz.recent":           "Recent attempts",

	// Files
	"files.title":     "Uploaded files",
	"files.empty":     "No files uploaded yet",
	"files.deleted":   "Deleted %s",
	"files.uploaded":  "Uploaded %s",
	"files.not_found": "No such file: %s",

	// Errors
	"error.network": "Network error: %s",
	"error.server":  "Server error: %s",

	// Destructive-action confirmation
	"confirm.delete": "Delete %s?",
	"confirm.hint":   "y confirm · any other key cancels",

	// REPL commands
	"cmd.help":      "Show available commands",
	"cmd.new":       "Start a new chat",
	"cmd.sessions":  "List sessions",
	"cmd.open":      "Open a session by id",
	"cmd.delete":    "Delete a session by id",
	"cmd.tasks":     "Show calendar events and tasks",
	"cmd.toggle":    "Toggle an event or task by id",
	"cmd.rmevent":   "Delete a calendar event by id",
	"cmd.rmtask":    "Delete a manual task by id",
	"cmd.rmfile":    "Delete an uploaded file",
	"cmd.dashboard": "Show dashboard stats",
	"cmd.quiz":      "Start an assessment",
	"cmd.files":     "List uploaded files",
	"cmd.upload":    "Upload a study file",
	"cmd.history":   "Show recent graded attempts",
	"cmd.exit":      "Exit application",
	"cmd.unknown":   "Unknown command: %s (try /help)",
}
