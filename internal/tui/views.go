package tui

import (
	"fmt"
	"strings"
	"time"

	"studycopilot/internal/api"
	"studycopilot/internal/controller"
	"studycopilot/internal/dashboard"
	"studycopilot/internal/quiz"

	"github.com/charmbracelet/lipgloss"
)

func greetingPeriodNow() (period, name string) {
	return dashboard.Greeting(time.Now(), "")
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func (a App) renderTabs() string {
	views := []controller.View{
		controller.ViewChat,
		controller.ViewTasks,
		controller.ViewDashboard,
		controller.ViewQuizzes,
	}

	var parts []string
	for _, v := range views {
		style := a.theme.InactiveTabStyle
		if v == a.ctrl.Active() {
			style = a.theme.ActiveTabStyle
		}
		parts = append(parts, style.Render(a.locale.T("panel."+v.String())))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a App) renderActivePanel(width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height)

	switch a.ctrl.Active() {
	case controller.ViewChat:
		return style.Render(a.chatView.View())
	case controller.ViewTasks:
		return style.Render(a.renderTasksPanel(width))
	case controller.ViewDashboard:
		return style.Render(a.renderDashboardPanel(width))
	case controller.ViewQuizzes:
		return style.Render(a.renderQuizPanel(width))
	}
	return style.Render("")
}

// --- Chat ---

func (a App) renderChatContent(pending bool) string {
	snap := a.ctrl.Sessions.Snapshot()
	if len(snap.Messages) == 0 && !pending {
		return a.theme.MutedStyle.Render("  " + a.locale.T("chat.empty"))
	}

	width := a.mainWidth()
	var b strings.Builder
	for _, msg := range snap.Messages {
		if msg.Role == api.RoleUser {
			b.WriteString(a.theme.UserMsgStyle.Render("You") + "\n")
			b.WriteString(msg.Content + "\n\n")
			continue
		}
		b.WriteString(a.theme.TitleStyle.Render("Copilot") + "\n")
		b.WriteString(RenderMarkdown(msg.Content, width-2) + "\n\n")
	}
	if snap.Thinking || pending {
		b.WriteString(a.theme.MutedStyle.Render(a.locale.T("status.thinking")) + "\n")
	}
	return b.String()
}

// --- Tasks ---

func (a App) renderTasksPanel(width int) string {
	snap := a.ctrl.Tasks.Snapshot()
	var parts []string

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("tasks.events")))
	switch {
	case snap.EventsErr != "":
		parts = append(parts, "  "+a.theme.ErrorStyle.Render(a.locale.T("tasks.load_failed", snap.EventsErr)))
	case len(snap.Events) == 0:
		parts = append(parts, "  "+a.theme.MutedStyle.Render(a.locale.T("tasks.empty_events")))
	default:
		for i, ev := range snap.Events {
			line := a.renderTaskLine(ev.Title, ev.When, ev.Completed, width)
			if i == a.taskCursor {
				line = a.theme.SelectedStyle.Render(line)
			}
			parts = append(parts, line)
		}
	}

	parts = append(parts, "")
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("tasks.manual")))
	switch {
	case snap.ManualErr != "":
		parts = append(parts, "  "+a.theme.ErrorStyle.Render(snap.ManualErr))
	case len(snap.Manual) == 0:
		parts = append(parts, "  "+a.theme.MutedStyle.Render(a.locale.T("tasks.empty_manual")))
	default:
		for i, task := range snap.Manual {
			line := a.renderTaskLine(task.Text, "", task.Completed, width)
			if i+len(snap.Events) == a.taskCursor {
				line = a.theme.SelectedStyle.Render(line)
			}
			parts = append(parts, line)
		}
	}

	parts = append(parts, "")
	hint := fmt.Sprintf("  %s · %s · %s",
		a.locale.T("tasks.toggle_hint"), a.locale.T("tasks.delete_hint"), "a "+a.locale.T("tasks.add_prompt"))
	parts = append(parts, a.theme.MutedStyle.Render(hint))

	return strings.Join(parts, "\n")
}

func (a App) renderTaskLine(title, when string, completed bool, width int) string {
	box := "[ ]"
	if completed {
		box = "[x]"
	}
	text := truncate(title, width-20)
	if completed {
		text = a.theme.CompletedStyle.Render(text)
	}
	line := fmt.Sprintf("  %s %s", box, text)
	if when != "" {
		line += "  " + a.theme.MutedStyle.Render(when)
	}
	return line
}

// --- Dashboard ---

func (a App) renderDashboardPanel(width int) string {
	snap := a.ctrl.Dashboard.Snapshot()
	var parts []string

	if !snap.Loaded {
		if snap.Err != "" {
			return "  " + a.theme.ErrorStyle.Render(snap.Err)
		}
		return "  " + a.theme.MutedStyle.Render(a.locale.T("status.loading"))
	}

	greeting := a.greetingLine(snap.Stats.UserName)
	parts = append(parts, a.theme.TitleStyle.Render(" "+greeting))
	if snap.Err != "" {
		parts = append(parts, "  "+a.theme.ErrorStyle.Render(snap.Err))
	}
	parts = append(parts, "")

	parts = append(parts, fmt.Sprintf("  %s: %d    %s: %d    %s: %d",
		a.locale.T("dash.total_chats"), snap.Stats.TotalChats,
		a.locale.T("dash.total_files"), snap.Stats.TotalFiles,
		a.locale.T("dash.upcoming"), snap.Stats.UpcomingEventsCount))
	parts = append(parts, "")

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("dash.knowledge")))
	if len(snap.Stats.KnowledgeProfile) == 0 {
		parts = append(parts, "  "+a.theme.MutedStyle.Render(a.locale.T("dash.no_profile")))
	} else {
		barWidth := width / 3
		for _, topic := range snap.Stats.KnowledgeProfile {
			bar := renderLevelBar(topic.Level, barWidth)
			parts = append(parts, fmt.Sprintf("  %-20s %s %3.0f%%",
				truncate(topic.Topic, 20), a.theme.SuccessStyle.Render(bar), topic.Level*100))
		}
	}
	parts = append(parts, "")

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("dash.upcoming")))
	if len(snap.Stats.UpcomingEvents) == 0 {
		parts = append(parts, "  "+a.theme.MutedStyle.Render(a.locale.T("tasks.empty_events")))
	} else {
		for _, ev := range snap.Stats.UpcomingEvents {
			when := ev.Start.DateTime
			if when == "" {
				when = ev.Start.Date
			}
			parts = append(parts, fmt.Sprintf("  • %s  %s",
				truncate(ev.Summary, width-30), a.theme.MutedStyle.Render(when)))
		}
	}

	return strings.Join(parts, "\n")
}

func (a App) greetingLine(userName string) string {
	period, name := greetingPeriodNow()
	greeting := a.locale.T("dash.greeting." + period)
	if strings.TrimSpace(userName) != "" {
		name = userName
	}
	if name != "" {
		return greeting + ", " + name
	}
	return greeting
}

// --- Quizzes ---

func (a App) renderQuizPanel(width int) string {
	snap := a.ctrl.Quiz.Snapshot()

	switch snap.Phase {
	case quiz.PhaseSelection:
		var parts []string
		parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("quiz.mode_prompt")))
		parts = append(parts, "")
		parts = append(parts, "  1. "+a.locale.T("quiz.mode.recall"))
		parts = append(parts, "  2. "+a.locale.T("quiz.mode.upload"))
		parts = append(parts, "  3. "+a.locale.T("quiz.mode.interview"))
		if snap.Err != "" {
			parts = append(parts, "")
			parts = append(parts, "  "+a.theme.ErrorStyle.Render(a.locale.T("quiz.failed", snap.Err)))
		}
		if len(a.recent) > 0 {
			parts = append(parts, "")
			parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("quiz.recent")))
			for _, at := range a.recent {
				line := fmt.Sprintf("  %-10s %-18s %d/%d (%d%%)",
					at.Mode, truncate(at.Topic, 18), at.Score, at.Total, at.Percent)
				parts = append(parts, a.theme.MutedStyle.Render(line))
			}
		}
		return strings.Join(parts, "\n")

	case quiz.PhaseLoading:
		return "  " + a.theme.MutedStyle.Render(a.locale.T("quiz.generating"))

	case quiz.PhaseActive:
		if snap.Mode == api.QuizModeInterview {
			return a.renderInterviewActive(snap, width)
		}
		return a.renderObjectiveActive(snap, width)

	case quiz.PhaseGraded:
		if snap.Mode == api.QuizModeInterview {
			return a.renderInterviewGraded(snap, width)
		}
		return a.renderObjectiveGraded(snap, width)
	}
	return ""
}

func (a App) renderObjectiveActive(snap quiz.Snapshot, width int) string {
	var parts []string
	if len(snap.Topics) > 0 {
		parts = append(parts, a.theme.MutedStyle.Render(" "+a.locale.T("quiz.topics", strings.Join(snap.Topics, ", "))))
		parts = append(parts, "")
	}

	for i, q := range snap.Questions {
		marker := "  "
		if i == a.quizCursor {
			marker = a.theme.TitleStyle.Render("> ")
		}
		parts = append(parts, fmt.Sprintf("%s%d. %s", marker, i+1, truncate(q.Question, width-8)))
		for j, opt := range q.Options {
			prefix := "     "
			if selected, ok := snap.Answers[i]; ok && selected == j {
				prefix = "   " + a.theme.SuccessStyle.Render("●") + " "
			}
			parts = append(parts, fmt.Sprintf("%s%d) %s", prefix, j+1, truncate(opt, width-12)))
		}
		parts = append(parts, "")
	}

	unanswered := len(snap.Questions) - len(snap.Answers)
	if unanswered > 0 {
		parts = append(parts, a.theme.MutedStyle.Render("  "+a.locale.T("quiz.unanswered", unanswered)))
	}
	parts = append(parts, a.theme.MutedStyle.Render("  s "+a.locale.T("quiz.submit")))
	return strings.Join(parts, "\n")
}

func (a App) renderObjectiveGraded(snap quiz.Snapshot, width int) string {
	var parts []string
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("quiz.score", snap.Score, len(snap.Questions), snap.Percent)))
	parts = append(parts, "")

	for i, q := range snap.Questions {
		selected, answered := snap.Answers[i]
		status := a.theme.WrongStyle.Render("✗")
		if answered && selected == q.Correct {
			status = a.theme.CorrectStyle.Render("✓")
		}
		parts = append(parts, fmt.Sprintf("  %s %d. %s", status, i+1, truncate(q.Question, width-10)))
		if q.Correct >= 0 && q.Correct < len(q.Options) {
			parts = append(parts, "      "+a.theme.SuccessStyle.Render(q.Options[q.Correct]))
		}
	}

	parts = append(parts, "")
	parts = append(parts, a.theme.MutedStyle.Render("  r restart"))
	return strings.Join(parts, "\n")
}

func (a App) renderInterviewActive(snap quiz.Snapshot, width int) string {
	var parts []string
	if snap.Submitting {
		return "  " + a.theme.MutedStyle.Render(a.locale.T("quiz.submitting"))
	}

	q := snap.Questions[a.quizCursor]
	parts = append(parts, a.theme.TitleStyle.Render(fmt.Sprintf(" %d/%d", a.quizCursor+1, len(snap.Questions))))
	parts = append(parts, "")
	parts = append(parts, "  "+q.Question)
	parts = append(parts, "")
	if prev, ok := snap.AnswerTexts[a.quizCursor]; ok && prev != "" {
		parts = append(parts, a.theme.MutedStyle.Render("  "+truncate(prev, width-4)))
		parts = append(parts, "")
	}
	parts = append(parts, a.theme.MutedStyle.Render("  enter next · ctrl+s "+a.locale.T("quiz.submit")))
	return strings.Join(parts, "\n")
}

func (a App) renderInterviewGraded(snap quiz.Snapshot, width int) string {
	var parts []string
	if snap.Evaluation == nil {
		return ""
	}

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("quiz.overall_feedback")))
	parts = append(parts, RenderMarkdown(snap.Evaluation.OverallFeedback, width-4))
	parts = append(parts, "")

	for _, eval := range snap.Evaluation.Evaluations {
		idx := eval.QuestionIndex
		question := ""
		if idx >= 0 && idx < len(snap.Questions) {
			question = snap.Questions[idx].Question
		}
		parts = append(parts, fmt.Sprintf("  %d. %s", idx+1, truncate(question, width-8)))
		parts = append(parts, "     "+a.theme.SuccessStyle.Render(a.locale.T("quiz.rating", eval.Rating)))
		parts = append(parts, "     "+truncate(eval.Feedback, width-8))
		parts = append(parts, "")
	}

	parts = append(parts, a.theme.MutedStyle.Render("  r restart"))
	return strings.Join(parts, "\n")
}

// --- Sidebar ---

func (a App) renderSidebar(width, height int) string {
	var parts []string

	parts = append(parts, a.theme.TitleStyle.Render(" StudyCopilot"))
	parts = append(parts, "")

	snap := a.ctrl.Sessions.Snapshot()
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("chat.sessions")))
	for _, s := range snap.Sessions {
		line := "  " + truncate(s.Title, width-6)
		if s.Active {
			line = a.theme.SelectedStyle.Render("  " + truncate(s.Title, width-6))
		}
		parts = append(parts, line)
	}
	if len(snap.Sessions) == 0 {
		parts = append(parts, "  "+a.theme.MutedStyle.Render(a.locale.T("chat.new")))
	}
	parts = append(parts, "")
	parts = append(parts, a.theme.MutedStyle.Render("  ctrl+n "+a.locale.T("cmd.new")))
	parts = append(parts, a.theme.MutedStyle.Render("  ctrl+o open next"))
	parts = append(parts, a.theme.MutedStyle.Render("  ctrl+d "+a.locale.T("chat.delete_hint")))

	content := strings.Join(parts, "\n")
	return a.theme.SidebarStyle.Width(width).Height(height).Render(content)
}
