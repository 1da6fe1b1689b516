package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"studycopilot/internal/api"
	"studycopilot/internal/dashboard"
)

func (l *Loop) runCommand(ctx context.Context, text string) error {
	name, arg := splitCommand(text)

	switch name {
	case "/help":
		l.printHelp()
		return nil
	case "/new":
		l.ctrl.Sessions.StartNewChat()
		fmt.Fprintln(l.out, l.locale.T("chat.new"))
		return nil
	case "/sessions":
		return l.cmdSessions(ctx)
	case "/open":
		if arg == "" {
			return fmt.Errorf("usage: /open <session-id>")
		}
		if err := l.ctrl.Sessions.LoadSession(ctx, arg); err != nil {
			return err
		}
		l.printHistory()
		return nil
	case "/delete":
		if arg == "" {
			return fmt.Errorf("usage: /delete <session-id>")
		}
		if ok, err := l.confirmDelete(arg); err != nil || !ok {
			return err
		}
		return l.ctrl.Sessions.DeleteSession(ctx, arg)
	case "/tasks":
		return l.cmdTasks(ctx)
	case "/add":
		if arg == "" {
			return fmt.Errorf("usage: /add <task text>")
		}
		return l.ctrl.Tasks.AddManualTask(ctx, arg)
	case "/toggle":
		if arg == "" {
			return fmt.Errorf("usage: /toggle <id>")
		}
		return l.cmdToggle(ctx, arg)
	case "/rmevent":
		if arg == "" {
			return fmt.Errorf("usage: /rmevent <event-id>")
		}
		if ok, err := l.confirmDelete(arg); err != nil || !ok {
			return err
		}
		return l.ctrl.Tasks.DeleteCalendarEvent(ctx, arg)
	case "/rmtask":
		if arg == "" {
			return fmt.Errorf("usage: /rmtask <task-id>")
		}
		return l.ctrl.Tasks.DeleteManualTask(ctx, arg)
	case "/dashboard":
		return l.cmdDashboard(ctx)
	case "/quiz":
		return l.cmdQuiz(ctx)
	case "/files":
		return l.cmdFiles(ctx)
	case "/upload":
		if arg == "" {
			return fmt.Errorf("usage: /upload <path>")
		}
		return l.cmdUpload(ctx, arg)
	case "/rmfile":
		if arg == "" {
			return fmt.Errorf("usage: /rmfile <name>")
		}
		if ok, err := l.confirmDelete(arg); err != nil || !ok {
			return err
		}
		if err := l.files.DeleteFile(ctx, arg); err != nil {
			return err
		}
		fmt.Fprintln(l.out, l.locale.T("files.deleted", arg))
		return nil
	case "/history":
		return l.cmdLedger(ctx)
	case "/exit", "/quit":
		return errExit
	default:
		fmt.Fprintln(l.out, l.locale.T("cmd.unknown", name))
		return nil
	}
}

func (l *Loop) printHelp() {
	cmds := []struct{ name, key string }{
		{"/help", "cmd.help"},
		{"/new", "cmd.new"},
		{"/sessions", "cmd.sessions"},
		{"/open <id>", "cmd.open"},
		{"/delete <id>", "cmd.delete"},
		{"/tasks", "cmd.tasks"},
		{"/add <text>", "cmd.tasks"},
		{"/toggle <id>", "cmd.toggle"},
		{"/rmevent <id>", "cmd.rmevent"},
		{"/rmtask <id>", "cmd.rmtask"},
		{"/dashboard", "cmd.dashboard"},
		{"/quiz", "cmd.quiz"},
		{"/files", "cmd.files"},
		{"/upload <path>", "cmd.upload"},
		{"/rmfile <name>", "cmd.rmfile"},
		{"/history", "cmd.history"},
		{"/exit", "cmd.exit"},
	}
	for _, c := range cmds {
		fmt.Fprintf(l.out, "  %s%-16s%s %s\n", ansiBold, c.name, ansiReset, l.locale.T(c.key))
	}
}

func (l *Loop) cmdSessions(ctx context.Context) error {
	if err := l.ctrl.Sessions.LoadSessions(ctx); err != nil {
		return err
	}
	snap := l.ctrl.Sessions.Snapshot()
	if len(snap.Sessions) == 0 {
		fmt.Fprintln(l.out, l.locale.T("chat.empty"))
		return nil
	}
	for _, s := range snap.Sessions {
		marker := "  "
		if s.Active {
			marker = ansiGreen + "* " + ansiReset
		}
		fmt.Fprintf(l.out, "%s%s  %s\n", marker, s.ID, s.Title)
	}
	fmt.Fprintln(l.out, ansiDim+l.locale.T("chat.session_count", len(snap.Sessions))+ansiReset)
	return nil
}

func (l *Loop) printHistory() {
	snap := l.ctrl.Sessions.Snapshot()
	for _, msg := range snap.Messages {
		if msg.Role == api.RoleUser {
			fmt.Fprintf(l.out, "%s> %s%s\n", ansiBold, msg.Content, ansiReset)
		} else {
			fmt.Fprintf(l.out, "%s%s%s\n", ansiCyan, msg.Content, ansiReset)
		}
	}
}

func (l *Loop) cmdTasks(ctx context.Context) error {
	if err := l.ctrl.Tasks.Refresh(ctx); err != nil {
		return err
	}
	snap := l.ctrl.Tasks.Snapshot()

	fmt.Fprintln(l.out, ansiBold+l.locale.T("tasks.events")+ansiReset)
	if len(snap.Events) == 0 {
		fmt.Fprintln(l.out, "  "+ansiDim+l.locale.T("tasks.empty_events")+ansiReset)
	}
	for _, ev := range snap.Events {
		box := "[ ]"
		if ev.Completed {
			box = "[x]"
		}
		fmt.Fprintf(l.out, "  %s %s  %s(%s · %s)%s\n", box, ev.Title, ansiDim, ev.ID, ev.When, ansiReset)
	}

	fmt.Fprintln(l.out, ansiBold+l.locale.T("tasks.manual")+ansiReset)
	if len(snap.Manual) == 0 {
		fmt.Fprintln(l.out, "  "+ansiDim+l.locale.T("tasks.empty_manual")+ansiReset)
	}
	for _, task := range snap.Manual {
		box := "[ ]"
		if task.Completed {
			box = "[x]"
		}
		fmt.Fprintf(l.out, "  %s %s  %s(%s)%s\n", box, task.Text, ansiDim, task.ID, ansiReset)
	}
	return nil
}

// confirmDelete 删除前二次确认 / asks before a destructive request goes out.
func (l *Loop) confirmDelete(label string) (bool, error) {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(l.locale.T("confirm.delete", label)).
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// cmdToggle tries the id as a calendar event first, then as a manual task.
func (l *Loop) cmdToggle(ctx context.Context, id string) error {
	snap := l.ctrl.Tasks.Snapshot()
	for _, ev := range snap.Events {
		if ev.ID == id {
			return l.ctrl.Tasks.ToggleEventCompletion(ctx, id)
		}
	}
	return l.ctrl.Tasks.ToggleManualTask(ctx, id)
}

func (l *Loop) cmdDashboard(ctx context.Context) error {
	if err := l.ctrl.Dashboard.Refresh(ctx); err != nil {
		return err
	}
	snap := l.ctrl.Dashboard.Snapshot()

	period, _ := dashboard.Greeting(time.Now(), snap.Stats.UserName)
	greeting := l.locale.T("dash.greeting." + period)
	if snap.Stats.UserName != "" {
		greeting += ", " + snap.Stats.UserName
	}
	fmt.Fprintln(l.out, ansiBold+greeting+ansiReset)

	fmt.Fprintf(l.out, "  %s: %d   %s: %d   %s: %d\n",
		l.locale.T("dash.total_chats"), snap.Stats.TotalChats,
		l.locale.T("dash.total_files"), snap.Stats.TotalFiles,
		l.locale.T("dash.upcoming"), snap.Stats.UpcomingEventsCount)

	if len(snap.Stats.KnowledgeProfile) > 0 {
		fmt.Fprintln(l.out, ansiBold+l.locale.T("dash.knowledge")+ansiReset)
		for _, topic := range snap.Stats.KnowledgeProfile {
			fmt.Fprintf(l.out, "  %-24s %3.0f%%\n", topic.Topic, topic.Level*100)
		}
	}
	return nil
}

func (l *Loop) cmdQuiz(ctx context.Context) error {
	l.ctrl.Quiz.Reset()

	var mode string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(l.locale.T("quiz.mode_prompt")).
			Options(
				huh.NewOption(l.locale.T("quiz.mode.recall"), api.QuizModeRecall),
				huh.NewOption(l.locale.T("quiz.mode.upload"), api.QuizModeUpload),
				huh.NewOption(l.locale.T("quiz.mode.interview"), api.QuizModeInterview),
			).
			Value(&mode),
	))
	if err := form.Run(); err != nil {
		return err
	}

	req := api.QuizRequest{Mode: mode}
	switch mode {
	case api.QuizModeUpload:
		filename, err := l.pickUpload(ctx)
		if err != nil {
			return err
		}
		req.Filename = filename
	case api.QuizModeInterview:
		role := l.defaultRole
		roleForm := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title(l.locale.T("quiz.job_role")).
				Value(&role),
		))
		if err := roleForm.Run(); err != nil {
			return err
		}
		if strings.TrimSpace(role) == "" {
			role = l.defaultRole
		}
		req.JobRole = role
	}

	fmt.Fprintln(l.out, ansiDim+l.locale.T("quiz.generating")+ansiReset)
	if err := l.ctrl.Quiz.Start(ctx, req); err != nil {
		return err
	}

	if mode == api.QuizModeInterview {
		return l.runInterview(ctx, req.JobRole)
	}
	return l.runObjectiveQuiz(ctx)
}

func (l *Loop) pickUpload(ctx context.Context) (string, error) {
	files, err := l.files.ListUploads(ctx)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%s", l.locale.T("files.empty"))
	}

	options := make([]huh.Option[string], 0, len(files))
	for _, f := range files {
		options = append(options, huh.NewOption(f.Name, f.Name))
	}

	var filename string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(l.locale.T("quiz.pick_file")).
			Options(options...).
			Value(&filename),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return filename, nil
}

const skipAnswer = -1

func (l *Loop) runObjectiveQuiz(ctx context.Context) error {
	snap := l.ctrl.Quiz.Snapshot()
	if len(snap.Topics) > 0 {
		fmt.Fprintln(l.out, ansiDim+l.locale.T("quiz.topics", strings.Join(snap.Topics, ", "))+ansiReset)
	}

	for i, q := range snap.Questions {
		options := make([]huh.Option[int], 0, len(q.Options)+1)
		for j, opt := range q.Options {
			options = append(options, huh.NewOption(opt, j))
		}
		options = append(options, huh.NewOption("(skip)", skipAnswer))

		choice := skipAnswer
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("%d/%d  %s", i+1, len(snap.Questions), q.Question)).
				Options(options...).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if choice != skipAnswer {
			if err := l.ctrl.Quiz.SelectAnswer(i, choice); err != nil {
				return err
			}
		}
	}

	score, percent, err := l.ctrl.Quiz.SubmitQuiz(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(l.out, ansiGreen+l.locale.T("quiz.score", score, len(snap.Questions), percent)+ansiReset)

	graded := l.ctrl.Quiz.Snapshot()
	for i, q := range graded.Questions {
		selected, answered := graded.Answers[i]
		if answered && selected == q.Correct {
			continue
		}
		if q.Correct >= 0 && q.Correct < len(q.Options) {
			fmt.Fprintf(l.out, "  %s✗%s %s → %s\n", ansiRed, ansiReset, q.Question, q.Options[q.Correct])
		}
	}
	return nil
}

func (l *Loop) runInterview(ctx context.Context, jobRole string) error {
	snap := l.ctrl.Quiz.Snapshot()

	for i, q := range snap.Questions {
		var answer string
		form := huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("%d/%d  %s", i+1, len(snap.Questions), q.Question)).
				Value(&answer),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if err := l.ctrl.Quiz.SetAnswerText(i, answer); err != nil {
			return err
		}
	}

	fmt.Fprintln(l.out, ansiDim+l.locale.T("quiz.submitting")+ansiReset)
	if err := l.ctrl.Quiz.SubmitInterview(ctx, jobRole); err != nil {
		return err
	}

	graded := l.ctrl.Quiz.Snapshot()
	if graded.Evaluation == nil {
		return nil
	}
	fmt.Fprintln(l.out, ansiBold+l.locale.T("quiz.overall_feedback")+ansiReset)
	fmt.Fprintln(l.out, graded.Evaluation.OverallFeedback)
	for _, eval := range graded.Evaluation.Evaluations {
		fmt.Fprintf(l.out, "  %d. %s  %s\n", eval.QuestionIndex+1,
			ansiGreen+l.locale.T("quiz.rating", eval.Rating)+ansiReset, eval.Feedback)
	}
	return nil
}

func (l *Loop) cmdFiles(ctx context.Context) error {
	files, err := l.files.ListUploads(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(l.out, ansiDim+l.locale.T("files.empty")+ansiReset)
		return nil
	}
	fmt.Fprintln(l.out, ansiBold+l.locale.T("files.title")+ansiReset)
	for _, f := range files {
		fmt.Fprintf(l.out, "  %s  %s%d bytes%s\n", f.Name, ansiDim, f.Size, ansiReset)
	}
	return nil
}

func (l *Loop) cmdUpload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if err := l.files.UploadFile(ctx, name, f); err != nil {
		return err
	}
	fmt.Fprintln(l.out, l.locale.T("files.uploaded", name))
	return nil
}

func (l *Loop) cmdLedger(ctx context.Context) error {
	if l.ledger == nil {
		return nil
	}
	attempts, err := l.ledger.RecentAttempts(ctx, 20)
	if err != nil {
		return err
	}
	for _, a := range attempts {
		fmt.Fprintf(l.out, "  %s  %-10s %-20s %d/%d (%d%%)\n",
			a.CreatedAt, a.Mode, a.Topic, a.Score, a.Total, a.Percent)
	}
	return nil
}
