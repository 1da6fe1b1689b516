package tui

import (
	"context"
	"fmt"
	"time"

	"studycopilot/internal/api"
	"studycopilot/internal/controller"
	"studycopilot/internal/i18n"
	"studycopilot/internal/quiz"
	"studycopilot/internal/results"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptKind 输入框当前承担的角色
// promptKind is what the shared input line is currently collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptAddTask
	promptQuizFile
	promptQuizRole
)

// --- Tea Messages ---

// chatTurnMsg 聊天回合完成
// chatTurnMsg indicates a chat round trip finished
type chatTurnMsg struct{ err error }

// viewEnteredMsg 面板切换及其入场刷新完成
// viewEnteredMsg indicates a panel switch and its entry refresh finished
type viewEnteredMsg struct{ err error }

// opDoneMsg 后台操作完成（删除、勾选等）
// opDoneMsg indicates a background mutation finished
type opDoneMsg struct{ err error }

// quizStartedMsg 题目生成完成
// quizStartedMsg indicates quiz generation finished
type quizStartedMsg struct{ err error }

// quizGradedMsg 测验判分完成
// quizGradedMsg carries the local grading outcome
type quizGradedMsg struct {
	score   int
	percent int
	err     error
}

// interviewDoneMsg 面试批改完成
// interviewDoneMsg indicates interview evaluation finished
type interviewDoneMsg struct{ err error }

// dashTickMsg 仪表盘轮询定时器
// dashTickMsg is the dashboard polling timer
type dashTickMsg time.Time

// attemptsMsg 最近测验记录载入完成
// attemptsMsg carries recent graded attempts from the local ledger
type attemptsMsg struct{ items []results.Attempt }

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	ctrl   *controller.Controller
	ledger *results.Store

	// 面板 / Panels
	chatView viewport.Model
	recent   []results.Attempt

	// 输入 / Input
	input  textarea.Model
	prompt promptKind

	// 选择光标 / Selection cursors
	taskCursor int
	quizCursor int

	// 状态 / State
	busy      bool
	spin      spinner.Model
	statusMsg string

	// 待确认的删除；非 nil 时下一个按键决定执行或取消
	// confirmCmd holds a pending delete; the next key runs or cancels it.
	confirmCmd tea.Cmd

	// 配置 / Config
	theme        Theme
	keys         KeyMap
	locale       *i18n.I18n
	refreshEvery time.Duration
	defaultRole  string
	pendingRole  string
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application
func NewApp(ctrl *controller.Controller, ledger *results.Store, refreshSeconds int, defaultRole string) App {
	ta := textarea.New()
	ta.Placeholder = i18n.T("input.placeholder")
	ta.CharLimit = 8192
	ta.SetHeight(3)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	if refreshSeconds <= 0 {
		refreshSeconds = 30
	}

	return App{
		ctrl:         ctrl,
		ledger:       ledger,
		input:        ta,
		spin:         sp,
		theme:        DarkTheme(),
		keys:         DefaultKeyMap(),
		locale:       i18n.Global(),
		refreshEvery: time.Duration(refreshSeconds) * time.Second,
		defaultRole:  defaultRole,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.loadSessionsCmd(),
		a.dashTick(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		model, cmd, handled := a.handleKey(msg)
		if handled {
			return model, cmd
		}
		a = model

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		a.refreshChatView()
		return a, nil

	case chatTurnMsg:
		a.busy = false
		a.statusMsg = ""
		if msg.err != nil {
			a.statusMsg = a.locale.T("error.network", msg.err.Error())
		}
		a.refreshChatView()
		return a, nil

	case viewEnteredMsg, opDoneMsg:
		a.busy = false
		a.statusMsg = ""
		if err := msgErr(msg); err != nil {
			a.statusMsg = a.locale.T("error.server", err.Error())
		}
		a.refreshChatView()
		return a, nil

	case quizStartedMsg:
		a.busy = false
		a.quizCursor = 0
		a.statusMsg = ""
		if msg.err != nil {
			a.statusMsg = a.locale.T("quiz.failed", msg.err.Error())
		}
		return a, nil

	case quizGradedMsg:
		a.busy = false
		if msg.err != nil {
			a.statusMsg = a.locale.T("error.server", msg.err.Error())
		} else {
			total := len(a.ctrl.Quiz.Snapshot().Questions)
			a.statusMsg = a.locale.T("quiz.score", msg.score, total, msg.percent)
		}
		return a, nil

	case interviewDoneMsg:
		a.busy = false
		if msg.err != nil {
			a.statusMsg = a.locale.T("error.server", msg.err.Error())
		} else {
			a.statusMsg = ""
		}
		return a, nil

	case attemptsMsg:
		a.recent = msg.items
		return a, nil

	case dashTickMsg:
		cmds = append(cmds, a.dashTick())
		if a.ctrl.Active() == controller.ViewDashboard {
			cmds = append(cmds, a.refreshDashboardCmd())
		}
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		if a.busy {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	if a.inputActive() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		a.chatView, cmd = a.chatView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKey 处理按键；handled 为 false 时按键继续传给输入组件
// handleKey processes a key; when handled is false the key falls through to
// the focused component.
func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	if a.confirmCmd != nil && msg.String() != "ctrl+c" {
		cmd := a.confirmCmd
		a.confirmCmd = nil
		a.statusMsg = ""
		if s := msg.String(); s == "y" || s == "Y" {
			return a, cmd, true
		}
		return a, nil, true
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit, true
	case "tab":
		next := controller.View((int(a.ctrl.Active()) + 1) % 4)
		return a.enterView(next)
	case "esc":
		if a.prompt != promptNone {
			a.prompt = promptNone
			a.input.Reset()
			a.input.Placeholder = a.locale.T("input.placeholder")
			return a, nil, true
		}
		return a, nil, true
	}

	if a.prompt != promptNone {
		if msg.String() == "enter" {
			return a.commitPrompt()
		}
		return a, nil, false
	}

	switch a.ctrl.Active() {
	case controller.ViewChat:
		return a.handleChatKey(msg)
	case controller.ViewTasks:
		return a.handleTasksKey(msg)
	case controller.ViewQuizzes:
		return a.handleQuizKey(msg)
	}
	return a, nil, false
}

func (a App) handleChatKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		text := a.input.Value()
		a.input.Reset()
		if text == "" || a.busy {
			return a, nil, true
		}
		a.busy = true
		a.refreshChatViewWithPending()
		return a, tea.Batch(a.spin.Tick, a.sendMessageCmd(text)), true
	case "ctrl+n":
		a.ctrl.Sessions.StartNewChat()
		a.refreshChatView()
		return a, nil, true
	case "ctrl+o":
		// 切换到列表中的下一个会话 / Open the next session in the list
		snap := a.ctrl.Sessions.Snapshot()
		if len(snap.Sessions) == 0 {
			return a, nil, true
		}
		next := 0
		for i, s := range snap.Sessions {
			if s.Active {
				next = (i + 1) % len(snap.Sessions)
				break
			}
		}
		return a, a.loadSessionCmd(snap.Sessions[next].ID), true
	case "ctrl+d":
		id := a.ctrl.Sessions.ActiveID()
		if id == "" {
			return a, nil, true
		}
		a.confirmCmd = a.deleteSessionCmd(id)
		a.statusMsg = a.locale.T("confirm.delete", id) + "  " + a.locale.T("confirm.hint")
		return a, nil, true
	}
	return a, nil, false
}

func (a App) handleTasksKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	snap := a.ctrl.Tasks.Snapshot()
	total := len(snap.Events) + len(snap.Manual)

	switch msg.String() {
	case "up", "k":
		if a.taskCursor > 0 {
			a.taskCursor--
		}
		return a, nil, true
	case "down", "j":
		if a.taskCursor < total-1 {
			a.taskCursor++
		}
		return a, nil, true
	case " ":
		if a.taskCursor < len(snap.Events) {
			return a, a.toggleEventCmd(snap.Events[a.taskCursor].ID), true
		}
		if i := a.taskCursor - len(snap.Events); i < len(snap.Manual) {
			return a, a.toggleManualCmd(snap.Manual[i].ID), true
		}
		return a, nil, true
	case "d":
		if a.taskCursor < len(snap.Events) {
			ev := snap.Events[a.taskCursor]
			a.confirmCmd = a.deleteEventCmd(ev.ID)
			a.statusMsg = a.locale.T("confirm.delete", ev.Title) + "  " + a.locale.T("confirm.hint")
			return a, nil, true
		}
		if i := a.taskCursor - len(snap.Events); i < len(snap.Manual) {
			task := snap.Manual[i]
			a.confirmCmd = a.deleteManualCmd(task.ID)
			a.statusMsg = a.locale.T("confirm.delete", task.Text) + "  " + a.locale.T("confirm.hint")
			return a, nil, true
		}
		return a, nil, true
	case "a":
		a.prompt = promptAddTask
		a.input.Reset()
		a.input.Placeholder = a.locale.T("tasks.add_prompt")
		return a, nil, true
	}
	return a, nil, true
}

func (a App) handleQuizKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	snap := a.ctrl.Quiz.Snapshot()

	switch snap.Phase {
	case quiz.PhaseSelection:
		switch msg.String() {
		case "1":
			a.busy = true
			return a, tea.Batch(a.spin.Tick, a.startQuizCmd(api.QuizRequest{Mode: api.QuizModeRecall})), true
		case "2":
			a.prompt = promptQuizFile
			a.input.Reset()
			a.input.Placeholder = a.locale.T("quiz.pick_file")
			return a, nil, true
		case "3":
			a.prompt = promptQuizRole
			a.input.Reset()
			a.input.Placeholder = a.locale.T("quiz.job_role")
			return a, nil, true
		}
		return a, nil, true

	case quiz.PhaseActive:
		if snap.Mode == api.QuizModeInterview {
			switch msg.String() {
			case "enter":
				// 保存当前答案并跳到下一题 / Save the answer, advance
				_ = a.ctrl.Quiz.SetAnswerText(a.quizCursor, a.input.Value())
				a.input.Reset()
				if a.quizCursor < len(snap.Questions)-1 {
					a.quizCursor++
				}
				return a, nil, true
			case "ctrl+s":
				if snap.Submitting {
					return a, nil, true
				}
				_ = a.ctrl.Quiz.SetAnswerText(a.quizCursor, a.input.Value())
				a.busy = true
				return a, tea.Batch(a.spin.Tick, a.submitInterviewCmd()), true
			}
			return a, nil, false
		}

		switch s := msg.String(); s {
		case "up", "k":
			if a.quizCursor > 0 {
				a.quizCursor--
			}
			return a, nil, true
		case "down", "j":
			if a.quizCursor < len(snap.Questions)-1 {
				a.quizCursor++
			}
			return a, nil, true
		case "1", "2", "3", "4":
			_ = a.ctrl.Quiz.SelectAnswer(a.quizCursor, int(s[0]-'1'))
			return a, nil, true
		case "s":
			a.busy = true
			return a, tea.Batch(a.spin.Tick, a.submitQuizCmd()), true
		}
		return a, nil, true

	case quiz.PhaseGraded:
		if msg.String() == "r" {
			a.ctrl.Quiz.Reset()
			a.quizCursor = 0
			return a, nil, true
		}
		return a, nil, true
	}
	return a, nil, true
}

func (a App) commitPrompt() (App, tea.Cmd, bool) {
	text := a.input.Value()
	kind := a.prompt
	a.prompt = promptNone
	a.input.Reset()
	a.input.Placeholder = a.locale.T("input.placeholder")

	switch kind {
	case promptAddTask:
		if text == "" {
			return a, nil, true
		}
		return a, a.addManualCmd(text), true
	case promptQuizFile:
		if text == "" {
			return a, nil, true
		}
		a.busy = true
		return a, tea.Batch(a.spin.Tick, a.startQuizCmd(api.QuizRequest{Mode: api.QuizModeUpload, Filename: text})), true
	case promptQuizRole:
		if text == "" {
			text = a.defaultRole
		}
		a.pendingRole = text
		a.busy = true
		return a, tea.Batch(a.spin.Tick, a.startQuizCmd(api.QuizRequest{Mode: api.QuizModeInterview, JobRole: text})), true
	}
	return a, nil, true
}

// --- Commands ---

func (a App) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func (a App) enterView(v controller.View) (App, tea.Cmd, bool) {
	a.taskCursor = 0
	ctrl := a.ctrl
	entry := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return viewEnteredMsg{err: ctrl.EnterView(ctx, v)}
	}
	if v == controller.ViewQuizzes && a.ledger != nil {
		return a, tea.Batch(entry, a.loadAttemptsCmd()), true
	}
	return a, entry, true
}

// loadAttemptsCmd 读取本地台账；失败时静默留空
// loadAttemptsCmd reads the local ledger, silently empty on failure.
func (a App) loadAttemptsCmd() tea.Cmd {
	store := a.ledger
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		items, err := store.RecentAttempts(ctx, 5)
		if err != nil {
			return attemptsMsg{}
		}
		return attemptsMsg{items: items}
	}
}

func (a App) sendMessageCmd(text string) tea.Cmd {
	mgr := a.ctrl.Sessions
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return chatTurnMsg{err: mgr.SendMessage(ctx, text)}
	}
}

func (a App) loadSessionsCmd() tea.Cmd {
	mgr := a.ctrl.Sessions
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.LoadSessions(ctx)}
	}
}

func (a App) loadSessionCmd(id string) tea.Cmd {
	mgr := a.ctrl.Sessions
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.LoadSession(ctx, id)}
	}
}

func (a App) deleteSessionCmd(id string) tea.Cmd {
	mgr := a.ctrl.Sessions
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.DeleteSession(ctx, id)}
	}
}

func (a App) refreshDashboardCmd() tea.Cmd {
	mgr := a.ctrl.Dashboard
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.Refresh(ctx)}
	}
}

func (a App) toggleEventCmd(id string) tea.Cmd {
	mgr := a.ctrl.Tasks
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.ToggleEventCompletion(ctx, id)}
	}
}

func (a App) deleteEventCmd(id string) tea.Cmd {
	mgr := a.ctrl.Tasks
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.DeleteCalendarEvent(ctx, id)}
	}
}

func (a App) addManualCmd(text string) tea.Cmd {
	mgr := a.ctrl.Tasks
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.AddManualTask(ctx, text)}
	}
}

func (a App) toggleManualCmd(id string) tea.Cmd {
	mgr := a.ctrl.Tasks
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.ToggleManualTask(ctx, id)}
	}
}

func (a App) deleteManualCmd(id string) tea.Cmd {
	mgr := a.ctrl.Tasks
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return opDoneMsg{err: mgr.DeleteManualTask(ctx, id)}
	}
}

func (a App) startQuizCmd(req api.QuizRequest) tea.Cmd {
	engine := a.ctrl.Quiz
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return quizStartedMsg{err: engine.Start(ctx, req)}
	}
}

func (a App) submitQuizCmd() tea.Cmd {
	engine := a.ctrl.Quiz
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		score, percent, err := engine.SubmitQuiz(ctx)
		return quizGradedMsg{score: score, percent: percent, err: err}
	}
}

func (a App) submitInterviewCmd() tea.Cmd {
	engine := a.ctrl.Quiz
	role := a.pendingRole
	if role == "" {
		role = a.defaultRole
	}
	return func() tea.Msg {
		ctx, cancel := a.opCtx()
		defer cancel()
		return interviewDoneMsg{err: engine.SubmitInterview(ctx, role)}
	}
}

func (a App) dashTick() tea.Cmd {
	return tea.Tick(a.refreshEvery, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	mainWidth := a.mainWidth()
	panelHeight := a.height - 8
	if panelHeight < 3 {
		panelHeight = 3
	}

	a.chatView = viewport.New(mainWidth, panelHeight)
	a.input.SetWidth(mainWidth - 4)
}

func (a *App) inputActive() bool {
	if a.prompt != promptNone {
		return true
	}
	if a.ctrl.Active() == controller.ViewChat {
		return true
	}
	if a.ctrl.Active() == controller.ViewQuizzes {
		snap := a.ctrl.Quiz.Snapshot()
		return snap.Phase == quiz.PhaseActive && snap.Mode == api.QuizModeInterview
	}
	return false
}

func (a *App) refreshChatView() {
	a.chatView.SetContent(a.renderChatContent(false))
	a.chatView.GotoBottom()
}

func (a *App) refreshChatViewWithPending() {
	a.chatView.SetContent(a.renderChatContent(true))
	a.chatView.GotoBottom()
}

func msgErr(msg tea.Msg) error {
	switch m := msg.(type) {
	case viewEnteredMsg:
		return m.err
	case opDoneMsg:
		return m.err
	}
	return nil
}

func (a App) mainWidth() int {
	sidebarWidth := a.sidebarWidth()
	w := a.width - sidebarWidth
	if sidebarWidth > 0 {
		w-- // border
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (a App) sidebarWidth() int {
	if a.width < 80 {
		return 0
	}
	w := a.width * 25 / 100
	if w < 20 {
		w = 20
	}
	if w > 40 {
		w = 40
	}
	return w
}

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	mainWidth := a.mainWidth()

	inputHeight := 5
	statusHeight := 1
	tabHeight := 1
	panelHeight := a.height - inputHeight - statusHeight - tabHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	tabs := a.renderTabs()
	panel := a.renderActivePanel(mainWidth, panelHeight)
	inputBox := a.theme.InputStyle.Width(mainWidth).Render(a.input.View())
	statusBar := a.renderStatusBar(a.width)

	main := lipgloss.JoinVertical(lipgloss.Left, tabs, panel, inputBox)

	if sw := a.sidebarWidth(); sw > 0 {
		sidebar := a.renderSidebar(sw, a.height-statusHeight)
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (a App) renderStatusBar(width int) string {
	status := a.locale.T("status.ready")
	if a.busy {
		status = a.spin.View() + " " + a.locale.T("status.loading")
	}
	if a.statusMsg != "" {
		status = a.statusMsg
	}

	left := fmt.Sprintf(" %s · %s", a.locale.T("panel."+a.ctrl.Active().String()), status)
	right := fmt.Sprintf("%s · %s  ", a.locale.T("keys.tab"), a.locale.T("keys.quit"))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + spaces(gap) + right
	return a.theme.StatusBarStyle.Width(width).Render(bar)
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(ctrl *controller.Controller, ledger *results.Store, refreshSeconds int, defaultRole string) error {
	app := NewApp(ctrl, ledger, refreshSeconds, defaultRole)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
