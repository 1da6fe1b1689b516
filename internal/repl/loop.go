package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"studycopilot/internal/api"
	"studycopilot/internal/controller"
	"studycopilot/internal/i18n"
	"studycopilot/internal/results"
)

// ANSI colors for prompt output
const (
	ansiReset = "\x1b[0m"
	ansiDim   = "\x1b[90m"
	ansiGreen = "\x1b[32m"
	ansiCyan  = "\x1b[36m"
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
)

// FileService is the transport slice the REPL needs beyond the managers:
// uploaded study files are driven directly from commands.
type FileService interface {
	ListUploads(ctx context.Context) ([]api.FileInfo, error)
	UploadFile(ctx context.Context, name string, r io.Reader) error
	DeleteFile(ctx context.Context, name string) error
}

// Loop 持有 REPL 状态：控制器、文件服务与本地台账
// Loop holds REPL state: the controller, file service, and local ledger.
type Loop struct {
	ctrl        *controller.Controller
	files       FileService
	ledger      *results.Store
	defaultRole string
	out         io.Writer
	locale      *i18n.I18n
}

// NewLoop builds a REPL loop.
func NewLoop(ctrl *controller.Controller, files FileService, ledger *results.Store, defaultRole string) *Loop {
	return &Loop{
		ctrl:        ctrl,
		files:       files,
		ledger:      ledger,
		defaultRole: defaultRole,
		out:         os.Stdout,
		locale:      i18n.Global(),
	}
}

var errExit = errors.New("exit requested")

// Run runs the plain-text REPL until /exit or EOF.
func (l *Loop) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ansiBold + "copilot> " + ansiReset,
		HistoryFile:     historyFilePath(),
		AutoComplete:    commandCompleter(),
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	_ = l.ctrl.Sessions.LoadSessions(ctx)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if err := l.runCommand(ctx, text); err != nil {
				if errors.Is(err, errExit) {
					return nil
				}
				fmt.Fprintf(l.out, "%serror: %v%s\n", ansiRed, err, ansiReset)
			}
			continue
		}

		l.runChatTurn(ctx, text)
	}
}

func (l *Loop) runChatTurn(ctx context.Context, text string) {
	before := len(l.ctrl.Sessions.Snapshot().Messages)
	err := l.ctrl.Sessions.SendMessage(ctx, text)
	snap := l.ctrl.Sessions.Snapshot()

	// Print whatever the turn appended beyond the echoed user message.
	for i := before + 1; i < len(snap.Messages); i++ {
		msg := snap.Messages[i]
		if msg.Role == api.RoleAgent {
			fmt.Fprintf(l.out, "\n%s%s%s\n\n", ansiCyan, msg.Content, ansiReset)
		}
	}
	if err != nil {
		fmt.Fprintf(l.out, "%s%s%s\n", ansiDim, l.locale.T("error.network", err.Error()), ansiReset)
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".studycopilot", "repl_history")
}

func commandCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("/help"),
		readline.PcItem("/new"),
		readline.PcItem("/sessions"),
		readline.PcItem("/open"),
		readline.PcItem("/delete"),
		readline.PcItem("/tasks"),
		readline.PcItem("/add"),
		readline.PcItem("/toggle"),
		readline.PcItem("/rmevent"),
		readline.PcItem("/rmtask"),
		readline.PcItem("/dashboard"),
		readline.PcItem("/quiz"),
		readline.PcItem("/files"),
		readline.PcItem("/upload"),
		readline.PcItem("/rmfile"),
		readline.PcItem("/history"),
		readline.PcItem("/exit"),
	)
}

// splitCommand separates "/open abc123" into the command name and argument.
func splitCommand(text string) (name, arg string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	name = strings.ToLower(parts[0])
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	return name, arg
}
