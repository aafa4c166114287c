package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/loxlang/loxwalk/internal/config"
	"github.com/loxlang/loxwalk/internal/reporter"
	"github.com/mattn/go-isatty"
	"github.com/mna/mainer"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)

// RunREPL reads one line at a time from stdin and interprets it against a
// persistent global environment, until EOF (Ctrl-D) or an empty line. It
// returns exitSoftware only if the configuration, log sink or line editor
// cannot be set up; once the prompt runs, a reported error only affects its
// own line (each line gets a fresh Reporter) and the session ends with
// success.
func RunREPL(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return exitSoftware
	}

	styled := !cfg.NoColor && isatty.IsTerminal(os.Stderr.Fd())
	runID := uuid.NewString()

	logOut, closeLog, err := openLogSink(cfg.LogFile, stdio.Stderr)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return exitSoftware
	}
	defer closeLog()

	log := reporter.NewLogger(logOut, runID)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		Stdin:       io.NopCloser(stdio.Stdin),
		Stdout:      stdio.Stdout,
		Stderr:      stdio.Stderr,
		HistoryFile: "",
	})
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "repl: %s\n", err)
		return exitSoftware
	}
	defer rl.Close()

	in := newInterpreter(stdio, cfg)

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF (Ctrl-D) or readline.ErrInterrupt
			return mainer.Success
		}
		if line == "" {
			return mainer.Success
		}

		rep := reporter.New(stdio.Stderr, log)
		if styled {
			rep.Stderr = styledWriter{w: stdio.Stderr}
		}
		run(ctx, rep, in, line)
	}
}

// styledWriter wraps diagnostic output in the REPL's error color. It never
// touches the separate writer used for `print` statement output.
type styledWriter struct {
	w io.Writer
}

func (s styledWriter) Write(p []byte) (int, error) {
	fmt.Fprint(s.w, errorStyle.Render(string(p)))
	return len(p), nil
}
