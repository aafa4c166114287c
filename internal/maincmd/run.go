package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/loxlang/loxwalk/internal/config"
	"github.com/loxlang/loxwalk/internal/reporter"
	"github.com/loxlang/loxwalk/lang/machine"
	"github.com/loxlang/loxwalk/lang/parser"
	"github.com/loxlang/loxwalk/lang/resolver"
	"github.com/loxlang/loxwalk/lang/scanner"
	"github.com/loxlang/loxwalk/lang/token"
	"github.com/mna/mainer"
)

// RunFile reads, runs and reports errors for a single script file. It
// returns exitDataErr (65) on a scan/parse/resolve error, exitSoftware (70)
// on a runtime error, exitNoInput (1) if the file cannot be read, and
// mainer.Success otherwise.
func RunFile(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return exitNoInput
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return exitSoftware
	}

	logOut, closeLog, err := openLogSink(cfg.LogFile, stdio.Stderr)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return exitSoftware
	}
	defer closeLog()

	rep := reporter.New(stdio.Stderr, reporter.NewLogger(logOut, uuid.NewString()))
	in := newInterpreter(stdio, cfg)

	run(ctx, rep, in, string(src))
	switch {
	case rep.HadError():
		return exitDataErr
	case rep.HadRuntimeError():
		return exitSoftware
	default:
		return mainer.Success
	}
}

func newInterpreter(stdio mainer.Stdio, cfg config.Config) *machine.Interpreter {
	in := machine.NewInterpreter()
	in.Stdout = stdio.Stdout
	in.Stderr = stdio.Stderr
	in.MaxCallDepth = cfg.MaxCallDepth
	return in
}

// run scans, parses, resolves and interprets one chunk of source against
// the given interpreter and reporter. It stops at the first phase that
// reports an error: an interpreter is never handed a program the parser or
// resolver flagged as invalid.
func run(ctx context.Context, rep *reporter.Reporter, in *machine.Interpreter, src string) {
	rep.PhaseStart("scan")
	toks := scanner.New(src, rep.ScanError).ScanTokens()
	rep.PhaseEnd("scan")
	if rep.HadError() {
		return
	}

	rep.PhaseStart("parse")
	p := parser.New(toks, rep.ParseError)
	stmts := p.Parse()
	rep.PhaseEnd("parse")
	if rep.HadError() {
		return
	}

	rep.PhaseStart("resolve")
	resolver.New(rep.ResolveError).Resolve(stmts)
	rep.PhaseEnd("resolve")
	if rep.HadError() {
		return
	}

	rep.PhaseStart("interpret")
	err := in.Interpret(stmts)
	rep.PhaseEnd("interpret")
	if err != nil {
		tok := token.Token{}
		if re, ok := err.(*machine.RuntimeError); ok {
			tok = re.Token
		}
		rep.RuntimeError(tok, err.Error())
	}
}

// openLogSink resolves the structured-log destination named by path: empty
// mirrors to fallback (stderr, alongside the plain diagnostics), otherwise
// the file is opened for append, created if missing.
func openLogSink(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
