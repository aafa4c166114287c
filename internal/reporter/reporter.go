// Package reporter collects and formats diagnostics raised while scanning,
// parsing, resolving and running a Lox program.
package reporter

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/loxlang/loxwalk/lang/token"
	"github.com/sirupsen/logrus"
)

// Reporter accumulates diagnostics across a single run (one file, or one
// REPL line) and tracks whether a static error or a runtime error was seen,
// which callers use to pick the process exit code.
type Reporter struct {
	Stderr io.Writer
	Log    *logrus.Logger

	errs          *multierror.Error
	hadError      bool
	hadRuntimeErr bool
}

// New creates a Reporter writing diagnostics to stderr and mirroring them as
// structured log entries through log. If log is nil, a disabled logger is
// used and no structured mirroring happens.
func New(stderr io.Writer, log *logrus.Logger) *Reporter {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Reporter{Stderr: stderr, Log: log}
}

// Reset clears accumulated errors, for reuse between REPL lines.
func (r *Reporter) Reset() {
	r.errs = nil
	r.hadError = false
	r.hadRuntimeErr = false
}

// HadError reports whether a scan, parse or resolve error was reported.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether a runtime error was reported.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeErr }

// Err returns the accumulated diagnostics as a single error, or nil if none
// were reported.
func (r *Reporter) Err() error {
	if r.errs == nil {
		return nil
	}
	return r.errs.ErrorOrNil()
}

// ScanError reports a lexical error at the given line, in the jlox format:
// "[line N] Error: message".
func (r *Reporter) ScanError(line int, message string) {
	r.report(line, "", message)
}

// ParseError reports a syntax error at a token: at EOF it is reported as
// "at end", otherwise "at '<lexeme>'".
func (r *Reporter) ParseError(tok token.Token, message string) {
	if tok.Kind == token.EOF {
		r.report(tok.Line, " at end", message)
	} else {
		r.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
	}
}

// ResolveError reports a static resolution error; it uses the same format
// as ParseError since both are reported against a token.
func (r *Reporter) ResolveError(tok token.Token, message string) {
	r.ParseError(tok, message)
}

func (r *Reporter) report(line int, where, message string) {
	r.hadError = true
	line1 := fmt.Sprintf("[line %d] Error%s: %s", line, where, message)
	fmt.Fprintln(r.Stderr, line1)
	r.errs = multierror.Append(r.errs, fmt.Errorf("%s", line1))
	r.Log.WithFields(logrus.Fields{"line": line, "kind": "static"}).Warn(message)
}

// PhaseStart logs trace-level bookkeeping marking the start of a pipeline
// stage (scan, parse, resolve, interpret).
func (r *Reporter) PhaseStart(name string) {
	r.Log.WithField("phase", name).Trace("phase start")
}

// PhaseEnd logs trace-level bookkeeping marking the end of a pipeline stage.
func (r *Reporter) PhaseEnd(name string) {
	r.Log.WithField("phase", name).Trace("phase end")
}

// RuntimeError reports a runtime error raised while executing an already
// resolved program, in jlox's "message\n[line N]" format.
func (r *Reporter) RuntimeError(tok token.Token, message string) {
	r.hadRuntimeErr = true

	fmt.Fprintf(r.Stderr, "%s\n[line %d]\n", message, tok.Line)
	r.errs = multierror.Append(r.errs, fmt.Errorf("[line %d] %s", tok.Line, message))
	r.Log.WithFields(logrus.Fields{"line": tok.Line, "kind": "runtime"}).Error(message)
}
