// Package maincmd implements the command-line entry point: running a single
// Lox script file, or an interactive REPL when no file is given.
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "lox"

// sysexits-style codes, matching the reference jlox CLI's exit behavior.
const (
	exitUsage    mainer.ExitCode = 64
	exitDataErr  mainer.ExitCode = 65
	exitSoftware mainer.ExitCode = 70
	exitNoInput  mainer.ExitCode = 1
)

var (
	shortUsage = fmt.Sprintf("usage: %s [script]\n", binName)

	longUsage = fmt.Sprintf(`usage: %s [script]
       %[1]s -h|--help
       %[1]s -v|--version

With a script argument, runs that file and exits with its result. With no
arguments, starts an interactive prompt reading one line at a time.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the top-level CLI command, populated from os.Args by mainer.Parser.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	return nil
}

// Main parses args and dispatches to the REPL or to RunFile, returning the
// process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: "LOX_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return exitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	if len(c.args) > 1 {
		fmt.Fprint(stdio.Stderr, shortUsage)
		return exitUsage
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if len(c.args) == 1 {
		return RunFile(ctx, stdio, c.args[0])
	}
	return RunREPL(ctx, stdio)
}
