package reporter_test

import (
	"bytes"
	"testing"

	"github.com/loxlang/loxwalk/internal/reporter"
	"github.com/loxlang/loxwalk/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanErrorFormat(t *testing.T) {
	var stderr bytes.Buffer
	r := reporter.New(&stderr, nil)
	r.ScanError(3, "Unexpected character.")
	assert.True(t, r.HadError())
	assert.Equal(t, "[line 3] Error: Unexpected character.\n", stderr.String())
}

func TestParseErrorAtTokenFormat(t *testing.T) {
	var stderr bytes.Buffer
	r := reporter.New(&stderr, nil)
	r.ParseError(token.Token{Kind: token.PLUS, Lexeme: "+", Line: 5}, "Expect expression.")
	assert.Equal(t, "[line 5] Error at '+': Expect expression.\n", stderr.String())
}

func TestParseErrorAtEOFFormat(t *testing.T) {
	var stderr bytes.Buffer
	r := reporter.New(&stderr, nil)
	r.ParseError(token.Token{Kind: token.EOF, Line: 7}, "Expect ';' after value.")
	assert.Equal(t, "[line 7] Error at end: Expect ';' after value.\n", stderr.String())
}

func TestRuntimeErrorFormat(t *testing.T) {
	var stderr bytes.Buffer
	r := reporter.New(&stderr, nil)
	r.RuntimeError(token.Token{Line: 2}, "Undefined variable 'x'.")
	assert.True(t, r.HadRuntimeError())
	assert.Equal(t, "Undefined variable 'x'.\n[line 2]\n", stderr.String())
}

func TestResetClearsState(t *testing.T) {
	var stderr bytes.Buffer
	r := reporter.New(&stderr, nil)
	r.ScanError(1, "boom")
	require.True(t, r.HadError())
	r.Reset()
	assert.False(t, r.HadError())
	assert.Nil(t, r.Err())
}

func TestStaticErrorsLogAtWarnSeverity(t *testing.T) {
	var stderr, logOut bytes.Buffer
	log := reporter.NewLogger(&logOut, "run-1")
	r := reporter.New(&stderr, log)

	r.ScanError(1, "Unexpected character.")
	assert.Contains(t, logOut.String(), "[WARNING]")
	assert.Contains(t, logOut.String(), "run=run-1")
}

func TestRuntimeErrorsLogAtErrorSeverity(t *testing.T) {
	var stderr, logOut bytes.Buffer
	log := reporter.NewLogger(&logOut, "run-2")
	r := reporter.New(&stderr, log)

	r.RuntimeError(token.Token{Line: 1}, "Undefined variable 'x'.")
	assert.Contains(t, logOut.String(), "[ERROR]")
}

func TestPhaseBookkeepingLogsAtTraceSeverity(t *testing.T) {
	var stderr, logOut bytes.Buffer
	log := reporter.NewLogger(&logOut, "run-3")
	r := reporter.New(&stderr, log)

	r.PhaseStart("scan")
	r.PhaseEnd("scan")
	assert.Contains(t, logOut.String(), "[TRACE]")
	assert.Contains(t, logOut.String(), "phase start")
	assert.Contains(t, logOut.String(), "phase end")
}
