package reporter

import (
	"io"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

// NewLogger builds the structured logger mirrored alongside every
// human-readable diagnostic. runID distinguishes separate runs (one file
// execution, or one whole REPL session) in aggregated log output.
func NewLogger(out io.Writer, runID string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(logrus.TraceLevel)
	log.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		LogFormat:       "[%lvl%] %time% run=" + runID + " %msg%\n",
	})
	return log
}
