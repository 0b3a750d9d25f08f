package arena

import "github.com/sirupsen/logrus"

// nopLogger discards everything. It is the default when Config.Logger is
// nil, mirroring the teacher's VerboseMode-gated fmt.Fprintf(os.Stderr, ...)
// calls (safe_buffer.go, mem_ops.go) defaulting to silent.
var nopLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}()

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func loggerFor(cfg *Config) logrus.FieldLogger {
	if cfg != nil && cfg.Logger != nil {
		return cfg.Logger
	}
	return nopLogger
}
