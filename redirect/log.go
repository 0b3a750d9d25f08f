package redirect

import "github.com/sirupsen/logrus"

// nopLogger discards everything, mirroring arena.loggerFor's default for a
// nil Config.Logger.
var nopLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}()

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
