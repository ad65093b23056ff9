package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const Stacktrace = "stacktrace"

// Configure sets the level and destination of the standard logger. An
// empty path logs to stderr; otherwise the file is appended to and must be
// closed by the caller.
func Configure(level, path string) (io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: path != ""})

	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(os.Stderr), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", path)
	}
	log.SetOutput(f)
	return f, nil
}

// NullLogger returns an entry that discards everything.
func NullLogger() *log.Entry {
	return log.NewEntry(&log.Logger{
		Out:       io.Discard,
		Formatter: new(log.TextFormatter),
		Hooks:     make(log.LevelHooks),
		Level:     log.PanicLevel,
	})
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}

// WithStacktrace adds err and, if one is recorded, its stack trace.
func WithStacktrace(entry *log.Entry, err error) *log.Entry {
	entry = entry.WithError(err)
	if stack := ExtractStack(err); stack != nil {
		entry = entry.WithField(Stacktrace, stack)
	}
	return entry
}

// ExtractStack returns the outermost stack trace in the cause chain.
func ExtractStack(err error) errors.StackTrace {
	if st, ok := err.(stackTracer); ok {
		return st.StackTrace()
	}
	if c, ok := err.(causer); ok {
		return ExtractStack(c.Cause())
	}
	return nil
}
