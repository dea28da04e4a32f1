package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"io"
)

// osStdout is a package-level indirection over os.Stdout so tests can
// redirect console output without touching the real file descriptor.
var osStdout io.Writer = os.Stdout

// osPipe wraps os.Pipe for the same reason.
func osPipe() (*os.File, *os.File, error) {
	return os.Pipe()
}

// SlogManager wires the engine's structured log output: a console
// handler always on, plus an optional file handler, fanned out through
// MultiHandler.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates an unconfigured logging manager; Logger()
// returns slog.Default() until Setup is called.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level, defaulting to
// Info for anything unrecognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logger with a console handler, an optional file
// handler, and any additional writers (e.g. a GELF/Graylog writer), all
// fanned out at the same level through MultiHandler.
func (m *SlogManager) Setup(file io.Writer, level string, extra ...io.Writer) {
	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(osStdout, handlerOpts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}
	for _, w := range extra {
		if w != nil {
			handlers = append(handlers, slog.NewTextHandler(w, handlerOpts))
		}
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("logging initialized", "level", level)
}

// Logger returns the configured slog.Logger, or slog.Default() if Setup
// hasn't been called.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// WriteLog writes a log entry tagged with the originating function name.
func (m *SlogManager) WriteLog(functionName, data, level string) {
	if m.logger == nil {
		return
	}
	switch parseLevel(level) {
	case slog.LevelDebug:
		m.logger.Debug(data, "function", functionName)
	case slog.LevelWarn:
		m.logger.Warn(data, "function", functionName)
	case slog.LevelError:
		m.logger.Error(data, "function", functionName)
	default:
		m.logger.Info(data, "function", functionName)
	}
}
