package logger

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*logrus.Entry
}

// Options control where and how logs are written. Zero value logs at info
// level to stdout with the pretty console formatter.
type Options struct {
	Environment string
	Level       string
	File        string
	FileStdout  bool
}

// OptionsFromEnv reads ENVIRONMENT, LOG_LEVEL, LOG_FILE and LOG_TO_STDOUT.
func OptionsFromEnv() Options {
	return Options{
		Environment: os.Getenv("ENVIRONMENT"),
		Level:       os.Getenv("LOG_LEVEL"),
		File:        os.Getenv("LOG_FILE"),
		FileStdout:  os.Getenv("LOG_TO_STDOUT") == "true",
	}
}

func New() *Logger {
	return NewWithOptions(OptionsFromEnv())
}

func NewWithOptions(opts Options) *Logger {
	base := logrus.New()

	// Local env = pretty console; others = JSON
	if opts.Environment == "" || opts.Environment == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			ForceColors:     opts.File == "",
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	base.SetOutput(output(opts))
	base.SetLevel(Level(opts.Level))

	return &Logger{Entry: logrus.NewEntry(base)}
}

// Nop returns a logger that discards everything, for tests and library callers
// that do not care about logs.
func Nop() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{Entry: logrus.NewEntry(base)}
}

func output(opts Options) io.Writer {
	if opts.File == "" {
		return os.Stdout
	}
	name := opts.File
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	rotating := &lumberjack.Logger{
		Filename:  name,
		MaxSize:   50, // megabytes
		LocalTime: false,
		Compress:  true,
	}
	if opts.FileStdout {
		return io.MultiWriter(os.Stdout, rotating)
	}
	return rotating
}

// Level maps a LOG_LEVEL value to a logrus level, defaulting to info.
func Level(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", name)}
}

// WithRequest attaches request metadata and returns an entry
func (l *Logger) WithRequest(r *http.Request) *logrus.Entry {
	reqID := r.Header.Get("X-Request-ID")
	if reqID == "" {
		reqID = uuid.New().String()
	}

	return l.WithFields(logrus.Fields{
		"req_id":     reqID,
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
}

// WithError standardizes error logging
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
