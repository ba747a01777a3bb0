package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

const RequestIDKey = "request_id"

type Fields = logrus.Fields

type options struct {
	level   logrus.Level
	dir     string
	toFile  bool
	noColor bool
}

type Option func(*options)

// WithLevel parses a logrus level name. Unknown names keep the default (debug).
func WithLevel(level string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.level = lvl
		}
	}
}

func WithFileDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.dir = dir
		}
	}
}

func WithFileOutput(enabled bool) Option {
	return func(o *options) {
		o.toFile = enabled
	}
}

func WithoutColors() Option {
	return func(o *options) {
		o.noColor = true
	}
}

// NewLogger builds the process-wide logger on first call; later calls return
// the same instance and ignore their options.
func NewLogger(opts ...Option) *logrus.Logger {
	once.Do(func() {
		o := options{
			level:  logrus.DebugLevel,
			dir:    "./storage/logs",
			toFile: os.Getenv("APP_ENV") != "test",
		}
		for _, opt := range opts {
			opt(&o)
		}

		logger = logrus.New()
		logger.SetLevel(o.level)

		logger.SetFormatter(&formatter.Formatter{
			NoColors:        o.noColor,
			TimestampFormat: "02 Jan 06 - 15:04",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}
		if o.toFile {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filepath.Join(o.dir, fmt.Sprintf("app-%s.log", time.Now().Format("2006-01-02"))),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

func entry(fields Fields) *logrus.Entry {
	if fields == nil {
		fields = Fields{}
	}
	return NewLogger().WithFields(fields)
}

func Debug(fields Fields, msg string) { entry(fields).Debug(msg) }

func Info(fields Fields, msg string) { entry(fields).Info(msg) }

func Warn(fields Fields, msg string) { entry(fields).Warn(msg) }

func Error(fields Fields, msg string) { entry(fields).Error(msg) }

func Fatal(fields Fields, msg string) { entry(fields).Fatal(msg) }

// ErrorWithTraceID logs msg with a trace id, reusing the request id when
// present, and returns the id so it can be shown to the client.
func ErrorWithTraceID(fields Fields, msg string) string {
	if fields == nil {
		fields = Fields{}
	}

	traceID := "unknown"
	if reqID, ok := fields[RequestIDKey].(string); ok && reqID != "" && reqID != "unknown" {
		traceID = reqID
	} else if id, err := uuid.NewRandom(); err == nil {
		traceID = id.String()
	} else {
		Error(Fields{"error": err.Error()}, "[log.ErrorWithTraceID] failed to generate trace ID")
	}

	fields["trace_id"] = traceID
	entry(fields).Error(msg)

	return traceID
}

func WithRequestID(ctx context.Context) *logrus.Entry {
	return NewLogger().WithField(RequestIDKey, contextPkg.GetRequestID(ctx))
}
