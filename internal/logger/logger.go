// Package logger configures logrus and carries a per-operation logger in a
// context. Every entry of one CLI command or one repository call chain
// shares the same operation id.
package logger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKeyLoggerType struct{}

var contextKeyLogger = &contextKeyLoggerType{}

// operationIDKey is the log field carrying the operation id.
const operationIDKey = "operationID"

// InitLogger sets up the text formatter with full timestamps for all log
// statements and applies level.
func InitLogger(level logrus.Level) {
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)
	logrus.SetLevel(level)
}

// ParseLevel parses a level name; an empty name means info.
func ParseLevel(name string) (logrus.Level, error) {
	if name == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Default returns a logger without an operation id.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// ContextWithLogger returns a context carrying a logger with a new operation
// id, unless ctx already carries one, in which case ctx and its logger are
// returned unchanged.
func ContextWithLogger(ctx context.Context) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	} else if rlog := loggerFromContext(ctx); rlog != nil {
		return ctx, rlog
	}
	rlog := logrus.WithField(operationIDKey, uuid.NewString())
	return context.WithValue(ctx, contextKeyLogger, rlog), rlog
}

func loggerFromContext(ctx context.Context) *logrus.Entry {
	rlog, _ := ctx.Value(contextKeyLogger).(*logrus.Entry)
	return rlog
}

// FromContext returns the logger of ctx, or the default logger if ctx has none.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return Default()
	}
	if rlog := loggerFromContext(ctx); rlog != nil {
		return rlog
	}
	return Default()
}

// OperationID returns the operation id of the logger in ctx, or "".
func OperationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rlog := loggerFromContext(ctx)
	if rlog == nil {
		return ""
	}
	id, _ := rlog.Data[operationIDKey].(string)
	return id
}
