package logging

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var (
	_logger         = NewTmpLogger()
	_requestIDField = "request_id"
)

// NewLogger builds the process logger. pretty switches to the development
// config; level accepts zap level names (DEBUG, INFO, WARN, ERROR).
func NewLogger(pretty bool, levelName string) (*zap.Logger, error) {
	var c zap.Config
	var opts []zap.Option
	if pretty {
		c = zap.NewDevelopmentConfig()
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	} else {
		c = zap.NewProductionConfig()
	}

	level := zap.NewAtomicLevel()
	if levelName == "" {
		levelName = "INFO"
	}
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("could not parse log level %s", levelName)
	}
	c.Level = level

	return c.Build(opts...)
}

func InitLogger(pretty bool, levelName string) (err error) {
	_logger, err = NewLogger(pretty, levelName)
	return err
}

func NewTmpLogger() *zap.Logger {
	c := zap.NewProductionConfig()
	c.DisableStacktrace = true
	l, err := c.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// Logger returns the process logger annotated with the chi request id when
// the context carries one.
// ctx: nillable
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil || ctx == context.TODO() {
		return _logger
	}
	return injectRequestID(_logger, ctx)
}

func injectRequestID(logger *zap.Logger, ctx context.Context) *zap.Logger {
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		return logger
	}
	return logger.With(zap.String(_requestIDField, requestID))
}
