package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	slogmulti "github.com/samber/slog-multi"
)

type RelayLogger struct {
	*slog.Logger
}

var relayLogger *RelayLogger

func parseLevel(logLevel string) (slog.Level, error) {
	switch logLevel {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, errors.New("invalid log level")
	}
}

func newHandler(format string, writer io.Writer, opts *slog.HandlerOptions) (slog.Handler, error) {
	switch format {
	case "text":
		return slog.NewTextHandler(writer, opts), nil
	case "json":
		return slog.NewJSONHandler(writer, opts), nil
	default:
		return nil, errors.New("invalid log format")
	}
}

// InitLogger initializes the global logger. The output parameter accepts a
// comma-separated list of sinks; all of them receive every record.
func InitLogger(logLevel, format, output string) error {
	slogLevel, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: true,
	}

	var handlers []slog.Handler
	for _, out := range strings.Split(output, ",") {
		var writer io.Writer
		switch out {
		case "stdout":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		default:
			return errors.New("invalid log output")
		}

		handler, err := newHandler(format, writer, handlerOpts)
		if err != nil {
			return err
		}
		handlers = append(handlers, handler)
	}

	relayLogger = &RelayLogger{
		slog.New(slogmulti.Fanout(handlers...)),
	}
	return nil
}

// InitLoggerWithWriter initializes the global logger against an arbitrary
// writer. Used by tests to capture and inspect log records.
func InitLoggerWithWriter(logLevel, format string, writer io.Writer, addSource bool) error {
	slogLevel, err := parseLevel(logLevel)
	if err != nil {
		return err
	}
	handler, err := newHandler(format, writer, &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: addSource,
	})
	if err != nil {
		return err
	}
	relayLogger = &RelayLogger{slog.New(handler)}
	return nil
}

// GetLogger returns the global logger. If InitLogger has not been called yet,
// a default text logger writing to stderr is installed first.
func GetLogger() *RelayLogger {
	if relayLogger == nil {
		if err := InitLogger("INFO", "text", "stderr"); err != nil {
			panic(err)
		}
	}
	return relayLogger
}

// Error logs the message with the error and its stack trace attached.
func (rl *RelayLogger) Error(msg string, err error, args ...any) {
	err = errors.WithStackDepth(err, 1)
	args = append(args, "error", err.Error(), "stack", fmt.Sprintf("%+v", err))
	rl.Logger.Error(msg, args...)
}

// ErrorContext logs the message with the error and its stack trace attached.
func (rl *RelayLogger) ErrorContext(ctx context.Context, msg string, err error, args ...any) {
	err = errors.WithStackDepth(err, 1)
	args = append(args, "error", err.Error(), "stack", fmt.Sprintf("%+v", err))
	rl.Logger.ErrorContext(ctx, msg, args...)
}

func (rl *RelayLogger) ErrorWithStack(msg string, err error) {
	cError := errors.NewWithDepth(1, err.Error())
	rl.Logger.Error(msg, "error", cError, "stack", fmt.Sprintf("%+v", cError))
}

func (rl *RelayLogger) WithChain(chainID string) *RelayLogger {
	return &RelayLogger{
		rl.With("chain_id", chainID),
	}
}

func (rl *RelayLogger) WithChainPair(
	srcChainID string,
	dstChainID string,
) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"src_chain_id", srcChainID,
			"dst_chain_id", dstChainID,
		),
	}
}

func (rl *RelayLogger) WithChannel(
	srcChainID, srcPortID, srcChannelID string,
	dstChainID, dstPortID, dstChannelID string,
) *RelayLogger {
	return &RelayLogger{
		rl.With(
			"src_chain_id", srcChainID,
			"src_port_id", srcPortID,
			"src_channel_id", srcChannelID,
			"dst_chain_id", dstChainID,
			"dst_port_id", dstPortID,
			"dst_channel_id", dstChannelID,
		),
	}
}

func (rl *RelayLogger) WithModule(moduleName string) *RelayLogger {
	return &RelayLogger{
		rl.With("module", moduleName),
	}
}
