package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// Output is where loggers created by New write. The CLI points it at stderr
// so that reports on stdout stay machine readable.
var Output io.Writer = os.Stderr

var (
	configuredLevel   string
	configuredConsole bool
)

// Configure sets the level and console mode used when LOG_LEVEL and APP_ENV
// are unset. It must be called before loggers are created.
func Configure(level string, console bool) {
	configuredLevel = level
	configuredConsole = console
}

// NewZerologLogger creates a ZerologLogger. APP_ENV=dev selects the console
// writer; LOG_LEVEL (debug, info, warn, error) sets the minimum level, info
// by default. All entries carry the component field.
func NewZerologLogger(component string) Logger {
	env := os.Getenv("APP_ENV")
	if env == "" && configuredConsole {
		env = "dev"
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = configuredLevel
	}
	return newZerolog(Output, component, env, level)
}

func newZerolog(out io.Writer, component, env, level string) *ZerologLogger {
	if strings.ToLower(env) == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	z := zerolog.New(out).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
