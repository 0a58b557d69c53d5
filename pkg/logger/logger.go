package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config controls where and how log lines are written
type Config struct {
	Level  string
	Format string
	// File enables a rotating log file in addition to the console
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Output replaces stderr as the console destination
	Output io.Writer
}

// DefaultConfig logs info and above to stderr in console format
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     FormatConsole,
		MaxSizeMB:  50,
		MaxBackups: 3,
	}
}

// New builds a zerolog logger from config
func New(config Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil || config.Level == "" {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", config.Level)
	}

	console := config.Output
	if console == nil {
		console = os.Stderr
	}

	var writers []io.Writer
	switch config.Format {
	case FormatJSON:
		writers = append(writers, console)
	case FormatConsole, "":
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly})
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", config.Format)
	}

	if config.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.File), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			LocalTime:  true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// RedirectStandardLog sends output of the standard log package to l,
// which catches messages from net/http and other libraries
func RedirectStandardLog(l zerolog.Logger) {
	stdlog.SetOutput(l)
	stdlog.SetFlags(0)
}
