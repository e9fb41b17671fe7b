package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside the log directory.
const FileName = "crm-insights.log"

// Options configure the global logger.
type Options struct {
	Verbose bool
	Level   string    // zerolog level name; overrides Verbose when set
	Dir     string    // log directory; empty disables the file sink
	Console io.Writer // defaults to os.Stderr
}

// Init initializes the global logger with dual sinks: the console and a rotating file.
// The returned closer flushes the file sink.
func Init(opts Options) (io.Closer, error) {
	// 1. Determine log level
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	// 2. Console writer; stdout belongs to the MCP transport
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}}

	// 3. Rotating file writer
	var closer io.Closer = nopCloser{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %q: %w", opts.Dir, err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName),
			MaxSize:    16, // megabytes
			MaxBackups: 8,
			MaxAge:     90, // days
			Compress:   true,
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	// 4. Set Global Logger
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
