package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

const defaultLogFile = "shell-sync.log"

var (
	traceMu      sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile

	logger = log.NewWithOptions(fileSink{}, log.Options{
		ReportTimestamp: true,
		Formatter:       log.JSONFormatter,
		Level:           log.DebugLevel,
	})
)

// fileSink appends every write to the current log path, opening and closing
// the file each time so log rotation and path changes take effect at once.
type fileSink struct{}

func (fileSink) Write(p []byte) (int, error) {
	f, err := os.OpenFile(Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return 0, err
	}
	defer f.Close()
	return f.Write(p)
}

// Path reports the active log destination.
func Path() string {
	traceMu.Lock()
	defer traceMu.Unlock()
	return logPath
}

// Error writes errors to the shared log file.
func Error(err error) {
	if err == nil {
		return
	}
	logger.Error(err.Error())
}

// Warn records a non-fatal condition with structured key/value context.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	traceMu.Lock()
	traceEnabled = enabled
	traceMu.Unlock()
}

// TraceEnabled reports whether trace entries are currently emitted.
func TraceEnabled() bool {
	traceMu.Lock()
	defer traceMu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	if payload == nil {
		logger.Debug(event)
		return
	}
	logger.Debug(event, "payload", payload)
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	traceMu.Lock()
	defer traceMu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}
