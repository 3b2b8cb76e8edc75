package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

// LogLevel represents the verbosity level
type LogLevel int

const (
	LogLevelQuiet LogLevel = iota
	LogLevelNormal
	LogLevelVerbose
	LogLevelDebug
)

var (
	cyan    = color.New(color.FgCyan).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	blue    = color.New(color.FgBlue).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	gray    = color.New(color.FgHiBlack).SprintFunc()
	white   = color.New(color.FgHiWhite).SprintFunc()
)

// Logger handles all logging for the generator
type Logger struct {
	mu        sync.Mutex
	level     LogLevel
	writer    io.Writer
	errWriter io.Writer
}

var defaultLogger = &Logger{
	level:     LogLevelNormal,
	writer:    os.Stdout,
	errWriter: os.Stderr,
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// SetLevel sets the global log level
func SetLevel(level LogLevel) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

// SetVerbose enables verbose logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(LogLevelVerbose)
	}
}

// SetColors enables or disables color output.
// fatih/color already disables colors for NO_COLOR and non-terminals.
func SetColors(enabled bool) {
	color.NoColor = !enabled
}

// SetOutput redirects both normal and error output to w
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.writer = w
	defaultLogger.errWriter = w
}

func (l *Logger) printf(w io.Writer, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, format, args...)
}

func enabled(level LogLevel) bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.level >= level
}

// Info logs informational messages (always shown unless quiet)
func Info(format string, args ...any) {
	if enabled(LogLevelNormal) {
		defaultLogger.printf(defaultLogger.writer, cyan("[INFO] ")+format+"\n", args...)
	}
}

// Success logs success messages
func Success(format string, args ...any) {
	if enabled(LogLevelNormal) {
		defaultLogger.printf(defaultLogger.writer, green("[SUCCESS] ")+format+"\n", args...)
	}
}

// Warning logs warning messages
func Warning(format string, args ...any) {
	if enabled(LogLevelNormal) {
		defaultLogger.printf(defaultLogger.writer, yellow("[WARNING] ")+format+"\n", args...)
	}
}

// Error logs error messages (always shown)
func Error(format string, args ...any) {
	defaultLogger.printf(defaultLogger.errWriter, red("[ERROR] ")+format+"\n", args...)
}

// Verbose logs detailed information (only in verbose mode)
func Verbose(format string, args ...any) {
	if enabled(LogLevelVerbose) {
		defaultLogger.printf(defaultLogger.writer, gray("  [VERBOSE] ")+format+"\n", args...)
	}
}

// Debug logs debug information (only in debug mode)
func Debug(format string, args ...any) {
	if !enabled(LogLevelDebug) {
		return
	}

	// Include caller information for debug logs
	caller := ""
	if pc, file, line, ok := runtime.Caller(1); ok {
		funcName := runtime.FuncForPC(pc).Name()
		parts := strings.Split(funcName, ".")
		funcName = parts[len(parts)-1]
		caller = fmt.Sprintf("%s:%d %s", file, line, funcName)
	}

	prefix := magenta("  [DEBUG] ")
	if caller != "" {
		prefix += gray("(" + caller + ") ")
	}
	defaultLogger.printf(defaultLogger.writer, prefix+format+"\n", args...)
}

// Dump pretty-prints v in debug mode
func Dump(label string, v any) {
	if !enabled(LogLevelDebug) {
		return
	}
	defaultLogger.printf(defaultLogger.writer, "%s %s\n%s", magenta("  [DUMP]"), label, dumper.Sdump(v))
}

// Section prints a section header
func Section(title string) {
	if enabled(LogLevelNormal) {
		line := strings.Repeat("━", len(title)+4)
		defaultLogger.printf(defaultLogger.writer, "\n%s\n  %s  \n%s\n", blue(line), blue(title), blue(line))
	}
}

// Step logs a step in the process
func Step(step int, total int, description string) {
	if enabled(LogLevelNormal) {
		defaultLogger.printf(defaultLogger.writer, "%s %s\n", cyan(fmt.Sprintf("[%d/%d]", step, total)), description)
	}
}

// Progress logs progress information with timing
func Progress(start time.Time, format string, args ...any) {
	if enabled(LogLevelVerbose) {
		timeText := gray(fmt.Sprintf("[%v]", time.Since(start).Round(time.Millisecond)))
		defaultLogger.printf(defaultLogger.writer, "  %s "+format+"\n", append([]any{timeText}, args...)...)
	}
}

// Stats logs statistics
func Stats(title string, stats map[string]any) {
	if !enabled(LogLevelVerbose) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", cyan(title+":"))
	for k, v := range stats {
		fmt.Fprintf(&b, "%s%v\n", white(fmt.Sprintf("  • %s: ", k)), v)
	}
	defaultLogger.printf(defaultLogger.writer, "%s", b.String())
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return enabled(LogLevelDebug)
}

// IsVerboseEnabled returns true if verbose logging is enabled
func IsVerboseEnabled() bool {
	return enabled(LogLevelVerbose)
}
