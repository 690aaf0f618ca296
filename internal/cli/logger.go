package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Level is a logging threshold
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel parses debug, info, warn or error
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var levelColors = map[Level]lipgloss.Color{
	LevelDebug: lipgloss.Color("#9CA3AF"),
	LevelInfo:  lipgloss.Color("#3B82F6"),
	LevelWarn:  lipgloss.Color("#F59E0B"),
	LevelError: lipgloss.Color("#EF4444"),
}

// levelStyles builds the tag styles on a renderer pinned to ANSI256
func levelStyles() map[Level]lipgloss.Style {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.ANSI256)
	styles := make(map[Level]lipgloss.Style, len(levelColors))
	for level, c := range levelColors {
		styles[level] = lr.NewStyle().Foreground(c).Bold(level >= LevelWarn)
	}
	return styles
}

// Logger provides levelled logging for kestrelc. Lines look like
// "[INFO] 15:04:05: message".
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	styles map[Level]lipgloss.Style

	// now is replaced in tests
	now func() time.Time
}

// NewLogger creates a logger writing to out at the given threshold
func NewLogger(out io.Writer, level Level, color bool) *Logger {
	l := &Logger{
		out:   out,
		level: level,
		now:   time.Now,
	}
	if color {
		l.styles = levelStyles()
	}
	return l
}

// Level returns the current threshold
func (l *Logger) Level() Level {
	return l.level
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	tag := "[" + level.String() + "]"
	if style, ok := l.styles[level]; ok {
		tag = style.Render(tag)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s: %s\n", tag, l.now().Format("15:04:05"), fmt.Sprintf(format, args...))
}
