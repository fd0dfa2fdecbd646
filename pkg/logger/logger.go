package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the API, the store and the validation pipeline.
// Package-level helpers log without a component; Named returns a logger that
// prefixes each line with its component name.

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
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "INFO"
}

var (
	mu    sync.RWMutex
	out   = log.New(os.Stdout, "", 0)
	level = LevelInfo
)

// ParseLevel maps debug, info, warn(ing) or error, in any case, to a Level.
// Anything else is LevelInfo.
func ParseLevel(s string) Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "WARNING" {
		return LevelWarn
	}
	for l, name := range levelNames {
		if name == s {
			return l
		}
	}
	return LevelInfo
}

// Init sets the minimum level that is written.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// SetOutput redirects log lines to w and returns a func restoring the
// previous writer.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = log.New(w, "", 0)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		out = prev
	}
}

func emit(l Level, component, format string, v ...interface{}) {
	mu.RLock()
	dst, floor := out, level
	mu.RUnlock()
	if l < floor {
		return
	}
	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteString(" [" + l.String() + "] ")
	if component != "" {
		b.WriteString(component + ": ")
	}
	b.WriteString(fmt.Sprintf(format, v...))
	dst.Print(b.String())
}

// Logger is a component-scoped view of the package logger.
type Logger struct {
	component string
}

// Named returns a logger whose lines carry the given component name.
func Named(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Debugf(format string, v ...interface{}) { emit(LevelDebug, l.component, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { emit(LevelInfo, l.component, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { emit(LevelWarn, l.component, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { emit(LevelError, l.component, format, v...) }

func Debugf(format string, v ...interface{}) { emit(LevelDebug, "", format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, "", format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, "", format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, "", format, v...) }
