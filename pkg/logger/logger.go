package logger

import (
	"log"
	"sync"

	"github.com/fatih/color"
)

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	NoticeLevel
	ErrorLevel
)

// Protocol identifies which testnet protocol a log line belongs to.
type Protocol int

const (
	None Protocol = iota
	Rubic
	Izumi
	Beanswap
	Magma
	Apriori
	Monorail
	Ambient
	Kintsu
	Shmonad
	Octoswap
)

var protocolMap = map[string]Protocol{
	"rubic":    Rubic,
	"izumi":    Izumi,
	"beanswap": Beanswap,
	"magma":    Magma,
	"apriori":  Apriori,
	"monorail": Monorail,
	"ambient":  Ambient,
	"kintsu":   Kintsu,
	"shmonad":  Shmonad,
	"octoswap": Octoswap,
}

var protocolPrefixes = map[Protocol]string{
	None:     "",
	Rubic:    "[RUBIC]    ",
	Izumi:    "[IZUMI]    ",
	Beanswap: "[BEANSWAP] ",
	Magma:    "[MAGMA]    ",
	Apriori:  "[APRIORI]  ",
	Monorail: "[MONORAIL] ",
	Ambient:  "[AMBIENT]  ",
	Kintsu:   "[KINTSU]   ",
	Shmonad:  "[SHMONAD]  ",
	Octoswap: "[OCTOSWAP] ",
}

var colors = map[Protocol]color.Attribute{
	None:     color.FgWhite,
	Rubic:    color.FgHiGreen,
	Izumi:    color.FgYellow,
	Beanswap: color.FgMagenta,
	Magma:    color.FgHiBlue,
	Apriori:  color.FgRed,
	Monorail: color.FgBlue,
	Ambient:  color.FgCyan,
	Kintsu:   color.FgGreen,
	Shmonad:  color.FgHiMagenta,
	Octoswap: color.FgHiCyan,
}

// Logger is a simple interface for logging messages.
type Logger interface {
	// Info logs an informational message.
	Info(format string, args ...interface{})
	InfoWithProtocol(name string, format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})
	ErrorWithProtocol(name string, format string, args ...interface{})

	// Debug logs a debug message.
	Debug(format string, args ...interface{})
	DebugWithProtocol(name string, format string, args ...interface{})

	// Notice logs a notice message.
	Notice(format string, args ...interface{})
	NoticeWithProtocol(name string, format string, args ...interface{})
}

// EmptyLogger is a simple implementation of the Logger interface that does nothing.
type EmptyLogger struct{}

var _ Logger = (*EmptyLogger)(nil)

func (l *EmptyLogger) Info(_ string, _ ...interface{})                     {}
func (l *EmptyLogger) InfoWithProtocol(_, _ string, _ ...interface{})      {}
func (l *EmptyLogger) Error(_ string, _ ...interface{})                    {}
func (l *EmptyLogger) ErrorWithProtocol(_, _ string, _ ...interface{})     {}
func (l *EmptyLogger) Debug(_ string, _ ...interface{})                    {}
func (l *EmptyLogger) DebugWithProtocol(_, _ string, _ ...interface{})     {}
func (l *EmptyLogger) Notice(_ string, _ ...interface{})                   {}
func (l *EmptyLogger) NoticeWithProtocol(_, _ string, _ ...interface{})    {}

// StdLogger is a standard implementation of the Logger interface that logs messages to the console.
type StdLogger struct {
	enableColoring bool
	level          Level
	mu             sync.Mutex
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(enableColoring bool, level Level) *StdLogger {
	return &StdLogger{
		enableColoring: enableColoring,
		level:          level,
	}
}

// formatMessage formats the log message with the appropriate log level, protocol prefix, and coloring if enabled.
func (l *StdLogger) formatMessage(level Level, proto Protocol, format string) string {
	protoPrefix := protocolPrefixes[proto]
	if l.enableColoring {
		protoPrefix = color.New(colors[proto]).Sprint(protoPrefix)
	}

	var levelStr string
	switch level {
	case DebugLevel:
		levelStr = "[DEBUG]  "
	case InfoLevel:
		levelStr = "[INFO]   "
	case NoticeLevel:
		levelStr = "[NOTICE] "
	case ErrorLevel:
		levelStr = "[ERROR]  "
	}

	return levelStr + protoPrefix + format
}

func (l *StdLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= InfoLevel {
		log.Printf(l.formatMessage(InfoLevel, None, format), args...)
	}
}

func (l *StdLogger) InfoWithProtocol(name string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level <= InfoLevel {
		log.Printf(l.formatMessage(InfoLevel, protocolMap[name], format), args...)
	}
}

func (l *StdLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= ErrorLevel {
		log.Printf(l.formatMessage(ErrorLevel, None, format), args...)
	}
}

func (l *StdLogger) ErrorWithProtocol(name string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level <= ErrorLevel {
		log.Printf(l.formatMessage(ErrorLevel, protocolMap[name], format), args...)
	}
}

func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= DebugLevel {
		log.Printf(l.formatMessage(DebugLevel, None, format), args...)
	}
}

func (l *StdLogger) DebugWithProtocol(name string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level <= DebugLevel {
		log.Printf(l.formatMessage(DebugLevel, protocolMap[name], format), args...)
	}
}

func (l *StdLogger) Notice(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= NoticeLevel {
		log.Printf(l.formatMessage(NoticeLevel, None, format), args...)
	}
}

func (l *StdLogger) NoticeWithProtocol(name string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level <= NoticeLevel {
		log.Printf(l.formatMessage(NoticeLevel, protocolMap[name], format), args...)
	}
}
