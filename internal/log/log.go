// Package log provides named leveled loggers shared by the lux packages and commands.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a logging verbosity.
type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var plainFormat = logging.MustStringFormatter(
	`[%{time:15:04:05.000}] [%{module}] [%{level}] %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is implemented by named loggers returned by New.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger. The name is printed as the module of every message.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink overrides the output of all loggers. Colored output is only used
// when writing to a terminal-like sink such as os.Stdout or os.Stderr.
func SetSink(sink io.Writer) {
	f := plainFormat
	if sink == os.Stdout || sink == os.Stderr {
		f = format
	}
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, f)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	logging.SetBackend(leveledBackend)
	SetLevel(currentLevel)
}

// SetLevel sets the verbosity of all loggers.
func SetLevel(level Level) {
	var loggerLevel logging.Level

	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Notice:
		loggerLevel = logging.NOTICE
	case Warning:
		loggerLevel = logging.WARNING
	case Error:
		loggerLevel = logging.ERROR
	default:
		loggerLevel = logging.NOTICE
	}
	currentLevel = level
	leveledBackend.SetLevel(loggerLevel, "")
}

// ParseLevel parses a level name such as "debug" or "warning".
func ParseLevel(s string) (Level, error) {
	l, err := logging.LogLevel(s)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	switch l {
	case logging.DEBUG:
		return Debug, nil
	case logging.INFO:
		return Info, nil
	case logging.NOTICE:
		return Notice, nil
	case logging.WARNING:
		return Warning, nil
	}
	return Error, nil
}

func init() {
	SetSink(os.Stderr)
	SetLevel(Notice)
}
