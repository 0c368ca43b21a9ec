// Package log wraps logrus with a reopenable file hook, the way
// go-guerrilla's log package does for its SMTP daemon. Here it's
// retargeted at the parser: instead of tagging log lines with the
// remote connection, WithPart tags them with the part currently being
// parsed.
package log

import (
	"bufio"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"sync"

	logrus "github.com/sirupsen/logrus"
)

// Logger is satisfied by HookedLogger. It extends logrus.FieldLogger with
// the operations the rest of this module needs: reopening the log
// destination on SIGHUP, and tagging a line with the part being parsed.
type Logger interface {
	logrus.FieldLogger
	WithPart(node string) *logrus.Entry
	Reopen() error
	GetLogDest() string
	SetLevel(level string)
	GetLevel() string
	IsDebug() bool
	AddHook(h logrus.Hook)
}

// HookedLogger implements Logger. It's a logrus.Logger wrapper that holds
// onto the LoggerHook doing the actual writing, so Reopen can cycle the
// underlying file descriptor without losing the logrus configuration.
type HookedLogger struct {
	*logrus.Logger

	h LoggerHook
}

type loggerCache map[string]Logger

var loggers struct {
	cache loggerCache
	sync.Mutex
}

type OutputOption int

const (
	OutputStderr OutputOption = 1 + iota
	OutputStdout
	OutputOff
	OutputNull
	OutputFile
)

var outputOptions = [...]string{"stderr", "stdout", "off", "", "file"}

func (o OutputOption) String() string {
	return outputOptions[o-1]
}

func parseOutputOption(str string) OutputOption {
	switch str {
	case "stderr":
		return OutputStderr
	case "stdout":
		return OutputStdout
	case "off":
		return OutputOff
	case "":
		return OutputNull
	}
	return OutputFile
}

// GetLogger returns the Logger for dest, creating and caching one if this
// is the first call for that destination. dest is a file path, or one of
// "off" / "stdout" / "stderr".
func GetLogger(dest string) (Logger, error) {
	loggers.Lock()
	defer loggers.Unlock()
	if loggers.cache == nil {
		loggers.cache = make(loggerCache, 1)
	} else if l, ok := loggers.cache[dest]; ok {
		return l, nil
	}

	base := logrus.New()
	base.Out = ioutil.Discard

	l := &HookedLogger{Logger: base}
	loggers.cache[dest] = l

	h, err := NewLogrusHook(dest)
	if err != nil {
		base.Out = os.Stderr
		return l, err
	}
	base.Hooks.Add(h)
	l.h = h
	return l, nil
}

func (l *HookedLogger) AddHook(h logrus.Hook) {
	l.Logger.AddHook(h)
}

func (l *HookedLogger) IsDebug() bool {
	return l.GetLevel() == logrus.DebugLevel.String()
}

func (l *HookedLogger) SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	l.Level = lvl
}

func (l *HookedLogger) GetLevel() string {
	return l.Level.String()
}

func (l *HookedLogger) Reopen() error {
	return l.h.Reopen()
}

func (l *HookedLogger) GetLogDest() string {
	return l.h.GetLogDest()
}

// WithPart tags the log entry with the node path of the part currently
// being parsed, so a warning can be traced back to its place in the tree.
func (l *HookedLogger) WithPart(node string) *logrus.Entry {
	if node == "" {
		node = "(root)"
	}
	return l.WithField("node", node)
}

// hookMu guards every exported LogrusHook operation.
var hookMu sync.Mutex

// LoggerHook extends logrus.Hook with the ability to reopen its output
// file, e.g. after an external tool like logrotate(8) has renamed it.
type LoggerHook interface {
	logrus.Hook
	Reopen() error
	GetLogDest() string
}

type LogrusHook struct {
	w     io.Writer
	fd    *os.File
	fname string

	plainTxtFormatter *logrus.TextFormatter

	mu sync.Mutex
}

// NewLogrusHook creates a hook writing to dest. dest can be a file path,
// or one of "stderr" / "stdout" / "off".
func NewLogrusHook(dest string) (LoggerHook, error) {
	hookMu.Lock()
	defer hookMu.Unlock()
	hook := LogrusHook{fname: dest}
	err := hook.setup(dest)
	return &hook, err
}

func (hook *LogrusHook) setup(dest string) error {
	out := parseOutputOption(dest)
	switch out {
	case OutputNull, OutputStderr:
		hook.w = os.Stderr
	case OutputStdout:
		hook.w = os.Stdout
	case OutputOff:
		hook.w = ioutil.Discard
	default:
		if _, err := os.Stat(dest); err == nil {
			if err := hook.openAppend(dest); err != nil {
				return err
			}
		} else if err := hook.openCreate(dest); err != nil {
			return err
		}
	}
	if hook.fd != nil {
		hook.plainTxtFormatter = &logrus.TextFormatter{DisableColors: true}
	}
	return nil
}

func (hook *LogrusHook) openAppend(dest string) (err error) {
	fd, err := os.OpenFile(dest, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		hook.w = os.Stderr
		hook.fd = nil
		return
	}
	hook.w = bufio.NewWriter(fd)
	hook.fd = fd
	return
}

func (hook *LogrusHook) openCreate(dest string) (err error) {
	fd, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		hook.w = os.Stderr
		hook.fd = nil
		return
	}
	hook.w = bufio.NewWriter(fd)
	hook.fd = fd
	return
}

func (hook *LogrusHook) Fire(entry *logrus.Entry) error {
	hookMu.Lock()
	defer hookMu.Unlock()
	if hook.fd != nil {
		oldFormatter := entry.Logger.Formatter
		defer func() { entry.Logger.Formatter = oldFormatter }()
		entry.Logger.Formatter = hook.plainTxtFormatter
	}
	line, err := entry.String()
	if err != nil {
		return err
	}
	if _, err = io.Copy(hook.w, strings.NewReader(line)); err != nil {
		return err
	}
	if wb, ok := hook.w.(*bufio.Writer); ok {
		if err := wb.Flush(); err != nil {
			return err
		}
		if hook.fd != nil {
			_ = hook.fd.Sync()
		}
	}
	return nil
}

func (hook *LogrusHook) GetLogDest() string {
	hookMu.Lock()
	defer hookMu.Unlock()
	return hook.fname
}

func (hook *LogrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Reopen closes and re-opens the log file descriptor. Used after the file
// has been rotated out from under us.
func (hook *LogrusHook) Reopen() error {
	hookMu.Lock()
	defer hookMu.Unlock()
	if hook.fd == nil {
		return nil
	}
	if err := hook.fd.Close(); err != nil {
		return err
	}
	if _, err := os.Stat(hook.fname); err != nil {
		return hook.openCreate(hook.fname)
	}
	return hook.openAppend(hook.fname)
}
