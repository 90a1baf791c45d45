// Package elog provides the logging facade used across the prinbee core
// packages. It mirrors the teacher's CLI logger (colorized logrus output)
// without the progress-bar machinery, which has no equivalent in a binary
// codec library.
package elog

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger is the minimal logging surface every core package accepts. Callers
// that don't care about logging can pass Discard.
type Logger interface {
	Debugf(format string, x ...interface{})
	Infof(format string, x ...interface{})
	Warnf(format string, x ...interface{})
	Errorf(format string, x ...interface{})
	IsDebugEnabled() bool
}

// CLI is a logrus-backed Logger with optional colorized terminal output.
type CLI struct {
	DisableColors bool
	IsDebug       bool
	IsVerbose     bool
}

// Debugf executes logrus.Tracef when debug logging is enabled.
func (log *CLI) Debugf(format string, x ...interface{}) {
	if log.IsDebug {
		logrus.Tracef(format, x...)
	}
}

// Infof executes logrus.Debugf when verbose logging is enabled.
func (log *CLI) Infof(format string, x ...interface{}) {
	if log.IsVerbose {
		logrus.Debugf(format, x...)
	}
}

// Warnf executes logrus.Warnf unconditionally.
func (log *CLI) Warnf(format string, x ...interface{}) {
	logrus.Warnf(format, x...)
}

// Errorf executes logrus.Errorf unconditionally.
func (log *CLI) Errorf(format string, x ...interface{}) {
	logrus.Errorf(format, x...)
}

// IsDebugEnabled reports whether the logrus package-level level would emit
// trace output.
func (log *CLI) IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.TraceLevel)
}

// Format implements logrus.Formatter with the teacher's faint/blue/yellow/red
// palette per level.
func (log *CLI) Format(entry *logrus.Entry) ([]byte, error) {

	faint := color.New(color.Faint).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	x := entry.Message
	if !log.DisableColors {
		switch entry.Level {
		case logrus.TraceLevel:
			x = fmt.Sprintf("%s\n", faint(x))
		case logrus.DebugLevel:
			x = fmt.Sprintf("%s\n", blue(x))
		case logrus.WarnLevel:
			x = fmt.Sprintf("%s\n", yellow(x))
		case logrus.ErrorLevel:
			x = fmt.Sprintf("%s\n", red(x))
		default:
			x = fmt.Sprintf("%s\n", x)
		}
	} else {
		x = fmt.Sprintf("%s\n", x)
	}

	return []byte(x), nil
}

// discard is a no-op Logger used as the default when a caller passes nil.
type discard struct{}

func (discard) Debugf(string, ...interface{}) {}
func (discard) Infof(string, ...interface{})  {}
func (discard) Warnf(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}
func (discard) IsDebugEnabled() bool          { return false }

// Discard is a Logger that drops every message.
var Discard Logger = discard{}

// Or returns log if non-nil, otherwise Discard. Core constructors use this
// so a nil Logger argument is always safe to pass.
func Or(log Logger) Logger {
	if log == nil {
		return Discard
	}
	return log
}
