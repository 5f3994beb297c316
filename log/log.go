// Package log is a thin layer over logrus that groups messages by module.
// Warnings and errors are always printed; debug and info messages are only
// printed for modules enabled with EnableDebugModules.
package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level = logrus.Level

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

var disabled bool

func init() {
	// Module masks do the filtering, logrus must let everything through.
	logrus.SetLevel(logrus.DebugLevel)
}

// SetOutput sets the destination of all log messages.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Disable turns off all logging, including warnings and errors.
func Disable() {
	disabled = true
	modDebugMask = 0
	logrus.SetOutput(io.Discard)
}
