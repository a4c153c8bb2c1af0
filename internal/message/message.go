// Package message provides logging and user-facing error messages shared by
// the launcher and the deployment tool.
package message

import (
	"errors"
	"log"
	"sync/atomic"
)

// Error is an error with a user-facing message.
type Error interface {
	// Message returns a user-facing error message.
	Message() string

	error
}

// GetMessage returns whether an error implements [Error], and the message if it does.
func GetMessage(err error) (string, bool) {
	var e Error
	if !errors.As(err, &e) || e == nil {
		return "", false
	}
	return e.Message(), true
}

// Msg is the output sink of a program.
type Msg interface {
	// GetLogger returns the underlying [log.Logger].
	GetLogger() *log.Logger

	// IsVerbose atomically loads the verbose state.
	IsVerbose() bool
	// SwapVerbose atomically stores a new verbose state and returns the previous one.
	SwapVerbose(verbose bool) bool
	// Verbose calls Println on the underlying logger if verbose is enabled.
	Verbose(v ...any)
	// Verbosef calls Printf on the underlying logger if verbose is enabled.
	Verbosef(format string, v ...any)

	// PrintError prints err with its user-facing message if it has one,
	// or with fallback prepended otherwise.
	PrintError(err error, fallback string)
}

type defaultMsg struct {
	verbose atomic.Bool
	logger  *log.Logger
}

// New returns a [Msg] writing to logger, or to the standard logger if nil.
func New(logger *log.Logger) Msg {
	if logger == nil {
		logger = log.Default()
	}
	return &defaultMsg{logger: logger}
}

func (msg *defaultMsg) GetLogger() *log.Logger        { return msg.logger }
func (msg *defaultMsg) IsVerbose() bool               { return msg.verbose.Load() }
func (msg *defaultMsg) SwapVerbose(verbose bool) bool { return msg.verbose.Swap(verbose) }

func (msg *defaultMsg) Verbose(v ...any) {
	if msg.verbose.Load() {
		msg.logger.Println(v...)
	}
}

func (msg *defaultMsg) Verbosef(format string, v ...any) {
	if msg.verbose.Load() {
		msg.logger.Printf(format, v...)
	}
}

func (msg *defaultMsg) PrintError(err error, fallback string) {
	if m, ok := GetMessage(err); ok {
		msg.logger.Print(m)
		return
	}
	msg.logger.Println(fallback, err)
}
