// Package msg implements the message/warning/error collaborator (spec
// §6): an external sink the core reports diagnostics through instead of
// importing a logging library itself.
package msg

import "github.com/nsavage/medio/threading"

// Sink is a minimal message/warning/error collaborator, built from
// function fields rather than an interface so the zero value is already
// a usable no-op (spec §6: "a message/warning/error sink as an external
// collaborator"). Any field left nil silently discards that channel.
type Sink struct {
	Message func(text string)
	Warning func(text string)
	Error   func(err error)
}

// Default is the no-op sink every entry point falls back to when no
// Sink is supplied.
var Default = Sink{}

// Emit reports text on the message channel, unless b suppresses message
// output (spec §5: SUPPRESS_MESSAGE_OUTPUT).
func (s Sink) Emit(b threading.Behavior, text string) {
	if b&threading.SuppressMessageOutput != 0 {
		return
	}
	if s.Message != nil {
		s.Message(text)
	}
}

// Warn reports text on the warning channel, unless b suppresses warning
// output (spec §5: SUPPRESS_WARNING_OUTPUT).
func (s Sink) Warn(b threading.Behavior, text string) {
	if b&threading.SuppressWarningOutput != 0 {
		return
	}
	if s.Warning != nil {
		s.Warning(text)
	}
}

// Err reports err on the error channel, unless b suppresses error
// output (spec §5: SUPPRESS_ERROR_OUTPUT).
func (s Sink) Err(b threading.Behavior, err error) {
	if b&threading.SuppressErrorOutput != 0 {
		return
	}
	if s.Error != nil {
		s.Error(err)
	}
}
