package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPDU             = errors.New("protocol: malformed pdu")
	ErrUnknownCommand           = errors.New("protocol: unknown command")
	ErrUnknownOptionalParameter = errors.New("protocol: unknown optional parameter")
	ErrInvalidState             = errors.New("protocol: command not allowed in current bind state")
	ErrMessageTooLong           = errors.New("protocol: message too long")
	ErrInvalidField             = errors.New("protocol: invalid field")
	ErrConnectionFailure        = errors.New("protocol: connection failure")
	ErrTimeout                  = errors.New("protocol: timeout")
)

// StateError reports a command that is illegal in the session's current state.
type StateError struct {
	Command  CommandID
	State    string
	Outbound bool
}

func (e *StateError) Error() string {
	dir := "receive"
	if e.Outbound {
		dir = "send"
	}
	return fmt.Sprintf("protocol: cannot %s %s in state %s", dir, e.Command, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// StatusError carries a non-zero command_status returned by the peer.
type StatusError struct {
	Command CommandID
	Status  Status
}

func (e StatusError) Error() string {
	return fmt.Sprintf("protocol: %s failed: (0x%08x) %s", e.Command, uint32(e.Status), e.Status.Description())
}

// Malformed wraps ErrMalformedPDU with a formatted reason.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPDU, fmt.Sprintf(format, args...))
}
