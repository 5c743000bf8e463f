package piped

import (
	"errors"
	"fmt"
)

// TransportError indicates the API could not be reached at all (no connectivity,
// DNS failure, timeout). The operation was aborted without mutating any state.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates the API answered, but with an error status or a body
// that could not be interpreted.
type ProtocolError struct {
	Status int
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("unexpected api response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is a malformed or unexpected server response.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
