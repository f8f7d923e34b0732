package resp

import (
	"errors"
	"fmt"
)

var (
	// ErrNotComplete means the buffer does not yet hold a whole frame.
	// It is a retry signal, not a failure: the buffer is left untouched.
	ErrNotComplete = errors.New("resp: frame is not complete")

	// ErrProtocol is the parent of every fatal decoding error. Once it is
	// returned the byte stream's framing can no longer be trusted.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrInvalidFrameType is returned for an unknown prefix byte or a
	// literal token that does not match the frame shape.
	ErrInvalidFrameType = fmt.Errorf("%w: invalid frame type", ErrProtocol)

	// ErrInvalidFrameLength is returned for a malformed length or count header.
	ErrInvalidFrameLength = fmt.Errorf("%w: invalid frame length", ErrProtocol)

	// ErrInvalidFrame is returned for a malformed payload (bad integer,
	// double, boolean, terminator or embedded CR/LF).
	ErrInvalidFrame = fmt.Errorf("%w: invalid frame", ErrProtocol)

	// ErrLimitExceeded is returned when a frame exceeds the decoder limits.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)
