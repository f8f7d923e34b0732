package command

import (
	"errors"
	"fmt"

	"github.com/yndnr/respkv/pkg/resp"
)

var (
	// ErrInvalidCommand is returned when a request is not shaped like a
	// command: not an array, empty, or without a bulk string name.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrWrongArity is returned when the argument count does not match the
	// command's grammar. Arity errors also match ErrInvalidArgument.
	ErrWrongArity = errors.New("wrong number of arguments")

	// ErrInvalidArgument is the parent of per-argument errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrArgumentType is returned when an argument is not a bulk string.
	ErrArgumentType = fmt.Errorf("%w: expected bulk string", ErrInvalidArgument)

	// ErrInvalidUTF8 is returned when a textual argument is not valid UTF-8.
	ErrInvalidUTF8 = fmt.Errorf("%w: invalid UTF-8", ErrInvalidArgument)

	// ErrInvalidField is returned when a hash field holds CR or LF, which
	// cannot be written as a map key.
	ErrInvalidField = fmt.Errorf("%w: field must not contain CR or LF", ErrInvalidArgument)
)

type arityError struct {
	cmd string
}

func (e arityError) Error() string {
	return fmt.Sprintf("%s for '%s' command", ErrWrongArity, e.cmd)
}

func (e arityError) Is(target error) bool {
	return target == ErrWrongArity || target == ErrInvalidArgument
}

// ErrorReply renders err as the error frame sent back to the client.
func ErrorReply(err error) resp.SimpleError {
	return resp.SimpleError("ERR " + err.Error())
}
