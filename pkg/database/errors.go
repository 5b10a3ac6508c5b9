package database

import (
	"errors"
	"fmt"

	"github.com/rbrabson/economy/pkg/store"
)

var (
	ErrInvalidArgumentType = errors.New("invalid argument type")
	ErrInvalidTarget       = errors.New("invalid target")
	ErrCorruptStorage      = store.ErrCorruptStorage
	ErrReservedPath        = store.ErrReservedPath
)

// TypeError reports an argument or stored value whose type does not fit the operation.
type TypeError struct {
	Kind     error
	Op       string
	Arg      string
	Received string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s: %s must be %s, received %s", e.Op, e.Kind, e.Arg, e.Expected, e.Received)
}

// Unwrap returns the sentinel for the kind of error.
func (e *TypeError) Unwrap() error {
	return e.Kind
}

// argumentError reports an invalid argument passed to an operation.
func argumentError(op string, arg string, received interface{}, expected string) error {
	return &TypeError{
		Kind:     ErrInvalidArgumentType,
		Op:       op,
		Arg:      arg,
		Received: typeName(received),
		Expected: expected,
	}
}

// targetError reports a stored value that cannot be used by an operation.
func targetError(op string, key string, received interface{}, expected string) error {
	return &TypeError{
		Kind:     ErrInvalidTarget,
		Op:       op,
		Arg:      "target at " + key,
		Received: typeName(received),
		Expected: expected,
	}
}

// typeName describes the JSON type of a value.
func typeName(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "undefined"
	case string:
		return fmt.Sprintf("string %q", value)
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
