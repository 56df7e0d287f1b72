package enforce

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Panic value raised by a failed ENFORCE or FAIL. Wraps the error when one was enforced.
type Violation struct {
	Msg string
	Err error
}

func (v *Violation) Error() string {
	if v.Err != nil {
		return "ENFORCE: " + v.Msg + ": " + v.Err.Error()
	}
	return "ENFORCE: " + v.Msg
}

func (v *Violation) Unwrap() error { return v.Err }

// ENFORCE helper to halt on a broken invariant. Accepts a bool (must be true),
// an error (must be nil), or nil. Any args are formatted into the panic message.
func ENFORCE(query any, args ...any) {
	switch t := query.(type) {
	case bool:
		if !t {
			fail(nil, args)
		}
	case error:
		if t != nil {
			fail(t, args)
		}
	case nil:
		// Allow nil to pass since we sometimes do enforce.ENFORCE(err) to ensure there is no error
	default:
		fail(nil, append([]any{"incorrect usage of enforce with type", fmt.Sprintf("%T", t)}, args...))
	}
}

// FAIL unconditionally halts with the given message.
func FAIL(args ...any) {
	fail(nil, args)
}

func fail(err error, args []any) {
	v := &Violation{Msg: fmt.Sprintln(args...), Err: err}
	if l := len(v.Msg); l > 0 && v.Msg[l-1] == '\n' {
		v.Msg = v.Msg[:l-1]
	}
	log.Error().Err(err).Msg("ENFORCE: " + v.Msg)
	panic(v)
}

// Reports whether a recovered panic value came from this package.
func IsViolation(recovered any) (*Violation, bool) {
	if err, ok := recovered.(error); ok {
		var v *Violation
		if errors.As(err, &v) {
			return v, true
		}
	}
	return nil, false
}
