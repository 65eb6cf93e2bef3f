package redisstatus

import (
	"github.com/pkg/errors"
)

// ErrMalformedInfo is returned when an INFO memory reply does not have the
// layout the used-memory parser expects. It is not an unhealthy result: the
// server answered, but the answer could not be evaluated.
var ErrMalformedInfo = errors.New("malformed memory info reply")

// UnhealthyError is the result of a check that reached a verdict other than
// healthy. Its message is the human-readable reason.
type UnhealthyError struct {
	Reason string
}

func (e *UnhealthyError) Error() string {
	return e.Reason
}

// IsUnhealthy reports whether err is an unhealthy verdict, as opposed to a
// nil (healthy) result or a malformed info reply.
func IsUnhealthy(err error) bool {
	var unhealthy *UnhealthyError
	return errors.As(err, &unhealthy)
}

func notResponsive(name string) error {
	return &UnhealthyError{Reason: name + " instance is not responsive."}
}

func highMemory(name string) error {
	return &UnhealthyError{Reason: name + " instance is using abnormally high memory."}
}
