// Package errs provides the error wrapping and panic-containment helpers
// used across hqueue's manager, worker client, and queue packages.
//
// Basic usage:
//
//	err := errs.Wrap(originalErr, "context message")
//	if errs.Is(err, ErrQueueNotFound) {
//	    // handle specific error
//	}
//
// SafeGo launches a goroutine that recovers any panic and reports it through
// a handler instead of crashing the process. The manager dispatcher contains
// panics per frame with Safe rather than SafeGo, so one bad frame cannot take
// the whole manager down.
package errs
