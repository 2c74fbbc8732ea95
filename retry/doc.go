// Package retry provides retry functionality with exponential backoff.
//
// It supports configurable retry attempts, delays, and custom retry conditions.
// hqueue's workerclient package uses it for the initial dial to a manager's
// control socket; it is deliberately not used for in-flight frame I/O, where
// backoff would stall a doorbell byte a consumer is waiting on.
//
// Basic usage:
//
//	err := retry.Do(func() error {
//	    return someOperation()
//	}, retry.Attempts(3), retry.Delay(time.Second))
//
// With exponential backoff:
//
//	err := retry.Do(func() error {
//	    return dial()
//	}, retry.DelayType(retry.ExponentialBackoff), retry.Multiplier(2))
package retry
