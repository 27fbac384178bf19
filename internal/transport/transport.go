// Package transport polls a GNSS receiver for raw NMEA bytes.
//
// A poll never blocks for long: it returns whatever the receiver has
// buffered (Data), nothing (Empty), a busy indication (Busy), or an I/O
// failure for this attempt only (DeviceError). Callers retry on the next
// poll; only Busy asks for a back-off (see Jitter).
package transport

import (
	"errors"
	"math/rand"
	"time"
)

// Status is the outcome of one poll.
type Status int

const (
	Empty Status = iota
	Data
	Busy
	DeviceError
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "empty"
	case Data:
		return "data"
	case Busy:
		return "busy"
	case DeviceError:
		return "device_error"
	default:
		return "unknown"
	}
}

// Transport is one receiver connection. Poll is only called from a single
// goroutine.
//
// Data always comes with a non-empty chunk owned by the caller.
// DeviceError always comes with a non-nil error. Data may also carry an
// error when the bytes were read but releasing the device failed.
type Transport interface {
	Poll() (Status, []byte, error)
	Close() error
}

// ErrUnsupported is returned by backends not available on this platform.
var ErrUnsupported = errors.New("transport: unsupported on this platform")

const (
	DefaultBusyMin = 500 * time.Millisecond
	DefaultBusyMax = 1000 * time.Millisecond
)

// Jitter returns a uniformly distributed duration in [lo, hi].
func Jitter(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Int63n(int64(hi-lo)+1))
}

// BusyJitter is Jitter over the default busy back-off window.
func BusyJitter(rng *rand.Rand) time.Duration {
	return Jitter(rng, DefaultBusyMin, DefaultBusyMax)
}
