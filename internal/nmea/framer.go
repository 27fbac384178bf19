package nmea

import "bytes"

const (
	// DefaultMaxBuffered bounds the bytes held between drains.
	DefaultMaxBuffered = 64 * 1024
	// DefaultMaxPartial bounds the unterminated tail kept after a drain.
	// NMEA limits sentences to 82 characters; u-blox proprietary ones are
	// longer but still far below this.
	DefaultMaxPartial = 1024
)

var delimiter = []byte("\r\n")

// Framer accumulates receiver bytes and cuts them into sentences at "\r\n".
//
// At most one unterminated sentence is pending at any time, always at the
// tail of the buffer. The buffer is bounded: a Feed that would exceed
// maxBuffered resets it, and a pending tail longer than maxPartial after a
// Drain is discarded. Both cases are counted in Overflows.
//
// Framer is not safe for concurrent use.
type Framer struct {
	buf         []byte
	maxBuffered int
	maxPartial  int
	overflows   int
}

// NewFramer returns a Framer with the given bounds; values <= 0 select the
// defaults.
func NewFramer(maxBuffered, maxPartial int) *Framer {
	if maxBuffered <= 0 {
		maxBuffered = DefaultMaxBuffered
	}
	if maxPartial <= 0 {
		maxPartial = DefaultMaxPartial
	}
	if maxPartial > maxBuffered {
		maxPartial = maxBuffered
	}
	return &Framer{maxBuffered: maxBuffered, maxPartial: maxPartial}
}

// Feed appends one transport chunk. The chunk is copied.
func (f *Framer) Feed(p []byte) {
	if len(p) == 0 {
		return
	}
	if len(f.buf)+len(p) > f.maxBuffered {
		f.buf = f.buf[:0]
		f.overflows++
		if len(p) > f.maxBuffered {
			return
		}
	}
	f.buf = append(f.buf, p...)
}

// Drain returns every complete sentence in arrival order, without the
// delimiter. Bytes after the last delimiter stay buffered for the next call.
// Empty lines are skipped.
func (f *Framer) Drain() []string {
	var out []string
	start := 0
	for {
		i := bytes.Index(f.buf[start:], delimiter)
		if i < 0 {
			break
		}
		if i > 0 {
			out = append(out, string(f.buf[start:start+i]))
		}
		start += i + len(delimiter)
	}
	f.buf = append(f.buf[:0], f.buf[start:]...)
	if len(f.buf) > f.maxPartial {
		f.buf = f.buf[:0]
		f.overflows++
	}
	return out
}

// Buffered returns the number of bytes waiting to be drained.
func (f *Framer) Buffered() int { return len(f.buf) }

// Overflows returns how many times buffered bytes were discarded to keep the
// buffer bounded.
func (f *Framer) Overflows() int { return f.overflows }

// Reset drops everything buffered.
func (f *Framer) Reset() { f.buf = f.buf[:0] }
