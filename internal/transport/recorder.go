package transport

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// CaptureWriter is satisfied by *replay.Writer.
type CaptureWriter interface {
	WriteChunk(now time.Time, chunk []byte) error
	WriteBusy(now time.Time) error
	Close() error
}

// Recorder copies every Data and Busy poll of a transport into a capture.
// Capture write failures are logged and never affect the poll result.
type Recorder struct {
	t   Transport
	w   CaptureWriter
	log zerolog.Logger
	now func() time.Time
}

func NewRecorder(t Transport, w CaptureWriter, log zerolog.Logger) *Recorder {
	return &Recorder{t: t, w: w, log: log, now: time.Now}
}

func (r *Recorder) Poll() (Status, []byte, error) {
	st, p, err := r.t.Poll()
	var werr error
	switch st {
	case Data:
		werr = r.w.WriteChunk(r.now(), p)
	case Busy:
		werr = r.w.WriteBusy(r.now())
	}
	if werr != nil {
		r.log.Warn().Err(werr).Msg("capture write failed")
	}
	return st, p, err
}

// Close closes the wrapped transport and the capture.
func (r *Recorder) Close() error {
	return errors.Join(r.t.Close(), r.w.Close())
}
