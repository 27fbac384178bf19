package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRecorder_CapturesDataAndBusy(t *testing.T) {
	inner := &fakeTransport{results: []pollResult{
		{st: Data, p: []byte("$GP")},
		{st: Empty},
		{st: Busy},
		{st: DeviceError, err: errFake},
	}}
	capture := &fakeCapture{}
	r := NewRecorder(inner, capture, zerolog.Nop())
	now := time.Unix(100, 0)
	r.now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		st, _, err := r.Poll()
		if st == DeviceError && !errors.Is(err, errFake) {
			t.Fatalf("device error not passed through: %v", err)
		}
	}
	if len(capture.lines) != 2 {
		t.Fatalf("captured=%d want 2", len(capture.lines))
	}
	if string(capture.lines[0].chunk) != "$GP" || !capture.lines[1].busy || !capture.lines[0].at.Equal(now) {
		t.Fatalf("lines=%+v", capture.lines)
	}
}

func TestRecorder_WriteFailureDoesNotAffectPoll(t *testing.T) {
	inner := &fakeTransport{results: []pollResult{{st: Data, p: []byte("$")}}}
	r := NewRecorder(inner, &fakeCapture{err: errFake}, zerolog.Nop())
	st, p, err := r.Poll()
	if st != Data || string(p) != "$" || err != nil {
		t.Fatalf("Poll()=%v,%q,%v", st, p, err)
	}
}

func TestRecorder_CloseClosesBoth(t *testing.T) {
	inner := &fakeTransport{closeErr: errFake}
	capture := &fakeCapture{}
	err := NewRecorder(inner, capture, zerolog.Nop()).Close()
	if !errors.Is(err, errFake) || !inner.closed || !capture.closed {
		t.Fatalf("err=%v inner=%v capture=%v", err, inner.closed, capture.closed)
	}
}
