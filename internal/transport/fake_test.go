package transport

import (
	"errors"
	"time"
)

type pollResult struct {
	st  Status
	p   []byte
	err error
}

type fakeTransport struct {
	results  []pollResult
	polls    int
	closed   bool
	closeErr error
}

func (f *fakeTransport) Poll() (Status, []byte, error) {
	f.polls++
	if len(f.results) == 0 {
		return Empty, nil, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.st, r.p, r.err
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return f.closeErr
}

type captureLine struct {
	at    time.Time
	busy  bool
	chunk []byte
}

type fakeCapture struct {
	lines  []captureLine
	err    error
	closed bool
}

func (f *fakeCapture) WriteChunk(now time.Time, chunk []byte) error {
	f.lines = append(f.lines, captureLine{at: now, chunk: chunk})
	return f.err
}

func (f *fakeCapture) WriteBusy(now time.Time) error {
	f.lines = append(f.lines, captureLine{at: now, busy: true})
	return f.err
}

func (f *fakeCapture) Close() error {
	f.closed = true
	return nil
}

var errFake = errors.New("fake failure")
