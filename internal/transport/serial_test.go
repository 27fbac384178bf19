package transport

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jacobsa/go-serial/serial"
)

type fakePort struct {
	reads  [][]byte
	errs   []error
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.reads[0])
	err := p.errs[0]
	p.reads, p.errs = p.reads[1:], p.errs[1:]
	return n, err
}

func (p *fakePort) Write(b []byte) (int, error) { return len(b), nil }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func swapSerialOpen(t *testing.T, port *fakePort, got *serial.OpenOptions) {
	t.Helper()
	old := serialOpen
	serialOpen = func(o serial.OpenOptions) (io.ReadWriteCloser, error) {
		*got = o
		return port, nil
	}
	t.Cleanup(func() { serialOpen = old })
}

func TestOpenSerial_Options(t *testing.T) {
	var opts serial.OpenOptions
	swapSerialOpen(t, &fakePort{}, &opts)

	s, err := OpenSerial(SerialConfig{Port: "/dev/ttyACM0", ReadTimeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("OpenSerial: %v", err)
	}
	defer s.Close()
	if opts.PortName != "/dev/ttyACM0" || opts.BaudRate != 9600 || opts.DataBits != 8 || opts.StopBits != 1 {
		t.Fatalf("opts=%+v", opts)
	}
	if opts.InterCharacterTimeout != 100 || opts.MinimumReadSize != 0 {
		t.Fatalf("timeout=%d min=%d", opts.InterCharacterTimeout, opts.MinimumReadSize)
	}
}

func TestOpenSerial_RequiresPort(t *testing.T) {
	if _, err := OpenSerial(SerialConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSerial_Poll(t *testing.T) {
	port := &fakePort{
		reads: [][]byte{[]byte("$GB"), nil, nil},
		errs:  []error{nil, io.EOF, errFake},
	}
	var opts serial.OpenOptions
	swapSerialOpen(t, port, &opts)
	s, err := OpenSerial(SerialConfig{Port: "/dev/ttyUSB0", Baud: 38400})
	if err != nil {
		t.Fatalf("OpenSerial: %v", err)
	}

	st, p, err := s.Poll()
	if st != Data || string(p) != "$GB" || err != nil {
		t.Fatalf("Poll()=%v,%q,%v", st, p, err)
	}
	if st, _, err := s.Poll(); st != Empty || err != nil {
		t.Fatalf("Poll()=%v,%v want empty", st, err)
	}
	if st, _, err := s.Poll(); st != DeviceError || !errors.Is(err, errFake) {
		t.Fatalf("Poll()=%v,%v want device error", st, err)
	}
	if err := s.Close(); err != nil || !port.closed {
		t.Fatalf("Close: %v closed=%v", err, port.closed)
	}
}
