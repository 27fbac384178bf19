package transport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jacobsa/go-serial/serial"
)

// SerialConfig selects a UART receiver.
type SerialConfig struct {
	Port string
	Baud uint
	// ReadTimeout bounds one poll. The driver works in 100 ms steps.
	ReadTimeout time.Duration
	ChunkSize   int
}

var serialOpen = func(o serial.OpenOptions) (io.ReadWriteCloser, error) {
	return serial.Open(o)
}

// Serial polls a receiver on a UART. A poll returns whatever arrived within
// ReadTimeout. UART receivers have no busy state.
type Serial struct {
	port io.ReadWriteCloser
	buf  []byte
}

func OpenSerial(cfg SerialConfig) (*Serial, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial: port is required")
	}
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultMaxChunk
	}
	timeoutMs := uint(cfg.ReadTimeout / time.Millisecond)
	if timeoutMs < 100 {
		timeoutMs = 100
	}
	port, err := serialOpen(serial.OpenOptions{
		PortName:              cfg.Port,
		BaudRate:              cfg.Baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: timeoutMs,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Port, err)
	}
	return &Serial{port: port, buf: make([]byte, cfg.ChunkSize)}, nil
}

func (s *Serial) Poll() (Status, []byte, error) {
	n, err := s.port.Read(s.buf)
	if n > 0 {
		return Data, append([]byte(nil), s.buf[:n]...), nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return Empty, nil, nil
	}
	return DeviceError, nil, fmt.Errorf("serial: read: %w", err)
}

func (s *Serial) Close() error {
	return s.port.Close()
}
