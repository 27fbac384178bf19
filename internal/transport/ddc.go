package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"gnss-monitor/internal/i2c"
)

// u-blox DDC register map.
const (
	DefaultAddr uint16 = 0x42

	regBytesAvailable = 0xFD // 0xFD high byte, 0xFE low byte
	regStream         = 0xFF

	// countBusy is what the receiver reports for the byte count while it
	// is busy.
	countBusy = 0xFFFF
	// idleByte is read from the stream register when no data is pending;
	// it never occurs inside NMEA.
	idleByte = 0xFF

	DefaultMaxChunk = 4096
)

// RegReader reads len(dst) bytes starting at register reg.
type RegReader interface {
	ReadReg(reg byte, dst []byte) error
}

// Opener acquires the device for one poll. The returned closer, if any, is
// closed when the poll completes.
type Opener func() (RegReader, io.Closer, error)

// DDC polls a receiver over the u-blox Display Data Channel: read the
// bytes-available counter, then read up to that many bytes from the stream
// register.
type DDC struct {
	open     Opener
	maxChunk int
	closer   io.Closer
}

// NewDDC returns a DDC transport. maxChunk <= 0 selects DefaultMaxChunk;
// bytes beyond maxChunk are left in the receiver for the next poll.
func NewDDC(open Opener, maxChunk int) *DDC {
	if maxChunk <= 0 || maxChunk > i2c.MaxTransfer {
		maxChunk = DefaultMaxChunk
	}
	return &DDC{open: open, maxChunk: maxChunk}
}

// OpenI2C returns a DDC transport that opens the /dev/i2c-N bus at path on
// every poll and releases it afterwards, leaving the bus free for other
// masters between polls.
func OpenI2C(path string, addr uint16, maxChunk int) *DDC {
	return NewDDC(func() (RegReader, io.Closer, error) {
		bus, err := i2c.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return bus.Dev(addr), bus, nil
	}, maxChunk)
}

func (d *DDC) Poll() (Status, []byte, error) {
	dev, c, err := d.open()
	if err != nil {
		return DeviceError, nil, fmt.Errorf("ddc: open: %w", err)
	}
	st, p, err := d.read(dev)
	if c != nil {
		if cerr := c.Close(); cerr != nil {
			cerr = fmt.Errorf("ddc: close: %w", cerr)
			if st != Data {
				st, p = DeviceError, nil
			}
			err = errors.Join(err, cerr)
		}
	}
	return st, p, err
}

func (d *DDC) read(dev RegReader) (Status, []byte, error) {
	var cnt [2]byte
	if err := dev.ReadReg(regBytesAvailable, cnt[:]); err != nil {
		return DeviceError, nil, fmt.Errorf("ddc: read count: %w", err)
	}
	n := int(binary.BigEndian.Uint16(cnt[:]))
	switch {
	case n == countBusy:
		return Busy, nil, nil
	case n == 0:
		return Empty, nil, nil
	case n > d.maxChunk:
		n = d.maxChunk
	}

	buf := make([]byte, n)
	if err := dev.ReadReg(regStream, buf); err != nil {
		return DeviceError, nil, fmt.Errorf("ddc: read stream: %w", err)
	}
	if bytes.IndexByte(buf, idleByte) >= 0 {
		return Busy, nil, nil
	}
	return Data, buf, nil
}

// Close releases a device held open across polls, if any.
func (d *DDC) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}
