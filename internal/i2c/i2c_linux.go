//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	flagRead  = 0x0001 // I2C_M_RD
	ioctlRdwr = 0x0707 // I2C_RDWR

	// MaxTransfer is the largest single read or write (i2c_msg.len is 16
	// bits).
	MaxTransfer = 0xFFFF
)

// i2cMsg mirrors struct i2c_msg.
type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

// rdwrIoctlData mirrors struct i2c_rdwr_ioctl_data.
type rdwrIoctlData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an open /dev/i2c-N character device. A Bus must not be shared
// between goroutines without external locking.
type Bus struct {
	f    *os.File
	path string
}

// Open opens the bus device at path.
func Open(path string) (*Bus, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2c: open %s: %w", path, err)
	}
	return &Bus{f: f, path: path}, nil
}

// Path returns the device path the bus was opened from.
func (b *Bus) Path() string {
	if b == nil {
		return ""
	}
	return b.path
}

func (b *Bus) Close() error {
	if b == nil || b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	if err != nil {
		return fmt.Errorf("i2c: close %s: %w", b.path, err)
	}
	return nil
}

// Dev returns a handle for the 7-bit address addr. The address is checked
// on first transfer.
func (b *Bus) Dev(addr uint16) *Dev {
	if b == nil {
		return nil
	}
	return &Dev{bus: b, addr: addr}
}

// Dev is one target address on a Bus.
type Dev struct {
	bus  *Bus
	addr uint16
}

// Addr returns the 7-bit target address.
func (d *Dev) Addr() uint16 {
	if d == nil {
		return 0
	}
	return d.addr
}

// Read reads len(p) bytes from the device's current register pointer.
func (d *Dev) Read(p []byte) error {
	return d.transfer(nil, p)
}

// WriteRead writes w and reads into r in one transaction.
func (d *Dev) WriteRead(w, r []byte) error {
	return d.transfer(w, r)
}

// ReadReg sets the register pointer to reg and reads len(dst) bytes. DDC
// receivers auto-increment the pointer except on the stream register 0xFF.
func (d *Dev) ReadReg(reg byte, dst []byte) error {
	return d.transfer([]byte{reg}, dst)
}

// ReadRegU16BE reads a big-endian 16-bit value starting at reg.
func (d *Dev) ReadRegU16BE(reg byte) (uint16, error) {
	var b [2]byte
	if err := d.ReadReg(reg, b[:]); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (d *Dev) transfer(w, r []byte) error {
	if d == nil || d.bus == nil || d.bus.f == nil {
		return errors.New("i2c: device not open")
	}
	if d.addr == 0 || d.addr > 0x7F {
		return fmt.Errorf("i2c: invalid address 0x%X", d.addr)
	}
	if len(w) > MaxTransfer || len(r) > MaxTransfer {
		return fmt.Errorf("i2c: transfer too large (write %d, read %d)", len(w), len(r))
	}

	msgs := make([]i2cMsg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, i2cMsg{addr: d.addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, i2cMsg{addr: d.addr, flags: flagRead, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}

	data := rdwrIoctlData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.bus.f.Fd(), uintptr(ioctlRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return fmt.Errorf("i2c: I2C_RDWR %s addr 0x%02X: %w", d.bus.path, d.addr, errno)
	}
	return nil
}
