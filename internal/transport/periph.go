package transport

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// txer is the part of periph's i2c.Dev used here.
type txer interface {
	Tx(w, r []byte) error
}

type periphReg struct {
	dev txer
}

func (p periphReg) ReadReg(reg byte, dst []byte) error {
	return p.dev.Tx([]byte{reg}, dst)
}

// OpenPeriph returns a DDC transport on a bus from periph's registry
// ("" selects the first bus, "1" is /dev/i2c-1 on a Raspberry Pi). The bus
// stays open until Close.
func OpenPeriph(busName string, addr uint16, maxChunk int) (*DDC, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("periph i2c open %q: %w", busName, err)
	}
	reg := periphReg{dev: &i2c.Dev{Bus: bus, Addr: addr}}
	d := NewDDC(func() (RegReader, io.Closer, error) { return reg, nil, nil }, maxChunk)
	d.closer = bus
	return d, nil
}
