package transport

import "fmt"

// InputLine is a GPIO input.
type InputLine interface {
	Value() (int, error)
	Close() error
}

var openInputLineFn = openInputLine

// TxReady gates a transport on the receiver's TX-ready output: while the
// line is inactive the receiver has nothing queued and the bus is left
// alone.
type TxReady struct {
	t         Transport
	line      InputLine
	activeLow bool
}

// NewTxReady wraps t so reads only happen while line reports pending data.
func NewTxReady(t Transport, line InputLine, activeLow bool) *TxReady {
	return &TxReady{t: t, line: line, activeLow: activeLow}
}

// OpenTxReady requests BCM GPIO pin as an input and wraps t with it.
func OpenTxReady(t Transport, pin int, activeLow bool) (*TxReady, error) {
	line, err := openInputLineFn(pin)
	if err != nil {
		return nil, err
	}
	return NewTxReady(t, line, activeLow), nil
}

func (g *TxReady) Poll() (Status, []byte, error) {
	v, err := g.line.Value()
	if err != nil {
		return DeviceError, nil, fmt.Errorf("txready: read line: %w", err)
	}
	ready := v != 0
	if g.activeLow {
		ready = !ready
	}
	if !ready {
		return Empty, nil, nil
	}
	return g.t.Poll()
}

func (g *TxReady) Close() error {
	lerr := g.line.Close()
	if err := g.t.Close(); err != nil {
		return err
	}
	return lerr
}
