//go:build !linux

package transport

func openInputLine(pin int) (InputLine, error) {
	return nil, ErrUnsupported
}
