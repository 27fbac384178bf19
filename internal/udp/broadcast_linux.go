//go:build linux

package udp

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// broadcastControl sets SO_BROADCAST so that connecting to a broadcast
// address does not fail with EACCES.
func broadcastControl(network, address string, c syscall.RawConn) error {
	var serr error
	if err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	}); err != nil {
		return err
	}
	return serr
}
