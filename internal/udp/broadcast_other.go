//go:build !linux

package udp

import "syscall"

var broadcastControl func(network, address string, c syscall.RawConn) error
