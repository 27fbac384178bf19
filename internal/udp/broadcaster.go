// Package udp sends fix snapshots as UDP datagrams, typically to a LAN
// broadcast address.
package udp

import (
	"fmt"
	"net"
)

type udpConn interface {
	Write(p []byte) (int, error)
	Close() error
}

type resolveFunc func(network, address string) (*net.UDPAddr, error)

type dialFunc func(network string, laddr, raddr *net.UDPAddr) (udpConn, error)

type Broadcaster struct {
	dest string
	conn udpConn
}

// NewBroadcaster connects a UDP socket to dest ("host:port"). Broadcast
// destinations such as 192.168.1.255:5005 are allowed.
func NewBroadcaster(dest string) (*Broadcaster, error) {
	return newBroadcaster(dest, net.ResolveUDPAddr, dialUDP)
}

func newBroadcaster(dest string, resolve resolveFunc, dial dialFunc) (*Broadcaster, error) {
	addr, err := resolve("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}
	conn, err := dial("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s: %w", addr, err)
	}
	return &Broadcaster{dest: dest, conn: conn}, nil
}

func dialUDP(network string, laddr, raddr *net.UDPAddr) (udpConn, error) {
	d := net.Dialer{Control: broadcastControl}
	if laddr != nil {
		d.LocalAddr = laddr
	}
	return d.Dial(network, raddr.String())
}

// Dest returns the destination as configured.
func (b *Broadcaster) Dest() string { return b.dest }

// Send writes one datagram. Empty payloads are skipped.
func (b *Broadcaster) Send(payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	_, err := b.conn.Write(payload)
	return err
}

func (b *Broadcaster) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}
