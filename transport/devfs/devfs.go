// Package devfs adapts the golang.org/x/exp/io/i2c devfs driver to the
// tinygo driver Tx shape. The x/exp API opens one connection per device
// address, so the adapter keeps a connection cache keyed by address.
package devfs

import (
	"sync"

	"golang.org/x/exp/io/i2c/driver"
	"tinygo.org/x/drivers"
)

// I2C turns a driver.Opener (typically &i2c.Devfs{Dev: "/dev/i2c-1"}) into
// a whole-bus transport. Connections are opened lazily on first use of an
// address and held until Close.
type I2C struct {
	opener driver.Opener

	mu    sync.Mutex
	conns map[uint16]driver.Conn
}

var _ drivers.I2C = (*I2C)(nil)

func New(o driver.Opener) *I2C {
	return &I2C{opener: o, conns: make(map[uint16]driver.Conn)}
}

// Tx runs one transaction against the device at addr. Only 7-bit
// addresses are supported.
func (b *I2C) Tx(addr uint16, w, r []byte) error {
	conn, err := b.conn(addr)
	if err != nil {
		return err
	}
	return conn.Tx(w, r)
}

// Close releases every cached device connection. The adapter stays usable;
// later transactions reopen on demand.
func (b *I2C) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var first error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.conns, addr)
	}
	return first
}

func (b *I2C) conn(addr uint16) (driver.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.conns[addr]; ok {
		return c, nil
	}
	c, err := b.opener.Open(int(addr), false)
	if err != nil {
		return nil, err
	}
	b.conns[addr] = c
	return c, nil
}
