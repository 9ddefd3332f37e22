// Package periphi2c adapts a periph.io I2C bus to the tinygo driver Tx
// shape, so the chip drivers in this module can run on a Linux host.
package periphi2c

import (
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// I2C wraps an i2c.Bus. periph's Tx already has the right signature; the
// wrapper only pins the interface.
type I2C struct {
	bus i2c.Bus
}

var _ drivers.I2C = I2C{}

func New(bus i2c.Bus) I2C {
	return I2C{bus: bus}
}

// Tx delegates to the periph bus. Errors come back verbatim.
func (b I2C) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}
