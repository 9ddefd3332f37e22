// Package mcp2221a adapts the MCP2221A USB-to-I2C bridge to the tinygo
// driver Tx shape, so a multiplexer on a bench can be driven from a host
// over USB HID.
package mcp2221a

import (
	mcp "github.com/ardnew/mcp2221a"
	"tinygo.org/x/drivers"
)

// I2C wraps an opened MCP2221A. The bridge's I2C module must already be
// configured (see mcp.I2CSetConfig).
type I2C struct {
	dev *mcp.MCP2221A
}

var _ drivers.I2C = I2C{}

func New(dev *mcp.MCP2221A) I2C {
	return I2C{dev: dev}
}

// Tx writes w then reads len(r) bytes with a repeated start, matching the
// write-then-read contract the chip drivers expect. A write-only call ends
// with a stop condition; a read-only call is a plain read.
func (b I2C) Tx(addr uint16, w, r []byte) error {
	a := uint8(addr)
	if len(w) > 0 {
		// Hold the bus (no stop) when a read follows.
		if err := b.dev.I2CWrite(len(r) == 0, a, w, uint16(len(w))); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		buf, err := b.dev.I2CRead(len(w) > 0, a, uint16(len(r)))
		if err != nil {
			return err
		}
		copy(r, buf)
	}
	return nil
}
