package pca9546

import "tinygo.org/x/drivers"

// Bus fans a shared upstream I2C bus out into per-port connections. It
// holds only the multiplexer's address; the shared transport is handed to
// each port at construction time.
//
// The transport must already be safe for call-through sharing (external
// mutex, single-goroutine use, or a bus-owner worker). Neither Bus nor
// BusPort adds locking: two ports transacting concurrently can overwrite
// each other's channel selection mid-transfer.
type Bus struct {
	addr uint16
}

// NewBus returns a Bus at the default multiplexer address. No bus traffic
// is performed by any of the constructors.
func NewBus() *Bus {
	return &Bus{addr: AddressDefault}
}

// WithAddress sets an explicit 7-bit multiplexer address, unvalidated.
func (b *Bus) WithAddress(addr uint16) *Bus {
	b.addr = addr
	return b
}

// WithAddressPins sets the multiplexer address from the A0/A1/A2 pin states.
func (b *Bus) WithAddressPins(a0, a1, a2 bool) *Bus {
	b.addr = AddressFromPins(a0, a1, a2)
	return b
}

// Port returns a connection to the devices behind one multiplexer channel.
// Every transaction through it selects that channel first, so ports may be
// used in any interleaving as long as transactions do not overlap.
func (b *Bus) Port(i2c drivers.I2C, port uint8) (*BusPort, error) {
	if port >= Ports {
		return nil, ErrInvalidPort
	}
	return &BusPort{bus: i2c, addr: b.addr, sel: [1]byte{1 << port}}, nil
}

// BusPort is a drivers.I2C whose transactions are routed through one
// multiplexer channel. It owns nothing: just the shared transport, the
// multiplexer address and the precomputed select byte.
type BusPort struct {
	bus  drivers.I2C
	addr uint16
	sel  [1]byte
}

var _ drivers.I2C = (*BusPort)(nil)

// Tx selects the port's channel and forwards the transaction unmodified.
// If the select write fails the forward is skipped. If the forward fails
// the channel stays selected; there is no rollback.
func (p *BusPort) Tx(addr uint16, w, r []byte) error {
	if err := p.bus.Tx(p.addr, p.sel[:], nil); err != nil {
		return err
	}
	return p.bus.Tx(addr, w, r)
}
