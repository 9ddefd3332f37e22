// Package pca9546 provides a driver for the PCA9546A/TCA9546A 4-channel
// I2C multiplexer.
//
// Design notes (datasheet references):
// • Single 8-bit control register, no sub-address: a plain write sets it,
//   a plain read returns it.
// • Bits 0–3 connect downstream channels 0–3 to the upstream bus; several
//   may be enabled at once. Bits 4–7 are unused, read back as written on
//   some variants, and must be ignored.
// • 7-bit address 0x70 plus the A0/A1/A2 hardware pin offsets (0x70–0x77).
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package pca9546

import (
	"errors"

	"tinygo.org/x/drivers"
)

const (
	// 7-bit I2C address with A0/A1/A2 tied low.
	AddressDefault = 0x70

	// Ports is the channel count of the PCA9546 family.
	Ports = 4

	portMaskAll = 0x0F
)

// ErrInvalidPort is returned when a port index is outside 0..Ports-1.
// It is detected before any bus traffic is attempted.
var ErrInvalidPort = errors.New("pca9546: invalid port")

// AddressFromPins returns the 7-bit address selected by the A0/A1/A2
// hardware pins. high = tied to VDD.
func AddressFromPins(a0, a1, a2 bool) uint16 {
	addr := uint16(AddressDefault)
	if a0 {
		addr |= 0x01
	}
	if a1 {
		addr |= 0x02
	}
	if a2 {
		addr |= 0x04
	}
	return addr
}

// Device wraps an I2C connection to a single PCA9546 chip. The connection
// is owned exclusively: the control register is read back from the chip on
// demand, never cached, so nothing else may rewrite it between calls.
type Device struct {
	i2c  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [1]byte
	r [1]byte
}

// New creates a PCA9546 connection with the default address. The I2C bus
// must already be configured. No bus traffic is performed.
func New(i2c drivers.I2C) *Device {
	return &Device{i2c: i2c, addr: AddressDefault}
}

// WithAddress sets an explicit 7-bit address. No validation is performed;
// this is the escape hatch for non-standard or shadowed addresses.
func (d *Device) WithAddress(addr uint16) *Device {
	d.addr = addr
	return d
}

// WithAddressPins sets the address from the A0/A1/A2 pin states.
func (d *Device) WithAddressPins(a0, a1, a2 bool) *Device {
	d.addr = AddressFromPins(a0, a1, a2)
	return d
}

// Address returns the 7-bit address the driver talks to.
func (d *Device) Address() uint16 { return d.addr }

// SetPort connects or disconnects a single port, leaving the other three
// as they are. One register read followed by one write; if the write fails
// the register may be left stale on the chip side, the error is returned
// either way.
func (d *Device) SetPort(port uint8, connect bool) error {
	if port >= Ports {
		return ErrInvalidPort
	}
	cur, err := d.readControl()
	if err != nil {
		return err
	}
	if connect {
		cur |= 1 << port
	} else {
		cur &^= 1 << port
	}
	return d.writeControl(cur)
}

// SetPorts overwrites the whole port mask in a single write. No preceding
// read: the argument is the complete desired state.
func (d *Device) SetPorts(ports [Ports]bool) error {
	return d.writeControl(encodeMask(ports))
}

// EnableAll connects all four ports.
func (d *Device) EnableAll() error { return d.writeControl(portMaskAll) }

// DisableAll isolates all four ports from the upstream bus.
func (d *Device) DisableAll() error { return d.writeControl(0x00) }

// SelectPort connects exactly the given port and disconnects the rest.
func (d *Device) SelectPort(port uint8) error {
	if port >= Ports {
		return ErrInvalidPort
	}
	return d.writeControl(1 << port)
}

// ConnectedPorts reads the control register and reports which ports are
// currently connected.
func (d *Device) ConnectedPorts() ([Ports]bool, error) {
	v, err := d.readControl()
	if err != nil {
		return [Ports]bool{}, err
	}
	return decodeMask(v), nil
}

func encodeMask(ports [Ports]bool) byte {
	var m byte
	for i, on := range ports {
		if on {
			m |= 1 << i
		}
	}
	return m
}

func decodeMask(v byte) [Ports]bool {
	var ports [Ports]bool
	for i := range ports {
		ports[i] = v&(1<<i) != 0
	}
	return ports
}

// Control register access. The chip has no sub-address byte.

func (d *Device) readControl() (byte, error) {
	if err := d.i2c.Tx(d.addr, nil, d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0] & portMaskAll, nil
}

func (d *Device) writeControl(mask byte) error {
	d.w[0] = mask & portMaskAll
	return d.i2c.Tx(d.addr, d.w[:1], nil)
}
