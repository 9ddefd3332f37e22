package devfs

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/exp/io/i2c/driver"
)

type fakeConn struct {
	addr   int
	last   []byte
	closed bool
}

func (c *fakeConn) Tx(w, r []byte) error {
	c.last = append([]byte(nil), w...)
	for i := range r {
		r[i] = byte(c.addr)
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeOpener struct {
	opened []*fakeConn
	err    error
}

func (o *fakeOpener) Open(addr int, tenbit bool) (driver.Conn, error) {
	if o.err != nil {
		return nil, o.err
	}
	c := &fakeConn{addr: addr}
	o.opened = append(o.opened, c)
	return c, nil
}

func TestTxOpensPerAddressOnce(t *testing.T) {
	o := &fakeOpener{}
	b := New(o)

	r := make([]byte, 1)
	if err := b.Tx(0x70, []byte{0x0F}, nil); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if err := b.Tx(0x48, nil, r); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if err := b.Tx(0x70, []byte{0x00}, nil); err != nil {
		t.Fatalf("Tx: %v", err)
	}

	if len(o.opened) != 2 {
		t.Fatalf("opened %d conns, want 2 (one per address)", len(o.opened))
	}
	if o.opened[0].addr != 0x70 || o.opened[1].addr != 0x48 {
		t.Fatalf("opened addrs = %#x, %#x", o.opened[0].addr, o.opened[1].addr)
	}
	if !bytes.Equal(o.opened[0].last, []byte{0x00}) {
		t.Fatalf("last write on 0x70 = %x", o.opened[0].last)
	}
	if r[0] != 0x48 {
		t.Fatalf("read fill = %#x", r[0])
	}
}

func TestOpenErrorPropagates(t *testing.T) {
	boom := errors.New("devfs: open failed")
	b := New(&fakeOpener{err: boom})
	if err := b.Tx(0x70, []byte{0}, nil); !errors.Is(err, boom) {
		t.Fatalf("Tx = %v, want open error", err)
	}
}

func TestCloseReleasesConns(t *testing.T) {
	o := &fakeOpener{}
	b := New(o)
	_ = b.Tx(0x70, []byte{0}, nil)
	_ = b.Tx(0x71, []byte{0}, nil)

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, c := range o.opened {
		if !c.closed {
			t.Fatalf("conn %#x left open", c.addr)
		}
	}

	// Reopens on demand after Close.
	if err := b.Tx(0x70, []byte{0}, nil); err != nil {
		t.Fatalf("Tx after Close: %v", err)
	}
	if len(o.opened) != 3 {
		t.Fatalf("opened %d conns, want 3", len(o.opened))
	}
}
