// cmd/muxscan/main.go
//
// Walks every channel of a PCA9546-family multiplexer on a Linux host and
// reports which downstream devices answer, i2cdetect-style but per port.
package main

import (
	"flag"
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"i2cmux-go/drivers/pca9546"
	"i2cmux-go/transport/periphi2c"
)

var (
	busName = flag.String("bus", "", "i2c bus reference (empty = first available)")
	addr    = flag.Uint("addr", 0, "explicit multiplexer address (overrides pins)")
	a0      = flag.Bool("a0", false, "A0 pin tied high")
	a1      = flag.Bool("a1", false, "A1 pin tied high")
	a2      = flag.Bool("a2", false, "A2 pin tied high")
	first   = flag.Uint("first", 0x08, "first downstream address to probe")
	last    = flag.Uint("last", 0x77, "last downstream address to probe")
)

func main() {
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatalf("host.Init(): %v", err)
	}

	bus, err := i2creg.Open(*busName)
	if err != nil {
		log.Fatalf("i2creg.Open(%q): %v", *busName, err)
	}
	defer bus.Close()

	t := periphi2c.New(bus)
	mux := pca9546.New(t).WithAddressPins(*a0, *a1, *a2)
	if *addr != 0 {
		mux = mux.WithAddress(uint16(*addr))
	}

	ports, err := mux.ConnectedPorts()
	if err != nil {
		log.Fatalf("no multiplexer at %#02x: %v", mux.Address(), err)
	}
	fmt.Printf("mux %#02x, current ports %v\n", mux.Address(), ports)

	// Leave the chip isolated whatever happens below.
	defer func() {
		if err := mux.DisableAll(); err != nil {
			log.Printf("disable ports: %v", err)
		}
	}()

	for port := uint8(0); port < pca9546.Ports; port++ {
		if err := mux.SelectPort(port); err != nil {
			log.Fatalf("select port %d: %v", port, err)
		}
		found := scan(t, uint16(*first), uint16(*last), mux.Address())
		fmt.Printf("port %d:", port)
		if len(found) == 0 {
			fmt.Print(" -")
		}
		for _, a := range found {
			fmt.Printf(" %#02x", a)
		}
		fmt.Println()
	}
}

// scan probes each address with a one-byte read and reports whoever ACKs.
// The mux's own address is skipped: it answers on the upstream side
// regardless of port selection.
func scan(t periphi2c.I2C, first, last, skip uint16) []uint16 {
	var found []uint16
	buf := make([]byte, 1)
	for a := first; a <= last; a++ {
		if a == skip {
			continue
		}
		if err := t.Tx(a, nil, buf); err == nil {
			found = append(found, a)
		}
	}
	return found
}
