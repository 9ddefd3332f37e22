// cmd/usbmux/main.go
//
// Controls a PCA9546-family multiplexer hanging off an MCP2221A USB-to-I2C
// bridge: set a full port mask, toggle one port, or just read back state.
package main

import (
	"flag"
	"fmt"
	"log"

	mcp "github.com/ardnew/mcp2221a"

	"i2cmux-go/drivers/pca9546"
	usbi2c "i2cmux-go/transport/mcp2221a"
)

var (
	addr = flag.Uint("addr", pca9546.AddressDefault, "multiplexer address")
	mask = flag.Int("mask", -1, "port mask to write (0-15, -1 = leave as is)")
	port = flag.Int("port", -1, "single port to toggle (0-3)")
	off  = flag.Bool("off", false, "with -port: disconnect instead of connect")
)

func main() {
	flag.Parse()

	m, err := mcp.New(0, mcp.VID, mcp.PID)
	if err != nil {
		log.Fatalf("mcp2221a open: %v", err)
	}
	defer m.Close()

	if err := m.I2CSetConfig(mcp.I2CBaudRate); err != nil {
		log.Fatalf("I2CSetConfig(): %v", err)
	}

	mux := pca9546.New(usbi2c.New(m)).WithAddress(uint16(*addr))

	switch {
	case *mask >= 0:
		var ports [pca9546.Ports]bool
		for i := range ports {
			ports[i] = *mask&(1<<i) != 0
		}
		if err := mux.SetPorts(ports); err != nil {
			log.Fatalf("set mask %#04b: %v", *mask, err)
		}
	case *port >= 0:
		if err := mux.SetPort(uint8(*port), !*off); err != nil {
			log.Fatalf("set port %d: %v", *port, err)
		}
	}

	ports, err := mux.ConnectedPorts()
	if err != nil {
		log.Fatalf("read ports: %v", err)
	}
	for i, on := range ports {
		state := "off"
		if on {
			state = "on"
		}
		fmt.Printf("port %d: %s\n", i, state)
	}
}
