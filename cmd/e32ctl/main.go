// Command e32ctl configures and exercises an E32 module wired to a serial
// port and two GPIO lines of the host.
//
//	e32ctl -port /dev/ttyUSB0 -m0 GPIO17 -m1 GPIO27
//	e32ctl -e config
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/mbalug7/tiny-periph/e32"
	"github.com/mbalug7/tiny-periph/hal"
	"github.com/mbalug7/tiny-periph/host"
)

var (
	portName    = "/dev/ttyUSB0"
	baudRate    = e32.CommandBaudRate
	m0Name      = "GPIO17"
	m1Name      = "GPIO27"
	readTimeout = time.Second
	evalOnly    bool
)

func init() {
	flag.StringVar(&portName, "port", portName, "Serial port the module is attached to.")
	flag.IntVar(&baudRate, "baud", baudRate, "Serial port baud rate.")
	flag.StringVar(&m0Name, "m0", m0Name, "GPIO driving M0.")
	flag.StringVar(&m1Name, "m1", m1Name, "GPIO driving M1.")
	flag.DurationVar(&readTimeout, "timeout", readTimeout, "Read timeout for module responses, 0 blocks.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(flag.Args()); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := host.Init(); err != nil {
		return err
	}
	serial, err := host.OpenSerial(portName, baudRate, hal.ParityNone)
	if err != nil {
		return err
	}
	defer serial.Close()
	if err := serial.SetReadTimeout(readTimeout); err != nil {
		return err
	}
	m0, err := host.OpenPin(m0Name)
	if err != nil {
		return err
	}
	m1, err := host.OpenPin(m1Name)
	if err != nil {
		return err
	}
	glog.V(1).Infof("opened %s at %d baud, M0=%s M1=%s", portName, baudRate, m0, m1)

	module := e32.New()
	module.SetUartDataRate(uint32(baudRate))

	c := &ctl{module: module, serial: serial, m0: m0, m1: m1}
	shell := ishell.New()
	shell.SetPrompt("e32> ")
	for _, cmd := range c.commands() {
		shell.AddCmd(cmd)
	}
	if evalOnly || len(args) > 0 {
		if len(args) == 0 {
			return fmt.Errorf("no command given")
		}
		return shell.Process(args...)
	}
	shell.Run()
	return nil
}
