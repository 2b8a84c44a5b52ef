//go:build !tinygo

package host

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	periphhost "periph.io/x/host/v3"

	"github.com/mbalug7/tiny-periph/hal"
)

// Init loads the periph drivers for the running host. It is safe to call
// more than once.
func Init() error {
	if _, err := periphhost.Init(); err != nil {
		return fmt.Errorf("failed to initialise periph host drivers: %w", err)
	}
	return nil
}

// outPin is the part of gpio.PinOut the adapter uses.
type outPin interface {
	Name() string
	Out(l gpio.Level) error
}

// Pin is a GPIO line used as a digital output.
type Pin struct {
	p outPin
}

// OpenPin looks up name, e.g. GPIO17, and drives it low.
func OpenPin(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return newPin(p)
}

func newPin(p outPin) (*Pin, error) {
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure %s as output: %w", p.Name(), err)
	}
	return &Pin{p: p}, nil
}

func (p *Pin) High() error { return p.p.Out(gpio.High) }

func (p *Pin) Low() error { return p.p.Out(gpio.Low) }

func (p *Pin) String() string { return p.p.Name() }

var _ hal.OutputPin = (*Pin)(nil)

// OpenI2C opens an I2C bus by name ("" for the first one) and optionally
// sets its clock. The returned bus satisfies hal.I2C.
func OpenI2C(name string, speed physic.Frequency) (i2c.BusCloser, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	if speed != 0 {
		if err := bus.SetSpeed(speed); err != nil {
			bus.Close()
			return nil, fmt.Errorf("failed to set i2c bus speed to %s: %w", speed, err)
		}
	}
	return bus, nil
}

var _ hal.I2C = i2c.Bus(nil)
