// Package bh1750 reads ambient light from a ROHM BH1750 over I2C.
package bh1750

import (
	"errors"
	"fmt"

	"github.com/mbalug7/tiny-periph/hal"
)

const (
	// AddressLow is used when ADDR is tied low, AddressHigh when tied high.
	AddressLow  uint16 = 0x23
	AddressHigh uint16 = 0x5C
)

// instruction set
const (
	opPowerDown byte = 0b0000_0000
	opPowerOn   byte = 0b0000_0001
	opReset     byte = 0b0000_0111
	opMTimeHigh byte = 0b0100_0000
	opMTimeLow  byte = 0b0110_0000
)

type MeasurementMode byte

const (
	ContinuouslyHighResolution  MeasurementMode = 0b0001_0000
	ContinuouslyHighResolution2 MeasurementMode = 0b0001_0001
	ContinuouslyLowResolution   MeasurementMode = 0b0001_0011
	OneTimeHighResolution       MeasurementMode = 0b0010_0000
	OneTimeHighResolution2      MeasurementMode = 0b0010_0001
	OneTimeLowResolution        MeasurementMode = 0b0010_0011
)

var modes = [...]MeasurementMode{
	ContinuouslyHighResolution, ContinuouslyHighResolution2, ContinuouslyLowResolution,
	OneTimeHighResolution, OneTimeHighResolution2, OneTimeLowResolution,
}

func (m MeasurementMode) valid() bool {
	for _, v := range modes {
		if v == m {
			return true
		}
	}
	return false
}

func (m MeasurementMode) String() string {
	switch m {
	case ContinuouslyHighResolution:
		return "continuous-h"
	case ContinuouslyHighResolution2:
		return "continuous-h2"
	case ContinuouslyLowResolution:
		return "continuous-l"
	case OneTimeHighResolution:
		return "onetime-h"
	case OneTimeHighResolution2:
		return "onetime-h2"
	case OneTimeLowResolution:
		return "onetime-l"
	}
	return fmt.Sprintf("MeasurementMode(%#02x)", byte(m))
}

// ParseMeasurementMode is the inverse of MeasurementMode.String.
func ParseMeasurementMode(s string) (MeasurementMode, error) {
	for _, m := range modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown measurement mode %q", s)
}

const (
	MinMeasurementTime     = 31
	MaxMeasurementTime     = 254
	DefaultMeasurementTime = 69
)

var ErrInvalidMode = errors.New("bh1750: invalid measurement mode")

// MeasurementTimeError is returned for an MTreg value outside
// [MinMeasurementTime, MaxMeasurementTime].
type MeasurementTimeError struct {
	Value byte
}

func (e *MeasurementTimeError) Error() string {
	return fmt.Sprintf("bh1750: invalid measurement time %d, expected %d..%d", e.Value, MinMeasurementTime, MaxMeasurementTime)
}

// BusError wraps an I2C failure.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bh1750: i2c %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// Config is applied when the device is created.
type Config struct {
	MeasurementMode MeasurementMode
	MeasurementTime byte
}

func DefaultConfig() Config {
	return Config{
		MeasurementMode: ContinuouslyHighResolution,
		MeasurementTime: DefaultMeasurementTime,
	}
}

func (c Config) WithMeasurementMode(m MeasurementMode) Config {
	c.MeasurementMode = m
	return c
}

func (c Config) WithMeasurementTime(mt byte) Config {
	c.MeasurementTime = mt
	return c
}

// Device is a BH1750 at a fixed address. The bus is passed to every call.
type Device struct {
	addr       uint16
	cfg        Config
	lightLevel float32

	// transfer buffers, kept here so bus calls do not allocate
	wbuf [1]byte
	rbuf [2]byte
}

// New configures the sensor at addr with DefaultConfig.
func New(bus hal.I2C, addr uint16) (*Device, error) {
	return NewWithConfig(bus, addr, DefaultConfig())
}

func NewWithConfig(bus hal.I2C, addr uint16, cfg Config) (*Device, error) {
	d := &Device{addr: addr, cfg: cfg}
	if err := d.SetMeasurementMode(bus, cfg.MeasurementMode); err != nil {
		return nil, err
	}
	if err := d.SetMeasurementTime(bus, cfg.MeasurementTime); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) MeasurementMode() MeasurementMode { return d.cfg.MeasurementMode }

func (d *Device) MeasurementTime() byte { return d.cfg.MeasurementTime }

// LightLevel is the result of the last Read, in lux.
func (d *Device) LightLevel() float32 { return d.lightLevel }

func (d *Device) SetMeasurementMode(bus hal.I2C, m MeasurementMode) error {
	if !m.valid() {
		return ErrInvalidMode
	}
	if err := d.write(bus, byte(m)); err != nil {
		return err
	}
	d.cfg.MeasurementMode = m
	return nil
}

// SetMeasurementTime writes MTreg, which scales sensitivity in the high
// resolution modes.
func (d *Device) SetMeasurementTime(bus hal.I2C, mt byte) error {
	if mt < MinMeasurementTime || mt > MaxMeasurementTime {
		return &MeasurementTimeError{Value: mt}
	}
	if err := d.write(bus, opMTimeHigh|mt>>5); err != nil {
		return err
	}
	if err := d.write(bus, opMTimeLow|mt&0b1_1111); err != nil {
		return err
	}
	d.cfg.MeasurementTime = mt
	return nil
}

func (d *Device) PowerOn(bus hal.I2C) error { return d.write(bus, opPowerOn) }

func (d *Device) PowerDown(bus hal.I2C) error { return d.write(bus, opPowerDown) }

// Reset clears the data register. The sensor must be powered on.
func (d *Device) Reset(bus hal.I2C) error { return d.write(bus, opReset) }

// Read triggers a measurement in the configured mode and stores the result.
func (d *Device) Read(bus hal.I2C) (float32, error) {
	if err := d.write(bus, byte(d.cfg.MeasurementMode)); err != nil {
		return 0, err
	}
	if err := bus.Tx(d.addr, nil, d.rbuf[:]); err != nil {
		return 0, &BusError{Op: "read", Err: err}
	}
	d.lightLevel = lux(uint16(d.rbuf[0])<<8|uint16(d.rbuf[1]), d.cfg)
	return d.lightLevel, nil
}

func lux(raw uint16, cfg Config) float32 {
	v := float32(raw) / 1.2
	switch cfg.MeasurementMode {
	case ContinuouslyHighResolution, OneTimeHighResolution:
		return v * (DefaultMeasurementTime / float32(cfg.MeasurementTime))
	case ContinuouslyHighResolution2, OneTimeHighResolution2:
		return v * (DefaultMeasurementTime / float32(cfg.MeasurementTime)) / 2
	}
	return v
}

func (d *Device) write(bus hal.I2C, op byte) error {
	d.wbuf[0] = op
	if err := bus.Tx(d.addr, d.wbuf[:], nil); err != nil {
		return &BusError{Op: "write", Err: err}
	}
	return nil
}
