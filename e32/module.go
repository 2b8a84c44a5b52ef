// Package e32 drives Ebyte E32 UART LoRa modules. The driver borrows the
// serial channel and the M0/M1 mode pins for each call and never keeps them.
//
// Every operation blocks on the underlying channel. An E32 value is not safe
// for concurrent use.
package e32

import (
	"fmt"

	"github.com/mbalug7/tiny-periph/hal"
)

// E32 holds the last configuration the driver applied to the module.
type E32 struct {
	airDataRate   AirDataRate
	uartDataRate  uint32
	parity        UartParity
	speed         byte
	frameCapacity int
}

type Option func(*E32)

// WithFrameCapacity sets the capacity of frames built by Write.
func WithFrameCapacity(n int) Option {
	return func(obj *E32) {
		obj.frameCapacity = n
	}
}

// New returns a driver with no known configuration. Call SetUartDataRate
// once the host link speed is known.
func New(opts ...Option) *E32 {
	obj := &E32{frameCapacity: DefaultFrameCapacity}
	for _, opt := range opts {
		opt(obj)
	}
	return obj
}

// SetUartDataRate records the rate the host UART talks to the module at.
func (obj *E32) SetUartDataRate(rate uint32) {
	obj.uartDataRate = rate
}

func (obj *E32) AirDataRate() AirDataRate { return obj.airDataRate }

func (obj *E32) UartDataRate() uint32 { return obj.uartDataRate }

func (obj *E32) Parity() UartParity { return obj.parity }

// Speed is the raw SPED register last written to the module.
func (obj *E32) Speed() byte { return obj.speed }

func (obj *E32) FrameCapacity() int { return obj.frameCapacity }

// ReadCfg puts the module to sleep and requests its parameters. The response
// is collected with ReadCfgCallback.
func (obj *E32) ReadCfg(serial hal.UART, m0, m1 hal.OutputPin) error {
	if err := obj.SetMode(ModeSleep, m0, m1); err != nil {
		return err
	}
	return obj.writeOp(serial, OpReadParams)
}

// ReadCfgCallback reads the parameter frame requested by ReadCfg.
func (obj *E32) ReadCfgCallback(serial hal.UART) (ParameterSettings, error) {
	var buf [ConfigFrameSize]byte
	if err := obj.readFull(serial, buf[:]); err != nil {
		return ParameterSettings{}, err
	}
	return Parse(buf)
}

// WriteCfg stores cfg in the module's non-volatile memory, checks the
// parameters the module echoes back and returns the module to normal mode.
// The driver state only follows cfg once the echo matches.
func (obj *E32) WriteCfg(serial hal.UART, cfg ParameterSettings, m0, m1 hal.OutputPin) error {
	return obj.writeCfg(serial, OpSaveParams, cfg, m0, m1)
}

// WriteTempCfg applies cfg until the module loses power.
func (obj *E32) WriteTempCfg(serial hal.UART, cfg ParameterSettings, m0, m1 hal.OutputPin) error {
	return obj.writeCfg(serial, OpSaveParamsTemporary, cfg, m0, m1)
}

func (obj *E32) writeCfg(serial hal.UART, op OperationCode, cfg ParameterSettings, m0, m1 hal.OutputPin) error {
	frame, err := cfg.encode(byte(op))
	if err != nil {
		return err
	}
	if err := obj.SetMode(ModeSleep, m0, m1); err != nil {
		return err
	}
	if err := obj.writeBytes(serial, frame[:]); err != nil {
		return fmt.Errorf("failed to write %s frame: %w", op, err)
	}
	// the module answers with the parameters it applied
	var reply [ConfigFrameSize]byte
	if err := obj.readFull(serial, reply[:]); err != nil {
		return fmt.Errorf("failed to read %s reply: %w", op, err)
	}
	if reply[0] == byte(op) {
		reply[0] = configHead
	}
	got, err := Parse(reply)
	if err != nil {
		return err
	}
	if got != cfg {
		return &ConfigMismatchError{Want: cfg, Got: got}
	}
	if err := obj.SetMode(ModeNormal, m0, m1); err != nil {
		return err
	}
	obj.airDataRate = cfg.AirDataRate
	obj.uartDataRate = cfg.UartBaudRate.Rate()
	obj.parity = cfg.UartParity
	obj.speed = cfg.sped()
	return nil
}

// ReadVersion puts the module to sleep and reads its identification.
func (obj *E32) ReadVersion(serial hal.UART, m0, m1 hal.OutputPin) (Version, error) {
	if err := obj.SetMode(ModeSleep, m0, m1); err != nil {
		return Version{}, err
	}
	if err := obj.writeOp(serial, OpReadVersion); err != nil {
		return Version{}, err
	}
	var buf [VersionFrameSize]byte
	if err := obj.readFull(serial, buf[:]); err != nil {
		return Version{}, err
	}
	return parseVersion(buf)
}

// Reset puts the module to sleep and restarts it.
func (obj *E32) Reset(serial hal.UART, m0, m1 hal.OutputPin) error {
	if err := obj.SetMode(ModeSleep, m0, m1); err != nil {
		return err
	}
	return obj.writeOp(serial, OpReset)
}

// Read returns the next byte received by the module.
func (obj *E32) Read(serial hal.UART) (byte, error) {
	v, err := serial.ReadByte()
	if err != nil {
		return 0, &SerialError{Op: "read", Err: err}
	}
	return v, nil
}

// Write sends data to addr on channel. The frame is checked against the
// driver's frame capacity before anything is sent.
func (obj *E32) Write(serial hal.UART, data []byte, addr uint16, channel uint8) error {
	frame, err := NewFrame(data, addr, channel, obj.frameCapacity)
	if err != nil {
		return err
	}
	return obj.writeBytes(serial, frame.Bytes())
}
