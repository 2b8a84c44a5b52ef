//go:build !tinygo

// Package host adapts Linux serial ports, GPIO lines and I2C buses to the
// hal contracts so the drivers can run on a single board computer or a
// workstation with a USB-UART bridge.
package host

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/mbalug7/tiny-periph/hal"
)

// ErrReadTimeout is returned by ReadByte when a read timeout is set and no
// byte arrived in time.
var ErrReadTimeout = errors.New("serial read timeout")

var serialParityMap = map[hal.Parity]serial.Parity{
	hal.ParityNone:  serial.NoParity,
	hal.ParityOdd:   serial.OddParity,
	hal.ParityEven:  serial.EvenParity,
	hal.ParityMark:  serial.MarkParity,
	hal.ParitySpace: serial.SpaceParity,
}

// port is the part of serial.Port the adapter uses.
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetMode(mode *serial.Mode) error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Serial is a blocking byte channel over a serial port.
type Serial struct {
	port    port
	name    string
	timeout time.Duration
	rbuf    [1]byte
	wbuf    [1]byte
}

func serialMode(baudRate int, parity hal.Parity) (*serial.Mode, error) {
	p, ok := serialParityMap[parity]
	if !ok {
		return nil, fmt.Errorf("unsupported parity %q", parity)
	}
	return &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   p,
		StopBits: serial.OneStopBit,
	}, nil
}

// OpenSerial opens name, e.g. /dev/ttyUSB0, as 8 data bits and one stop bit.
func OpenSerial(name string, baudRate int, parity hal.Parity) (*Serial, error) {
	mode, err := serialMode(baudRate, parity)
	if err != nil {
		return nil, err
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return &Serial{port: p, name: name}, nil
}

// SetReadTimeout bounds ReadByte. Zero blocks until a byte arrives.
func (s *Serial) SetReadTimeout(d time.Duration) error {
	t := d
	if d == 0 {
		t = serial.NoTimeout
	}
	if err := s.port.SetReadTimeout(t); err != nil {
		return fmt.Errorf("failed to set read timeout on %s: %w", s.name, err)
	}
	s.timeout = d
	return nil
}

func (s *Serial) ReadByte() (byte, error) {
	for {
		n, err := s.port.Read(s.rbuf[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return s.rbuf[0], nil
		}
		if s.timeout != 0 {
			return 0, ErrReadTimeout
		}
	}
}

func (s *Serial) WriteByte(c byte) error {
	s.wbuf[0] = c
	_, err := s.port.Write(s.wbuf[:])
	return err
}

// StageSerialPortConfig switches the port to the module's new serial settings.
func (s *Serial) StageSerialPortConfig(baudRate int, parityBit hal.Parity) error {
	mode, err := serialMode(baudRate, parityBit)
	if err != nil {
		return err
	}
	if err := s.port.SetMode(mode); err != nil {
		return fmt.Errorf("failed to reconfigure %s: %w", s.name, err)
	}
	return nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}

var _ hal.UART = (*Serial)(nil)
var _ hal.SerialConfigurer = (*Serial)(nil)
