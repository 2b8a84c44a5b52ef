//go:build tinygo

// Package pico binds the hal contracts to TinyGo's machine package on the
// Raspberry Pi Pico.
package pico

import (
	"fmt"
	"machine"
	"runtime"

	"github.com/mbalug7/tiny-periph/hal"
)

var uartParityMap = map[hal.Parity]machine.UARTParity{
	hal.ParityNone: machine.ParityNone,
	hal.ParityOdd:  machine.ParityOdd,
	hal.ParityEven: machine.ParityEven,
}

// UART blocks on the receive ring buffer of a machine.UART.
type UART struct {
	uart *machine.UART
}

func NewUART(uart *machine.UART, tx, rx machine.Pin, baudRate uint32) (*UART, error) {
	err := uart.Configure(machine.UARTConfig{BaudRate: baudRate, TX: tx, RX: rx})
	if err != nil {
		return nil, fmt.Errorf("failed to configure uart: %w", err)
	}
	return &UART{uart: uart}, nil
}

func (u *UART) ReadByte() (byte, error) {
	for u.uart.Buffered() == 0 {
		runtime.Gosched()
	}
	return u.uart.ReadByte()
}

func (u *UART) WriteByte(c byte) error {
	return u.uart.WriteByte(c)
}

func (u *UART) StageSerialPortConfig(baudRate int, parityBit hal.Parity) error {
	p, ok := uartParityMap[parityBit]
	if !ok {
		return fmt.Errorf("unsupported parity %q", parityBit)
	}
	u.uart.SetBaudRate(uint32(baudRate))
	return u.uart.SetFormat(8, 1, p)
}

// Pin is a machine.Pin configured as an output.
type Pin struct {
	pin machine.Pin
}

func NewPin(p machine.Pin) *Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Pin{pin: p}
}

func (p *Pin) High() error {
	p.pin.High()
	return nil
}

func (p *Pin) Low() error {
	p.pin.Low()
	return nil
}

// Board is an E32 wired to a UART and two mode pins.
type Board struct {
	UART *UART
	M0   *Pin
	M1   *Pin
}

func NewBoard(m0, m1 machine.Pin, uart *machine.UART, tx, rx machine.Pin) (*Board, error) {
	u, err := NewUART(uart, tx, rx, 9600)
	if err != nil {
		return nil, err
	}
	return &Board{UART: u, M0: NewPin(m0), M1: NewPin(m1)}, nil
}

var (
	_ hal.UART             = (*UART)(nil)
	_ hal.SerialConfigurer = (*UART)(nil)
	_ hal.OutputPin        = (*Pin)(nil)
	_ hal.I2C              = (*machine.I2C)(nil)
)
