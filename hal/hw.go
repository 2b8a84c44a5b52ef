// Package hal holds the narrow hardware contracts the drivers borrow for the
// duration of a single call. Nothing in here owns a bus or a pin.
package hal

import ebytehal "github.com/mbalug7/go-ebyte-lora/pkg/hal"

// ChipMode is the operating state selected by the two mode pins of an Ebyte
// module. It is go-ebyte-lora's type, so a mode chosen by code written
// against that library can be passed to these drivers unchanged. Nothing
// else from go-ebyte-lora is used.
type ChipMode = ebytehal.ChipMode

type Parity byte

const (
	ParityNone  Parity = 'N'
	ParityOdd   Parity = 'O'
	ParityEven  Parity = 'E'
	ParityMark  Parity = 'M' // parity bit is always 1
	ParitySpace Parity = 'S' // parity bit is always 0
)

const (
	ModeNormal    = ebytehal.ModeNormal
	ModeWakeUp    = ebytehal.ModeWakeUp
	ModePowerSave = ebytehal.ModePowerSave
	ModeSleep     = ebytehal.ModeSleep
)

// UART is a byte oriented serial channel. Both methods block until the byte
// is transferred or the channel fails.
type UART interface {
	ReadByte() (byte, error)
	WriteByte(c byte) error
}

// OutputPin is a digital output line.
type OutputPin interface {
	High() error
	Low() error
}

// I2C is a bus master. Tx writes w and then reads len(r) bytes from the
// device at addr; either slice may be empty.
type I2C interface {
	Tx(addr uint16, w, r []byte) error
}

// SerialConfigurer is implemented by UART adapters that can follow a change
// of the module's serial settings.
type SerialConfigurer interface {
	StageSerialPortConfig(baudRate int, parityBit Parity) error
}
