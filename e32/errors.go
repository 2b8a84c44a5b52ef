package e32

import (
	"errors"
	"fmt"
)

var (
	ErrCouldNotParse             = errors.New("could not parse configuration")
	ErrInvalidHead               = errors.New("invalid head")
	ErrInvalidUartParity         = errors.New("invalid uart parity")
	ErrInvalidUartBaudRate       = errors.New("invalid uart baud rate")
	ErrInvalidAirDataRate        = errors.New("invalid air data rate")
	ErrInvalidTransmission       = errors.New("invalid transmission")
	ErrInvalidWirelessWakeUpTime = errors.New("invalid wireless wake up time")
	ErrInvalidIoDriveMode        = errors.New("invalid io drive mode")
	ErrInvalidTxPower            = errors.New("invalid tx power")

	// ErrInvalidMode is returned by SetMode for values outside the four
	// operating modes.
	ErrInvalidMode = errors.New("invalid operation mode")
)

// ParseError reports a configuration frame the module could not have
// produced, or settings that cannot be encoded. When returned by Parse
// Value is the raw SPED or OPTION byte holding the offending field (the head
// byte for ErrInvalidHead). When returned by Validate, Encode or
// ConfigBuilder.Build it is the field's own value.
type ParseError struct {
	Err   error
	Value byte
}

func (e *ParseError) Error() string {
	switch e.Err {
	case ErrCouldNotParse:
		return "e32: " + e.Err.Error()
	case ErrInvalidHead:
		return fmt.Sprintf("e32: %v %#02x", e.Err, e.Value)
	}
	return fmt.Sprintf("e32: %v %#010b", e.Err, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigMismatchError is returned by WriteCfg and WriteTempCfg when the
// parameters the module echoes back differ from the ones written.
type ConfigMismatchError struct {
	Want ParameterSettings
	Got  ParameterSettings
}

func (e *ConfigMismatchError) Error() string {
	return fmt.Sprintf("e32: module applied %s, expected %s", e.Got, e.Want)
}

// BaudRateError is returned when the module is asked to change mode while the
// host link is not running at the command baud rate.
type BaudRateError struct {
	Rate uint32
}

func (e *BaudRateError) Error() string {
	return fmt.Sprintf("e32: could not configure module because of an invalid baud rate %d, expected %d", e.Rate, CommandBaudRate)
}

// SerialError wraps a failure of the underlying channel.
type SerialError struct {
	Op  string
	Err error
}

func (e *SerialError) Error() string {
	return fmt.Sprintf("e32: serial %s: %v", e.Op, e.Err)
}

func (e *SerialError) Unwrap() error { return e.Err }

// WriteSizeError is returned when a payload does not fit a frame.
type WriteSizeError struct {
	Capacity int
}

func (e *WriteSizeError) Error() string {
	return fmt.Sprintf("e32: to transmit data the frame capacity needs to be between %d and %d bytes and hold the payload, capacity: %d",
		frameHeaderSize+1, MaxFrameCapacity, e.Capacity)
}

// PinError wraps a failure to drive one of the mode lines.
type PinError struct {
	Pin string
	Err error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("e32: failed to drive %s: %v", e.Pin, e.Err)
}

func (e *PinError) Unwrap() error { return e.Err }
