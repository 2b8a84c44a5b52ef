package e32

import "github.com/mbalug7/tiny-periph/hal"

// CommandBaudRate is the only host UART rate the module accepts commands at.
const CommandBaudRate = 9600

// SetMode drives M0 and M1 to put the module in mode. The host link must be
// configured for CommandBaudRate; otherwise no pin is touched. A failure to
// drive M0 leaves M1 alone.
func (obj *E32) SetMode(mode OperationMode, m0, m1 hal.OutputPin) error {
	if obj.uartDataRate != CommandBaudRate {
		return &BaudRateError{Rate: obj.uartDataRate}
	}
	lv, ok := levelsFor(mode)
	if !ok {
		return ErrInvalidMode
	}
	if err := drive(m0, lv.m0); err != nil {
		return &PinError{Pin: "M0", Err: err}
	}
	if err := drive(m1, lv.m1); err != nil {
		return &PinError{Pin: "M1", Err: err}
	}
	return nil
}

func drive(pin hal.OutputPin, high bool) error {
	if high {
		return pin.High()
	}
	return pin.Low()
}

// writeOp sends op opRepeat times, stopping at the first failed byte.
func (obj *E32) writeOp(serial hal.UART, op OperationCode) error {
	for i := 0; i < opRepeat; i++ {
		if err := serial.WriteByte(byte(op)); err != nil {
			return &SerialError{Op: "write", Err: err}
		}
	}
	return nil
}

// writeBytes sends b one byte at a time. Bytes already sent when a write
// fails stay sent.
func (obj *E32) writeBytes(serial hal.UART, b []byte) error {
	for _, v := range b {
		if err := serial.WriteByte(v); err != nil {
			return &SerialError{Op: "write", Err: err}
		}
	}
	return nil
}

func (obj *E32) readFull(serial hal.UART, buf []byte) error {
	for i := range buf {
		v, err := serial.ReadByte()
		if err != nil {
			return &SerialError{Op: "read", Err: err}
		}
		buf[i] = v
	}
	return nil
}
