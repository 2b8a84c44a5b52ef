package e32

import (
	"fmt"
	"time"

	"github.com/mbalug7/tiny-periph/hal"
)

// ConfigFrameSize is the length of a parameter frame: HEAD ADDH ADDL SPED CHAN OPTION.
const ConfigFrameSize = 6

const configHead = byte(OpSaveParams)

// SPED register layout
const (
	parityShift = 6
	parityMask  = 0b11
	baudShift   = 3
	baudMask    = 0b111
	airMask     = 0b111
)

// OPTION register layout
const (
	transmissionShift = 7
	ioDriveShift      = 6
	wakeUpShift       = 3
	wakeUpMask        = 0b111
	fecBit            = 1 << 2
	txPowerMask       = 0b11
)

type UartParity byte

const (
	Parity8N1 UartParity = iota
	Parity8O1
	Parity8E1
)

func (p UartParity) valid() bool { return p <= Parity8E1 }

func (p UartParity) String() string {
	switch p {
	case Parity8N1:
		return "8N1"
	case Parity8O1:
		return "8O1"
	case Parity8E1:
		return "8E1"
	}
	return fmt.Sprintf("UartParity(%d)", byte(p))
}

// SerialParity maps the module's parity onto a host serial parity.
func SerialParity(p UartParity) hal.Parity {
	switch p {
	case Parity8O1:
		return hal.ParityOdd
	case Parity8E1:
		return hal.ParityEven
	}
	return hal.ParityNone
}

type UartBaudRate byte

const (
	Baud1200 UartBaudRate = iota
	Baud2400
	Baud4800
	Baud9600
	Baud19200
	Baud38400
	Baud57600
	Baud115200
)

var baudRates = [...]uint32{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}

func (b UartBaudRate) valid() bool { return int(b) < len(baudRates) }

// Rate returns the baud rate in bits per second, or 0 for an unknown value.
func (b UartBaudRate) Rate() uint32 {
	if !b.valid() {
		return 0
	}
	return baudRates[b]
}

func (b UartBaudRate) String() string {
	if !b.valid() {
		return fmt.Sprintf("UartBaudRate(%d)", byte(b))
	}
	return fmt.Sprintf("%dbps", baudRates[b])
}

// BaudRateFor returns the setting for a rate in bits per second.
func BaudRateFor(rate uint32) (UartBaudRate, bool) {
	for i, r := range baudRates {
		if r == rate {
			return UartBaudRate(i), true
		}
	}
	return 0, false
}

type AirDataRate byte

const (
	AirRate300 AirDataRate = iota
	AirRate1200
	AirRate2400
	AirRate4800
	AirRate9600
	AirRate19200
)

var airRates = [...]uint32{300, 1200, 2400, 4800, 9600, 19200}

func (a AirDataRate) valid() bool { return int(a) < len(airRates) }

// Rate returns the over the air rate in bits per second, or 0 for an unknown value.
func (a AirDataRate) Rate() uint32 {
	if !a.valid() {
		return 0
	}
	return airRates[a]
}

func (a AirDataRate) String() string {
	if !a.valid() {
		return fmt.Sprintf("AirDataRate(%d)", byte(a))
	}
	return fmt.Sprintf("%dbps", airRates[a])
}

type TransmissionMode byte

const (
	TransmissionTransparent TransmissionMode = iota
	TransmissionFixed
)

func (t TransmissionMode) valid() bool { return t <= TransmissionFixed }

func (t TransmissionMode) String() string {
	switch t {
	case TransmissionTransparent:
		return "transparent"
	case TransmissionFixed:
		return "fixed"
	}
	return fmt.Sprintf("TransmissionMode(%d)", byte(t))
}

type IoDriveMode byte

const (
	IoDriveOpenCollector IoDriveMode = iota
	IoDrivePushPull
)

func (m IoDriveMode) valid() bool { return m <= IoDrivePushPull }

func (m IoDriveMode) String() string {
	switch m {
	case IoDriveOpenCollector:
		return "open-collector"
	case IoDrivePushPull:
		return "push-pull"
	}
	return fmt.Sprintf("IoDriveMode(%d)", byte(m))
}

// WakeUpTime is the wireless wake-up interval, 250ms to 2000ms in 250ms steps.
type WakeUpTime byte

const (
	WakeUp250ms WakeUpTime = iota
	WakeUp500ms
	WakeUp750ms
	WakeUp1000ms
	WakeUp1250ms
	WakeUp1500ms
	WakeUp1750ms
	WakeUp2000ms
)

func (w WakeUpTime) valid() bool { return w <= WakeUp2000ms }

func (w WakeUpTime) Duration() time.Duration {
	if !w.valid() {
		return 0
	}
	return time.Duration(w+1) * 250 * time.Millisecond
}

func (w WakeUpTime) String() string {
	if !w.valid() {
		return fmt.Sprintf("WakeUpTime(%d)", byte(w))
	}
	return w.Duration().String()
}

// TxPower is a transmit power step. The dBm values depend on the module
// variant, e.g. 30/27/24/21 dBm on the T30 and 20/17/14/10 dBm on the T20.
type TxPower byte

const (
	TxPowerMax TxPower = iota
	TxPowerHigh
	TxPowerMedium
	TxPowerLow
)

func (p TxPower) valid() bool { return p <= TxPowerLow }

func (p TxPower) String() string {
	switch p {
	case TxPowerMax:
		return "max"
	case TxPowerHigh:
		return "high"
	case TxPowerMedium:
		return "medium"
	case TxPowerLow:
		return "low"
	}
	return fmt.Sprintf("TxPower(%d)", byte(p))
}

// ParameterSettings is the module configuration. Values returned by Parse
// only hold settings the module can report.
type ParameterSettings struct {
	Address      uint16
	Channel      uint8
	UartParity   UartParity
	UartBaudRate UartBaudRate
	AirDataRate  AirDataRate
	Transmission TransmissionMode
	WakeUpTime   WakeUpTime
	IoDriveMode  IoDriveMode
	FEC          bool
	TxPower      TxPower
}

// DefaultParameterSettings returns the factory configuration, C0 00 00 1A 17 44.
func DefaultParameterSettings() ParameterSettings {
	return ParameterSettings{
		Address:      0x0000,
		Channel:      0x17,
		UartParity:   Parity8N1,
		UartBaudRate: Baud9600,
		AirDataRate:  AirRate2400,
		Transmission: TransmissionTransparent,
		WakeUpTime:   WakeUp250ms,
		IoDriveMode:  IoDrivePushPull,
		FEC:          true,
		TxPower:      TxPowerMax,
	}
}

// Parse validates a parameter frame read from the module. The head is
// checked first, then every field in register order; the first invalid
// field is reported.
func Parse(raw [ConfigFrameSize]byte) (ParameterSettings, error) {
	if raw[0] != configHead {
		return ParameterSettings{}, &ParseError{Err: ErrInvalidHead, Value: raw[0]}
	}
	sped, option := raw[3], raw[5]

	s := ParameterSettings{
		Address:      uint16(raw[1])<<8 | uint16(raw[2]),
		Channel:      raw[4],
		UartParity:   UartParity(sped >> parityShift & parityMask),
		UartBaudRate: UartBaudRate(sped >> baudShift & baudMask),
		AirDataRate:  AirDataRate(sped & airMask),
		Transmission: TransmissionMode(option >> transmissionShift & 1),
		WakeUpTime:   WakeUpTime(option >> wakeUpShift & wakeUpMask),
		IoDriveMode:  IoDriveMode(option >> ioDriveShift & 1),
		FEC:          option&fecBit != 0,
		TxPower:      TxPower(option & txPowerMask),
	}
	if err := s.check(sped, option); err != nil {
		return ParameterSettings{}, err
	}
	return s, nil
}

// ParseBytes is Parse for a slice of any length.
func ParseBytes(b []byte) (ParameterSettings, error) {
	if len(b) != ConfigFrameSize {
		return ParameterSettings{}, &ParseError{Err: ErrCouldNotParse}
	}
	var raw [ConfigFrameSize]byte
	copy(raw[:], b)
	return Parse(raw)
}

// field is one validated setting of a parameter frame.
type field struct {
	err      error
	ok       bool
	value    byte
	inOption bool // stored in OPTION rather than SPED
}

// fields lists the settings in register order.
func (s ParameterSettings) fields() [7]field {
	return [7]field{
		{ErrInvalidUartParity, s.UartParity.valid(), byte(s.UartParity), false},
		{ErrInvalidUartBaudRate, s.UartBaudRate.valid(), byte(s.UartBaudRate), false},
		{ErrInvalidAirDataRate, s.AirDataRate.valid(), byte(s.AirDataRate), false},
		{ErrInvalidTransmission, s.Transmission.valid(), byte(s.Transmission), true},
		{ErrInvalidWirelessWakeUpTime, s.WakeUpTime.valid(), byte(s.WakeUpTime), true},
		{ErrInvalidIoDriveMode, s.IoDriveMode.valid(), byte(s.IoDriveMode), true},
		{ErrInvalidTxPower, s.TxPower.valid(), byte(s.TxPower), true},
	}
}

// check reports the first invalid field with the raw register byte holding it.
func (s ParameterSettings) check(sped, option byte) error {
	for _, f := range s.fields() {
		if f.ok {
			continue
		}
		if f.inOption {
			return &ParseError{Err: f.err, Value: option}
		}
		return &ParseError{Err: f.err, Value: sped}
	}
	return nil
}

func (s ParameterSettings) sped() byte {
	return byte(s.UartParity)<<parityShift | byte(s.UartBaudRate)<<baudShift | byte(s.AirDataRate)
}

func (s ParameterSettings) option() byte {
	b := byte(s.Transmission)<<transmissionShift |
		byte(s.IoDriveMode)<<ioDriveShift |
		byte(s.WakeUpTime)<<wakeUpShift |
		byte(s.TxPower)
	if s.FEC {
		b |= fecBit
	}
	return b
}

// Validate reports the first field holding a value the module does not
// support. The error carries the field value.
func (s ParameterSettings) Validate() error {
	for _, f := range s.fields() {
		if !f.ok {
			return &ParseError{Err: f.err, Value: f.value}
		}
	}
	return nil
}

// Encode returns the frame the module reports for s, so that
// Parse(s.Encode()) == s.
func (s ParameterSettings) Encode() ([ConfigFrameSize]byte, error) {
	return s.encode(configHead)
}

func (s ParameterSettings) encode(head byte) ([ConfigFrameSize]byte, error) {
	if err := s.Validate(); err != nil {
		return [ConfigFrameSize]byte{}, err
	}
	return [ConfigFrameSize]byte{
		head,
		byte(s.Address >> 8),
		byte(s.Address),
		s.sped(),
		s.Channel,
		s.option(),
	}, nil
}

func (s ParameterSettings) String() string {
	return fmt.Sprintf("addr=%#04x chan=%d uart=%s/%s air=%s transmission=%s wakeup=%s io=%s fec=%t power=%s",
		s.Address, s.Channel, s.UartBaudRate, s.UartParity, s.AirDataRate,
		s.Transmission, s.WakeUpTime, s.IoDriveMode, s.FEC, s.TxPower)
}

// VersionFrameSize is the length of the ReadVersion response.
const VersionFrameSize = 4

// Version is the module identification returned by ReadVersion.
type Version struct {
	Model    byte // 0x32 for the 433MHz series
	Version  byte
	Features byte
}

func parseVersion(raw [VersionFrameSize]byte) (Version, error) {
	if raw[0] != byte(OpReadVersion) {
		return Version{}, &ParseError{Err: ErrInvalidHead, Value: raw[0]}
	}
	return Version{Model: raw[1], Version: raw[2], Features: raw[3]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("model=%#02x version=%#02x features=%#02x", v.Model, v.Version, v.Features)
}
