package e32

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var factoryFrame = [ConfigFrameSize]byte{0xC0, 0x00, 0x00, 0x1A, 0x17, 0x44}

func TestParseFactoryDefaults(t *testing.T) {
	s, err := Parse(factoryFrame)
	require.NoError(t, err)
	require.Equal(t, DefaultParameterSettings(), s)
	require.Equal(t, uint32(9600), s.UartBaudRate.Rate())
	require.Equal(t, uint32(2400), s.AirDataRate.Rate())
	require.Equal(t, 250*time.Millisecond, s.WakeUpTime.Duration())
}

func TestParseFields(t *testing.T) {
	s, err := Parse([ConfigFrameSize]byte{0xC0, 0x12, 0x34, 0b10_111_101, 0x05, 0b1_0_111_0_11})
	require.NoError(t, err)
	require.Equal(t, ParameterSettings{
		Address:      0x1234,
		Channel:      5,
		UartParity:   Parity8E1,
		UartBaudRate: Baud115200,
		AirDataRate:  AirRate19200,
		Transmission: TransmissionFixed,
		WakeUpTime:   WakeUp2000ms,
		IoDriveMode:  IoDriveOpenCollector,
		FEC:          false,
		TxPower:      TxPowerLow,
	}, s)
}

func TestParseHeadCheckedFirst(t *testing.T) {
	// every other field is invalid too
	for _, head := range []byte{0x00, 0xC1, 0xC2, 0xFF} {
		_, err := Parse([ConfigFrameSize]byte{head, 0, 0, 0xFF, 0, 0xFF})
		require.ErrorIs(t, err, ErrInvalidHead)
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		require.Equal(t, head, perr.Value)
	}
}

var fieldErrors = []error{
	ErrInvalidUartParity,
	ErrInvalidUartBaudRate,
	ErrInvalidAirDataRate,
	ErrInvalidTransmission,
	ErrInvalidWirelessWakeUpTime,
	ErrInvalidIoDriveMode,
	ErrInvalidTxPower,
}

// requireOnly checks that err matches expect and none of the other field errors.
func requireOnly(t *testing.T, err, expect error) {
	t.Helper()
	require.ErrorIs(t, err, expect)
	for _, other := range append(fieldErrors, ErrInvalidHead, ErrCouldNotParse) {
		if other != expect {
			require.False(t, errors.Is(err, other), "also matches %v", other)
		}
	}
}

func TestParseSingleInvalidField(t *testing.T) {
	testCases := []struct {
		name   string
		sped   byte
		expect error
	}{
		{"parity 11", 0b11_011_010, ErrInvalidUartParity},
		{"air rate 110", 0b00_011_110, ErrInvalidAirDataRate},
		{"air rate 111", 0b00_011_111, ErrInvalidAirDataRate},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([ConfigFrameSize]byte{0xC0, 0, 0, tc.sped, 0x17, 0x44})
			requireOnly(t, err, tc.expect)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tc.sped, perr.Value)
		})
	}
}

func TestParseReportsFirstInvalidField(t *testing.T) {
	_, err := Parse([ConfigFrameSize]byte{0xC0, 0, 0, 0b11_011_111, 0x17, 0x44})
	require.ErrorIs(t, err, ErrInvalidUartParity)
}

func TestParseBytesLength(t *testing.T) {
	_, err := ParseBytes([]byte{0xC0, 0, 0, 0x1A, 0x17})
	require.ErrorIs(t, err, ErrCouldNotParse)

	s, err := ParseBytes(factoryFrame[:])
	require.NoError(t, err)
	require.Equal(t, DefaultParameterSettings(), s)
}

func TestValidateSingleInvalidField(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*ParameterSettings)
		expect error
		value  byte
	}{
		{"parity", func(s *ParameterSettings) { s.UartParity = 3 }, ErrInvalidUartParity, 3},
		{"baud", func(s *ParameterSettings) { s.UartBaudRate = 8 }, ErrInvalidUartBaudRate, 8},
		{"air", func(s *ParameterSettings) { s.AirDataRate = 6 }, ErrInvalidAirDataRate, 6},
		{"transmission", func(s *ParameterSettings) { s.Transmission = 2 }, ErrInvalidTransmission, 2},
		{"wake up", func(s *ParameterSettings) { s.WakeUpTime = 8 }, ErrInvalidWirelessWakeUpTime, 8},
		{"io drive", func(s *ParameterSettings) { s.IoDriveMode = 2 }, ErrInvalidIoDriveMode, 2},
		{"tx power", func(s *ParameterSettings) { s.TxPower = 4 }, ErrInvalidTxPower, 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultParameterSettings()
			tc.modify(&s)
			_, err := s.Encode()
			requireOnly(t, err, tc.expect)
			// the field value, not a register byte
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tc.value, perr.Value)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for sped := 0; sped < 256; sped++ {
		for _, option := range []byte{0x00, 0x44, 0x7F, 0x80, 0xBB, 0xFF} {
			raw := [ConfigFrameSize]byte{0xC0, 0xAB, 0xCD, byte(sped), 0x20, option}
			s, err := Parse(raw)
			if err != nil {
				continue
			}
			encoded, err := s.Encode()
			require.NoError(t, err)
			require.Equal(t, raw, encoded)
			again, err := Parse(encoded)
			require.NoError(t, err)
			require.Equal(t, s, again)
		}
	}
}

func TestBaudRateFor(t *testing.T) {
	b, ok := BaudRateFor(57600)
	require.True(t, ok)
	require.Equal(t, Baud57600, b)
	_, ok = BaudRateFor(14400)
	require.False(t, ok)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion([VersionFrameSize]byte{0xC3, 0x32, 0x27, 0x0B})
	require.NoError(t, err)
	require.Equal(t, Version{Model: 0x32, Version: 0x27, Features: 0x0B}, v)

	_, err = parseVersion([VersionFrameSize]byte{0xC0, 0x32, 0x27, 0x0B})
	require.ErrorIs(t, err, ErrInvalidHead)
}

func TestConfigBuilder(t *testing.T) {
	cfg, err := NewConfigBuilder(DefaultParameterSettings()).
		Address(0, 1).
		Channel(23).
		AirDataRate(AirRate4800).
		Transmission(TransmissionFixed).
		TxPower(TxPowerMedium).
		FEC(false).
		Build()
	require.NoError(t, err)
	require.Equal(t, uint16(1), cfg.Address)
	require.Equal(t, uint8(23), cfg.Channel)
	require.Equal(t, AirRate4800, cfg.AirDataRate)
	require.Equal(t, TransmissionFixed, cfg.Transmission)
	require.Equal(t, TxPowerMedium, cfg.TxPower)
	require.False(t, cfg.FEC)

	_, err = NewConfigBuilder(DefaultParameterSettings()).WakeUpTime(9).Build()
	require.ErrorIs(t, err, ErrInvalidWirelessWakeUpTime)
}
