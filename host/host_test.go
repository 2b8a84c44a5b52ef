//go:build !tinygo

package host

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"

	"github.com/mbalug7/tiny-periph/e32"
	"github.com/mbalug7/tiny-periph/hal"
)

type fakePort struct {
	reads   [][]byte
	written []byte
	mode    *serial.Mode
	timeout time.Duration
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		return 0, errors.New("port closed")
	}
	chunk := p.reads[0]
	p.reads = p.reads[1:]
	return copy(b, chunk), nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *fakePort) SetMode(mode *serial.Mode) error {
	p.mode = mode
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return nil
}

func (p *fakePort) Close() error { return nil }

func TestSerialReadByteSkipsEmptyReads(t *testing.T) {
	p := &fakePort{reads: [][]byte{{}, {}, {0xC0}}}
	s := &Serial{port: p}
	v, err := s.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xC0), v)
}

func TestSerialReadTimeout(t *testing.T) {
	p := &fakePort{reads: [][]byte{{}}}
	s := &Serial{port: p}
	require.NoError(t, s.SetReadTimeout(time.Second))
	require.Equal(t, time.Second, p.timeout)
	_, err := s.ReadByte()
	require.ErrorIs(t, err, ErrReadTimeout)

	require.NoError(t, s.SetReadTimeout(0))
	require.Equal(t, serial.NoTimeout, p.timeout)
}

func TestSerialDrivesE32(t *testing.T) {
	p := &fakePort{}
	s := &Serial{port: p}
	obj := e32.New()
	require.NoError(t, obj.Write(s, []byte("PING"), 0x0002, 23))
	require.Equal(t, []byte{0x00, 0x02, 23, 'P', 'I', 'N', 'G'}, p.written)
}

func TestStageSerialPortConfig(t *testing.T) {
	p := &fakePort{}
	s := &Serial{port: p}
	require.NoError(t, s.StageSerialPortConfig(115200, e32.SerialParity(e32.Parity8E1)))
	require.Equal(t, &serial.Mode{BaudRate: 115200, DataBits: 8, Parity: serial.EvenParity, StopBits: serial.OneStopBit}, p.mode)

	require.Error(t, s.StageSerialPortConfig(9600, hal.Parity('X')))
}

type fakeOutPin struct {
	levels []gpio.Level
}

func (p *fakeOutPin) Name() string { return "GPIO17" }

func (p *fakeOutPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return nil
}

func TestPinDrivesE32Modes(t *testing.T) {
	raw0, raw1 := &fakeOutPin{}, &fakeOutPin{}
	m0, err := newPin(raw0)
	require.NoError(t, err)
	m1, err := newPin(raw1)
	require.NoError(t, err)

	obj := e32.New()
	obj.SetUartDataRate(e32.CommandBaudRate)
	require.NoError(t, obj.SetMode(e32.ModePowerSaving, m0, m1))
	require.Equal(t, []gpio.Level{gpio.Low, gpio.Low}, raw0.levels)
	require.Equal(t, []gpio.Level{gpio.Low, gpio.High}, raw1.levels)
}
