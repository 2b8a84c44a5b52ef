package bh1750

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBus = errors.New("nack")

type tx struct {
	addr uint16
	w    []byte
	r    int
}

type fakeBus struct {
	txs  []tx
	read []byte
	err  error
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	b.txs = append(b.txs, tx{addr: addr, w: append([]byte(nil), w...), r: len(r)})
	copy(r, b.read)
	return nil
}

func (b *fakeBus) written() []byte {
	var out []byte
	for _, t := range b.txs {
		out = append(out, t.w...)
	}
	return out
}

func TestNewWritesConfiguration(t *testing.T) {
	bus := &fakeBus{}
	d, err := New(bus, AddressLow)
	require.NoError(t, err)
	// mode, MTreg high bits, MTreg low bits for 69
	require.Equal(t, []byte{0x10, 0x40 | 69>>5, 0x60 | 69&0x1f}, bus.written())
	for _, tx := range bus.txs {
		require.Equal(t, AddressLow, tx.addr)
	}
	require.Equal(t, ContinuouslyHighResolution, d.MeasurementMode())
	require.Equal(t, byte(DefaultMeasurementTime), d.MeasurementTime())
}

func TestMeasurementTimeBounds(t *testing.T) {
	testCases := []struct {
		mt byte
		ok bool
	}{
		{30, false},
		{31, true},
		{254, true},
		{255, false},
	}
	for _, tc := range testCases {
		_, err := NewWithConfig(&fakeBus{}, AddressHigh, DefaultConfig().WithMeasurementTime(tc.mt))
		if tc.ok {
			require.NoError(t, err)
			continue
		}
		var merr *MeasurementTimeError
		require.True(t, errors.As(err, &merr))
		require.Equal(t, tc.mt, merr.Value)
	}
}

func TestInvalidMeasurementMode(t *testing.T) {
	bus := &fakeBus{}
	_, err := NewWithConfig(bus, AddressLow, DefaultConfig().WithMeasurementMode(0x42))
	require.ErrorIs(t, err, ErrInvalidMode)
	require.Empty(t, bus.txs)
}

func TestRead(t *testing.T) {
	testCases := []struct {
		name   string
		mode   MeasurementMode
		mt     byte
		raw    []byte
		expect float32
	}{
		{"high resolution", ContinuouslyHighResolution, 69, []byte{0x01, 0x2C}, 250},
		{"high resolution double time", OneTimeHighResolution, 138, []byte{0x01, 0x2C}, 125},
		{"high resolution 2", ContinuouslyHighResolution2, 69, []byte{0x01, 0x2C}, 125},
		{"low resolution ignores time", OneTimeLowResolution, 138, []byte{0x00, 0x78}, 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := &fakeBus{}
			d, err := NewWithConfig(bus, AddressLow, DefaultConfig().WithMeasurementMode(tc.mode).WithMeasurementTime(tc.mt))
			require.NoError(t, err)

			bus.txs = nil
			bus.read = tc.raw
			lx, err := d.Read(bus)
			require.NoError(t, err)
			require.InDelta(t, tc.expect, lx, 0.01)
			require.InDelta(t, tc.expect, d.LightLevel(), 0.01)
			require.Equal(t, []tx{{AddressLow, []byte{byte(tc.mode)}, 0}, {AddressLow, nil, 2}}, bus.txs)
		})
	}
}

// rawBus answers every read with a fixed sample and records nothing.
type rawBus struct{ sample [2]byte }

func (b *rawBus) Tx(addr uint16, w, r []byte) error {
	copy(r, b.sample[:])
	return nil
}

func TestReadDoesNotAllocate(t *testing.T) {
	bus := &rawBus{sample: [2]byte{0x01, 0x2C}}
	d, err := New(bus, AddressLow)
	require.NoError(t, err)
	allocs := testing.AllocsPerRun(100, func() {
		if _, err := d.Read(bus); err != nil {
			t.Fatal(err)
		}
	})
	require.Zero(t, allocs)
	require.InDelta(t, 250, d.LightLevel(), 0.01)
}

func TestBusFailure(t *testing.T) {
	bus := &fakeBus{}
	d, err := New(bus, AddressLow)
	require.NoError(t, err)

	bus.err = errBus
	_, err = d.Read(bus)
	var berr *BusError
	require.True(t, errors.As(err, &berr))
	require.Equal(t, "write", berr.Op)
	require.ErrorIs(t, err, errBus)

	require.ErrorIs(t, d.PowerDown(bus), errBus)
}

func TestPowerCommands(t *testing.T) {
	bus := &fakeBus{}
	d, err := New(bus, AddressLow)
	require.NoError(t, err)
	bus.txs = nil
	require.NoError(t, d.PowerOn(bus))
	require.NoError(t, d.Reset(bus))
	require.NoError(t, d.PowerDown(bus))
	require.Equal(t, []byte{0x01, 0x07, 0x00}, bus.written())
}

func TestParseMeasurementMode(t *testing.T) {
	for _, m := range modes {
		parsed, err := ParseMeasurementMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}
	_, err := ParseMeasurementMode("fast")
	require.Error(t, err)
}
