// Command lightmeter polls a BH1750 on a Linux I2C bus and logs the
// ambient light level.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/physic"

	"github.com/mbalug7/tiny-periph/bh1750"
	"github.com/mbalug7/tiny-periph/host"
)

var (
	busName  = ""
	addr     = uint(bh1750.AddressLow)
	mode     = bh1750.ContinuouslyHighResolution.String()
	mtime    = uint(bh1750.DefaultMeasurementTime)
	interval = time.Second
	count    = 0
)

func init() {
	flag.StringVar(&busName, "bus", busName, "I2C bus name, empty for the first bus.")
	flag.UintVar(&addr, "addr", addr, "Sensor address, 0x23 or 0x5c.")
	flag.StringVar(&mode, "mode", mode, "Measurement mode: continuous-h, continuous-h2, continuous-l, onetime-h, onetime-h2, onetime-l.")
	flag.UintVar(&mtime, "mtime", mtime, "Measurement time register, 31..254.")
	flag.DurationVar(&interval, "interval", interval, "Sampling interval.")
	flag.IntVar(&count, "count", count, "Number of samples, 0 runs forever.")
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if err := run(); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

// sensorConfig checks the flag values before they are narrowed to the
// register widths.
func sensorConfig(addr, mtime uint, mode string) (uint16, bh1750.Config, error) {
	m, err := bh1750.ParseMeasurementMode(mode)
	if err != nil {
		return 0, bh1750.Config{}, err
	}
	if addr > 0x7F {
		return 0, bh1750.Config{}, fmt.Errorf("address %#x is not a 7-bit I2C address", addr)
	}
	if mtime < bh1750.MinMeasurementTime || mtime > bh1750.MaxMeasurementTime {
		return 0, bh1750.Config{}, fmt.Errorf("measurement time %d out of range %d..%d",
			mtime, bh1750.MinMeasurementTime, bh1750.MaxMeasurementTime)
	}
	return uint16(addr), bh1750.DefaultConfig().WithMeasurementMode(m).WithMeasurementTime(byte(mtime)), nil
}

func run() error {
	sensorAddr, cfg, err := sensorConfig(addr, mtime, mode)
	if err != nil {
		return err
	}
	if err := host.Init(); err != nil {
		return err
	}
	bus, err := host.OpenI2C(busName, 100*physic.KiloHertz)
	if err != nil {
		return err
	}
	defer bus.Close()

	sensor, err := bh1750.NewWithConfig(bus, sensorAddr, cfg)
	if err != nil {
		return err
	}
	glog.V(1).Infof("bh1750 at %#02x on %s, mode %s, mtime %d", sensorAddr, bus, cfg.MeasurementMode, cfg.MeasurementTime)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; count == 0 || n < count; n++ {
		lx, err := sensor.Read(bus)
		if err != nil {
			return err
		}
		glog.Infof("%.1f lx", lx)
		<-ticker.C
	}
	return nil
}
