package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/mbalug7/tiny-periph/e32"
	"github.com/mbalug7/tiny-periph/hal"
	"github.com/mbalug7/tiny-periph/host"
)

// serialPort is the host link to the module. Its rate follows the
// module's UART rate.
type serialPort interface {
	hal.UART
	hal.SerialConfigurer
}

type ctl struct {
	module *e32.E32
	serial serialPort
	m0, m1 hal.OutputPin

	// last configuration read from the module, the base for "set"
	current *e32.ParameterSettings
}

func (c *ctl) commands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "mode",
			Help: "mode normal|wakeup|powersave|sleep",
			Func: c.cmdMode,
		},
		{
			Name: "config",
			Help: "read the module parameters",
			Func: c.cmdConfig,
		},
		{
			Name: "set",
			Help: "set [temp] key=value... keys: addr chan baud parity air trans wakeup io fec power",
			Func: c.cmdSet,
		},
		{
			Name: "baud",
			Help: "baud RATE [8N1|8O1|8E1] - move the host link, 9600 restores command access",
			Func: c.cmdBaud,
		},
		{
			Name: "version",
			Help: "read the module version",
			Func: c.cmdVersion,
		},
		{
			Name: "reset",
			Help: "restart the module",
			Func: c.cmdReset,
		},
		{
			Name: "send",
			Help: "send ADDR CHAN TEXT...",
			Func: c.cmdSend,
		},
		{
			Name: "recv",
			Help: "recv [N] - read up to N bytes (default 58)",
			Func: c.cmdRecv,
		},
	}
}

func (c *ctl) cmdMode(ctx *ishell.Context) {
	if len(ctx.Args) != 1 {
		ctx.Err(errors.New("usage: mode normal|wakeup|powersave|sleep"))
		return
	}
	mode, err := parseMode(ctx.Args[0])
	if err != nil {
		ctx.Err(err)
		return
	}
	if err := c.module.SetMode(mode, c.m0, c.m1); err != nil {
		ctx.Err(err)
		return
	}
	glog.V(1).Infof("mode %s", ctx.Args[0])
}

func (c *ctl) cmdConfig(ctx *ishell.Context) {
	cfg, err := c.readConfig()
	if err != nil {
		ctx.Err(err)
		return
	}
	ctx.Println(cfg)
}

func (c *ctl) readConfig() (e32.ParameterSettings, error) {
	if err := c.module.ReadCfg(c.serial, c.m0, c.m1); err != nil {
		return e32.ParameterSettings{}, err
	}
	cfg, err := c.module.ReadCfgCallback(c.serial)
	if err != nil {
		return e32.ParameterSettings{}, err
	}
	c.current = &cfg
	return cfg, nil
}

func (c *ctl) cmdSet(ctx *ishell.Context) {
	if c.current == nil {
		ctx.Err(errors.New("read the configuration with \"config\" first"))
		return
	}
	cfg, temp, err := parseSettings(*c.current, ctx.Args)
	if err != nil {
		ctx.Err(err)
		return
	}
	if err := c.writeConfig(cfg, temp); err != nil {
		ctx.Err(err)
		return
	}
	if cfg.UartBaudRate.Rate() != e32.CommandBaudRate {
		ctx.Printf("host link now at %d baud, run \"baud %d\" before further configuration\n",
			cfg.UartBaudRate.Rate(), e32.CommandBaudRate)
	}
	ctx.Println(cfg)
}

// writeConfig applies cfg and moves the host link to the module's new
// UART settings.
func (c *ctl) writeConfig(cfg e32.ParameterSettings, temp bool) error {
	write := c.module.WriteCfg
	if temp {
		write = c.module.WriteTempCfg
	}
	if err := write(c.serial, cfg, c.m0, c.m1); err != nil {
		return err
	}
	c.current = &cfg
	if err := c.serial.StageSerialPortConfig(int(cfg.UartBaudRate.Rate()), e32.SerialParity(cfg.UartParity)); err != nil {
		return err
	}
	glog.V(1).Infof("wrote config temp=%t: %s", temp, cfg)
	return nil
}

func (c *ctl) cmdBaud(ctx *ishell.Context) {
	if err := c.setBaud(ctx.Args); err != nil {
		ctx.Err(err)
		return
	}
	ctx.Printf("host link at %d baud\n", c.module.UartDataRate())
}

// setBaud moves both the host port and the driver to a new UART rate, so
// that a module reconfigured for another rate can be reached again.
func (c *ctl) setBaud(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: baud RATE [8N1|8O1|8E1]")
	}
	v, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid baud rate: %w", err)
	}
	rate, ok := e32.BaudRateFor(uint32(v))
	if !ok {
		return fmt.Errorf("unsupported baud rate %d", v)
	}
	parity := e32.Parity8N1
	if len(args) == 2 {
		if parity, err = parseParity(args[1]); err != nil {
			return err
		}
	}
	if err := c.serial.StageSerialPortConfig(int(rate.Rate()), e32.SerialParity(parity)); err != nil {
		return err
	}
	c.module.SetUartDataRate(rate.Rate())
	glog.V(1).Infof("host link %d baud %s", rate.Rate(), parity)
	return nil
}

func (c *ctl) cmdVersion(ctx *ishell.Context) {
	v, err := c.module.ReadVersion(c.serial, c.m0, c.m1)
	if err != nil {
		ctx.Err(err)
		return
	}
	ctx.Println(v)
}

func (c *ctl) cmdReset(ctx *ishell.Context) {
	if err := c.module.Reset(c.serial, c.m0, c.m1); err != nil {
		ctx.Err(err)
	}
}

func (c *ctl) cmdSend(ctx *ishell.Context) {
	if len(ctx.Args) < 3 {
		ctx.Err(errors.New("usage: send ADDR CHAN TEXT..."))
		return
	}
	addr, err := strconv.ParseUint(ctx.Args[0], 0, 16)
	if err != nil {
		ctx.Err(fmt.Errorf("invalid address: %w", err))
		return
	}
	ch, err := strconv.ParseUint(ctx.Args[1], 0, 8)
	if err != nil {
		ctx.Err(fmt.Errorf("invalid channel: %w", err))
		return
	}
	data := []byte(strings.Join(ctx.Args[2:], " "))
	if err := c.module.Write(c.serial, data, uint16(addr), uint8(ch)); err != nil {
		ctx.Err(err)
		return
	}
	glog.V(2).Infof("TX %#04x/%d %q", addr, ch, data)
}

func (c *ctl) cmdRecv(ctx *ishell.Context) {
	n := 58
	if len(ctx.Args) > 0 {
		v, err := strconv.Atoi(ctx.Args[0])
		if err != nil || v <= 0 {
			ctx.Err(fmt.Errorf("invalid count %q", ctx.Args[0]))
			return
		}
		n = v
	}
	var data []byte
	for len(data) < n {
		b, err := c.module.Read(c.serial)
		if errors.Is(err, host.ErrReadTimeout) {
			break
		}
		if err != nil {
			ctx.Err(err)
			return
		}
		data = append(data, b)
	}
	glog.V(2).Infof("RX %q", data)
	ctx.Printf("%d bytes: %q\n", len(data), data)
}

func parseMode(s string) (e32.OperationMode, error) {
	switch strings.ToLower(s) {
	case "normal":
		return e32.ModeNormal, nil
	case "wakeup":
		return e32.ModeWakeUp, nil
	case "powersave":
		return e32.ModePowerSaving, nil
	case "sleep":
		return e32.ModeSleep, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// parseSettings applies key=value arguments on top of base. A leading
// "temp" selects a non persistent write.
func parseSettings(base e32.ParameterSettings, args []string) (e32.ParameterSettings, bool, error) {
	temp := false
	if len(args) > 0 && args[0] == "temp" {
		temp = true
		args = args[1:]
	}
	b := e32.NewConfigBuilder(base)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return base, false, fmt.Errorf("expected key=value, got %q", arg)
		}
		if err := applySetting(b, key, value); err != nil {
			return base, false, fmt.Errorf("%s: %w", key, err)
		}
	}
	cfg, err := b.Build()
	if err != nil {
		return base, false, err
	}
	return cfg, temp, nil
}

func applySetting(b *e32.ConfigBuilder, key, value string) error {
	switch key {
	case "addr":
		v, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return err
		}
		b.Address(byte(v>>8), byte(v))
	case "chan":
		v, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return err
		}
		b.Channel(uint8(v))
	case "baud":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		rate, ok := e32.BaudRateFor(uint32(v))
		if !ok {
			return fmt.Errorf("unsupported baud rate %d", v)
		}
		b.UartBaudRate(rate)
	case "parity":
		p, err := parseParity(value)
		if err != nil {
			return err
		}
		b.UartParity(p)
	case "air":
		a, err := pick(value, map[string]e32.AirDataRate{
			"300": e32.AirRate300, "1200": e32.AirRate1200, "2400": e32.AirRate2400,
			"4800": e32.AirRate4800, "9600": e32.AirRate9600, "19200": e32.AirRate19200,
		})
		if err != nil {
			return err
		}
		b.AirDataRate(a)
	case "trans":
		t, err := pick(value, map[string]e32.TransmissionMode{
			"transparent": e32.TransmissionTransparent, "fixed": e32.TransmissionFixed,
		})
		if err != nil {
			return err
		}
		b.Transmission(t)
	case "wakeup":
		v, err := strconv.Atoi(strings.TrimSuffix(value, "ms"))
		if err != nil {
			return err
		}
		if v < 250 || v > 2000 || v%250 != 0 {
			return fmt.Errorf("wake up time must be 250..2000ms in 250ms steps")
		}
		b.WakeUpTime(e32.WakeUpTime(v/250 - 1))
	case "io":
		m, err := pick(value, map[string]e32.IoDriveMode{
			"pushpull": e32.IoDrivePushPull, "opencollector": e32.IoDriveOpenCollector,
		})
		if err != nil {
			return err
		}
		b.IoDriveMode(m)
	case "fec":
		on, err := pick(value, map[string]bool{"on": true, "off": false})
		if err != nil {
			return err
		}
		b.FEC(on)
	case "power":
		p, err := pick(value, map[string]e32.TxPower{
			"max": e32.TxPowerMax, "high": e32.TxPowerHigh, "medium": e32.TxPowerMedium, "low": e32.TxPowerLow,
		})
		if err != nil {
			return err
		}
		b.TxPower(p)
	default:
		return errors.New("unknown setting")
	}
	return nil
}

func parseParity(s string) (e32.UartParity, error) {
	return pick(strings.ToUpper(s), map[string]e32.UartParity{
		"8N1": e32.Parity8N1, "8O1": e32.Parity8O1, "8E1": e32.Parity8E1,
	})
}

func pick[T any](value string, choices map[string]T) (T, error) {
	v, ok := choices[value]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unsupported value %q", value)
	}
	return v, nil
}
