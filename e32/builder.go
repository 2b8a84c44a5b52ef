package e32

// ConfigBuilder stages changes on top of a configuration, usually one read
// back from the module.
//
//	cfg, err := e32.NewConfigBuilder(current).Address(0, 1).Channel(23).
//		AirDataRate(e32.AirRate2400).Transmission(e32.TransmissionFixed).Build()
type ConfigBuilder struct {
	cfg ParameterSettings
}

func NewConfigBuilder(base ParameterSettings) *ConfigBuilder {
	return &ConfigBuilder{cfg: base}
}

func (b *ConfigBuilder) Address(high, low byte) *ConfigBuilder {
	b.cfg.Address = uint16(high)<<8 | uint16(low)
	return b
}

func (b *ConfigBuilder) Channel(ch uint8) *ConfigBuilder {
	b.cfg.Channel = ch
	return b
}

func (b *ConfigBuilder) UartBaudRate(rate UartBaudRate) *ConfigBuilder {
	b.cfg.UartBaudRate = rate
	return b
}

func (b *ConfigBuilder) UartParity(p UartParity) *ConfigBuilder {
	b.cfg.UartParity = p
	return b
}

func (b *ConfigBuilder) AirDataRate(rate AirDataRate) *ConfigBuilder {
	b.cfg.AirDataRate = rate
	return b
}

func (b *ConfigBuilder) Transmission(t TransmissionMode) *ConfigBuilder {
	b.cfg.Transmission = t
	return b
}

func (b *ConfigBuilder) WakeUpTime(w WakeUpTime) *ConfigBuilder {
	b.cfg.WakeUpTime = w
	return b
}

func (b *ConfigBuilder) IoDriveMode(m IoDriveMode) *ConfigBuilder {
	b.cfg.IoDriveMode = m
	return b
}

func (b *ConfigBuilder) FEC(enabled bool) *ConfigBuilder {
	b.cfg.FEC = enabled
	return b
}

func (b *ConfigBuilder) TxPower(p TxPower) *ConfigBuilder {
	b.cfg.TxPower = p
	return b
}

// Build returns the staged configuration, or the first invalid field.
func (b *ConfigBuilder) Build() (ParameterSettings, error) {
	if err := b.cfg.Validate(); err != nil {
		return ParameterSettings{}, err
	}
	return b.cfg, nil
}
