//go:build tinygo

package main

import (
	"log"
	"machine"
	"time"

	"github.com/mbalug7/tiny-periph/e32"
	"github.com/mbalug7/tiny-periph/pico"
)

const (
	ownAddress  = 0x0001
	peerAddress = 0x0002
	channel     = 23
)

func main() {
	time.Sleep(time.Second * 10)
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()

	board, err := pico.NewBoard(machine.GP12, machine.GP13, machine.UART1, machine.UART1_TX_PIN, machine.UART1_RX_PIN)
	if err != nil {
		println("could not configure board:", err.Error())
		return
	}
	module := e32.New()
	module.SetUartDataRate(e32.CommandBaudRate)

	if err := module.ReadCfg(board.UART, board.M0, board.M1); err != nil {
		log.Printf("read config request failed: %s", err)
		return
	}
	current, err := module.ReadCfgCallback(board.UART)
	if err != nil {
		log.Printf("read config failed: %s", err)
		return
	}
	log.Printf("module config: %s", current)
	led.Low()

	cfg, err := e32.NewConfigBuilder(current).
		Address(ownAddress>>8, ownAddress&0xff).
		Channel(channel).
		AirDataRate(e32.AirRate2400).
		Transmission(e32.TransmissionFixed).
		Build()
	if err != nil {
		log.Printf("invalid config: %s", err)
		return
	}
	if err := module.WriteCfg(board.UART, cfg, board.M0, board.M1); err != nil {
		log.Printf("config write error: %s", err)
	}

	for {
		led.Low()
		time.Sleep(time.Second * 60)

		err = module.Write(board.UART, []byte("PING"), peerAddress, channel)
		if err != nil {
			log.Printf("failed to send: %s", err)
		}

		led.High()
		time.Sleep(time.Millisecond * 1000)
	}
}
