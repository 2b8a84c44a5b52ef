package e32

import (
	"fmt"

	"github.com/mbalug7/tiny-periph/hal"
)

// OperationCode is a command byte understood by the module in sleep mode.
type OperationCode byte

const (
	OpSaveParams          OperationCode = 0xC0
	OpReadParams          OperationCode = 0xC1
	OpSaveParamsTemporary OperationCode = 0xC2
	OpReadVersion         OperationCode = 0xC3
	OpReset               OperationCode = 0xC4
)

// commands are repeated this many times for the module to recognise them
const opRepeat = 3

func (op OperationCode) String() string {
	switch op {
	case OpSaveParams:
		return "SaveParams"
	case OpReadParams:
		return "ReadParams"
	case OpSaveParamsTemporary:
		return "SaveParamsTemporary"
	case OpReadVersion:
		return "ReadVersion"
	case OpReset:
		return "Reset"
	}
	return fmt.Sprintf("OperationCode(%#02x)", byte(op))
}

// OperationMode selects the module state through the M0 and M1 lines.
type OperationMode = hal.ChipMode

const (
	ModeNormal      = hal.ModeNormal
	ModeWakeUp      = hal.ModeWakeUp
	ModePowerSaving = hal.ModePowerSave
	ModeSleep       = hal.ModeSleep
)

// pinLevels is the (M0, M1) pair driven for each mode, true meaning high.
type pinLevels struct {
	m0, m1 bool
}

func levelsFor(mode OperationMode) (pinLevels, bool) {
	switch mode {
	case ModeNormal:
		return pinLevels{m0: false, m1: false}, true
	case ModeWakeUp:
		return pinLevels{m0: true, m1: false}, true
	case ModePowerSaving:
		return pinLevels{m0: false, m1: true}, true
	case ModeSleep:
		return pinLevels{m0: true, m1: true}, true
	}
	return pinLevels{}, false
}
