package orbit

import "github.com/google/uuid"

// USB identity of the Logitech QuickCam Orbit AF.
const (
	VendorIDLogitech uint16 = 0x046d
	ProductIDOrbitAF uint16 = 0x0994
)

// MotorControlSelector selects a control on the motor extension unit.
type MotorControlSelector uint8

const (
	MotorControlSelectorUndefined       MotorControlSelector = 0x00
	MotorControlSelectorPanTiltRelative MotorControlSelector = 0x01
	MotorControlSelectorPanTiltReset    MotorControlSelector = 0x02
	MotorControlSelectorFocus           MotorControlSelector = 0x03
)

// HWControlSelector selects a control on the hardware-control extension unit.
type HWControlSelector uint8

const (
	HWControlSelectorUndefined HWControlSelector = 0x00
	HWControlSelectorLED1      HWControlSelector = 0x01
)

// LEDMode is the first payload byte of an LED1 control request.
type LEDMode uint8

const (
	LEDModeOff      LEDMode = 0x00
	LEDModeOn       LEDMode = 0x01
	LEDModeBlinking LEDMode = 0x02
	LEDModeAuto     LEDMode = 0x03
)

var (
	// MotorGUID identifies the pan/tilt motor extension unit in the video
	// control interface's descriptor chain.
	MotorGUID = uuid.MustParse("63610682-5070-49ab-b8cc-b3855e8d2256")

	// HWControlGUID identifies the hardware-control (LED) extension unit.
	HWControlGUID = uuid.MustParse("63610682-5070-49ab-b8cc-b3855e8d221f")
)
