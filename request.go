package orbit

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/orbitctl/go-orbit/pkg/requests"
)

// Unit names one of the camera's vendor extension units as the target of a
// request.
type Unit int

const (
	UnitMotor Unit = iota
	UnitHWControl
)

// maxPayload bounds the data stage of a control request.
const maxPayload = 32

var ErrPayloadTooLarge = errors.New("control request payload too large")

// Request is an encoded SET_CUR control request addressed to one of the
// camera's extension units.
type Request struct {
	unit     Unit
	selector uint8
	data     [maxPayload]byte
	length   uint16
}

// NewRequest builds a request carrying an arbitrary payload.
func NewRequest(unit Unit, selector uint8, payload []byte) (*Request, error) {
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	r := &Request{unit: unit, selector: selector, length: uint16(len(payload))}
	copy(r.data[:], payload)
	return r, nil
}

const panTiltEnable byte = 0x80

// PanTiltRelative encodes a relative pan/tilt step. For each axis the first
// byte carries an enable flag when the axis moves and the second a signed
// magnitude; the firmware treats a magnitude of n as n+1 steps, so positive
// deltas are sent decremented by one.
func PanTiltRelative(left, up int8) *Request {
	r := &Request{
		unit:     UnitMotor,
		selector: uint8(MotorControlSelectorPanTiltRelative),
		length:   4,
	}
	if left != 0 {
		r.data[0] = panTiltEnable
		r.data[1] = encodeDelta(left)
	}
	if up != 0 {
		r.data[2] = panTiltEnable
		r.data[3] = encodeDelta(up)
	}
	return r
}

func encodeDelta(v int8) byte {
	if v > 0 {
		v--
	}
	return byte(v)
}

// bit flags of the pan/tilt reset payload byte
const panTiltResetBoth byte = 0x03

// PanTiltReset encodes a return of both axes to their home position.
func PanTiltReset() *Request {
	r := &Request{
		unit:     UnitMotor,
		selector: uint8(MotorControlSelectorPanTiltReset),
		length:   1,
	}
	r.data[0] = panTiltResetBoth
	return r
}

// LEDControl encodes an LED1 mode change. frequency is the blink rate in
// units of 0.05 Hz and only matters for LEDModeBlinking.
func LEDControl(mode LEDMode, frequency uint16) *Request {
	r := &Request{
		unit:     UnitHWControl,
		selector: uint8(HWControlSelectorLED1),
		length:   3,
	}
	r.data[0] = byte(mode)
	binary.BigEndian.PutUint16(r.data[1:3], frequency)
	return r
}

// Payload returns the request's data stage.
func (r *Request) Payload() []byte {
	return r.data[:r.length]
}

// resolveUnit maps a unit tag to the entity id found during the scan. An id
// the camera never advertised is still 0 and goes out as-is; the device
// rejects it.
func (c *Camera) resolveUnit(u Unit) (uint8, error) {
	switch u {
	case UnitMotor:
		return c.MotorUnit, nil
	case UnitHWControl:
		return c.HWControlUnit, nil
	default:
		return 0, fmt.Errorf("unknown unit %d", u)
	}
}

// Send opens a control-transfer session on the camera's interface, issues
// the request as SET_CUR, and closes the session. The session is closed even
// when the transfer fails.
func (c *Camera) Send(req *Request) error {
	if !c.IsValid() {
		return errors.New("camera has been closed")
	}
	unitID, err := c.resolveUnit(req.unit)
	if err != nil {
		return err
	}
	iface := c.iface.Value()
	if err := iface.Open(); err != nil {
		return fmt.Errorf("opening interface session: %w", err)
	}
	_, terr := iface.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceSetRequest),
		uint8(requests.RequestCodeSetCur),
		requests.Value(req.selector),
		requests.Index(unitID, c.InterfaceNumber),
		req.data[:req.length],
	)
	cerr := iface.Close()
	return errors.Join(terr, cerr)
}
