// Package usbhosttest provides a scripted in-memory usbhost.Stack for
// testing enumeration, descriptor walking, and control-transfer encoding
// without hardware.
package usbhosttest

import "github.com/orbitctl/go-orbit/pkg/usbhost"

// Stack is a fake host stack serving a fixed set of devices.
type Stack struct {
	Devs []*Device
	// Err, when set, fails the Devices call itself.
	Err error
	// EnumerationCloseCount counts closes of device enumerations opened
	// from this stack.
	EnumerationCloseCount int
}

var _ usbhost.Stack = (*Stack)(nil)

func (s *Stack) Devices() (usbhost.DeviceEnumeration, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &deviceEnumeration{stack: s}, nil
}

type deviceEnumeration struct {
	stack *Stack
	pos   int
}

func (e *deviceEnumeration) Next() (usbhost.Device, error) {
	if e.pos >= len(e.stack.Devs) {
		return nil, nil
	}
	d := e.stack.Devs[e.pos]
	e.pos++
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	return d, nil
}

func (e *deviceEnumeration) Close() error {
	e.stack.EnumerationCloseCount++
	return nil
}

// Device is a scripted device. Resolving it during enumeration fails with
// OpenErr when set; a wrapped usbhost.ErrNoResources there makes the device
// skippable.
type Device struct {
	Vendor, Product uint16
	Ifaces          []*Interface
	OpenErr         error
	InterfacesErr   error
	CloseCount      int
}

var _ usbhost.Device = (*Device)(nil)

func (d *Device) VendorID() uint16  { return d.Vendor }
func (d *Device) ProductID() uint16 { return d.Product }

func (d *Device) Interfaces(class, subclass uint8) (usbhost.InterfaceEnumeration, error) {
	if d.InterfacesErr != nil {
		return nil, d.InterfacesErr
	}
	var matches []*Interface
	for _, in := range d.Ifaces {
		if in.Class == class && in.SubClass == subclass {
			matches = append(matches, in)
		}
	}
	return &interfaceEnumeration{interfaces: matches}, nil
}

func (d *Device) Close() error {
	d.CloseCount++
	return nil
}

type interfaceEnumeration struct {
	interfaces []*Interface
	pos        int
}

func (e *interfaceEnumeration) Next() (usbhost.Interface, error) {
	if e.pos >= len(e.interfaces) {
		return nil, nil
	}
	in := e.interfaces[e.pos]
	e.pos++
	return in, nil
}

func (e *interfaceEnumeration) Close() error { return nil }

// ControlTransfer records one control transfer issued against a fake
// interface.
type ControlTransfer struct {
	RequestType, Request uint8
	Value, Index         uint16
	Data                 []byte
	// WhileOpen records whether a session was open when the transfer was
	// issued.
	WhileOpen bool
}

// Interface is a scripted interface carrying a raw descriptor chain.
type Interface struct {
	Number          uint8
	Class, SubClass uint8
	Chain           []byte

	OpenErr, CloseErr, TransferErr error

	OpenCount, CloseCount, ReleaseCount int
	Transfers                           []ControlTransfer
	open                                bool
}

var _ usbhost.Interface = (*Interface)(nil)

// NewVideoControlInterface returns a fake video-control interface with the
// given associated-descriptor chain.
func NewVideoControlInterface(number uint8, chain []byte) *Interface {
	return &Interface{
		Number:   number,
		Class:    usbhost.ClassVideo,
		SubClass: usbhost.SubclassVideoControl,
		Chain:    chain,
	}
}

func (i *Interface) InterfaceNumber() uint8 { return i.Number }

func (i *Interface) RawDescriptors() ([]byte, error) { return i.Chain, nil }

func (i *Interface) Open() error {
	i.OpenCount++
	if i.OpenErr != nil {
		return i.OpenErr
	}
	i.open = true
	return nil
}

func (i *Interface) Close() error {
	i.CloseCount++
	i.open = false
	return i.CloseErr
}

func (i *Interface) ControlTransfer(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	i.Transfers = append(i.Transfers, ControlTransfer{
		RequestType: requestType,
		Request:     request,
		Value:       value,
		Index:       index,
		Data:        append([]byte(nil), data...),
		WhileOpen:   i.open,
	})
	if i.TransferErr != nil {
		return 0, i.TransferErr
	}
	return len(data), nil
}

func (i *Interface) Release() error {
	i.ReleaseCount++
	return nil
}
