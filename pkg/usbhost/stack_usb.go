//go:build !gousb

package usbhost

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	usb "github.com/kevmo314/go-usb"
	"golang.org/x/sys/unix"
)

// usbStack is the default backend, built on the pure-Go usbdevfs stack.
type usbStack struct{}

// NewStack returns the host USB stack for this build.
func NewStack() Stack {
	return usbStack{}
}

func (usbStack) Devices() (DeviceEnumeration, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("listing usb devices: %w", err)
	}
	return &usbDeviceEnumeration{devices: devices}, nil
}

type usbDeviceEnumeration struct {
	devices []*usb.Device
	pos     int
}

func (e *usbDeviceEnumeration) Next() (Device, error) {
	if e.pos >= len(e.devices) {
		return nil, nil
	}
	d := e.devices[e.pos]
	e.pos++
	h, err := d.Open()
	if err != nil {
		if transientOpenError(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoResources, d.Path, err)
		}
		return nil, fmt.Errorf("opening %s: %w", d.Path, err)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilHandle, d.Path)
	}
	shared := &sharedDeviceHandle{h: h}
	shared.refs.Store(1)
	return &usbDevice{shared: shared}, nil
}

func (e *usbDeviceEnumeration) Close() error {
	e.devices = nil
	return nil
}

// transientOpenError reports whether an open failure means the device is
// merely unusable right now (owned by another driver, or unreadable under
// the current udev policy) rather than the stack being broken.
func transientOpenError(err error) bool {
	return errors.Is(err, usb.ErrDeviceBusy) ||
		errors.Is(err, usb.ErrPermissionDenied) ||
		errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.EACCES)
}

// sharedDeviceHandle reference-counts one usbdevfs file descriptor between
// the device object and any interfaces resolved from it. The descriptor is
// closed when the last reference is dropped.
type sharedDeviceHandle struct {
	h    *usb.DeviceHandle
	refs atomic.Int32
}

func (s *sharedDeviceHandle) retain() {
	s.refs.Add(1)
}

func (s *sharedDeviceHandle) release() error {
	if s.refs.Add(-1) > 0 {
		return nil
	}
	return s.h.Close()
}

type usbDevice struct {
	shared *sharedDeviceHandle
}

func (d *usbDevice) VendorID() uint16 {
	return d.shared.h.Descriptor().VendorID
}

func (d *usbDevice) ProductID() uint16 {
	return d.shared.h.Descriptor().ProductID
}

func (d *usbDevice) Interfaces(class, subclass uint8) (InterfaceEnumeration, error) {
	cfg, err := d.shared.h.GetActiveConfigDescriptor()
	if err != nil {
		return nil, fmt.Errorf("reading config descriptor: %w", err)
	}
	var matches []*usbInterface
	for i := range cfg.Interfaces {
		if len(cfg.Interfaces[i].AltSettings) == 0 {
			continue
		}
		alt := &cfg.Interfaces[i].AltSettings[0]
		if alt.InterfaceClass == class && alt.InterfaceSubClass == subclass {
			matches = append(matches, &usbInterface{shared: d.shared, alt: alt})
		}
	}
	return &usbInterfaceEnumeration{interfaces: matches}, nil
}

func (d *usbDevice) Close() error {
	return d.shared.release()
}

type usbInterfaceEnumeration struct {
	interfaces []*usbInterface
	pos        int
}

func (e *usbInterfaceEnumeration) Next() (Interface, error) {
	if e.pos >= len(e.interfaces) {
		return nil, nil
	}
	in := e.interfaces[e.pos]
	e.pos++
	in.shared.retain()
	return in, nil
}

func (e *usbInterfaceEnumeration) Close() error {
	e.interfaces = nil
	return nil
}

type usbInterface struct {
	shared *sharedDeviceHandle
	alt    *usb.InterfaceAltSetting
}

func (i *usbInterface) InterfaceNumber() uint8 {
	return i.alt.InterfaceNumber
}

func (i *usbInterface) RawDescriptors() ([]byte, error) {
	// The class-specific interface descriptors sit in the alt setting's
	// extra bytes. Endpoint descriptors were parsed out by the stack, so
	// re-emit them in wire form ahead of their own extras to reproduce the
	// full associated-descriptor chain.
	var buf []byte
	buf = append(buf, i.alt.Extra...)
	for _, ep := range i.alt.Endpoints {
		buf = append(buf, endpointDescriptorBytes(&ep)...)
		buf = append(buf, ep.Extra...)
	}
	return buf, nil
}

const endpointDescriptorType = 0x05

func endpointDescriptorBytes(ep *usb.Endpoint) []byte {
	b := make([]byte, 7)
	b[0] = 7
	b[1] = endpointDescriptorType
	b[2] = ep.EndpointAddr
	b[3] = ep.Attributes
	binary.LittleEndian.PutUint16(b[4:6], ep.MaxPacketSize)
	b[6] = ep.Interval
	return b
}

func (i *usbInterface) Open() error {
	ifnum := i.alt.InterfaceNumber
	// the kernel's uvcvideo driver usually owns the interface
	_ = i.shared.h.DetachKernelDriver(ifnum)
	if err := i.shared.h.ClaimInterface(ifnum); err != nil {
		return fmt.Errorf("claiming interface %d: %w", ifnum, err)
	}
	return nil
}

func (i *usbInterface) Close() error {
	if err := i.shared.h.ReleaseInterface(i.alt.InterfaceNumber); err != nil {
		return fmt.Errorf("releasing interface %d: %w", i.alt.InterfaceNumber, err)
	}
	return nil
}

func (i *usbInterface) ControlTransfer(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	n, err := i.shared.h.ControlTransfer(requestType, request, value, index, data, 0)
	if err != nil {
		return n, fmt.Errorf("control transfer: %w", err)
	}
	return n, nil
}

func (i *usbInterface) Release() error {
	return i.shared.release()
}
