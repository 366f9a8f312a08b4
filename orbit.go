// Package orbit drives the pan/tilt motors and status LED of the Logitech
// QuickCam Orbit AF over its UVC video control interface.
package orbit

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/orbitctl/go-orbit/pkg/descriptors"
	"github.com/orbitctl/go-orbit/pkg/handle"
	"github.com/orbitctl/go-orbit/pkg/usbhost"
)

var (
	// ErrDeviceNotFound is returned when no Orbit AF is attached.
	ErrDeviceNotFound = errors.New("no matching device found")

	// ErrInterfaceNotFound is returned when a matching device exposes no
	// video control interface.
	ErrInterfaceNotFound = errors.New("no video control interface found")
)

// Camera is a discovered Orbit AF with its vendor extension units resolved.
// MotorUnit and HWControlUnit are the entity ids found in the descriptor
// chain; an id of zero means the unit was not advertised.
type Camera struct {
	iface *handle.Handle[usbhost.Interface]

	InterfaceNumber uint8
	MotorUnit       uint8
	HWControlUnit   uint8
}

// IsValid reports whether the camera still holds its interface handle. The
// zero Camera is invalid.
func (c *Camera) IsValid() bool {
	return c.iface != nil && c.iface.IsValid()
}

// Close releases the interface handle. The camera is unusable afterwards.
func (c *Camera) Close() error {
	if c.iface == nil {
		return nil
	}
	return c.iface.Release()
}

// ScanCallbacks receives progress notifications during FindCamera. Any field
// may be nil.
type ScanCallbacks struct {
	// OnDevice is called for every device the host stack could open.
	OnDevice func(vendor, product uint16)
	// OnInterface is called with the matched video control interface number.
	OnInterface func(number uint8)
	// OnDescriptor is called for every record in the interface's descriptor
	// chain, with the raw record and its decoded form. desc is nil when the
	// record failed to decode.
	OnDescriptor func(block []byte, desc descriptors.Descriptor)
}

// FindCamera walks the host's USB devices for an Orbit AF, claims the first
// video control interface of the first match, and reads its descriptor chain
// to locate the motor and hardware-control extension units. Devices the host
// reports as transiently unusable are skipped. The returned camera owns the
// interface handle and must be closed.
func FindCamera(stack usbhost.Stack, cb ScanCallbacks) (*Camera, error) {
	dev, err := findDevice(stack, cb)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dev.Release() }()

	iface, err := findVideoControlInterface(dev.Value())
	if err != nil {
		return nil, err
	}

	c := &Camera{
		iface:           iface,
		InterfaceNumber: iface.Value().InterfaceNumber(),
	}
	if cb.OnInterface != nil {
		cb.OnInterface(c.InterfaceNumber)
	}
	// the interface keeps its own reference; drop the device half now
	if err := dev.Release(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("releasing device: %w", err)
	}

	if err := c.readUnits(cb); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func findDevice(stack usbhost.Stack, cb ScanCallbacks) (*handle.Handle[usbhost.Device], error) {
	devs := usbhost.Devices(stack)
	defer func() { _ = devs.Close() }()

	for devs.Next() {
		d := devs.Device()
		if cb.OnDevice != nil {
			cb.OnDevice(d.VendorID(), d.ProductID())
		}
		if d.VendorID() == VendorIDLogitech && d.ProductID() == ProductIDOrbitAF {
			return devs.Take(), nil
		}
	}
	if err := devs.Err(); err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	return nil, ErrDeviceNotFound
}

func findVideoControlInterface(dev usbhost.Device) (*handle.Handle[usbhost.Interface], error) {
	ifaces := usbhost.Interfaces(dev, usbhost.ClassVideo, usbhost.SubclassVideoControl)
	defer func() { _ = ifaces.Close() }()

	if ifaces.Next() {
		return ifaces.Take(), nil
	}
	if err := ifaces.Err(); err != nil {
		return nil, fmt.Errorf("enumerating interfaces: %w", err)
	}
	return nil, ErrInterfaceNotFound
}

// readUnits walks the interface's descriptor chain and records the entity
// ids of the two Logitech extension units.
func (c *Camera) readUnits(cb ScanCallbacks) error {
	chain, err := c.iface.Value().RawDescriptors()
	if err != nil {
		return fmt.Errorf("reading descriptors: %w", err)
	}
	w := descriptors.NewWalker(chain)
	for block, ok := w.Next(); ok; block, ok = w.Next() {
		desc, err := descriptors.Unmarshal(block)
		if err != nil {
			// a record we cannot decode is not fatal to the scan; report
			// the raw block only, never a half-decoded descriptor
			desc = nil
		}
		if cb.OnDescriptor != nil {
			cb.OnDescriptor(block, desc)
		}
		if desc != nil {
			c.recordExtensionUnit(desc)
		}
	}
	return nil
}

func (c *Camera) recordExtensionUnit(desc descriptors.Descriptor) {
	var unitID uint8
	var guid uuid.UUID
	switch d := desc.(type) {
	case *descriptors.ExtensionUnitDescriptor:
		unitID, guid = d.UnitID, d.GUID
	case *descriptors.VendorExtensionUnitDescriptor:
		unitID, guid = d.UnitID, d.GUID
	default:
		return
	}
	switch guid {
	case MotorGUID:
		c.MotorUnit = unitID
	case HWControlGUID:
		c.HWControlUnit = unitID
	}
}
