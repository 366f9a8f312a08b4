// Package usbhost abstracts the operating system's USB stack behind a small
// capability surface: enumerate devices, enumerate the interfaces of a
// device, read an interface's associated descriptors, and issue control
// transfers over a claimed interface session.
//
// The default backend (build without tags) is the pure-Go usbdevfs stack
// from github.com/kevmo314/go-usb. Building with -tags gousb selects a
// libusb-backed implementation instead.
package usbhost

import "errors"

// USB interface class codes used by this tool.
const (
	ClassVideo           uint8 = 0x0E
	SubclassVideoControl uint8 = 0x01
)

var (
	// ErrNoResources marks a device the host stack reported as transiently
	// unusable. Enumeration skips such devices instead of aborting.
	ErrNoResources = errors.New("device transiently unusable")

	// ErrNilHandle is returned when a host-stack call reports success but
	// yields a nil handle.
	ErrNilHandle = errors.New("host stack returned a nil handle")
)

// Stack is the entry point into a host USB stack.
type Stack interface {
	// Devices opens an enumeration over every USB device known to the host.
	Devices() (DeviceEnumeration, error)
}

// DeviceEnumeration is an open OS enumeration handle over USB devices.
type DeviceEnumeration interface {
	// Next resolves and opens the next device. It returns (nil, nil) once
	// the enumeration is exhausted. An error wrapping ErrNoResources refers
	// to a single skippable device; any other error is fatal to the walk.
	Next() (Device, error)
	Close() error
}

// Device is an opened USB device.
type Device interface {
	VendorID() uint16
	ProductID() uint16
	// Interfaces opens an enumeration over the device's interfaces whose
	// zeroth alternate setting matches the given class and subclass.
	Interfaces(class, subclass uint8) (InterfaceEnumeration, error)
	// Close releases the device half of the underlying handle. Interfaces
	// already resolved from this device remain usable until released.
	Close() error
}

// InterfaceEnumeration is an open OS enumeration handle over the matching
// interfaces of one device.
type InterfaceEnumeration interface {
	Next() (Interface, error)
	Close() error
}

// Interface is a resolved USB interface. It keeps the underlying device
// handle alive until Release is called.
type Interface interface {
	InterfaceNumber() uint8
	// RawDescriptors returns the descriptor chain associated with the
	// interface: class-specific interface descriptors followed by endpoint
	// and class-specific endpoint descriptors, each record length-prefixed.
	RawDescriptors() ([]byte, error)
	// Open claims the interface for a control-transfer session.
	Open() error
	// Close ends the session opened by Open.
	Close() error
	// ControlTransfer issues one synchronous control transfer and returns
	// the number of bytes transferred.
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte) (int, error)
	// Release drops this interface's reference on the device handle.
	Release() error
}
