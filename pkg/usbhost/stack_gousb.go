//go:build gousb

package usbhost

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/gousb"
)

// gousbStack is the libusb-backed implementation, selected with
// -tags gousb.
type gousbStack struct{}

// NewStack returns the host USB stack for this build.
func NewStack() Stack {
	return gousbStack{}
}

func (gousbStack) Devices() (DeviceEnumeration, error) {
	session := &gousbSession{ctx: gousb.NewContext()}
	session.refs.Store(1)
	// collect descriptors only; devices are opened lazily in Next so that
	// one unopenable device cannot kill the whole walk
	var descs []*gousb.DeviceDesc
	if _, err := session.ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		descs = append(descs, d)
		return false
	}); err != nil {
		_ = session.release()
		return nil, fmt.Errorf("listing usb devices: %w", err)
	}
	return &gousbDeviceEnumeration{session: session, descs: descs}, nil
}

// transientOpenError reports whether an open failure means the device is
// merely unusable right now (owned by another driver, or unreadable under
// the current udev policy) rather than the stack being broken.
func transientOpenError(err error) bool {
	return errors.Is(err, gousb.ERROR_ACCESS) || errors.Is(err, gousb.ERROR_BUSY)
}

// gousbSession reference-counts the libusb context across the enumeration
// handle and every device resolved from it.
type gousbSession struct {
	ctx  *gousb.Context
	refs atomic.Int32
}

func (s *gousbSession) retain() {
	s.refs.Add(1)
}

func (s *gousbSession) release() error {
	if s.refs.Add(-1) > 0 {
		return nil
	}
	return s.ctx.Close()
}

type gousbDeviceEnumeration struct {
	session *gousbSession
	descs   []*gousb.DeviceDesc
	pos     int
	closed  bool
}

func (e *gousbDeviceEnumeration) Next() (Device, error) {
	if e.pos >= len(e.descs) {
		return nil, nil
	}
	want := e.descs[e.pos]
	e.pos++
	devices, err := e.session.ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		return d.Bus == want.Bus && d.Address == want.Address
	})
	if err != nil {
		for _, d := range devices {
			_ = d.Close()
		}
		if transientOpenError(err) {
			return nil, fmt.Errorf("%w: bus %d addr %d: %v", ErrNoResources, want.Bus, want.Address, err)
		}
		return nil, fmt.Errorf("opening bus %d addr %d: %w", want.Bus, want.Address, err)
	}
	if len(devices) == 0 {
		// detached between the listing and the open
		return nil, fmt.Errorf("%w: bus %d addr %d is gone", ErrNoResources, want.Bus, want.Address)
	}
	d := devices[0]
	for _, extra := range devices[1:] {
		_ = extra.Close()
	}
	if d == nil {
		return nil, ErrNilHandle
	}
	e.session.retain()
	shared := &gousbDeviceHandle{session: e.session, dev: d}
	shared.refs.Store(1)
	return &gousbDevice{shared: shared}, nil
}

func (e *gousbDeviceEnumeration) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.descs = nil
	return e.session.release()
}

// gousbDeviceHandle reference-counts one open libusb device between the
// device object and any interfaces resolved from it.
type gousbDeviceHandle struct {
	session *gousbSession
	dev     *gousb.Device
	cfg     *gousb.Config
	refs    atomic.Int32
}

func (s *gousbDeviceHandle) retain() {
	s.refs.Add(1)
}

func (s *gousbDeviceHandle) release() error {
	if s.refs.Add(-1) > 0 {
		return nil
	}
	var errs []error
	if s.cfg != nil {
		errs = append(errs, s.cfg.Close())
		s.cfg = nil
	}
	errs = append(errs, s.dev.Close(), s.session.release())
	return errors.Join(errs...)
}

type gousbDevice struct {
	shared *gousbDeviceHandle
}

func (d *gousbDevice) VendorID() uint16 {
	return uint16(d.shared.dev.Desc.Vendor)
}

func (d *gousbDevice) ProductID() uint16 {
	return uint16(d.shared.dev.Desc.Product)
}

func (d *gousbDevice) Interfaces(class, subclass uint8) (InterfaceEnumeration, error) {
	num, err := d.shared.dev.ActiveConfigNum()
	if err != nil {
		return nil, fmt.Errorf("reading active config: %w", err)
	}
	if d.shared.cfg == nil {
		// the kernel's uvcvideo driver usually owns the interface
		_ = d.shared.dev.SetAutoDetach(true)
		cfg, err := d.shared.dev.Config(num)
		if err != nil {
			return nil, fmt.Errorf("claiming config %d: %w", num, err)
		}
		d.shared.cfg = cfg
	}
	desc, ok := d.shared.dev.Desc.Configs[num]
	if !ok {
		return nil, fmt.Errorf("config %d not in device descriptor", num)
	}
	var matches []*gousbInterface
	for _, intf := range desc.Interfaces {
		if len(intf.AltSettings) == 0 {
			continue
		}
		alt := intf.AltSettings[0]
		if uint8(alt.Class) == class && uint8(alt.SubClass) == subclass {
			matches = append(matches, &gousbInterface{shared: d.shared, num: intf.Number})
		}
	}
	return &gousbInterfaceEnumeration{interfaces: matches}, nil
}

func (d *gousbDevice) Close() error {
	return d.shared.release()
}

type gousbInterfaceEnumeration struct {
	interfaces []*gousbInterface
	pos        int
}

func (e *gousbInterfaceEnumeration) Next() (Interface, error) {
	if e.pos >= len(e.interfaces) {
		return nil, nil
	}
	in := e.interfaces[e.pos]
	e.pos++
	in.shared.retain()
	return in, nil
}

func (e *gousbInterfaceEnumeration) Close() error {
	e.interfaces = nil
	return nil
}

type gousbInterface struct {
	shared *gousbDeviceHandle
	num    int
	intf   *gousb.Interface
}

func (i *gousbInterface) InterfaceNumber() uint8 {
	return uint8(i.num)
}

// RawDescriptors fetches the raw configuration descriptor over a standard
// GET_DESCRIPTOR request, since gousb does not expose the class-specific
// extras, and slices out the records associated with this interface.
func (i *gousbInterface) RawDescriptors() ([]byte, error) {
	const (
		requestGetDescriptor = 0x06
		descriptorTypeConfig = 0x02
	)
	header := make([]byte, 9)
	if _, err := i.shared.dev.Control(0x80, requestGetDescriptor, descriptorTypeConfig<<8, 0, header); err != nil {
		return nil, fmt.Errorf("reading config descriptor header: %w", err)
	}
	total := binary.LittleEndian.Uint16(header[2:4])
	full := make([]byte, total)
	n, err := i.shared.dev.Control(0x80, requestGetDescriptor, descriptorTypeConfig<<8, 0, full)
	if err != nil {
		return nil, fmt.Errorf("reading config descriptor: %w", err)
	}
	return associatedDescriptors(full[:n], uint8(i.num)), nil
}

// associatedDescriptors returns the records between the zeroth alternate
// setting of the given interface and the next interface descriptor.
func associatedDescriptors(config []byte, ifnum uint8) []byte {
	const descriptorTypeInterface = 0x04
	var out []byte
	collecting := false
	for pos := 0; pos+2 <= len(config); {
		n := int(config[pos])
		if n < 2 || pos+n > len(config) {
			break
		}
		block := config[pos : pos+n]
		if block[1] == descriptorTypeInterface {
			collecting = n >= 4 && block[2] == ifnum && block[3] == 0
		} else if collecting {
			out = append(out, block...)
		}
		pos += n
	}
	return out
}

func (i *gousbInterface) Open() error {
	if i.shared.cfg == nil {
		return errors.New("device config not claimed")
	}
	intf, err := i.shared.cfg.Interface(i.num, 0)
	if err != nil {
		return fmt.Errorf("claiming interface %d: %w", i.num, err)
	}
	i.intf = intf
	return nil
}

func (i *gousbInterface) Close() error {
	if i.intf != nil {
		i.intf.Close()
		i.intf = nil
	}
	return nil
}

func (i *gousbInterface) ControlTransfer(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	n, err := i.shared.dev.Control(requestType, request, value, index, data)
	if err != nil {
		return n, fmt.Errorf("control transfer: %w", err)
	}
	return n, nil
}

func (i *gousbInterface) Release() error {
	return i.shared.release()
}
