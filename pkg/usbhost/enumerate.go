package usbhost

import (
	"errors"

	"github.com/orbitctl/go-orbit/pkg/handle"
)

// enumeration is the shape shared by DeviceEnumeration and
// InterfaceEnumeration.
type enumeration[E any] interface {
	Next() (E, error)
	Close() error
}

// cursor is a lazy, forward-only, non-restartable walk over an enumeration.
// It owns the enumeration handle and the currently resolved element;
// advancing releases the previous element, and exhausting the source
// releases the enumeration handle exactly once.
type cursor[E any] struct {
	enum *handle.Handle[enumeration[E]]
	elem *handle.Handle[E]
	err  error
}

func newCursor[E any](open func() (enumeration[E], error), release handle.ReleaseFunc[E]) cursor[E] {
	c := cursor[E]{
		enum: handle.New(func(e enumeration[E]) error { return e.Close() }),
		elem: handle.New(release),
	}
	e, err := open()
	if err != nil {
		c.err = err
		return c
	}
	if e == nil {
		c.err = ErrNilHandle
		return c
	}
	if err := c.enum.Adopt(e); err != nil {
		c.err = err
	}
	return c
}

// Next advances to the next element, consuming ownership of the previous
// one. Devices the host stack reports as transiently unusable are skipped;
// any other failure terminates the walk with Err set. After the walk has
// terminated, Next keeps returning false without reacquiring anything.
func (c *cursor[E]) Next() bool {
	if c.err != nil || !c.enum.IsValid() {
		return false
	}
	for {
		e, err := c.enum.Value().Next()
		if errors.Is(err, ErrNoResources) {
			continue
		}
		if err != nil {
			c.fail(err)
			return false
		}
		if isNil(e) {
			c.terminate()
			return false
		}
		if err := c.elem.Adopt(e); err != nil {
			c.fail(err)
			return false
		}
		return true
	}
}

// Take transfers ownership of the current element to the caller. The cursor
// no longer holds an element afterwards.
func (c *cursor[E]) Take() *handle.Handle[E] {
	return c.elem.Move()
}

// Err returns the error that terminated the walk, if any. Exhaustion is not
// an error.
func (c *cursor[E]) Err() error {
	return c.err
}

// Close releases the current element and the enumeration handle. It is safe
// to call at any point and more than once.
func (c *cursor[E]) Close() error {
	return errors.Join(c.elem.Release(), c.enum.Release())
}

func (c *cursor[E]) fail(err error) {
	c.err = err
	// cleanup errors must not mask the failure that terminated the walk
	_ = c.Close()
}

func (c *cursor[E]) terminate() {
	if err := c.Close(); err != nil {
		c.err = err
	}
}

func isNil[E any](e E) bool {
	return any(e) == nil
}

// DeviceIterator walks the host's USB devices.
type DeviceIterator struct {
	cursor[Device]
}

// Devices starts a device walk over the given stack. The iterator must be
// closed unless it is run to exhaustion.
func Devices(stack Stack) *DeviceIterator {
	return &DeviceIterator{newCursor(
		func() (enumeration[Device], error) { return stack.Devices() },
		Device.Close,
	)}
}

// Device returns the currently resolved device. Only valid after a true
// Next.
func (it *DeviceIterator) Device() Device {
	return it.elem.Value()
}

// InterfaceIterator walks the matching interfaces of one device.
type InterfaceIterator struct {
	cursor[Interface]
}

// Interfaces starts an interface walk over dev, filtered to the given
// interface class and subclass.
func Interfaces(dev Device, class, subclass uint8) *InterfaceIterator {
	return &InterfaceIterator{newCursor(
		func() (enumeration[Interface], error) { return dev.Interfaces(class, subclass) },
		Interface.Release,
	)}
}

// Interface returns the currently resolved interface. Only valid after a
// true Next.
func (it *InterfaceIterator) Interface() Interface {
	return it.elem.Value()
}
