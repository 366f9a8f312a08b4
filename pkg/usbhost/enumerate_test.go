package usbhost_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitctl/go-orbit/pkg/usbhost"
	"github.com/orbitctl/go-orbit/pkg/usbhost/usbhosttest"
)

func TestDevicesWalksAllEntries(t *testing.T) {
	stack := &usbhosttest.Stack{Devs: []*usbhosttest.Device{
		{Vendor: 0x046d, Product: 0x0994},
		{Vendor: 0x1234, Product: 0x5678},
	}}

	it := usbhost.Devices(stack)
	defer it.Close()

	var vendors []uint16
	for it.Next() {
		vendors = append(vendors, it.Device().VendorID())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []uint16{0x046d, 0x1234}, vendors)
}

func TestDevicesSkipsTransientlyUnusable(t *testing.T) {
	stack := &usbhosttest.Stack{Devs: []*usbhosttest.Device{
		{OpenErr: fmt.Errorf("%w: hub port 2", usbhost.ErrNoResources)},
		{Vendor: 0x046d, Product: 0x0994},
	}}

	it := usbhost.Devices(stack)
	defer it.Close()

	require.True(t, it.Next())
	assert.Equal(t, uint16(0x046d), it.Device().VendorID())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestDevicesAbortsOnOtherFailures(t *testing.T) {
	boom := errors.New("usbdevfs went away")
	stack := &usbhosttest.Stack{Devs: []*usbhosttest.Device{
		{Vendor: 0x046d, Product: 0x0994},
		{OpenErr: boom},
		{Vendor: 0x1234, Product: 0x5678},
	}}

	it := usbhost.Devices(stack)
	defer it.Close()

	require.True(t, it.Next())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), boom)
}

func TestDevicesTerminationIsSticky(t *testing.T) {
	stack := &usbhosttest.Stack{Devs: []*usbhosttest.Device{
		{Vendor: 0x046d, Product: 0x0994},
	}}

	it := usbhost.Devices(stack)
	for it.Next() {
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 1, stack.EnumerationCloseCount)

	// iterating past the end must not reacquire the enumeration handle
	assert.False(t, it.Next())
	assert.False(t, it.Next())
	assert.Equal(t, 1, stack.EnumerationCloseCount)
}

func TestDevicesAdvanceReleasesPreviousElement(t *testing.T) {
	first := &usbhosttest.Device{Vendor: 1}
	second := &usbhosttest.Device{Vendor: 2}
	stack := &usbhosttest.Stack{Devs: []*usbhosttest.Device{first, second}}

	it := usbhost.Devices(stack)
	require.True(t, it.Next())
	assert.Equal(t, 0, first.CloseCount)
	require.True(t, it.Next())
	assert.Equal(t, 1, first.CloseCount)
	assert.Equal(t, 0, second.CloseCount)
	assert.False(t, it.Next())
	assert.Equal(t, 1, second.CloseCount)
}

func TestDevicesTakeTransfersOwnership(t *testing.T) {
	dev := &usbhosttest.Device{Vendor: 0x046d, Product: 0x0994}
	stack := &usbhosttest.Stack{Devs: []*usbhosttest.Device{dev}}

	it := usbhost.Devices(stack)
	require.True(t, it.Next())
	owned := it.Take()
	require.NoError(t, it.Close())
	assert.Equal(t, 0, dev.CloseCount, "closing the iterator must not touch the taken device")

	require.NoError(t, owned.Release())
	assert.Equal(t, 1, dev.CloseCount)
}

func TestDevicesStackFailure(t *testing.T) {
	boom := errors.New("no usb filesystem")
	it := usbhost.Devices(&usbhosttest.Stack{Err: boom})
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), boom)
}

func TestInterfacesFiltersByClass(t *testing.T) {
	dev := &usbhosttest.Device{
		Vendor:  0x046d,
		Product: 0x0994,
		Ifaces: []*usbhosttest.Interface{
			{Number: 0, Class: usbhost.ClassVideo, SubClass: usbhost.SubclassVideoControl},
			{Number: 1, Class: usbhost.ClassVideo, SubClass: 0x02}, // video streaming
			{Number: 2, Class: 0x01, SubClass: 0x01},               // audio
		},
	}

	it := usbhost.Interfaces(dev, usbhost.ClassVideo, usbhost.SubclassVideoControl)
	defer it.Close()

	require.True(t, it.Next())
	assert.Equal(t, uint8(0), it.Interface().InterfaceNumber())
	assert.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestInterfacesExhaustionReleasesElement(t *testing.T) {
	iface := usbhosttest.NewVideoControlInterface(0, nil)
	dev := &usbhosttest.Device{Ifaces: []*usbhosttest.Interface{iface}}

	it := usbhost.Interfaces(dev, usbhost.ClassVideo, usbhost.SubclassVideoControl)
	for it.Next() {
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 1, iface.ReleaseCount)
}

func TestInterfacesEnumerationFailure(t *testing.T) {
	boom := errors.New("config descriptor unreadable")
	dev := &usbhosttest.Device{InterfacesErr: boom}

	it := usbhost.Interfaces(dev, usbhost.ClassVideo, usbhost.SubclassVideoControl)
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), boom)
}
