//go:build gousb

package usbhost

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
)

func TestTransientOpenError(t *testing.T) {
	assert.True(t, transientOpenError(gousb.ERROR_ACCESS))
	assert.True(t, transientOpenError(gousb.ERROR_BUSY))
	assert.True(t, transientOpenError(fmt.Errorf("open: %w", gousb.ERROR_ACCESS)))
	assert.False(t, transientOpenError(gousb.ERROR_IO))
	assert.False(t, transientOpenError(errors.New("socket closed")))
}

func TestAssociatedDescriptors(t *testing.T) {
	var config []byte
	config = append(config, 9, 0x02, 0x22, 0x00, 2, 1, 0, 0x80, 50) // config header
	config = append(config, 9, 0x04, 0, 0, 1, 0x0e, 0x01, 0x00, 0)  // interface 0 alt 0
	config = append(config, 13, 0x24, 0x01, 0x00, 0x01, 0x4d, 0x00, 0x80, 0xc3, 0xc9, 0x01, 1, 1)
	config = append(config, 7, 0x05, 0x83, 0x03, 0x10, 0x00, 0x08)
	config = append(config, 9, 0x04, 1, 0, 0, 0x0e, 0x02, 0x00, 0) // interface 1, streaming
	config = append(config, 5, 0x24, 0x01, 0x00, 0x00)

	out := associatedDescriptors(config, 0)
	assert.Len(t, out, 20, "interface 0 should own the header and endpoint records only")
	assert.Equal(t, byte(0x24), out[1])
	assert.Equal(t, byte(0x05), out[14])

	assert.Empty(t, associatedDescriptors(config, 7))
}
