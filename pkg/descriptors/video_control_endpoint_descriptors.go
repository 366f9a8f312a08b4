// This file implements the endpoint descriptors that appear in a video
// control interface's associated-descriptor chain: the standard endpoint
// descriptor (USB 2.0 spec, section 9.6.6) and the class-specific interrupt
// endpoint descriptor (UVC spec 1.1, section 3.8.2.2).
package descriptors

import (
	"encoding/binary"
	"io"
)

type VideoControlEndpointDescriptorSubtype byte

const (
	VideoControlEndpointDescriptorSubtypeUndefined VideoControlEndpointDescriptorSubtype = 0x00
	VideoControlEndpointDescriptorSubtypeGeneral   VideoControlEndpointDescriptorSubtype = 0x01
	VideoControlEndpointDescriptorSubtypeEndpoint  VideoControlEndpointDescriptorSubtype = 0x02
	VideoControlEndpointDescriptorSubtypeInterrupt VideoControlEndpointDescriptorSubtype = 0x03
)

// EndpointDescriptor is a standard endpoint descriptor.
type EndpointDescriptor struct {
	Address       uint8
	Attributes    uint8
	MaxPacketSize uint16
	Interval      uint8
}

func (ed *EndpointDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 7 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeEndpoint {
		return ErrInvalidDescriptor
	}
	ed.Address = buf[2]
	ed.Attributes = buf[3]
	ed.MaxPacketSize = binary.LittleEndian.Uint16(buf[4:6])
	ed.Interval = buf[6]
	return nil
}

func (ed *EndpointDescriptor) isDescriptor() {}

// InterruptEndpointDescriptor is the class-specific interrupt endpoint
// descriptor.
type InterruptEndpointDescriptor struct {
	MaxTransferSize uint16
}

func (ied *InterruptEndpointDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 5 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeClassSpecificEndpoint {
		return ErrInvalidDescriptor
	}
	if VideoControlEndpointDescriptorSubtype(buf[2]) != VideoControlEndpointDescriptorSubtypeInterrupt {
		return ErrInvalidDescriptor
	}
	ied.MaxTransferSize = binary.LittleEndian.Uint16(buf[3:5])
	return nil
}

func (ied *InterruptEndpointDescriptor) isDescriptor() {}
