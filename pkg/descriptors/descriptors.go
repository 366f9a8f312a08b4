// Package descriptors decodes the class-specific and vendor-specific
// descriptors found on a UVC video control interface.
package descriptors

import (
	"errors"
	"io"
)

var ErrInvalidDescriptor = errors.New("invalid descriptor")

// Descriptor is any decoded descriptor record.
type Descriptor interface {
	isDescriptor()
}

// Unmarshal decodes one length-prefixed descriptor record, dispatching on
// its type tag. Records of a type this package does not interpret come back
// as *UnknownDescriptor, never as an error.
func Unmarshal(buf []byte) (Descriptor, error) {
	if len(buf) < 2 {
		return nil, io.ErrShortBuffer
	}
	switch DescriptorType(buf[1]) {
	case DescriptorTypeClassSpecificInterface:
		return UnmarshalControlInterface(buf)
	case DescriptorTypeVendorLogitech:
		return UnmarshalVendorInterface(buf)
	case DescriptorTypeEndpoint:
		d := &EndpointDescriptor{}
		return d, d.UnmarshalBinary(buf)
	case DescriptorTypeClassSpecificEndpoint:
		d := &InterruptEndpointDescriptor{}
		return d, d.UnmarshalBinary(buf)
	default:
		return &UnknownDescriptor{Type: DescriptorType(buf[1])}, nil
	}
}

// UnknownDescriptor acknowledges a record whose type tag this package does
// not interpret.
type UnknownDescriptor struct {
	Type DescriptorType
}

func (ud *UnknownDescriptor) isDescriptor() {}

func copyGUID(dst []byte, src []byte) {
	// copy according to the GUID format defined in UVC spec 1.5, section 2.9.
	dst[0] = src[3]
	dst[1] = src[2]
	dst[2] = src[1]
	dst[3] = src[0]
	dst[4] = src[5]
	dst[5] = src[4]
	dst[6] = src[7]
	dst[7] = src[6]
	copy(dst[8:16], src[8:16])
}
