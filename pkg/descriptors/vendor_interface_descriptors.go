// This file implements the Logitech vendor-specific descriptors (type 0x41)
// that some firmware revisions emit on the video control interface instead
// of, or in addition to, standard extension units.
package descriptors

import "io"

type VendorInterfaceDescriptorSubtype byte

const (
	VendorInterfaceDescriptorSubtypeUndefined     VendorInterfaceDescriptorSubtype = 0x00
	VendorInterfaceDescriptorSubtypeExtensionUnit VendorInterfaceDescriptorSubtype = 0x01
)

// UnmarshalVendorInterface decodes one vendor-specific (type 0x41) record,
// dispatching on its subtype tag.
func UnmarshalVendorInterface(buf []byte) (Descriptor, error) {
	if len(buf) < 3 {
		return nil, io.ErrShortBuffer
	}
	switch VendorInterfaceDescriptorSubtype(buf[2]) {
	case VendorInterfaceDescriptorSubtypeExtensionUnit:
		desc := &VendorExtensionUnitDescriptor{}
		return desc, desc.UnmarshalBinary(buf)
	default:
		return &UnknownVendorInterfaceDescriptor{
			Subtype: VendorInterfaceDescriptorSubtype(buf[2]),
		}, nil
	}
}

// VendorExtensionUnitDescriptor carries the extension unit layout under the
// vendor descriptor type.
type VendorExtensionUnitDescriptor struct {
	ExtensionUnitDescriptor
}

func (vud *VendorExtensionUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 3 {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeVendorLogitech {
		return ErrInvalidDescriptor
	}
	if VendorInterfaceDescriptorSubtype(buf[2]) != VendorInterfaceDescriptorSubtypeExtensionUnit {
		return ErrInvalidDescriptor
	}
	return unmarshalExtensionUnitBody(&vud.ExtensionUnitDescriptor, buf)
}

// UnknownVendorInterfaceDescriptor acknowledges a vendor record with a
// subtype this package does not interpret.
type UnknownVendorInterfaceDescriptor struct {
	Subtype VendorInterfaceDescriptorSubtype
}

func (ud *UnknownVendorInterfaceDescriptor) isDescriptor() {}
