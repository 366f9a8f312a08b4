package descriptors

type ClassCode byte

const (
	ClassCodeVideo ClassCode = 0x0E
)

type SubclassCode byte

const (
	SubclassCodeUndefined    SubclassCode = 0x00
	SubclassCodeVideoControl SubclassCode = 0x01
)

// DescriptorType is the 1-byte type tag following each record's length byte.
type DescriptorType byte

const (
	DescriptorTypeInterface              DescriptorType = 0x04
	DescriptorTypeEndpoint               DescriptorType = 0x05
	DescriptorTypeClassSpecificInterface DescriptorType = 0x24
	DescriptorTypeClassSpecificEndpoint  DescriptorType = 0x25

	// DescriptorTypeVendorLogitech tags Logitech's vendor-specific
	// descriptors on the video control interface.
	DescriptorTypeVendorLogitech DescriptorType = 0x41
)
