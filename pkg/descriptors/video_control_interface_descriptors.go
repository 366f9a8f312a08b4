// This file implements the control interface descriptors defined in the UVC
// spec 1.1, section 3.7.
package descriptors

import (
	"encoding"
	"encoding/binary"
	"io"

	"github.com/google/uuid"
)

// ControlInterface is a decoded class-specific (CS_INTERFACE) descriptor.
type ControlInterface interface {
	Descriptor
	encoding.BinaryUnmarshaler
	isControlInterface()
}

// UnmarshalControlInterface decodes one CS_INTERFACE record, dispatching on
// its subtype tag.
func UnmarshalControlInterface(buf []byte) (ControlInterface, error) {
	if len(buf) < 3 {
		return nil, io.ErrShortBuffer
	}
	var desc ControlInterface
	switch VideoControlInterfaceDescriptorSubtype(buf[2]) {
	case VideoControlInterfaceDescriptorSubtypeHeader:
		desc = &HeaderDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeInputTerminal:
		desc = &InputTerminalDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeOutputTerminal:
		desc = &OutputTerminalDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeSelectorUnit:
		desc = &SelectorUnitDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeProcessingUnit:
		desc = &ProcessingUnitDescriptor{}
	case VideoControlInterfaceDescriptorSubtypeExtensionUnit:
		desc = &ExtensionUnitDescriptor{}
	default:
		desc = &UnknownControlInterfaceDescriptor{}
	}
	return desc, desc.UnmarshalBinary(buf)
}

type VideoControlInterfaceDescriptorSubtype byte

const (
	VideoControlInterfaceDescriptorSubtypeUndefined      VideoControlInterfaceDescriptorSubtype = 0x00
	VideoControlInterfaceDescriptorSubtypeHeader         VideoControlInterfaceDescriptorSubtype = 0x01
	VideoControlInterfaceDescriptorSubtypeInputTerminal  VideoControlInterfaceDescriptorSubtype = 0x02
	VideoControlInterfaceDescriptorSubtypeOutputTerminal VideoControlInterfaceDescriptorSubtype = 0x03
	VideoControlInterfaceDescriptorSubtypeSelectorUnit   VideoControlInterfaceDescriptorSubtype = 0x04
	VideoControlInterfaceDescriptorSubtypeProcessingUnit VideoControlInterfaceDescriptorSubtype = 0x05
	VideoControlInterfaceDescriptorSubtypeExtensionUnit  VideoControlInterfaceDescriptorSubtype = 0x06
)

type InputTerminalType uint16

const (
	InputTerminalTypeVendorSpecific InputTerminalType = 0x0200
	InputTerminalTypeCamera         InputTerminalType = 0x0201
)

// UnknownControlInterfaceDescriptor acknowledges a CS_INTERFACE record with
// a subtype this package does not interpret.
type UnknownControlInterfaceDescriptor struct {
	Subtype VideoControlInterfaceDescriptorSubtype
}

func (ud *UnknownControlInterfaceDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 3 {
		return io.ErrShortBuffer
	}
	ud.Subtype = VideoControlInterfaceDescriptorSubtype(buf[2])
	return nil
}

func (ud *UnknownControlInterfaceDescriptor) isDescriptor()       {}
func (ud *UnknownControlInterfaceDescriptor) isControlInterface() {}

// HeaderDescriptor as defined in UVC spec 1.1, 3.7.2.
type HeaderDescriptor struct {
	UVC                            uint16
	TotalLength                    uint16
	ClockFrequency                 uint32
	VideoStreamingInterfaceNumbers []uint8
}

func (hd *HeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 12 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if err := checkControlInterface(buf, VideoControlInterfaceDescriptorSubtypeHeader); err != nil {
		return err
	}
	hd.UVC = binary.LittleEndian.Uint16(buf[3:5])
	hd.TotalLength = binary.LittleEndian.Uint16(buf[5:7])
	hd.ClockFrequency = binary.LittleEndian.Uint32(buf[7:11])
	n := int(buf[11])
	if len(buf) < 12+n {
		return io.ErrShortBuffer
	}
	hd.VideoStreamingInterfaceNumbers = append([]uint8(nil), buf[12:12+n]...)
	return nil
}

func (hd *HeaderDescriptor) isDescriptor()       {}
func (hd *HeaderDescriptor) isControlInterface() {}

// InputTerminalDescriptor as defined in UVC spec 1.1, 3.7.2.1.
type InputTerminalDescriptor struct {
	TerminalID           uint8
	TerminalType         InputTerminalType
	AssociatedTerminalID uint8
	DescriptionIndex     uint8
}

func (itd *InputTerminalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 8 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if err := checkControlInterface(buf, VideoControlInterfaceDescriptorSubtypeInputTerminal); err != nil {
		return err
	}
	itd.TerminalID = buf[3]
	itd.TerminalType = InputTerminalType(binary.LittleEndian.Uint16(buf[4:6]))
	itd.AssociatedTerminalID = buf[6]
	itd.DescriptionIndex = buf[7]
	return nil
}

// IsCamera reports whether the terminal is a camera sensor (ITT_CAMERA).
func (itd *InputTerminalDescriptor) IsCamera() bool {
	return itd.TerminalType == InputTerminalTypeCamera
}

func (itd *InputTerminalDescriptor) isDescriptor()       {}
func (itd *InputTerminalDescriptor) isControlInterface() {}

// OutputTerminalDescriptor as defined in UVC spec 1.1, 3.7.2.2.
type OutputTerminalDescriptor struct {
	TerminalID           uint8
	TerminalType         uint16
	AssociatedTerminalID uint8
	SourceID             uint8
}

func (otd *OutputTerminalDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 8 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if err := checkControlInterface(buf, VideoControlInterfaceDescriptorSubtypeOutputTerminal); err != nil {
		return err
	}
	otd.TerminalID = buf[3]
	otd.TerminalType = binary.LittleEndian.Uint16(buf[4:6])
	otd.AssociatedTerminalID = buf[6]
	otd.SourceID = buf[7]
	return nil
}

func (otd *OutputTerminalDescriptor) isDescriptor()       {}
func (otd *OutputTerminalDescriptor) isControlInterface() {}

// SelectorUnitDescriptor as defined in UVC spec 1.1, 3.7.2.4.
type SelectorUnitDescriptor struct {
	UnitID           uint8
	SourceIDs        []uint8
	DescriptionIndex uint8
}

func (sud *SelectorUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 5 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if err := checkControlInterface(buf, VideoControlInterfaceDescriptorSubtypeSelectorUnit); err != nil {
		return err
	}
	sud.UnitID = buf[3]
	p := int(buf[4])
	if len(buf) < 6+p {
		return io.ErrShortBuffer
	}
	sud.SourceIDs = append([]uint8(nil), buf[5:5+p]...)
	sud.DescriptionIndex = buf[5+p]
	return nil
}

func (sud *SelectorUnitDescriptor) isDescriptor()       {}
func (sud *SelectorUnitDescriptor) isControlInterface() {}

// ProcessingUnitDescriptor as defined in UVC spec 1.1, 3.7.2.5.
type ProcessingUnitDescriptor struct {
	UnitID           uint8
	SourceID         uint8
	MaxMultiplier    uint16
	ControlsBitmask  []byte
	DescriptionIndex uint8
}

func (pud *ProcessingUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 8 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if err := checkControlInterface(buf, VideoControlInterfaceDescriptorSubtypeProcessingUnit); err != nil {
		return err
	}
	pud.UnitID = buf[3]
	pud.SourceID = buf[4]
	pud.MaxMultiplier = binary.LittleEndian.Uint16(buf[5:7])
	n := int(buf[7])
	if len(buf) < 9+n {
		return io.ErrShortBuffer
	}
	pud.ControlsBitmask = append([]byte(nil), buf[8:8+n]...)
	pud.DescriptionIndex = buf[8+n]
	return nil
}

func (pud *ProcessingUnitDescriptor) isDescriptor()       {}
func (pud *ProcessingUnitDescriptor) isControlInterface() {}

// ExtensionUnitDescriptor as defined in UVC spec 1.1, 3.7.2.7. The GUID is
// stored in RFC 4122 byte order after the UVC field swap.
type ExtensionUnitDescriptor struct {
	UnitID           uint8
	GUID             uuid.UUID
	NumControls      uint8
	SourceIDs        []uint8
	ControlsBitmask  []byte
	DescriptionIndex uint8
}

func (eud *ExtensionUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkControlInterface(buf, VideoControlInterfaceDescriptorSubtypeExtensionUnit); err != nil {
		return err
	}
	return unmarshalExtensionUnitBody(eud, buf)
}

func (eud *ExtensionUnitDescriptor) isDescriptor()       {}
func (eud *ExtensionUnitDescriptor) isControlInterface() {}

// unmarshalExtensionUnitBody decodes the extension unit layout shared by the
// standard and the Logitech vendor variant.
func unmarshalExtensionUnitBody(eud *ExtensionUnitDescriptor, buf []byte) error {
	if len(buf) < 24 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	eud.UnitID = buf[3]
	copyGUID(eud.GUID[:], buf[4:20])
	eud.NumControls = buf[20]
	p := int(buf[21])
	if len(buf) < 23+p {
		return io.ErrShortBuffer
	}
	eud.SourceIDs = append([]uint8(nil), buf[22:22+p]...)
	n := int(buf[22+p])
	if len(buf) < 24+p+n {
		return io.ErrShortBuffer
	}
	eud.ControlsBitmask = append([]byte(nil), buf[23+p:23+p+n]...)
	eud.DescriptionIndex = buf[23+p+n]
	return nil
}

func checkControlInterface(buf []byte, subtype VideoControlInterfaceDescriptorSubtype) error {
	if DescriptorType(buf[1]) != DescriptorTypeClassSpecificInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != subtype {
		return ErrInvalidDescriptor
	}
	return nil
}
