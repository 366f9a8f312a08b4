// Package requests encodes the wValue/wIndex fields and request codes used
// by UVC class-specific control requests (UVC spec 1.1, section 4).
package requests

type RequestType uint8

const (
	RequestTypeVideoInterfaceSetRequest RequestType = 0b00100001
	RequestTypeVideoInterfaceGetRequest RequestType = 0b10100001
)

type RequestCode uint8

const (
	RequestCodeUndefined RequestCode = 0x00
	RequestCodeSetCur    RequestCode = 0x01
	RequestCodeGetCur    RequestCode = 0x81
	RequestCodeGetMin    RequestCode = 0x82
	RequestCodeGetMax    RequestCode = 0x83
	RequestCodeGetLen    RequestCode = 0x85
	RequestCodeGetInfo   RequestCode = 0x86
	RequestCodeGetDef    RequestCode = 0x87
)

// Value packs a control selector into the wValue field.
func Value(selector uint8) uint16 {
	return uint16(selector) << 8
}

// Index packs an entity (terminal or unit) id and interface number into the
// wIndex field.
func Index(entityID, interfaceNumber uint8) uint16 {
	return uint16(entityID)<<8 | uint16(interfaceNumber)
}
