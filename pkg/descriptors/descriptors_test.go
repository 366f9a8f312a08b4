package descriptors

import (
	"bytes"
	"io"
	"testing"
)

// wire-order GUID bytes of the Logitech motor extension unit
var motorGUIDWire = []byte{
	0x82, 0x06, 0x61, 0x63, 0x70, 0x50, 0xab, 0x49,
	0xb8, 0xcc, 0xb3, 0x85, 0x5e, 0x8d, 0x22, 0x56,
}

func extensionUnitBlock(descType byte, subtype byte, unitID byte, guid []byte) []byte {
	block := []byte{26, descType, subtype, unitID}
	block = append(block, guid...) // 4..19
	block = append(block,
		8,    // bNumControls
		1,    // bNrInPins
		2,    // baSourceID
		1,    // bControlSize
		0x0f, // bmControls
		0,    // iExtension
	)
	return block
}

func TestUnmarshalExtensionUnit(t *testing.T) {
	block := extensionUnitBlock(0x24, 0x06, 5, motorGUIDWire)

	desc, err := Unmarshal(block)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	eud, ok := desc.(*ExtensionUnitDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *ExtensionUnitDescriptor", desc)
	}
	if eud.UnitID != 5 {
		t.Errorf("UnitID = %d, want 5", eud.UnitID)
	}
	if got := eud.GUID.String(); got != "63610682-5070-49ab-b8cc-b3855e8d2256" {
		t.Errorf("GUID = %s, want 63610682-5070-49ab-b8cc-b3855e8d2256", got)
	}
	if eud.NumControls != 8 {
		t.Errorf("NumControls = %d, want 8", eud.NumControls)
	}
	if !bytes.Equal(eud.SourceIDs, []uint8{2}) {
		t.Errorf("SourceIDs = %v, want [2]", eud.SourceIDs)
	}
	if !bytes.Equal(eud.ControlsBitmask, []byte{0x0f}) {
		t.Errorf("ControlsBitmask = %x, want 0f", eud.ControlsBitmask)
	}
}

func TestUnmarshalVendorExtensionUnit(t *testing.T) {
	block := extensionUnitBlock(0x41, 0x01, 9, motorGUIDWire)

	desc, err := Unmarshal(block)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	vud, ok := desc.(*VendorExtensionUnitDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *VendorExtensionUnitDescriptor", desc)
	}
	if vud.UnitID != 9 {
		t.Errorf("UnitID = %d, want 9", vud.UnitID)
	}
	if got := vud.GUID.String(); got != "63610682-5070-49ab-b8cc-b3855e8d2256" {
		t.Errorf("GUID = %s, want 63610682-5070-49ab-b8cc-b3855e8d2256", got)
	}
}

func TestCopyGUIDIsAnInvolution(t *testing.T) {
	var once, twice [16]byte
	copyGUID(once[:], motorGUIDWire)
	copyGUID(twice[:], once[:])
	if !bytes.Equal(twice[:], motorGUIDWire) {
		t.Errorf("copyGUID applied twice = %x, want %x", twice, motorGUIDWire)
	}
}

func TestUnmarshalHeader(t *testing.T) {
	block := []byte{
		13, 0x24, 0x01,
		0x00, 0x01, // bcdUVC 1.00
		0x4d, 0x00, // wTotalLength
		0x80, 0xc3, 0xc9, 0x01, // dwClockFrequency 30MHz
		1, // bInCollection
		1, // baInterfaceNr(1)
	}

	desc, err := Unmarshal(block)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	hd, ok := desc.(*HeaderDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *HeaderDescriptor", desc)
	}
	if hd.UVC != 0x0100 {
		t.Errorf("UVC = %#04x, want 0x0100", hd.UVC)
	}
	if hd.TotalLength != 0x4d {
		t.Errorf("TotalLength = %d, want 77", hd.TotalLength)
	}
	if hd.ClockFrequency != 30000000 {
		t.Errorf("ClockFrequency = %d, want 30000000", hd.ClockFrequency)
	}
	if len(hd.VideoStreamingInterfaceNumbers) != 1 || hd.VideoStreamingInterfaceNumbers[0] != 1 {
		t.Errorf("VideoStreamingInterfaceNumbers = %v, want [1]", hd.VideoStreamingInterfaceNumbers)
	}
}

func TestUnmarshalCameraInputTerminal(t *testing.T) {
	block := []byte{8, 0x24, 0x02, 1, 0x01, 0x02, 0, 0}

	desc, err := Unmarshal(block)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	itd, ok := desc.(*InputTerminalDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *InputTerminalDescriptor", desc)
	}
	if itd.TerminalID != 1 {
		t.Errorf("TerminalID = %d, want 1", itd.TerminalID)
	}
	if !itd.IsCamera() {
		t.Errorf("IsCamera() = false for terminal type %#04x", uint16(itd.TerminalType))
	}
}

func TestUnmarshalEndpoint(t *testing.T) {
	block := []byte{7, 0x05, 0x83, 0x03, 0x10, 0x00, 0x08}

	desc, err := Unmarshal(block)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	ed, ok := desc.(*EndpointDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *EndpointDescriptor", desc)
	}
	if ed.Address != 0x83 || ed.MaxPacketSize != 16 || ed.Interval != 8 {
		t.Errorf("decoded endpoint = %+v", ed)
	}
}

func TestUnmarshalInterruptEndpoint(t *testing.T) {
	block := []byte{5, 0x25, 0x03, 0x10, 0x00}

	desc, err := Unmarshal(block)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	ied, ok := desc.(*InterruptEndpointDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *InterruptEndpointDescriptor", desc)
	}
	if ied.MaxTransferSize != 16 {
		t.Errorf("MaxTransferSize = %d, want 16", ied.MaxTransferSize)
	}
}

func TestUnmarshalUnknownTypesAreSkippedNotRejected(t *testing.T) {
	desc, err := Unmarshal([]byte{3, 0x30, 0x00})
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	ud, ok := desc.(*UnknownDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *UnknownDescriptor", desc)
	}
	if ud.Type != 0x30 {
		t.Errorf("Type = %#02x, want 0x30", byte(ud.Type))
	}

	desc, err = Unmarshal([]byte{4, 0x24, 0x42, 0x00})
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	uc, ok := desc.(*UnknownControlInterfaceDescriptor)
	if !ok {
		t.Fatalf("Unmarshal returned %T, want *UnknownControlInterfaceDescriptor", desc)
	}
	if uc.Subtype != 0x42 {
		t.Errorf("Subtype = %#02x, want 0x42", byte(uc.Subtype))
	}
}

func TestUnmarshalTruncatedExtensionUnit(t *testing.T) {
	block := extensionUnitBlock(0x24, 0x06, 5, motorGUIDWire)
	if _, err := Unmarshal(block[:20]); err != io.ErrShortBuffer {
		t.Errorf("Unmarshal(truncated) = %v, want io.ErrShortBuffer", err)
	}
}

func TestWalker(t *testing.T) {
	chain := append([]byte{}, []byte{3, 0x24, 0x01}...)
	chain = append(chain, []byte{7, 0x05, 0x83, 0x03, 0x10, 0x00, 0x08}...)
	chain = append(chain, []byte{5, 0x25, 0x03, 0x10, 0x00}...)

	w := NewWalker(chain)
	var lengths []int
	for block, ok := w.Next(); ok; block, ok = w.Next() {
		lengths = append(lengths, len(block))
	}
	if len(lengths) != 3 || lengths[0] != 3 || lengths[1] != 7 || lengths[2] != 5 {
		t.Errorf("walked lengths = %v, want [3 7 5]", lengths)
	}
	// the walk is not restartable
	if _, ok := w.Next(); ok {
		t.Error("Next() after exhaustion = true, want false")
	}
}

func TestWalkerStopsOnCorruptLength(t *testing.T) {
	w := NewWalker([]byte{3, 0x24, 0x01, 0xff, 0x05})
	if _, ok := w.Next(); !ok {
		t.Fatal("first record should parse")
	}
	if block, ok := w.Next(); ok {
		t.Errorf("Next() = %x, want termination on record length past buffer", block)
	}
}

func TestWalkerZeroLengthRecord(t *testing.T) {
	w := NewWalker([]byte{0, 0x24, 0x01})
	if block, ok := w.Next(); ok {
		t.Errorf("Next() = %x, want termination on zero-length record", block)
	}
}
