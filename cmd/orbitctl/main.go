// Command orbitctl moves the pan/tilt motors and switches the status LED of
// a Logitech QuickCam Orbit AF.
package main

import (
	"errors"
	"fmt"
	"os"

	orbit "github.com/orbitctl/go-orbit"
	"github.com/orbitctl/go-orbit/pkg/descriptors"
	"github.com/orbitctl/go-orbit/pkg/usbhost"
)

func usage() int {
	fmt.Fprint(os.Stderr, "usage: orbitctl cmd [opts ...]\n"+
		"  scan\n"+
		"  reset\n"+
		"  pan left | right\n"+
		"  tilt up | down\n"+
		"  led on | off | auto\n")
	return 1
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return usage()
	}

	var req *orbit.Request
	var cb orbit.ScanCallbacks
	switch args[0] {
	case "scan":
		if len(args) != 1 {
			return usage()
		}
		cb = scanCallbacks()
	case "reset":
		if len(args) != 1 {
			return usage()
		}
		req = orbit.PanTiltReset()
	case "pan":
		if len(args) != 2 {
			return usage()
		}
		switch args[1] {
		case "left":
			req = orbit.PanTiltRelative(1, 0)
		case "right":
			req = orbit.PanTiltRelative(-1, 0)
		default:
			return usage()
		}
	case "tilt":
		if len(args) != 2 {
			return usage()
		}
		switch args[1] {
		case "up":
			req = orbit.PanTiltRelative(0, 1)
		case "down":
			req = orbit.PanTiltRelative(0, -1)
		default:
			return usage()
		}
	case "led":
		if len(args) != 2 {
			return usage()
		}
		switch args[1] {
		case "on":
			req = orbit.LEDControl(orbit.LEDModeOn, 0)
		case "off":
			req = orbit.LEDControl(orbit.LEDModeOff, 0)
		case "auto":
			req = orbit.LEDControl(orbit.LEDModeAuto, 0)
		default:
			return usage()
		}
	default:
		return usage()
	}

	cam, err := orbit.FindCamera(usbhost.NewStack(), cb)
	if errors.Is(err, orbit.ErrDeviceNotFound) {
		fmt.Fprintln(os.Stderr, "No Logitech Orbit AF found")
		return 1
	}
	if errors.Is(err, orbit.ErrInterfaceNotFound) {
		fmt.Fprintln(os.Stderr, "No video interfaces found")
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failure: %v\n", err)
		return 1
	}
	defer cam.Close()

	if req != nil {
		if err := cam.Send(req); err != nil {
			fmt.Fprintf(os.Stderr, "Failure: %v\n", err)
			return 1
		}
	}
	return 0
}

func scanCallbacks() orbit.ScanCallbacks {
	return orbit.ScanCallbacks{
		OnDevice: func(vendor, product uint16) {
			fmt.Printf("found vendor 0x%04x product 0x%04x\n", vendor, product)
		},
		OnInterface: func(number uint8) {
			fmt.Printf("Video interface number is %d\n", number)
		},
		OnDescriptor: func(block []byte, desc descriptors.Descriptor) {
			fmt.Printf("Descriptor len=%d type=%d\n", block[0], block[1])
			printDescriptor(desc)
		},
	}
}

func printDescriptor(desc descriptors.Descriptor) {
	switch d := desc.(type) {
	case *descriptors.EndpointDescriptor:
		fmt.Println("  USB Endpoint")
	case *descriptors.HeaderDescriptor:
		fmt.Println("  VC Interface Header")
	case *descriptors.InputTerminalDescriptor:
		if d.IsCamera() {
			fmt.Printf("  VC Camera Terminal id=%d\n", d.TerminalID)
		} else {
			fmt.Printf("  VC Input Terminal id=%d\n", d.TerminalID)
		}
	case *descriptors.OutputTerminalDescriptor:
		fmt.Printf("  VC Output Terminal id=%d\n", d.TerminalID)
	case *descriptors.SelectorUnitDescriptor:
		fmt.Printf("  VC Selector Unit id=%d\n", d.UnitID)
	case *descriptors.ProcessingUnitDescriptor:
		fmt.Printf("  VC Processing Unit id=%d\n", d.UnitID)
	case *descriptors.VendorExtensionUnitDescriptor:
		fmt.Printf("  Logitech Extension Unit id=%d guid=%s\n", d.UnitID, d.GUID)
	case *descriptors.ExtensionUnitDescriptor:
		fmt.Printf("  VC Extension Unit id=%d guid=%s\n", d.UnitID, d.GUID)
	case *descriptors.InterruptEndpointDescriptor:
		fmt.Println("  VC Interrupt Endpoint")
	case *descriptors.UnknownControlInterfaceDescriptor:
		fmt.Println("  Unknown VC Interface subtype")
	case *descriptors.UnknownVendorInterfaceDescriptor:
		fmt.Println("  Unknown Logitech subtype")
	default:
		fmt.Println("  Unknown descriptor type")
	}
}
