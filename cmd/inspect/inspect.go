// Command inspect is an interactive browser for the Orbit AF's video control
// interface: it lists the descriptor chain and offers the motor and LED
// controls as a menu.
package main

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	orbit "github.com/orbitctl/go-orbit"
	"github.com/orbitctl/go-orbit/pkg/descriptors"
	"github.com/orbitctl/go-orbit/pkg/usbhost"
)

func main() {
	app := tview.NewApplication()

	descriptorList := tview.NewList().ShowSecondaryText(true)
	descriptorList.SetBorder(true).SetTitle("Descriptors")

	controls := tview.NewList().ShowSecondaryText(false)
	controls.SetBorder(true).SetTitle("Controls")

	logText := tview.NewTextView()
	logText.SetMaxLines(10).SetBorder(true).SetTitle("Log")

	log.SetOutput(logText)

	cam, err := orbit.FindCamera(usbhost.NewStack(), orbit.ScanCallbacks{
		OnDevice: func(vendor, product uint16) {
			log.Printf("found vendor 0x%04x product 0x%04x", vendor, product)
		},
		OnInterface: func(number uint8) {
			log.Printf("video interface number is %d", number)
		},
		OnDescriptor: func(block []byte, desc descriptors.Descriptor) {
			descriptorList.AddItem(descriptorTitle(desc), fmt.Sprintf("len=%d type=0x%02x", block[0], block[1]), 0, nil)
		},
	})
	if err != nil {
		panic(err)
	}
	defer cam.Close()

	send := func(name string, req *orbit.Request) func() {
		return func() {
			if err := cam.Send(req); err != nil {
				log.Printf("%s failed: %s", name, err)
				return
			}
			log.Printf("%s ok", name)
		}
	}

	controls.AddItem("Pan Left", "", 0, send("pan left", orbit.PanTiltRelative(1, 0)))
	controls.AddItem("Pan Right", "", 0, send("pan right", orbit.PanTiltRelative(-1, 0)))
	controls.AddItem("Tilt Up", "", 0, send("tilt up", orbit.PanTiltRelative(0, 1)))
	controls.AddItem("Tilt Down", "", 0, send("tilt down", orbit.PanTiltRelative(0, -1)))
	controls.AddItem("Reset", "", 0, send("reset", orbit.PanTiltReset()))
	controls.AddItem("LED On", "", 0, send("led on", orbit.LEDControl(orbit.LEDModeOn, 0)))
	controls.AddItem("LED Off", "", 0, send("led off", orbit.LEDControl(orbit.LEDModeOff, 0)))
	controls.AddItem("LED Auto", "", 0, send("led auto", orbit.LEDControl(orbit.LEDModeAuto, 0)))
	// 20 * 0.05 Hz = 1 Hz
	controls.AddItem("LED Blink 1Hz", "", 0, send("led blink", orbit.LEDControl(orbit.LEDModeBlinking, 20)))

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return event
	})

	flex := tview.NewFlex().
		AddItem(descriptorList, 0, 2, false).
		AddItem(controls, 0, 1, true)

	if err := app.SetRoot(tview.NewFlex().SetDirection(tview.FlexRow).AddItem(flex, 0, 1, true).AddItem(logText, 10, 0, false), true).Run(); err != nil {
		panic(err)
	}
}

func descriptorTitle(desc descriptors.Descriptor) string {
	switch d := desc.(type) {
	case *descriptors.HeaderDescriptor:
		return fmt.Sprintf("Header (UVC %x.%02x)", d.UVC>>8, d.UVC&0xff)
	case *descriptors.InputTerminalDescriptor:
		if d.IsCamera() {
			return fmt.Sprintf("Camera Terminal %d", d.TerminalID)
		}
		return fmt.Sprintf("Input Terminal %d", d.TerminalID)
	case *descriptors.OutputTerminalDescriptor:
		return fmt.Sprintf("Output Terminal %d", d.TerminalID)
	case *descriptors.SelectorUnitDescriptor:
		return fmt.Sprintf("Selector Unit %d", d.UnitID)
	case *descriptors.ProcessingUnitDescriptor:
		return fmt.Sprintf("Processing Unit %d", d.UnitID)
	case *descriptors.VendorExtensionUnitDescriptor:
		return fmt.Sprintf("Logitech Extension Unit %d (%s)", d.UnitID, d.GUID)
	case *descriptors.ExtensionUnitDescriptor:
		return fmt.Sprintf("Extension Unit %d (%s)", d.UnitID, d.GUID)
	case *descriptors.EndpointDescriptor:
		return fmt.Sprintf("Endpoint 0x%02x", d.Address)
	case *descriptors.InterruptEndpointDescriptor:
		return "Interrupt Endpoint"
	default:
		return "Unknown"
	}
}
