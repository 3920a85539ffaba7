package main

import (
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"genseq/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "probe":
		if len(os.Args) < 4 {
			usage()
			return
		}
		err = probe(os.Args[2], os.Args[3])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                 - List MIDI ports and serial devices")
	fmt.Println("  probe serial DEVICE  - Play a C major arpeggio on a UART")
	fmt.Println("  probe port NAME      - Play a C major arpeggio on a MIDI output port")
}

func listPorts() error {
	fmt.Println("=== MIDI Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ports, err := midi.Scan(midi.DefaultScanTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}
	fmt.Println("in:")
	for i, name := range ports.InPortNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("out:")
	for i, name := range ports.OutPortNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}

	fmt.Println("\n=== Serial Devices ===")
	devices, err := midi.SerialPorts()
	if err != nil {
		return err
	}
	for _, d := range devices {
		fmt.Printf("  %s\n", d)
	}
	return nil
}

func probe(kind, name string) error {
	var (
		out   midi.Emitter
		closeOut func()
	)
	switch kind {
	case "serial":
		s, err := midi.OpenSerial(name, midi.BaudRate)
		if err != nil {
			return err
		}
		out, closeOut = s, func() { s.Close() }
	case "port":
		p, err := midi.OpenOutPort(name, midi.DefaultScanTimeout)
		if err != nil {
			return err
		}
		out, closeOut = p, func() { gomidi.CloseDriver() }
	default:
		return fmt.Errorf("unknown output %q: want serial or port", kind)
	}
	defer closeOut()

	for _, key := range []uint8{60, 64, 67, 72} {
		fmt.Printf("note %d\n", key)
		if err := midi.Emit(out, gomidi.NoteOn(0, key, 100)); err != nil {
			return err
		}
		time.Sleep(200 * time.Millisecond)
		if err := midi.Emit(out, gomidi.NoteOff(0, key)); err != nil {
			return err
		}
	}
	return nil
}
