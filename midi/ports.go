package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.bug.st/serial"

	"genseq/debug"
)

var (
	// ErrDriverHung is returned when the OS MIDI driver does not answer a port
	// scan in time. On macOS: sudo killall coreaudiod midiserver
	ErrDriverHung = errors.New("midi driver did not respond")

	// ErrPortNotFound is returned when no output port matches a name.
	ErrPortNotFound = errors.New("midi output port not found")
)

// DefaultScanTimeout bounds a port scan.
const DefaultScanTimeout = 3 * time.Second

// Ports lists the available input and output ports.
type Ports struct {
	In  []drivers.In
	Out []drivers.Out
}

// Scan asks the driver for its ports. CoreMIDI can hang indefinitely, so the
// query runs on its own goroutine and is abandoned after timeout.
func Scan(timeout time.Duration) (Ports, error) {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{In: gomidi.GetInPorts(), Out: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		debug.Log("midi", "scan: %d in, %d out", len(p.In), len(p.Out))
		return p, nil
	case <-time.After(timeout):
		return Ports{}, fmt.Errorf("scan after %s: %w", timeout, ErrDriverHung)
	}
}

// OutPortNames returns the names of the output ports.
func (p Ports) OutPortNames() []string {
	names := make([]string, len(p.Out))
	for i, o := range p.Out {
		names[i] = o.String()
	}
	return names
}

// InPortNames returns the names of the input ports.
func (p Ports) InPortNames() []string {
	names := make([]string, len(p.In))
	for i, in := range p.In {
		names[i] = in.String()
	}
	return names
}

// FindOut returns the first output port whose name contains name, ignoring
// case. An exact match wins over a substring match. An empty name picks the
// first port.
func (p Ports) FindOut(name string) (drivers.Out, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" && len(p.Out) > 0 {
		return p.Out[0], nil
	}
	var partial drivers.Out
	for _, o := range p.Out {
		got := strings.ToLower(o.String())
		if got == want {
			return o, nil
		}
		if partial == nil && want != "" && strings.Contains(got, want) {
			partial = o
		}
	}
	if partial != nil {
		return partial, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrPortNotFound)
}

// OpenOutPort scans and opens the output port matching name.
func OpenOutPort(name string, timeout time.Duration) (*PortEmitter, error) {
	ports, err := Scan(timeout)
	if err != nil {
		return nil, err
	}
	out, err := ports.FindOut(name)
	if err != nil {
		return nil, err
	}
	debug.Info("midi", "using output port %s", out.String())
	return NewPortEmitter(out)
}

// SerialPorts lists the serial devices present on the system.
func SerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
