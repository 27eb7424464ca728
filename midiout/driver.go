package midiout

import (
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Outputs is the part of a gomidi driver that lists output ports.
type Outputs interface {
	Outs() ([]drivers.Out, error)
}

type driverEnumerator struct {
	drv Outputs
}

// NewEnumerator returns an Enumerator over the output ports of drv.
func NewEnumerator(drv Outputs) Enumerator {
	return &driverEnumerator{drv: drv}
}

func (d *driverEnumerator) Names() ([]string, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

func (d *driverEnumerator) Open(i int) (Conn, error) {
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(outs) {
		return nil, errors.Wrapf(ErrInvalidSelection, "index %d, have %d ports", i, len(outs))
	}

	out := outs[i]
	if err := out.Open(); err != nil {
		return nil, err
	}
	return out, nil
}

// VirtualOutputs is implemented by drivers that can create ports, such as
// rtmididrv.
type VirtualOutputs interface {
	OpenVirtualOut(name string) (drivers.Out, error)
}

// OpenVirtual creates an output port called name that other programs can
// connect to.
func OpenVirtual(drv VirtualOutputs, name string) (Conn, error) {
	if name == "" {
		return nil, errors.New("OpenVirtual: empty port name")
	}
	out, err := drv.OpenVirtualOut(name)
	if err != nil {
		return nil, errors.Wrapf(err, "creating virtual output %q", name)
	}
	return out, nil
}
