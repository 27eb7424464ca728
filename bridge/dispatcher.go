package bridge

import (
	"strings"

	"github.com/chabad360/osc2midi/osc"
	"github.com/pkg/errors"
	log "github.com/schollz/logger"
)

// NoteAddress is the OSC address that plays a note.
const NoteAddress = "/note"

// ErrMalformedMessage is returned for a recognized address whose arguments
// don't fit it.
var ErrMalformedMessage = errors.New("bridge: malformed message")

// Method is an interface for OSC Methods.
type Method interface {
	Command(msg *osc.Message) (Command, error)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *osc.Message) (Command, error)

// Command calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) Command(msg *osc.Message) (Command, error) {
	return f(msg)
}

// Dispatcher maps messages to Commands by exact address.
type Dispatcher struct {
	methods map[string]Method
}

// NewDispatcher returns a Dispatcher that knows the /note method.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{}
	if err := d.AddMethodFunc(NoteAddress, playNote); err != nil {
		panic(err)
	}
	return d
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if !strings.HasPrefix(addr, "/") {
		return errors.Errorf("AddMethod: OSC Method %q must start with '/'", addr)
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return errors.Errorf("AddMethod: OSC Method %q may not contain any characters in \"*?,[]{}# \"", addr)
	}

	if _, ok := d.methods[addr]; ok {
		return errors.Errorf("AddMethod: OSC Method %q exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch returns the Command for packet. Bundles and unknown addresses
// yield neither a Command nor an error; bundle contents are not expanded.
func (d *Dispatcher) Dispatch(packet osc.Packet) (Command, error) {
	switch p := packet.(type) {
	default:
		return nil, errors.Errorf("dispatch: invalid Packet: %T", p)

	case *osc.Message:
		method, ok := d.methods[p.Address]
		if !ok {
			log.Infof("unknown message received: %s", p.Address)
			return nil, nil
		}
		return method.Command(p)

	case *osc.Bundle:
		log.Debugf("ignoring bundle with %d elements, due in %v", len(p.Elements), p.Timetag.ExpiresIn())
		return nil, nil
	}
}

// playNote reads /note <note> <velocity>.
func playNote(msg *osc.Message) (Command, error) {
	if len(msg.Arguments) < 2 {
		return nil, errors.Wrapf(ErrMalformedMessage, "%s needs 2 arguments, got %d", msg.Address, len(msg.Arguments))
	}

	note, err := msg.Float(0)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedMessage, "%s note: %v", msg.Address, err)
	}

	velocity, err := msg.Float(1)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedMessage, "%s velocity: %v", msg.Address, err)
	}

	return PlayNote{Note: DataByte(note), Velocity: DataByte(velocity)}, nil
}
