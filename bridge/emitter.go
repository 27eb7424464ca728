package bridge

import (
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
)

// maxChannel is the last of the 16 MIDI channels, counted from 0.
const maxChannel = 15

// ErrEmit is returned when a Command can't be written to the output.
var ErrEmit = errors.New("bridge: emit failed")

// Output is an open MIDI destination. gomidi's drivers.Out satisfies it.
type Output interface {
	Send(msg []byte) error
}

// Emitter writes Commands to an Output as raw MIDI messages.
type Emitter struct {
	out     Output
	channel uint8
}

// NewEmitter returns an Emitter writing to out on the given channel (0-15).
func NewEmitter(out Output, channel uint8) (*Emitter, error) {
	if out == nil {
		return nil, errors.New("NewEmitter: output is nil")
	}
	if channel > maxChannel {
		return nil, errors.Errorf("NewEmitter: channel %d out of range 0-%d", channel, maxChannel)
	}
	return &Emitter{out: out, channel: channel}, nil
}

// Emit writes cmd to the output. PlayNote becomes a single 3-byte Note-On;
// no Note-Off is ever sent on its behalf.
func (e *Emitter) Emit(cmd Command) error {
	switch c := cmd.(type) {
	case PlayNote:
		msg := midi.NoteOn(e.channel, c.Note, c.Velocity)
		if err := e.out.Send(msg); err != nil {
			return errors.Wrapf(ErrEmit, "sending % X: %v", []byte(msg), err)
		}
		return nil

	default:
		return errors.Wrapf(ErrEmit, "unsupported command %T", cmd)
	}
}
