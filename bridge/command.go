// Package bridge turns OSC packets into MIDI output: it dispatches decoded
// messages to Commands, emits Commands as MIDI bytes, and runs the UDP loop
// that ties both together.
package bridge

import (
	"fmt"
	"math"
)

// maxDataByte is the largest value a MIDI data byte can hold.
const maxDataByte = 127

// Command is an action produced by a recognized OSC message.
type Command interface {
	fmt.Stringer
	command()
}

// PlayNote starts a note. It maps to a single MIDI Note-On.
type PlayNote struct {
	Note     uint8
	Velocity uint8
}

func (PlayNote) command() {}

func (p PlayNote) String() string {
	return fmt.Sprintf("PlayNote{note: %d, velocity: %d}", p.Note, p.Velocity)
}

// DataByte converts a continuous control value into a MIDI data byte. The
// value is clamped to [0, 127] and then truncated toward zero. NaN maps to 0.
func DataByte(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= maxDataByte:
		return maxDataByte
	}
	return uint8(v)
}
