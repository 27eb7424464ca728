package main

import (
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/chabad360/osc2midi/midiout"
)

// midiSystem is the MIDI backend outputs are drawn from.
type midiSystem interface {
	midiout.Enumerator
	OpenVirtual(name string) (midiout.Conn, error)
	Close() error
}

type rtmidiSystem struct {
	midiout.Enumerator
	drv *rtmididrv.Driver
}

func openRtmidi() (midiSystem, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, errors.Wrap(err, "opening rtmidi")
	}
	return &rtmidiSystem{Enumerator: midiout.NewEnumerator(drv), drv: drv}, nil
}

func (s *rtmidiSystem) OpenVirtual(name string) (midiout.Conn, error) {
	return midiout.OpenVirtual(s.drv, name)
}

func (s *rtmidiSystem) Close() error {
	return s.drv.Close()
}
