// Command osc2midi plays OSC /note messages received over UDP on a MIDI
// output.
//
//	osc2midi [--port NAME|INDEX] [--virtual NAME] [--channel N] IP:PORT
//	osc2midi ports
//	osc2midi send IP:PORT NOTE VELOCITY
package main

import (
	"os"

	log "github.com/schollz/logger"

	"github.com/chabad360/osc2midi/midiout"
)

func main() {
	app := newApp(openRtmidi, midiout.PromptChooser{})
	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(exitUsage)
	}
}
