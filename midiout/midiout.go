// Package midiout finds and opens the MIDI output the bridge writes to.
//
// Selection goes through two small interfaces, Enumerator and Chooser, so
// the logic runs the same against a real driver, a prompt, or test fakes.
package midiout

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoOutputs is returned when the system has no MIDI outputs.
	ErrNoOutputs = errors.New("midiout: no output port found")
	// ErrInvalidSelection is returned when a preference or a choice does
	// not name an available output.
	ErrInvalidSelection = errors.New("midiout: invalid output port selected")
)

// Conn is an open MIDI output.
type Conn interface {
	Send(msg []byte) error
	Close() error
}

// Enumerator lists the available outputs and opens one by index.
type Enumerator interface {
	Names() ([]string, error)
	Open(i int) (Conn, error)
}

// Chooser picks one of several output names and returns its index.
type Chooser interface {
	Choose(names []string) (int, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(names []string) (int, error)

// Choose calls f(names).
func (f ChooserFunc) Choose(names []string) (int, error) {
	return f(names)
}

// Select opens an output from e and returns it with its name.
//
// A non-empty pref is resolved first, either as an index or as a
// case-insensitive substring of a name. Otherwise a lone output is taken as
// is and several are handed to ch. Status lines are written to w.
func Select(e Enumerator, pref string, ch Chooser, w io.Writer) (Conn, string, error) {
	names, err := e.Names()
	if err != nil {
		return nil, "", errors.Wrap(err, "listing MIDI outputs")
	}

	var i int
	switch {
	case len(names) == 0:
		return nil, "", ErrNoOutputs

	case pref != "":
		if i, err = resolve(names, pref); err != nil {
			return nil, "", err
		}
		fmt.Fprintf(w, "Choosing output port %d: %s\n", i, names[i])

	case len(names) == 1:
		fmt.Fprintf(w, "Choosing the only available output port: %s\n", names[0])

	default:
		fmt.Fprintln(w, "\nAvailable output ports:")
		List(w, names)
		if ch == nil {
			return nil, "", errors.Wrap(ErrInvalidSelection, "several outputs and no way to choose")
		}
		if i, err = ch.Choose(names); err != nil {
			return nil, "", errors.Wrap(err, "choosing output port")
		}
		if i < 0 || i >= len(names) {
			return nil, "", errors.Wrapf(ErrInvalidSelection, "index %d, have %d ports", i, len(names))
		}
	}

	fmt.Fprintln(w, "\nOpening connection")
	conn, err := e.Open(i)
	if err != nil {
		return nil, "", errors.Wrapf(err, "opening %s", names[i])
	}
	fmt.Fprintln(w, "Connection open. Listen!")

	return conn, names[i], nil
}

// List writes one "index: name" line per output.
func List(w io.Writer, names []string) {
	for i, name := range names {
		fmt.Fprintf(w, "%d: %s\n", i, name)
	}
}

func resolve(names []string, pref string) (int, error) {
	if i, err := strconv.Atoi(pref); err == nil {
		if i < 0 || i >= len(names) {
			return 0, errors.Wrapf(ErrInvalidSelection, "index %d, have %d ports", i, len(names))
		}
		return i, nil
	}

	want := strings.ToLower(pref)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), want) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidSelection, "no port matches %q", pref)
}
