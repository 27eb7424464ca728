package midiout

import (
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// PromptChooser asks on the terminal which output to use.
type PromptChooser struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Choose runs an arrow-key selection over names.
func (p PromptChooser) Choose(names []string) (int, error) {
	items := make([]string, len(names))
	for i, name := range names {
		items[i] = fmt.Sprintf("%d: %s", i, name)
	}

	sel := promptui.Select{
		Label:  "Please select output port",
		Items:  items,
		Size:   len(items),
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	i, _, err := sel.Run()
	return i, err
}
