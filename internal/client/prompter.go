package client

import "github.com/peterh/liner"

// NewLinerPrompter returns a [Prompter] on the controlling terminal. Ctrl+C
// aborts the current prompt.
func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}
