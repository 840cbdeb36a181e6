package boxbulk

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ContinuePrompt is shown between the pages of an interactive listing.
const ContinuePrompt = "Press Enter to continue, or type q and press Enter to quit."

// QuitInput is the prompt input that stops an interactive listing.
const QuitInput = "q"

// IsQuit reports whether the prompt input asks to stop, ignoring case and surrounding spaces.
func IsQuit(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), QuitInput)
}

// Prompter asks the user for a line of input. It returns io.EOF once the input is exhausted.
type Prompter interface {
	Prompt(message string) (string, error)
}

// NewLinePrompter returns a Prompter writing messages to out and reading answers from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// LinePrompter reads one line per prompt.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// Prompt writes the message and reads the answer line without the line break. A last line
// without a line break is returned as is; io.EOF is returned only when nothing is left.
func (p *LinePrompter) Prompt(message string) (string, error) {
	if _, err := fmt.Fprintln(p.out, message); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
