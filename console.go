package boxbulk

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

var (
	successStyle     = color.New(color.FgGreen, color.OpBold)
	errorStyle       = color.New(color.FgRed, color.OpBold)
	warningStyle     = color.New(color.FgYellow)
	informationStyle = color.New(color.FgCyan)
	dataStyle        = color.New(color.FgWhite)
)

// ConsoleOpt is a type that modifies the default Console behaviour.
type ConsoleOpt func(c *Console)

// ConsoleWithNoColor disables colors.
var ConsoleWithNoColor = func() ConsoleOpt {
	return func(c *Console) {
		c.noColor = true
	}
}

// ConsoleWithPrefix prefixes every line with its level, e.g. "ERROR: ".
var ConsoleWithPrefix = func() ConsoleOpt {
	return func(c *Console) {
		c.prefix = true
	}
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, opts ...ConsoleOpt) *Console {
	c := &Console{out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Console writes the user facing progress of runs. Lines are written as soon as they are
// produced.
type Console struct {
	out     io.Writer
	noColor bool
	prefix  bool
}

// WriteSuccess writes a success line.
func (c *Console) WriteSuccess(msg string) {
	c.writeLine(successStyle, "SUCCESS: ", msg)
}

// WriteError writes an error line.
func (c *Console) WriteError(msg string) {
	c.writeLine(errorStyle, "ERROR: ", msg)
}

// WriteWarning writes a warning line.
func (c *Console) WriteWarning(msg string) {
	c.writeLine(warningStyle, "WARNING: ", msg)
}

// WriteInformation writes an information line.
func (c *Console) WriteInformation(msg string) {
	c.writeLine(informationStyle, "INFO: ", msg)
}

// WriteData writes a data line.
func (c *Console) WriteData(msg string) {
	c.writeLine(dataStyle, "", msg)
}

// WriteJSON writes v as indented JSON.
func (c *Console) WriteJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}

// PrintRecord renders the non-empty reportable fields of the record, one per line, followed by
// a separator line.
func (c *Console) PrintRecord(record Record) {
	row := record.ToRow()
	for _, column := range row.Columns() {
		if v := row.Value(column); v != "" {
			c.WriteData(fmt.Sprintf("%s: %s", columnLabel(column), v))
		}
	}
	c.WriteData("----------------------------------")
}

func (c *Console) writeLine(style color.Style, prefix, msg string) {
	if c.prefix {
		msg = prefix + msg
	}
	if !c.noColor {
		msg = style.Sprint(msg)
	}
	fmt.Fprintln(c.out, msg)
}

// columnLabel turns "owned_by_login" into "Owned By Login".
func columnLabel(column string) string {
	words := strings.Split(column, "_")
	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
			continue
		}
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
