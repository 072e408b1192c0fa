// https://github.com/coder/coder/blob/main/LICENSE
// Extracted and modified from github.com/coder/coder
package waymark

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// Example pairs a one-line description with the command that
// demonstrates it, for use in a CommandModule's long-form help text.
type Example struct {
	Description string
	Command     string
}

// FormatExamples renders examples as wrapped bullet descriptions with
// the command underneath, for embedding in a CommandModule's
// Description.
func FormatExamples(examples ...Example) string {
	var sb strings.Builder

	for i, e := range examples {
		if e.Description != "" {
			sb.WriteString("  - " + DefaultStyles.Wrap.Render(wordwrap.WrapString(e.Description, 80)+":") + "\n\n    ")
		}
		sb.WriteString(" " + Code(fmt.Sprintf("$ %s", e.Command)))
		if i < len(examples)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Long composes a description and its examples into the long-form help
// body a CommandModule exposes to the Help plugin.
func Long(description string, examples ...Example) string {
	var sb strings.Builder

	if description != "" {
		sb.WriteString(DefaultStyles.Wrap.Render(wordwrap.WrapString(description, 80)) + "\n\n")
	}
	sb.WriteString(FormatExamples(examples...))
	return sb.String()
}

// Step is a named, prefixed writer a long-running Handler can use to
// report progress (e.g. "[Provisioning] creating instance") without
// going through the Client's banners, which are meant for top-level
// messages rather than per-step progress.
type Step struct {
	name string
	w    io.Writer
}

// NewStep returns a Step that prefixes every message with "[name]" and
// writes to w.
func NewStep(name string, w io.Writer) Step {
	return Step{name: name, w: w}
}

func (s Step) Debug(header string, lines ...string) {
	fmt.Fprint(s.w, cliMessage{Prefix: "[" + s.name + "] DEBUG: ", Header: header, Lines: lines}.String())
}

func (s Step) Info(header string, lines ...string) {
	fmt.Fprint(s.w, cliMessage{Prefix: "[" + s.name + "] ", Header: header, Lines: lines}.String())
}

func (s Step) Warn(header string, lines ...string) {
	fmt.Fprint(s.w, cliMessage{Style: DefaultStyles.Warn, Prefix: "[" + s.name + "] WARNING: ", Header: header, Lines: lines}.String())
}

func (s Step) Error(header string, lines ...string) {
	fmt.Fprint(s.w, cliMessage{Style: DefaultStyles.Error, Prefix: "[" + s.name + "] ERROR: ", Header: header, Lines: lines}.String())
}
