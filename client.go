package waymark

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// PromptType enumerates the prompt kinds the external prompt transport
// may render (§6). The core never interprets these beyond passing them
// through to the Prompter. DefaultClient reads every type as one line:
// confirm/toggle, number, list/multiselect and select/autocomplete are
// coerced; password, date and invisible are read as plain, echoed text.
type PromptType string

const (
	PromptText        PromptType = "text"
	PromptNumber      PromptType = "number"
	PromptConfirm     PromptType = "confirm"
	PromptSelect      PromptType = "select"
	PromptMultiselect PromptType = "multiselect"
	PromptList        PromptType = "list"
	PromptPassword    PromptType = "password"
	PromptDate        PromptType = "date"
	PromptAutocomplete PromptType = "autocomplete"
	PromptToggle      PromptType = "toggle"
	PromptInvisible   PromptType = "invisible"
)

// PromptSpec is the payload sent to a Prompter (§6).
type PromptSpec struct {
	Type     PromptType
	Message  string
	Initial  any
	Choices  []string
	Validate func(v any) error
}

// Prompter is the external, interactive-prompt transport (§1, §6). The
// core depends only on this interface; line editing, select menus, and
// other terminal affordances are the caller's concern.
type Prompter interface {
	Prompt(spec PromptSpec) (any, error)
}

// Client abstracts the I/O surface a Handler or hook observes: logging,
// error reporting, and interactive prompting (§2 Client, 4% share).
type Client interface {
	Prompter

	Info(header string, lines ...string)
	Warn(header string, lines ...string)
	Error(header string, lines ...string)
	Confirm(message string) (bool, error)

	Stdout() io.Writer
	Stderr() io.Writer
}

// DefaultClient is a terminal-backed Client: banners go to Stderr via
// lipgloss-styled cliMessages, prompts are read line-by-line from Stdin.
// It is the reference implementation of the external collaborators the
// spec deliberately keeps out of core scope (§1); any Client works.
type DefaultClient struct {
	Out io.Writer
	Err io.Writer
	In  *bufio.Reader
}

// NewDefaultClient builds a DefaultClient over the process's standard
// streams.
func NewDefaultClient() *DefaultClient {
	return &DefaultClient{
		Out: os.Stdout,
		Err: os.Stderr,
		In:  bufio.NewReader(os.Stdin),
	}
}

func (c *DefaultClient) Stdout() io.Writer { return c.Out }
func (c *DefaultClient) Stderr() io.Writer { return c.Err }

func (c *DefaultClient) Info(header string, lines ...string) {
	fmt.Fprint(c.Err, cliMessage{Header: header, Lines: lines, Timestamp: time.Now()}.String())
}

func (c *DefaultClient) Warn(header string, lines ...string) {
	fmt.Fprint(c.Err, cliMessage{
		Style:     DefaultStyles.Warn,
		Prefix:    "WARNING: ",
		Header:    header,
		Lines:     lines,
		Timestamp: time.Now(),
	}.String())
}

func (c *DefaultClient) Error(header string, lines ...string) {
	fmt.Fprint(c.Err, cliMessage{
		Style:     DefaultStyles.Error,
		Prefix:    "ERROR: ",
		Header:    header,
		Lines:     lines,
		Timestamp: time.Now(),
	}.String())
}

func (c *DefaultClient) Confirm(message string) (bool, error) {
	v, err := c.Prompt(PromptSpec{Type: PromptConfirm, Message: message})
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// Prompt implements a minimal, line-oriented rendering of every
// PromptType directly over c.In/c.Out, good enough for headless use and
// for embedding behind a richer Prompter in production.
func (c *DefaultClient) Prompt(spec PromptSpec) (any, error) {
	for {
		fmt.Fprint(c.Out, DefaultStyles.Prompt.Render("? ")+DefaultStyles.FocusedPrompt.Render(spec.Message))
		if len(spec.Choices) > 0 {
			fmt.Fprintf(c.Out, " [%s]", strings.Join(spec.Choices, "/"))
		}
		if spec.Initial != nil {
			fmt.Fprintf(c.Out, " (%s)", Emphasis(fmt.Sprintf("%v", spec.Initial)))
		}
		fmt.Fprint(c.Out, ": ")

		line, err := c.In.ReadString('\n')
		if err != nil && line == "" {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" && spec.Initial != nil {
			return c.coerce(spec, fmt.Sprintf("%v", spec.Initial))
		}

		v, verr := c.coerce(spec, line)
		if verr != nil {
			fmt.Fprintln(c.Err, verr.Error())
			continue
		}
		if spec.Validate != nil {
			if err := spec.Validate(v); err != nil {
				fmt.Fprintln(c.Err, err.Error())
				continue
			}
		}
		return v, nil
	}
}

func (c *DefaultClient) coerce(spec PromptSpec, line string) (any, error) {
	switch spec.Type {
	case PromptConfirm, PromptToggle:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false", "":
			return false, nil
		default:
			return nil, fmt.Errorf("please answer y or n")
		}
	case PromptNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", line)
		}
		return f, nil
	case PromptList:
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	case PromptSelect, PromptAutocomplete:
		if len(spec.Choices) == 0 {
			return line, nil
		}
		for _, choice := range spec.Choices {
			if choice == line {
				return line, nil
			}
		}
		return nil, fmt.Errorf("must be one of %s", strings.Join(spec.Choices, ", "))
	case PromptMultiselect:
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return line, nil
	}
}
