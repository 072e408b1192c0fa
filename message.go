// https://github.com/coder/coder/blob/main/LICENSE
// Extracted and modified from github.com/coder/coder
package waymark

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// cliMessage provides a human-readable message for banners printed by a
// Client (warn/info/error).
type cliMessage struct {
	Style     lipgloss.Style
	Header    string
	Prefix    string
	Lines     []string
	Timestamp time.Time
}

// String formats the message for consumption by a human.
func (m cliMessage) String() string {
	var str strings.Builder

	if !m.Timestamp.IsZero() {
		_, _ = str.WriteString(Timestamp(m.Timestamp) + " ")
	}

	if m.Prefix != "" {
		_, _ = str.WriteString(Bold(m.Prefix))
	}

	str.WriteString(m.Style.Render(m.Header))
	_, _ = str.WriteString("\r\n")
	for _, line := range m.Lines {
		_, _ = fmt.Fprintf(&str, "  %s %s\r\n", m.Style.Render("|"), line)
	}
	return str.String()
}
