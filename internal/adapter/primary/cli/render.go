package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"volumelockr/internal/usecase"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var statusColumns = []int{14, 8, 10, 8, 10}

func cell(width int, s string, style lipgloss.Style) string {
	return style.Width(width).Render(s)
}

// renderStatus writes a table of every control followed by the enforcer state.
func renderStatus(w io.Writer, st usecase.Status) {
	state := mutedStyle.Render("idle")
	if st.Enforcing {
		state = okStyle.Render("enforcing")
	}
	fmt.Fprintf(w, "%s  mode=%s", state, st.Mode)
	if st.Protected {
		fmt.Fprintf(w, "  %s", lockedStyle.Render("protected"))
	}
	fmt.Fprintln(w)

	plain := lipgloss.NewStyle()
	header := []string{"STREAM", "VOLUME", "LOCK", "CONTROL", "TOGGLE"}
	row := make([]string, len(header))
	for i, h := range header {
		row[i] = cell(statusColumns[i], h, headerStyle)
	}
	fmt.Fprintln(w, strings.Join(row, " "))

	for _, c := range st.Controls {
		lock, lockStyle := "-", mutedStyle
		if c.Lock != nil {
			lock, lockStyle = fmt.Sprintf("%d-%d", c.Lock.Lower, c.Lock.Upper), lockedStyle
		}
		row[0] = cell(statusColumns[0], c.Volume.Stream.String(), plain)
		row[1] = cell(statusColumns[1], fmt.Sprintf("%d/%d", c.Volume.Value, c.Volume.Max), plain)
		row[2] = cell(statusColumns[2], lock, lockStyle)
		row[3] = cell(statusColumns[3], onOff(c.State.Enabled), plain)
		row[4] = cell(statusColumns[4], onOff(c.State.ToggleEnabled), plain)
		fmt.Fprintln(w, strings.Join(row, " "))
	}

	if e := st.Enforcer; e != nil {
		fmt.Fprintf(w, "passes=%d corrections=%d", e.Passes, e.Corrections)
		if !e.LastPass.IsZero() {
			fmt.Fprintf(w, " last=%s", e.LastPass.Format("15:04:05"))
		}
		if e.LastError != "" {
			fmt.Fprintf(w, " error=%s", lockedStyle.Render(e.LastError))
		}
		fmt.Fprintln(w)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
