package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hearthd/hearth/internal/events"
)

// renderStatusBar draws the bottom line: connection state, session info,
// transient toast, and versions.
func (m *Model) renderStatusBar() string {
	snap := m.sessionState.Snapshot()
	parts := []string{m.connIndicator()}

	if snap.ClientName != "" {
		parts = append(parts, "client:"+snap.ClientName)
	} else {
		parts = append(parts, "client:-")
	}

	if snap.GatingActive && snap.GatingMode != "" {
		parts = append(parts, m.styles.Warning.Render("gate:"+snap.GatingMode))
	}
	if snap.Listening {
		parts = append(parts, m.styles.Success.Render("listening"))
	}
	if snap.TurnCount > 0 {
		parts = append(parts, fmt.Sprintf("turns:%d", snap.TurnCount))
	}

	left := strings.Join(parts, "  ")

	right := ""
	if snap.ServerVersion != "" {
		right = m.styles.Muted.Render(fmt.Sprintf("srv %s / cli %s", snap.ServerVersion, snap.ClientVersion))
	}
	if m.toast.active(time.Now()) {
		style := m.styles.Text
		switch m.toast.kind {
		case toastSuccess:
			style = m.styles.Success
		case toastError:
			style = m.styles.Danger
		}
		right = style.Render(m.toast.text)
	}

	bar := left
	if right != "" {
		gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
		bar = left + strings.Repeat(" ", gap) + right
	}
	return m.styles.StatusBar.Width(m.width).Render(bar)
}

func (m *Model) connIndicator() string {
	switch m.connState {
	case events.StateConnected:
		return m.styles.Success.Render("● live")
	case events.StateConnecting:
		return m.styles.Warning.Render("◌ connecting")
	default:
		return m.styles.Danger.Render("○ offline")
	}
}
