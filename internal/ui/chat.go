package ui

import (
	"strings"

	"github.com/google/uuid"
)

type chatRole int

const (
	roleUser chatRole = iota
	roleAssistant
	roleSystem
)

type chatEntry struct {
	id   string
	role chatRole
	text string
}

func (m *Model) appendChat(role chatRole, text string) {
	m.transcript = append(m.transcript, chatEntry{id: uuid.NewString(), role: role, text: text})
	m.refreshChatViewport()
}

// refreshChatViewport re-renders the transcript into the viewport and
// scrolls to the bottom. Assistant markdown goes through glamour; user
// lines stay plain.
func (m *Model) refreshChatViewport() {
	var b strings.Builder
	for _, entry := range m.transcript {
		switch entry.role {
		case roleUser:
			b.WriteString(m.styles.Accent.Render("you: ") + entry.text + "\n")
		case roleAssistant:
			rendered := entry.text
			if m.renderer != nil {
				if out, err := m.renderer.Render(entry.text); err == nil {
					rendered = strings.TrimRight(out, "\n")
				}
			}
			b.WriteString(m.styles.Text.Render("hearth:") + "\n" + rendered + "\n")
		case roleSystem:
			b.WriteString(m.styles.Muted.Render(entry.text) + "\n")
		}
	}
	m.chatView.SetContent(b.String())
	m.chatView.GotoBottom()
}

func (m *Model) renderChat() string {
	var b strings.Builder
	if m.chatSession == "" {
		b.WriteString(m.styles.Muted.Render("opening chat session...") + "\n")
	}
	b.WriteString(m.chatView.View())
	b.WriteString("\n" + m.styles.Accent.Render(">") + " " + m.chatInput.View())
	return b.String()
}
