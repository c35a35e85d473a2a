package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hearthd/hearth/internal/botapi"
	"github.com/hearthd/hearth/internal/events"
	"github.com/hearthd/hearth/internal/prefs"
	"github.com/hearthd/hearth/internal/session"
	"github.com/hearthd/hearth/internal/store"
	"github.com/hearthd/hearth/internal/undo"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
	inputSearch
)

// Deps carries everything the UI needs; the app package builds these.
type Deps struct {
	Client        *botapi.Client
	Memories      *store.Store[botapi.Memory]
	Stock         *store.Store[botapi.StockItem]
	Freezer       *store.Store[botapi.FreezerItem]
	Todos         *store.Store[botapi.Todo]
	Session       *session.Store
	Subscriber    *events.Subscriber
	Prefs         prefs.Prefs
	PrefsPath     string
	ClientVersion string
}

// Model is the bubbletea model for the whole application.
type Model struct {
	ctx    context.Context
	client *botapi.Client

	memories     *store.Store[botapi.Memory]
	stock        *store.Store[botapi.StockItem]
	freezer      *store.Store[botapi.FreezerItem]
	todos        *store.Store[botapi.Todo]
	sessionState *session.Store
	sub          *events.Subscriber
	undos        map[View]*undo.Buffer

	prefs         prefs.Prefs
	prefsPath     string
	clientVersion string

	theme  Theme
	styles Styles
	keys   keyMap

	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	selected         map[View]int
	includeCompleted bool
	searchQuery      string

	spin spinner.Model

	input      textinput.Model
	inputMode  inputMode
	inputView  View
	editingKey string

	chatInput   textinput.Model
	chatView    viewport.Model
	transcript  []chatEntry
	chatSession string
	renderer    *glamour.TermRenderer

	clients     []botapi.ClientProfile
	gatingModes []botapi.GatingMode

	toast     toast
	connState events.State
}

// New builds the model. The event subscription is wired separately in Run
// because handlers need the running program to post messages into.
func New(ctx context.Context, deps Deps) *Model {
	theme := GetTheme(deps.Prefs.Theme)

	input := textinput.New()
	input.CharLimit = 200

	chatInput := textinput.New()
	chatInput.Placeholder = "say something"
	chatInput.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ctx:           ctx,
		client:        deps.Client,
		memories:      deps.Memories,
		stock:         deps.Stock,
		freezer:       deps.Freezer,
		todos:         deps.Todos,
		sessionState:  deps.Session,
		sub:           deps.Subscriber,
		prefs:         deps.Prefs,
		prefsPath:     deps.PrefsPath,
		clientVersion: deps.ClientVersion,
		theme:         theme,
		styles:        theme.Styles(),
		keys:          DefaultKeyMap(),
		selected:      make(map[View]int),
		spin:          spin,
		input:         input,
		chatInput:     chatInput,
		undos: map[View]*undo.Buffer{
			ViewMemories: undo.NewBuffer(),
			ViewStock:    undo.NewBuffer(),
			ViewFreezer:  undo.NewBuffer(),
			ViewTodos:    undo.NewBuffer(),
		},
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadView(ViewMemories),
		m.loadClients(),
		m.loadGatingModes(),
		m.loadVersions(),
		m.spin.Tick,
		tick(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case storeChangedMsg:
		return m, nil

	case sessionChangedMsg:
		return m, nil

	case connStateMsg:
		m.connState = events.State(msg)
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case undoneMsg:
		switch {
		case msg.err != nil:
			m.toast = newToast("undo failed: "+msg.err.Error(), toastError)
		case msg.label == "":
			m.toast = newToast("nothing to undo", toastInfo)
		default:
			m.toast = newToast("undid "+msg.label, toastSuccess)
		}
		return m, nil

	case clientsLoadedMsg:
		if msg.err != nil {
			m.toast = newToast("clients: "+msg.err.Error(), toastError)
			return m, nil
		}
		m.clients = msg.clients
		// Restore the previously selected client once the roster is known.
		if m.sessionState.Snapshot().ClientID == "" && m.prefs.SelectedClient != "" {
			for _, c := range m.clients {
				if c.ID == m.prefs.SelectedClient {
					return m, m.selectClientCmd(c.ID, c.Name)
				}
			}
		}
		return m, nil

	case gatingModesMsg:
		if msg.err == nil {
			m.gatingModes = msg.modes
		}
		return m, nil

	case versionsMsg:
		if msg.err != nil {
			return m, nil
		}
		m.sessionState.SetVersions(msg.server, msg.client)
		if m.prefs.SeenServerVersion != "" && m.prefs.SeenServerVersion != msg.server {
			m.toast = newToast("backend updated to "+msg.server, toastInfo)
		}
		m.prefs.SeenServerVersion = msg.server
		m.prefs.SeenClientVersion = msg.client
		return m, nil

	case chatOpenedMsg:
		if msg.err != nil {
			m.toast = newToast("chat: "+msg.err.Error(), toastError)
			return m, nil
		}
		m.chatSession = msg.session.ID
		m.appendChat(roleSystem, "session opened")
		return m, nil

	case chatReplyMsg:
		if msg.err != nil {
			m.appendChat(roleSystem, "error: "+msg.err.Error())
			return m, nil
		}
		m.appendChat(roleAssistant, msg.reply.Text)
		return m, nil

	case botTextMsg:
		m.appendChat(roleAssistant, msg.text)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.toast = newToast(msg.err.Error(), toastError)
		return m, nil
	}
	switch msg.action {
	case "delete":
		m.toast = newToast("deleted (u to undo)", toastSuccess)
	case "add", "edit", "toggle":
		m.toast = newToast("saved", toastSuccess)
	case "refresh":
		m.toast = newToast("refreshed", toastInfo)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	if m.currentView == ViewChat {
		return m.handleChatKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, keys.CycleTheme):
		m.setTheme(NextTheme(m.theme.Name))
		return m, nil
	case key.Matches(msg, keys.Tab):
		return m.switchView((m.currentView + 1) % 5)
	case key.Matches(msg, keys.ViewMemories):
		return m.switchView(ViewMemories)
	case key.Matches(msg, keys.ViewStock):
		return m.switchView(ViewStock)
	case key.Matches(msg, keys.ViewFreezer):
		return m.switchView(ViewFreezer)
	case key.Matches(msg, keys.ViewTodos):
		return m.switchView(ViewTodos)
	case key.Matches(msg, keys.ViewChat):
		return m.switchView(ViewChat)
	case key.Matches(msg, keys.Refresh):
		return m, m.refreshView(m.currentView)
	case key.Matches(msg, keys.Undo):
		return m, m.applyUndo()
	case key.Matches(msg, keys.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, keys.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, keys.Add):
		m.startInput(inputAdd, "")
		return m, nil
	case key.Matches(msg, keys.Edit):
		key := m.selectedKey(m.currentView)
		if key == "" {
			return m, nil
		}
		m.editingKey = key
		m.startInput(inputEdit, m.editSeed(m.currentView, key))
		return m, nil
	case key.Matches(msg, keys.Delete):
		key := m.selectedKey(m.currentView)
		if key == "" {
			return m, nil
		}
		return m, m.deleteCmd(m.currentView, key)
	case key.Matches(msg, keys.Toggle):
		if m.currentView != ViewTodos {
			return m, nil
		}
		key := m.selectedKey(ViewTodos)
		if key == "" {
			return m, nil
		}
		return m, m.toggleTodoCmd(key)
	case key.Matches(msg, keys.Filter):
		if m.currentView == ViewTodos {
			m.includeCompleted = !m.includeCompleted
		}
		return m, nil
	case key.Matches(msg, keys.Search):
		if m.currentView == ViewFreezer {
			m.startInput(inputSearch, m.searchQuery)
		}
		return m, nil
	case key.Matches(msg, keys.CycleClient):
		return m.cycleClient()
	case key.Matches(msg, keys.CycleGating):
		return m.cycleGating()
	case key.Matches(msg, keys.StopGating):
		return m, m.gatingStopCmd()
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.inputMode == inputSearch {
			m.searchQuery = ""
		}
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		raw := m.input.Value()
		mode, view, key := m.inputMode, m.inputView, m.editingKey
		m.closeInput()
		switch mode {
		case inputAdd:
			return m, m.createCmd(view, raw)
		case inputEdit:
			return m, m.editCmd(view, key, raw)
		case inputSearch:
			m.searchQuery = raw
			return m, nil
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inputMode == inputSearch {
		m.searchQuery = m.input.Value()
	}
	return m, cmd
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.savePrefs()
		return m, tea.Quit
	case "tab":
		return m.switchView(ViewMemories)
	case "esc":
		return m.switchView(ViewMemories)
	case "enter":
		text := strings.TrimSpace(m.chatInput.Value())
		if text == "" || m.chatSession == "" {
			return m, nil
		}
		m.chatInput.Reset()
		m.appendChat(roleUser, text)
		return m, m.sendChat(m.chatSession, text)
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m *Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.showHelp = false
	m.closeInput()
	if v == ViewChat {
		m.chatInput.Focus()
		if m.chatSession == "" {
			return m, m.openChat()
		}
		return m, nil
	}
	m.chatInput.Blur()
	return m, m.loadView(v)
}

func (m *Model) cycleClient() (tea.Model, tea.Cmd) {
	if len(m.clients) == 0 {
		return m, m.loadClients()
	}
	current := m.sessionState.Snapshot().ClientID
	next := m.clients[0]
	for i, c := range m.clients {
		if c.ID == current {
			next = m.clients[(i+1)%len(m.clients)]
			break
		}
	}
	return m, m.selectClientCmd(next.ID, next.Name)
}

func (m *Model) cycleGating() (tea.Model, tea.Cmd) {
	if len(m.gatingModes) == 0 {
		return m, m.loadGatingModes()
	}
	snap := m.sessionState.Snapshot()
	next := m.gatingModes[0]
	if snap.GatingActive {
		for i, mode := range m.gatingModes {
			if mode.Name == snap.GatingMode {
				next = m.gatingModes[(i+1)%len(m.gatingModes)]
				break
			}
		}
	}
	return m, m.gatingStartCmd(next.Name)
}

func (m *Model) startInput(mode inputMode, seed string) {
	m.inputMode = mode
	m.inputView = m.currentView
	m.input.SetValue(seed)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.editingKey = ""
	m.input.Reset()
	m.input.Blur()
}

// editSeed prefills the edit prompt with the record's current values in
// the same slash syntax the add prompt takes.
func (m *Model) editSeed(v View, key string) string {
	switch v {
	case ViewMemories:
		if rec, ok := m.memories.Get(key); ok {
			return rec.Item + " / " + rec.Location
		}
	case ViewStock:
		if rec, ok := m.stock.Get(key); ok {
			return rec.Item + " / " + rec.Quantity + " / " + rec.StockLevel
		}
	case ViewFreezer:
		if rec, ok := m.freezer.Get(key); ok {
			return rec.Description
		}
	case ViewTodos:
		if rec, ok := m.todos.Get(key); ok {
			return rec.Content
		}
	}
	return ""
}

func (m *Model) setTheme(name string) {
	m.theme = GetTheme(name)
	m.styles = m.theme.Styles()
	m.prefs.Theme = m.theme.Name
	m.refreshChatViewport()
}

func (m *Model) resize() {
	m.input.Width = m.width - 4
	m.chatInput.Width = m.width - 4
	chatHeight := m.height - 6
	if chatHeight < 3 {
		chatHeight = 3
	}
	m.chatView = viewport.New(m.width-2, chatHeight)
	wrap := m.width - 6
	if wrap > 100 {
		wrap = 100
	}
	if renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	); err == nil {
		m.renderer = renderer
	}
	m.refreshChatViewport()
}

func (m *Model) savePrefs() {
	snap := m.sessionState.Snapshot()
	if snap.ClientID != "" {
		m.prefs.SelectedClient = snap.ClientID
	}
	m.prefs.Theme = m.theme.Name
	// Best effort on shutdown.
	_ = prefs.Save(m.prefsPath, m.prefs)
}

func (m *Model) View() string {
	if !m.ready {
		return "starting hearth..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs() + "\n\n")

	switch {
	case m.showHelp:
		b.WriteString(m.renderHelp())
	case m.currentView == ViewChat:
		b.WriteString(m.renderChat())
	default:
		b.WriteString(m.renderList(m.currentView))
	}

	body := b.String()
	bodyHeight := m.height - 2
	if lines := strings.Count(body, "\n"); lines < bodyHeight {
		body += strings.Repeat("\n", bodyHeight-lines)
	}
	return body + m.renderStatusBar()
}

func (m *Model) renderTabs() string {
	labels := []string{"1 memories", "2 stock", "3 freezer", "4 to-dos", "5 chat"}
	parts := make([]string, len(labels))
	for i, label := range labels {
		if View(i) == m.currentView {
			parts[i] = m.styles.Selection.Render(" " + label + " ")
		} else {
			parts[i] = m.styles.Muted.Render(" " + label + " ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Run starts the program and wires pushed events into it. It blocks until
// the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) (openSession string, err error) {
	m := New(ctx, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	cancelWiring := wireEvents(p, m)
	defer cancelWiring()

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			// Killed by the signal-bound context; not a failure.
			return m.chatSession, nil
		}
		return m.chatSession, fmt.Errorf("ui: %w", err)
	}
	return m.chatSession, nil
}

// wireEvents subscribes the stores to the shared event stream. Handlers
// run on the subscriber's goroutine; they only touch the thread-safe
// stores and then post a message so the UI re-renders.
func wireEvents(p *tea.Program, m *Model) (cancel func()) {
	var cancels []func()
	on := func(event string, h events.Handler) {
		cancels = append(cancels, m.sub.Subscribe(event, h))
	}
	notify := func(v View) func(changed bool) {
		return func(changed bool) {
			if changed {
				p.Send(storeChangedMsg{view: v})
			}
		}
	}

	memChanged := notify(ViewMemories)
	on("memory_created", func(data []byte) { memChanged(m.memories.ApplyCreated(data)) })
	on("memory_updated", func(data []byte) { memChanged(m.memories.ApplyUpdated(data)) })
	on("memory_deleted", func(data []byte) { memChanged(m.memories.ApplyDeleted(data)) })

	stockChanged := notify(ViewStock)
	on("stock_created", func(data []byte) { stockChanged(m.stock.ApplyCreated(data)) })
	on("stock_updated", func(data []byte) { stockChanged(m.stock.ApplyUpdated(data)) })
	on("stock_deleted", func(data []byte) { stockChanged(m.stock.ApplyDeleted(data)) })

	freezerChanged := notify(ViewFreezer)
	on("freezer_item_created", func(data []byte) { freezerChanged(m.freezer.ApplyCreated(data)) })
	on("freezer_item_updated", func(data []byte) { freezerChanged(m.freezer.ApplyUpdated(data)) })
	on("freezer_item_deleted", func(data []byte) { freezerChanged(m.freezer.ApplyDeleted(data)) })

	todoChanged := notify(ViewTodos)
	on("todo_created", func(data []byte) { todoChanged(m.todos.ApplyCreated(data)) })
	on("todo_updated", func(data []byte) { todoChanged(m.todos.ApplyUpdated(data)) })
	on("todo_deleted", func(data []byte) { todoChanged(m.todos.ApplyDeleted(data)) })

	on("client_selected", func(data []byte) {
		if m.sessionState.ApplyClientSelected(data) {
			p.Send(sessionChangedMsg{})
		}
	})
	on("gating_mode_changed", func(data []byte) {
		if m.sessionState.ApplyGatingChanged(data) {
			p.Send(sessionChangedMsg{})
		}
	})
	on("turn_counter_updated", func(data []byte) {
		if m.sessionState.ApplyTurnCounter(data) {
			p.Send(sessionChangedMsg{})
		}
	})
	on("assistant_listening_started", func([]byte) {
		m.sessionState.SetListening(true)
		p.Send(sessionChangedMsg{})
	})
	on("assistant_listening_stopped", func([]byte) {
		m.sessionState.SetListening(false)
		p.Send(sessionChangedMsg{})
	})
	on("bot_text_response", func(data []byte) {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &payload); err != nil || payload.Text == "" {
			payload.Text = string(data)
		}
		p.Send(botTextMsg{text: payload.Text})
	})

	cancels = append(cancels, m.sub.OnState(func(state events.State) {
		p.Send(connStateMsg(state))
	}))

	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
