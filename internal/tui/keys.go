package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the dashboard TUI.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding

	ToggleTerminalFocus key.Binding
	EnterSplit          key.Binding
	ExitSplit           key.Binding
	EnterGrab           key.Binding

	Help   key.Binding
	Search key.Binding
	Quit   key.Binding

	NewRepository key.Binding
	NewAgent      key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Kill          key.Binding
	Relaunch      key.Binding

	Enter  key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle pane")),

		ToggleTerminalFocus: key.NewBinding(key.WithKeys("f12"), key.WithHelp("f12", "capture terminal")),
		EnterSplit:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "split view")),
		ExitSplit:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dashboard")),
		EnterGrab:           key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab/reorder")),

		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		NewRepository: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "new repository")),
		NewAgent:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new agent")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Kill:          key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "kill agent")),
		Relaunch:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "relaunch")),

		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.ToggleTerminalFocus, k.EnterSplit, k.NewAgent, k.Search, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Tab},
		{k.ToggleTerminalFocus, k.EnterSplit, k.ExitSplit, k.EnterGrab},
		{k.NewRepository, k.NewAgent, k.Edit, k.Delete, k.Kill, k.Relaunch},
		{k.Search, k.Help, k.Quit},
	}
}
