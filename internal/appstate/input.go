package appstate

// InputMode is the high-level mode used to route keyboard events to the
// right handler.
type InputMode int

const (
	InputNormal InputMode = iota
	InputTerminalCapture
	InputHelp
	InputSearch
	InputForm
	InputConfirm
)

// InputModeFor resolves the active InputMode from the current AppState.
func InputModeFor(state AppState) InputMode {
	switch state.Modal.(type) {
	case ModalHelp:
		return InputHelp
	case ModalSearch:
		return InputSearch
	case ModalNewRepository, ModalEditRepository, ModalNewAgent, ModalEditAgent:
		return InputForm
	case ModalConfirmDeleteRepository, ModalConfirmDeleteAgent, ModalConfirmKillAgent:
		return InputConfirm
	}

	if state.TerminalFocused && state.PaneFocus == PaneTerminal {
		return InputTerminalCapture
	}
	return InputNormal
}

// KeySpecial enumerates the non-character keys route_search_key needs to
// distinguish.
type KeySpecial int

const (
	KeySpecialNone KeySpecial = iota
	KeySpecialEsc
	KeySpecialEnter
	KeySpecialBackspace
	KeySpecialUp
	KeySpecialDown
	KeySpecialLeft
	KeySpecialRight
)

// KeyInput is the minimal key-event shape route_search_key needs: either a
// printable character (Char, HasChar true) or one of the Special keys.
type KeyInput struct {
	Char    rune
	HasChar bool
	Special KeySpecial
	Control bool
	Alt     bool
}

// SearchKeyRoute is the result of routing a key while search mode is
// active.
type SearchKeyRoute int

const (
	SearchCloseAndConsume SearchKeyRoute = iota
	SearchEditQueryChar
	SearchBackspace
	SearchCloseAndReroute
	SearchIgnore
)

// RouteSearchKey classifies a key event while the search modal is open.
// A plain printable character (no Ctrl/Alt) edits the query; Backspace
// edits it; Esc/Enter close the modal and consume the key; an arrow key or
// a character held with Ctrl/Alt closes the modal and lets the key be
// rerouted to the underlying screen; anything else is ignored.
func RouteSearchKey(key KeyInput) (SearchKeyRoute, rune) {
	switch key.Special {
	case KeySpecialEsc, KeySpecialEnter:
		return SearchCloseAndConsume, 0
	case KeySpecialBackspace:
		return SearchBackspace, 0
	case KeySpecialUp, KeySpecialDown, KeySpecialLeft, KeySpecialRight:
		return SearchCloseAndReroute, 0
	}

	if key.HasChar {
		if !key.Control && !key.Alt {
			return SearchEditQueryChar, key.Char
		}
		return SearchCloseAndReroute, 0
	}

	return SearchIgnore, 0
}
