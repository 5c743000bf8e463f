package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm,
	back,
	remove,
	acceptSearchSuggestion,
	up, down, left, right,
	top, bottom,
	playPause,
	nextTrack, prevTrack,
	seekBack, seekForward,
	skipSegment,
	openQueue,
	openSearch,
	showHelp key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept search suggestion"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		nextTrack: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		prevTrack: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "seek -10s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "seek +10s"),
		),
		skipSegment: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip segment"),
		),
		openQueue: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "queue"),
		),
		openSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit, k.back))
	case searchState:
		return to2(h(k.confirm, k.acceptSearchSuggestion, k.forceQuit))
	case resultsState:
		return to2(h(k.confirm, k.back))
	case playingState:
		return h(k.playPause, k.nextTrack, k.prevTrack, k.skipSegment, k.openQueue),
			h(k.playPause, k.nextTrack, k.prevTrack, k.seekBack, k.seekForward, k.skipSegment, k.openQueue, k.openSearch, k.quit)
	case queueState:
		return to2(h(k.confirm, k.remove, k.back))
	case historyState:
		return to2(h(k.confirm, k.remove, k.back))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}
