package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pipetube-cli/pipetube/history"
	"github.com/pipetube-cli/pipetube/internal/ui"
	"github.com/pipetube-cli/pipetube/log"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/session"
	"github.com/samber/lo"
)

// Init initializes the terminal user interface.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, b.spinnerC.Tick, b.waitForError())
}

// Update routes every message through the single state machine.
func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd

	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, b.waitForError()

	case []*piped.StreamItem:
		b.resultsC.SetItems(lo.Map(msg, func(item *piped.StreamItem, _ int) list.Item {
			return &listItem{internal: item}
		}))
		b.stopLoading()
		b.newState(resultsState)
		return b, b.waitForStreams()

	case sessionStartedMsg:
		b.stopLoading()
		b.syncQueue()
		b.newState(playingState)
		return b, tea.Batch(b.waitForSessionStarted(), b.tickPosition())

	case trackChangedMsg:
		b.nowPlaying = msg.np
		b.positionMs = 0
		b.durationMs = msg.np.Duration * 1000
		b.syncQueue()
		return b, nil

	case playerStateMsg:
		b.playerState = msg.state
		return b, nil

	case skipAffordanceMsg:
		b.pendingSkip = msg.segment
		return b, nil

	case queueChangedMsg:
		b.syncQueue()
		return b, nil

	case windowTitleMsg:
		return b, tea.SetWindowTitle(msg.title)

	case positionTickMsg:
		if b.coordinator() == nil {
			return b, nil
		}
		b.refreshPosition()
		return b, b.tickPosition()

	case string, ui.ClearNotificationMsg:
		return b, b.notifier.Update(msg)

	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, b.shutdown()
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case searchState:
		return b.updateSearch(msg)
	case resultsState:
		return b.updateResults(msg)
	case playingState:
		return b.updatePlaying(msg)
	case queueState:
		return b.updateQueue(msg)
	case historyState:
		return b.updateHistory(msg)
	case errorState:
		return b.updateError(msg)
	default:
		return b, nil
	}
}

// shutdown persists session state and exits the program.
func (b *statefulBubble) shutdown() tea.Cmd {
	b.manager.Stop()
	return tea.Quit
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, b.keymap.back) {
			b.stopLoading()
			b.previousState()
		}
	}
	return b, nil
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.confirm):
			q := b.inputC.Value()
			if q == "" {
				return b, nil
			}
			b.newState(loadingState)
			return b, tea.Batch(b.startLoading(), b.searchVideos(q), b.waitForStreams())

		case key.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
			}
			return b, nil

		case key.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() > 0 {
				b.previousState()
			}
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	b.updateSearchSuggestion()
	return b, cmd
}

func (b *statefulBubble) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.confirm):
			selected, ok := b.resultsC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			item := selected.internal.(*piped.StreamItem)

			b.newState(loadingState)
			return b, tea.Batch(
				b.startLoading(),
				b.startSession(item.ID(), session.LoadRequest{}),
				b.waitForSessionStarted(),
			)

		case key.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.resultsC, cmd = b.resultsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePlaying(msg tea.Msg) (tea.Model, tea.Cmd) {
	coordinator := b.coordinator()
	if coordinator == nil {
		b.newState(searchState)
		return b, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.playPause):
			if err := coordinator.TogglePause(); err != nil {
				log.Warnf("tui: toggle pause: %v", err)
			}
			return b, nil

		case key.Matches(msg, b.keymap.nextTrack):
			return b, b.advanceSession(coordinator.Next)

		case key.Matches(msg, b.keymap.prevTrack):
			return b, b.advanceSession(coordinator.Prev)

		case key.Matches(msg, b.keymap.skipSegment):
			if err := coordinator.SkipSegment(); err != nil {
				log.Warnf("tui: skip segment: %v", err)
			}
			return b, nil

		case key.Matches(msg, b.keymap.seekBack):
			b.seekRelative(coordinator, -10_000)
			return b, nil

		case key.Matches(msg, b.keymap.seekForward):
			b.seekRelative(coordinator, 10_000)
			return b, nil

		case key.Matches(msg, b.keymap.openQueue):
			b.syncQueue()
			b.newState(queueState)
			return b, nil

		case key.Matches(msg, b.keymap.openSearch):
			b.newState(searchState)
			return b, nil

		case key.Matches(msg, b.keymap.quit):
			return b, b.shutdown()
		}
	}

	return b, nil
}

func (b *statefulBubble) updateQueue(msg tea.Msg) (tea.Model, tea.Cmd) {
	coordinator := b.coordinator()

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.confirm):
			if coordinator == nil {
				return b, nil
			}
			index := b.queueC.Index()
			b.newState(playingState)
			return b, b.selectQueueEntry(coordinator, index)

		case key.Matches(msg, b.keymap.remove):
			if coordinator != nil {
				coordinator.Queue().Remove(b.queueC.Index())
				b.syncQueue()
			}
			return b, nil

		case key.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.queueC, cmd = b.queueC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.confirm):
			selected, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			entry := selected.internal.(*history.Entry)

			b.newState(loadingState)
			return b, tea.Batch(
				b.startLoading(),
				b.startSession(entry.VideoID, session.LoadRequest{}),
				b.waitForSessionStarted(),
			)

		case key.Matches(msg, b.keymap.remove):
			if selected, ok := b.historyC.SelectedItem().(*listItem); ok {
				if entry, ok := selected.internal.(*history.Entry); ok {
					if err := history.Remove(entry); err != nil {
						log.Warnf("tui: history remove: %v", err)
					}
					_, _ = b.loadHistory()
				}
			}
			return b, nil

		case key.Matches(msg, b.keymap.back):
			b.newState(searchState)
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, b.keymap.back):
			b.previousState()
		case key.Matches(msg, b.keymap.quit):
			return b, b.shutdown()
		}
	}
	return b, nil
}

// selectQueueEntry applies a queue selection off the update loop, since the
// resulting load blocks on the network and the player; the track change comes
// back through the surface messages.
func (b *statefulBubble) selectQueueEntry(coordinator *session.Coordinator, index int) tea.Cmd {
	return func() tea.Msg {
		coordinator.Queue().ItemSelected(index)
		return nil
	}
}

// advanceSession runs a queue traversal off the update loop; the result comes
// back through the surface messages.
func (b *statefulBubble) advanceSession(step func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := step(context.Background()); err != nil {
			b.errorChannel <- err
		}
		return nil
	}
}

func (b *statefulBubble) seekRelative(coordinator *session.Coordinator, deltaMs int64) {
	pos, err := coordinator.Position()
	if err != nil {
		return
	}

	target := pos + deltaMs
	if target < 0 {
		target = 0
	}
	if err = coordinator.SeekTo(target); err != nil {
		log.Warnf("tui: seek: %v", err)
	}
}
