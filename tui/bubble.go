package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/internal/ui"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/session"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/pipetube-cli/pipetube/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// statefulBubble encapsulates the application state: component models,
// workflow tracking and the live playback session.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	resultsC  list.Model
	queueC    list.Model
	historyC  list.Model
	progressC progress.Model
	helpC     help.Model

	client  *piped.Client
	manager *session.Manager
	surface *programSurface

	foundStreamsChannel chan []*piped.StreamItem
	sessionReadyChannel chan struct{}
	errorChannel        chan error

	nowPlaying  session.NowPlaying
	playerState player.State
	pendingSkip mo.Option[sponsorblock.Segment]
	positionMs  int64
	durationMs  int64

	lastError        error
	width, height    int
	searchSuggestion mo.Option[string]
	notifier         *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates an idempotent transition to a target state, recording
// the previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		s := b.statesHistory.Pop()
		b.setState(s)
	}
}

// coordinator returns the active playback session, nil when none has been
// started yet.
func (b *statefulBubble) coordinator() *session.Coordinator {
	return b.manager.Active()
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	styledWidth := width - x
	styledHeight := height - y

	listWidth := width - xx
	listHeight := height - yy

	b.resultsC.SetSize(listWidth, listHeight)
	b.resultsC.Help.Width = listWidth

	b.queueC.SetSize(listWidth, listHeight)
	b.queueC.Help.Width = listWidth

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = styledWidth

	b.width = styledWidth
	b.height = styledHeight
	b.helpC.Width = listWidth
}

// startLoading enters a concurrent loading state, initializing visual indicators across child components.
func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return tea.Batch(b.resultsC.StartSpinner(), b.spinnerC.Tick)
}

// stopLoading exits the loading state and synchronizes child component visual indicators.
func (b *statefulBubble) stopLoading() tea.Cmd {
	b.loading = false
	b.resultsC.StopSpinner()
	return nil
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		client:  piped.NewClient(),
		manager: session.NewManager(),

		foundStreamsChannel: make(chan []*piped.StreamItem),
		sessionReadyChannel: make(chan struct{}),
		errorChannel:        make(chan error),

		notifier: &ui.Model{},
		options:  options,
	}

	makeList := func(title string, description bool, titleBg lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(color.Orange).
			Foreground(color.Orange).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(color.White)
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		listC.Styles.Title = lipgloss.NewStyle().Foreground(color.New("230")).Background(titleBg).Padding(0, 1)
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(color.New("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search Videos (v%s)", constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = "> "

	bubble.progressC = progress.New(progress.WithDefaultGradient())
	bubble.progressC.ShowPercentage = false

	bubble.resultsC = makeList("Search Results", true, color.New("62"))
	bubble.resultsC.SetStatusBarItemName("video", "videos")

	bubble.queueC = makeList("Playing Queue", true, color.New("136"))
	bubble.queueC.SetStatusBarItemName("entry", "entries")

	bubble.historyC = makeList("Watch History", true, color.New("94"))
	bubble.historyC.SetStatusBarItemName("entry", "entries")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return &bubble
}
