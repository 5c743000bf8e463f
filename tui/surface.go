package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/session"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/samber/mo"
)

// Session notifications are delivered as Bubble Tea messages so they join the
// single update loop instead of mutating the model from another goroutine.
type (
	trackChangedMsg   struct{ np session.NowPlaying }
	playerStateMsg    struct{ state player.State }
	skipAffordanceMsg struct {
		segment mo.Option[sponsorblock.Segment]
	}
	queueChangedMsg struct{}
	positionTickMsg struct{}
	windowTitleMsg  struct{ title string }
)

// programSurface bridges the session.Surface seam into the running Bubble Tea
// program.
type programSurface struct {
	program *tea.Program
}

func (s *programSurface) OnTrackChanged(np session.NowPlaying) {
	s.program.Send(trackChangedMsg{np: np})
}

func (s *programSurface) OnStateChanged(state player.State) {
	s.program.Send(playerStateMsg{state: state})
}

func (s *programSurface) OnSkipAffordance(segment mo.Option[sponsorblock.Segment]) {
	s.program.Send(skipAffordanceMsg{segment: segment})
}

func (s *programSurface) OnNotice(text string) {
	s.program.Send(text)
}

func (s *programSurface) OnQueueChanged() {
	s.program.Send(queueChangedMsg{})
}

// UpdateNowPlaying implements session.NowPlayingSink: the current track lands
// in the terminal window title.
func (s *programSurface) UpdateNowPlaying(np session.NowPlaying) {
	s.program.Send(windowTitleMsg{title: fmt.Sprintf("%s - %s", np.Title, constant.Pipetube)})
}
