package cmd

import (
	"fmt"
	"sync"

	"github.com/pipetube-cli/pipetube/color"
	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/session"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/pipetube-cli/pipetube/style"
	"github.com/pipetube-cli/pipetube/util"
	"github.com/samber/mo"
)

// inlineSurface is the minimal non-TUI session surface used by the play
// command: it prints track changes and notices to the terminal and signals
// completion once the queue is exhausted. It doubles as the now-playing sink,
// mirroring the track into the terminal window title. The coordinator field is
// assigned by the caller right after session construction, before any event
// can arrive.
type inlineSurface struct {
	coordinator *session.Coordinator

	mu       sync.Mutex
	done     chan struct{}
	finished bool
}

func newInlineSurface() *inlineSurface {
	return &inlineSurface{
		done: make(chan struct{}),
	}
}

func (s *inlineSurface) OnTrackChanged(np session.NowPlaying) {
	fmt.Printf("%s %s %s\n",
		style.Fg(color.Green)("▶"),
		style.Bold(np.Title),
		style.Faint(fmt.Sprintf("(%s, %s)", np.Uploader, util.FormatDuration(np.Duration*1000))),
	)
}

func (s *inlineSurface) OnStateChanged(state player.State) {
	if state != player.StateEnded {
		return
	}
	if s.coordinator.Transitioning() || s.coordinator.Queue().HasNext() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.finished = true
		close(s.done)
	}
}

func (s *inlineSurface) OnSkipAffordance(segment mo.Option[sponsorblock.Segment]) {
	if pending, ok := segment.Get(); ok {
		fmt.Println(style.Fg(color.Yellow)(fmt.Sprintf("%s segment playing", util.Capitalize(pending.Category))))
	}
}

func (s *inlineSurface) OnNotice(text string) {
	fmt.Println(style.Faint(text))
}

func (s *inlineSurface) OnQueueChanged() {}

// UpdateNowPlaying implements session.NowPlayingSink via the xterm title
// escape sequence.
func (s *inlineSurface) UpdateNowPlaying(np session.NowPlaying) {
	fmt.Printf("\x1b]0;%s - %s\x07", np.Title, constant.Pipetube)
}
