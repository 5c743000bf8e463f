package session

import (
	"context"

	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/samber/mo"
)

// Mode identifies which kind of front-end is driving the session.
type Mode int

const (
	// Foreground - the interactive video surface.
	Foreground Mode = iota
	// BackgroundAudio - audio-only playback without a video output.
	BackgroundAudio
	// Detached - a minimal always-on-top surface (picture-in-picture analog).
	Detached
)

func (m Mode) String() string {
	switch m {
	case Foreground:
		return "foreground"
	case BackgroundAudio:
		return "background-audio"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// NowPlaying is the metadata pushed to surfaces and OS-level sinks whenever
// the current item changes.
type NowPlaying struct {
	VideoID      string
	Title        string
	Uploader     string
	ThumbnailURL string
	Duration     int64
}

// Controls is the uniform control surface exposed to every front-end. All
// play/pause/seek requests route through it - no surface may drive the player
// engine directly.
type Controls interface {
	Play() error
	Pause() error
	TogglePause() error
	SeekTo(ms int64) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	SkipSegment() error
}

// Surface receives session notifications. Implementations translate them into
// whatever the front-end renders; they must not block.
type Surface interface {
	// OnTrackChanged is invoked when the current item changes.
	OnTrackChanged(np NowPlaying)

	// OnStateChanged is invoked on every engine state transition.
	OnStateChanged(state player.State)

	// OnSkipAffordance is invoked in manual skip mode; None clears the affordance.
	OnSkipAffordance(segment mo.Option[sponsorblock.Segment])

	// OnNotice surfaces a brief, non-blocking message.
	OnNotice(text string)

	// OnQueueChanged is invoked after any queue mutation.
	OnQueueChanged()
}

// NowPlayingSink consumes now-playing metadata for OS-level integration
// (media notifications, remote controls).
type NowPlayingSink interface {
	UpdateNowPlaying(np NowPlaying)
}

// ControlSink is a NowPlayingSink that can also send control events back into
// the session. The coordinator binds itself on construction.
type ControlSink interface {
	NowPlayingSink
	BindControls(controls Controls)
}
