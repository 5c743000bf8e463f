package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/queue"
	"github.com/pipetube-cli/pipetube/session"
	. "github.com/smartystreets/goconvey/convey"
)

type stubGateway struct {
	streams map[string]*piped.Streams
}

func (g *stubGateway) Streams(_ context.Context, videoID string) (*piped.Streams, error) {
	if streams, ok := g.streams[videoID]; ok {
		return streams, nil
	}
	return nil, errors.New("not found")
}

func (g *stubGateway) PlaylistPage(_ context.Context, _, _ string) (*piped.Page, error) {
	return nil, errors.New("no playlists")
}

func (g *stubGateway) ChannelPage(_ context.Context, _, _ string) (*piped.Page, error) {
	return nil, errors.New("no channels")
}

type stubEngine struct {
	mu     sync.Mutex
	events chan player.Event
	closed bool
}

func newStubEngine() *stubEngine {
	return &stubEngine{events: make(chan player.Event, 8)}
}

func (e *stubEngine) Prepare(player.Media) error { return nil }
func (e *stubEngine) Play() error                { return nil }
func (e *stubEngine) Pause() error               { return nil }
func (e *stubEngine) TogglePause() error         { return nil }
func (e *stubEngine) SeekTo(int64) error         { return nil }
func (e *stubEngine) Position() (int64, error)   { return 0, nil }
func (e *stubEngine) Duration() (int64, error)   { return 0, nil }
func (e *stubEngine) Playing() (bool, error)     { return false, nil }

func (e *stubEngine) Events() <-chan player.Event { return e.events }

func (e *stubEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.events)
	}
	return nil
}

func TestQueueSelectionDeferred(t *testing.T) {
	Convey("Given the queue view over a live session", t, func() {
		gateway := &stubGateway{streams: map[string]*piped.Streams{
			"a": {Title: "Alpha", HLS: "https://example.invalid/a.m3u8", Duration: 100},
			"b": {Title: "Beta", HLS: "https://example.invalid/b.m3u8", Duration: 100},
		}}

		coordinator := session.New(session.Options{
			Gateway: gateway,
			Queue:   queue.New(gateway),
			Engine:  newStubEngine(),
		})
		defer coordinator.Close()

		So(coordinator.Load(context.Background(), session.LoadRequest{VideoID: "a"}), ShouldBeNil)
		coordinator.Queue().Add(&piped.StreamItem{URL: "/watch?v=b", Title: "Beta"})

		bubble := newBubble(&Options{})
		bubble.resize(80, 40)
		bubble.manager.Activate(coordinator)
		bubble.setState(queueState)
		bubble.syncQueue()
		bubble.queueC.Select(1)

		Convey("Confirming a selection returns a command instead of loading inline", func() {
			_, cmd := bubble.updateQueue(tea.KeyMsg{Type: tea.KeyEnter})
			So(cmd, ShouldNotBeNil)
			So(coordinator.Current(), ShouldEqual, "a")
			So(bubble.state, ShouldEqual, playingState)

			Convey("Running the command applies the selection", func() {
				cmd()
				So(coordinator.Current(), ShouldEqual, "b")
			})
		})
	})
}
