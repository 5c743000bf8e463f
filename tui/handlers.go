package tui

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pipetube-cli/pipetube/history"
	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/query"
	"github.com/pipetube-cli/pipetube/queue"
	"github.com/pipetube-cli/pipetube/session"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// sessionStartedMsg signals that the playback session finished loading its
// first video.
type sessionStartedMsg struct{}

// searchVideos runs the remote search concurrently and records the query in
// the suggestion history.
func (b *statefulBubble) searchVideos(q string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		result, err := b.client.Search(ctx, q)
		if err != nil {
			b.errorChannel <- err
			return nil
		}

		_ = query.Remember(q, 1)

		b.foundStreamsChannel <- lo.Map(result.Items, func(item piped.StreamItem, _ int) *piped.StreamItem {
			found := item
			return &found
		})
		return nil
	}
}

func (b *statefulBubble) waitForStreams() tea.Cmd {
	return func() tea.Msg {
		return <-b.foundStreamsChannel
	}
}

func (b *statefulBubble) waitForSessionStarted() tea.Cmd {
	return func() tea.Msg {
		<-b.sessionReadyChannel
		return sessionStartedMsg{}
	}
}

func (b *statefulBubble) waitForError() tea.Cmd {
	return func() tea.Msg {
		return <-b.errorChannel
	}
}

// startSession spins up a fresh playback session for the given video and
// activates it, replacing any previous session. The load itself runs
// concurrently; completion arrives as sessionStartedMsg.
func (b *statefulBubble) startSession(videoID string, req session.LoadRequest) tea.Cmd {
	engine, err := player.New(viper.GetString(key.PlayerDefault), player.EngineOptions{
		Videoless: b.options.Audio,
	})
	if err != nil {
		return func() tea.Msg {
			b.errorChannel <- err
			return nil
		}
	}

	opts := session.Options{
		Gateway:  b.client,
		Queue:    queue.New(b.client),
		Engine:   engine,
		Segments: b.segmentSource(),
		Sink:     b.surface,
		Mode:     b.sessionMode(),
	}.FromConfig()

	coordinator := session.New(opts)
	coordinator.Attach(b.surface)
	b.manager.Activate(coordinator)

	req.VideoID = videoID

	return func() tea.Msg {
		if err := coordinator.Load(context.Background(), req); err != nil {
			b.errorChannel <- err
			return nil
		}
		b.sessionReadyChannel <- struct{}{}
		return nil
	}
}

func (b *statefulBubble) sessionMode() session.Mode {
	if b.options.Audio {
		return session.BackgroundAudio
	}
	return session.Foreground
}

func (b *statefulBubble) segmentSource() session.SegmentSource {
	return b.options.Segments
}

// loadHistory fills the history component from the persistent store, most
// recently watched first.
func (b *statefulBubble) loadHistory() (int, error) {
	saved, err := history.Get()
	if err != nil {
		return 0, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].WatchedAt > entries[j].WatchedAt
	})

	items := lo.Map(entries, func(entry *history.Entry, _ int) list.Item {
		return &listItem{internal: entry}
	})

	b.historyC.SetItems(items)
	return len(items), nil
}

// syncQueue mirrors the live queue into the queue list component, marking the
// current entry.
func (b *statefulBubble) syncQueue() {
	coordinator := b.coordinator()
	if coordinator == nil {
		b.queueC.SetItems([]list.Item{})
		return
	}

	currentID := coordinator.Current()
	items := lo.Map(coordinator.Queue().Items(), func(item *piped.StreamItem, _ int) list.Item {
		return &listItem{internal: item, playing: item.ID() == currentID}
	})

	b.queueC.SetItems(items)
}

// updateSearchSuggestion refreshes the inline suggestion for the current
// input.
func (b *statefulBubble) updateSearchSuggestion() {
	if value := b.inputC.Value(); value != "" {
		b.searchSuggestion = query.Suggest(value)
	} else {
		b.searchSuggestion = mo.None[string]()
	}
}

// tickPosition schedules the once-a-second progress refresh shown in the
// now-playing view.
func (b *statefulBubble) tickPosition() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return positionTickMsg{}
	})
}

// refreshPosition pulls position and duration from the live session.
func (b *statefulBubble) refreshPosition() {
	coordinator := b.coordinator()
	if coordinator == nil {
		return
	}

	if pos, err := coordinator.Position(); err == nil {
		b.positionMs = pos
	}
	if dur, err := coordinator.Duration(); err == nil {
		b.durationMs = dur
	}
}
