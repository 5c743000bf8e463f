// Package session implements the playback session coordinator: the single
// owner of the player engine, the playing queue and the skip engine for one
// playback lifetime. Front-ends attach as thin surfaces and route every
// control request through the coordinator.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/log"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/player"
	"github.com/pipetube-cli/pipetube/queue"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// watchPositionBoundary is the fraction of the media duration above which a
// saved position counts as "finished" and is not restored.
const watchPositionBoundary = 0.9

// savePositionInterval is the cadence of periodic watch position snapshots
// while a session is alive.
const savePositionInterval = 10 * time.Second

// Options bundles the collaborators and the behavior snapshot for one
// coordinator. Zero-value behavior fields mean "off"; use FromConfig to
// populate them from the user configuration.
type Options struct {
	Gateway   Gateway
	Queue     *queue.Queue
	Engine    player.Engine
	Segments  SegmentSource
	Positions PositionStore
	History   HistoryStore
	Sink      NowPlayingSink
	Mode      Mode

	Autoplay          bool
	QueueRepeat       bool
	AutoInsertRelated bool
	SponsorEnabled    bool
	SponsorManual     bool
	SponsorNotify     bool
	SponsorCategories []string
}

// FromConfig fills the behavior fields from the user configuration, leaving
// the collaborator fields untouched.
func (o Options) FromConfig() Options {
	o.Autoplay = viper.GetBool(key.PlayerAutoplay)
	o.QueueRepeat = viper.GetBool(key.QueueRepeat)
	o.AutoInsertRelated = viper.GetBool(key.QueueAutoInsertRelated)
	o.SponsorEnabled = viper.GetBool(key.SponsorBlockEnabled)
	o.SponsorManual = viper.GetBool(key.SponsorBlockSkipManually)
	o.SponsorNotify = viper.GetBool(key.SponsorBlockNotifications)
	o.SponsorCategories = viper.GetStringSlice(key.SponsorBlockCategories)

	if viper.GetBool(key.HistoryWatchPositions) && o.Positions == nil {
		o.Positions = DefaultPositionStore()
	}
	if viper.GetBool(key.HistoryWatchHistory) && o.History == nil {
		o.History = DefaultHistoryStore()
	}
	return o
}

// LoadRequest describes one load of a video into the session.
type LoadRequest struct {
	// VideoID is the video to play, as a canonical id or any recognized URL form.
	VideoID string

	// PlaylistID, when set, populates an empty queue from that playlist.
	PlaylistID string

	// ChannelID, when set, populates an empty queue from that channel's uploads.
	ChannelID string

	// TimestampSec, when positive, overrides the saved watch position.
	TimestampSec int64
}

// Coordinator drives exactly one playback session. It owns the engine and the
// queue, holds the transition guard, restores and persists watch positions,
// and runs the segment poll loop. All methods are safe for concurrent use.
type Coordinator struct {
	gateway   Gateway
	queue     *queue.Queue
	engine    player.Engine
	segments  SegmentSource
	positions PositionStore
	history   HistoryStore
	sink      NowPlayingSink
	skipper   *player.Skipper
	mode      Mode

	autoplay          bool
	autoInsertRelated bool
	sponsorEnabled    bool
	sponsorNotify     bool
	sponsorCategories []string

	mu            sync.Mutex
	surface       Surface
	currentID     string
	streams       *piped.Streams
	transitioning bool
	polling       bool

	pumpOnce sync.Once
	closed   chan struct{}
}

// New wires a coordinator from the given options. The coordinator registers
// itself as the queue listener; queue selections route back into playback.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		gateway:           opts.Gateway,
		queue:             opts.Queue,
		engine:            opts.Engine,
		segments:          opts.Segments,
		positions:         opts.Positions,
		history:           opts.History,
		sink:              opts.Sink,
		skipper:           player.NewSkipper(opts.SponsorManual),
		mode:              opts.Mode,
		autoplay:          opts.Autoplay,
		autoInsertRelated: opts.AutoInsertRelated,
		sponsorEnabled:    opts.SponsorEnabled,
		sponsorNotify:     opts.SponsorNotify,
		sponsorCategories: opts.SponsorCategories,
		closed:            make(chan struct{}),
	}

	c.queue.SetRepeat(opts.QueueRepeat)
	c.queue.SetListener(c)
	if controlSink, ok := opts.Sink.(ControlSink); ok {
		controlSink.BindControls(c)
	}
	return c
}

// Attach registers the active surface, replacing any previous one.
func (c *Coordinator) Attach(surface Surface) {
	c.mu.Lock()
	c.surface = surface
	c.mu.Unlock()
}

// Detach removes the active surface. Playback continues headless.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	c.surface = nil
	c.mu.Unlock()
}

// Mode reports which kind of front-end owns this session.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// Queue exposes the session's queue handle for display purposes. Mutations go
// through the queue itself; playback-affecting selections come back through
// the listener seam.
func (c *Coordinator) Queue() *queue.Queue {
	return c.queue
}

// Current returns the canonical id of the loaded video, empty when nothing is
// loaded yet.
func (c *Coordinator) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// Streams returns the full metadata document of the loaded video.
func (c *Coordinator) Streams() *piped.Streams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streams
}

// Load resolves the requested video, registers it as the queue's current
// entry, prepares the engine and starts the session loops. A gateway failure
// aborts the load without mutating the queue or the current pointer.
func (c *Coordinator) Load(ctx context.Context, req LoadRequest) error {
	videoID := piped.VideoID(req.VideoID)

	streams, err := c.gateway.Streams(ctx, videoID)
	if err != nil {
		c.notice(loadNotice(err))
		return fmt.Errorf("load %s: %w", videoID, err)
	}
	item := streams.Item(videoID)

	c.populateQueue(ctx, req, item, streams)

	c.mu.Lock()
	c.currentID = videoID
	c.streams = streams
	c.mu.Unlock()

	media := player.Media{
		URL:   streams.MediaURL(c.mode == BackgroundAudio),
		Title: streams.Title,
	}
	if err = c.engine.Prepare(media); err != nil {
		c.mu.Lock()
		c.transitioning = false
		c.mu.Unlock()
		c.notice(fmt.Sprintf("player failed to load media: %v", err))
		return fmt.Errorf("prepare %s: %w", videoID, err)
	}

	c.seekToSavedPosition(videoID, req.TimestampSec, streams.Duration)

	if c.autoplay {
		c.engineDo(c.engine.Play)
	}

	c.startEventPump()
	c.refreshSegments(ctx, videoID)
	c.announceTrack(item)

	if c.history != nil {
		if err := c.history.Add(item); err != nil {
			log.Warnf("session: history write failed: %v", err)
		}
	}
	return nil
}

// populateQueue registers the item as current and, when the queue is empty,
// seeds it from the requested playlist/channel context or from the video's
// related streams.
func (c *Coordinator) populateQueue(ctx context.Context, req LoadRequest, item *piped.StreamItem, streams *piped.Streams) {
	if !c.queue.IsEmpty() {
		c.queue.UpdateCurrent(item, true)
		return
	}

	switch {
	case req.PlaylistID != "":
		if err := c.queue.InsertPlaylist(ctx, req.PlaylistID, item); err != nil {
			log.Warnf("session: playlist %s load failed: %v", req.PlaylistID, err)
			c.queue.UpdateCurrent(item, true)
		}
	case req.ChannelID != "":
		if err := c.queue.InsertChannel(ctx, req.ChannelID, item); err != nil {
			log.Warnf("session: channel %s load failed: %v", req.ChannelID, err)
			c.queue.UpdateCurrent(item, true)
		}
	default:
		c.queue.UpdateCurrent(item, true)
		if c.autoInsertRelated {
			related := make([]*piped.StreamItem, 0, len(streams.Related))
			for i := range streams.Related {
				if !streams.Related[i].IsShort {
					related = append(related, &streams.Related[i])
				}
			}
			c.queue.Add(related...)
		}
	}
}

// seekToSavedPosition restores the persisted watch position unless an explicit
// timestamp was requested. Positions at or beyond 90% of the duration count as
// finished and restart playback from the beginning.
func (c *Coordinator) seekToSavedPosition(videoID string, timestampSec, durationSec int64) {
	if timestampSec > 0 {
		c.engineDo(func() error { return c.engine.SeekTo(timestampSec * 1000) })
		return
	}
	if c.positions == nil {
		return
	}

	pos, err := c.positions.Position(videoID)
	if err != nil {
		log.Warnf("session: watch position read failed: %v", err)
		return
	}
	saved, ok := pos.Get()
	if !ok || saved == 0 {
		return
	}
	if float64(saved) < float64(durationSec*1000)*watchPositionBoundary {
		c.engineDo(func() error { return c.engine.SeekTo(saved) })
	}
}

// Next advances to the entry after the queue's current one. A no-op while a
// transition is already in flight or when no next entry resolves.
func (c *Coordinator) Next(ctx context.Context) error {
	return c.advance(ctx, c.queue.Next())
}

// Prev moves to the entry before the queue's current one, under the same
// guard as Next.
func (c *Coordinator) Prev(ctx context.Context) error {
	return c.advance(ctx, c.queue.Prev())
}

// advance saves the outgoing position, arms the transition guard and loads the
// resolved entry. The guard stays set until the engine reports ready, so a
// burst of advance requests moves the session exactly one step.
func (c *Coordinator) advance(ctx context.Context, target mo.Option[string]) error {
	c.mu.Lock()
	if c.transitioning {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	videoID, ok := target.Get()
	if !ok {
		return nil
	}

	c.SaveWatchPosition()

	c.mu.Lock()
	if c.transitioning {
		c.mu.Unlock()
		return nil
	}
	c.transitioning = true
	c.mu.Unlock()

	err := c.Load(ctx, LoadRequest{VideoID: videoID})
	if err != nil {
		c.mu.Lock()
		c.transitioning = false
		c.mu.Unlock()
	}
	return err
}

// Transitioning reports whether a track transition is in flight.
func (c *Coordinator) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitioning
}

// OnItemSelected implements queue.Listener: an explicit queue selection plays
// that entry, bypassing the Next/Prev resolution but keeping the transition
// guard.
func (c *Coordinator) OnItemSelected(item *piped.StreamItem) {
	if item.ID() == c.Current() {
		return
	}
	if err := c.advance(context.Background(), mo.Some(item.ID())); err != nil {
		log.Errorf("session: queue selection failed: %v", err)
	}
}

// OnQueueChanged implements queue.Listener.
func (c *Coordinator) OnQueueChanged() {
	if surface := c.currentSurface(); surface != nil {
		surface.OnQueueChanged()
	}
}

// Play resumes playback.
func (c *Coordinator) Play() error {
	err := c.engine.Play()
	if err == nil {
		c.startSegmentPoll()
	}
	return err
}

// Pause suspends playback. The segment poll loop notices and cancels itself.
func (c *Coordinator) Pause() error {
	return c.engine.Pause()
}

// TogglePause inverts the playback suspension state.
func (c *Coordinator) TogglePause() error {
	err := c.engine.TogglePause()
	if err == nil {
		c.startSegmentPoll()
	}
	return err
}

// SeekTo moves the playback position to an absolute millisecond timestamp.
func (c *Coordinator) SeekTo(ms int64) error {
	return c.engine.SeekTo(ms)
}

// Position reports the current playback position in milliseconds.
func (c *Coordinator) Position() (int64, error) {
	return c.engine.Position()
}

// Duration reports the length of the loaded media in milliseconds.
func (c *Coordinator) Duration() (int64, error) {
	return c.engine.Duration()
}

// PendingSkip returns the manual-mode skip affordance for the current
// position, if any.
func (c *Coordinator) PendingSkip() mo.Option[sponsorblock.Segment] {
	pos, err := c.engine.Position()
	if err != nil {
		return mo.None[sponsorblock.Segment]()
	}
	return c.skipper.Pending(pos)
}

// SkipSegment acts on the pending skip affordance in manual mode: the
// containing segment is marked skipped and the position jumps past it.
func (c *Coordinator) SkipSegment() error {
	pos, err := c.engine.Position()
	if err != nil {
		return err
	}

	target, ok := c.skipper.Skip(pos).Get()
	if !ok {
		return nil
	}
	if surface := c.currentSurface(); surface != nil {
		surface.OnSkipAffordance(mo.None[sponsorblock.Segment]())
	}
	return c.engine.SeekTo(target)
}

// SaveWatchPosition snapshots the current playback position into the position
// store. Nothing is written while a transition is in flight or before playback
// has actually progressed, so a stale read can never clobber a good snapshot.
func (c *Coordinator) SaveWatchPosition() {
	c.mu.Lock()
	videoID := c.currentID
	transitioning := c.transitioning
	c.mu.Unlock()

	if transitioning || videoID == "" || c.positions == nil {
		return
	}

	pos, err := c.engine.Position()
	if err != nil || pos == 0 {
		return
	}
	if err = c.positions.Save(videoID, pos); err != nil {
		log.Warnf("session: watch position write failed: %v", err)
	}
}

// Close persists the final watch position and shuts the session down.
func (c *Coordinator) Close() error {
	c.SaveWatchPosition()

	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return c.engine.Close()
}

// startEventPump consumes engine state events for the whole session lifetime:
// it clears the transition guard on ready, chains into the next entry on end
// and forwards every state to the surface.
func (c *Coordinator) startEventPump() {
	c.pumpOnce.Do(func() {
		go func() {
			for event := range c.engine.Events() {
				switch event.State {
				case player.StateReady:
					c.mu.Lock()
					c.transitioning = false
					c.mu.Unlock()
					c.startSegmentPoll()
				case player.StateEnded:
					c.onPlaybackEnded()
				}

				if surface := c.currentSurface(); surface != nil {
					surface.OnStateChanged(event.State)
				}
			}
		}()

		go c.savePositionLoop()
	})
}

// onPlaybackEnded chains into the next queue entry when autoplay is on. The
// transition guard absorbs the race between the engine's end event and a
// simultaneous manual skip.
func (c *Coordinator) onPlaybackEnded() {
	c.mu.Lock()
	transitioning := c.transitioning
	c.mu.Unlock()

	if transitioning || !c.autoplay {
		return
	}
	if err := c.Next(context.Background()); err != nil {
		log.Errorf("session: autoplay advance failed: %v", err)
	}
}

// savePositionLoop periodically snapshots the watch position so a crash loses
// at most one interval of progress.
func (c *Coordinator) savePositionLoop() {
	ticker := time.NewTicker(savePositionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.SaveWatchPosition()
		}
	}
}

// refreshSegments fetches the skip segments for the new video and installs
// them wholesale, then starts the poll loop. Segment lookup is best-effort;
// a failure leaves the session without skipping.
func (c *Coordinator) refreshSegments(ctx context.Context, videoID string) {
	c.skipper.Replace(nil)
	if !c.sponsorEnabled || c.segments == nil {
		return
	}

	go func() {
		segments, err := c.segments.Segments(ctx, videoID, c.sponsorCategories)
		if err != nil {
			log.Warnf("session: segment lookup failed: %v", err)
			return
		}
		c.skipper.Replace(segments)
		c.startSegmentPoll()
	}()
}

// startSegmentPoll launches the position poll loop unless one is already
// running. The loop cancels itself as soon as playback stops; resuming
// playback starts a fresh one.
func (c *Coordinator) startSegmentPoll() {
	if !c.sponsorEnabled || !c.skipper.HasSegments() {
		return
	}

	c.mu.Lock()
	if c.polling {
		c.mu.Unlock()
		return
	}
	c.polling = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.polling = false
			c.mu.Unlock()
		}()

		ticker := time.NewTicker(player.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-c.closed:
				return
			case <-ticker.C:
				playing, err := c.engine.Playing()
				if err != nil || !playing {
					return
				}
				c.checkSegments()
			}
		}
	}()
}

// checkSegments runs one poll tick: in manual mode it keeps the skip
// affordance in sync with the current position, otherwise it seeks past the
// first pending segment containing the position.
func (c *Coordinator) checkSegments() {
	pos, err := c.engine.Position()
	if err != nil {
		return
	}

	if c.skipper.Manual() {
		if surface := c.currentSurface(); surface != nil {
			surface.OnSkipAffordance(c.skipper.Pending(pos))
		}
		return
	}

	target, ok := c.skipper.Skip(pos).Get()
	if !ok {
		return
	}
	if err = c.engine.SeekTo(target); err != nil {
		log.Warnf("session: segment skip seek failed: %v", err)
		return
	}
	if c.sponsorNotify {
		c.notice("skipped a sponsored segment")
	}
}

// engineDo runs an engine command and retries playback once on failure, which
// papers over the transient errors an external player emits right after a
// media swap.
func (c *Coordinator) engineDo(command func() error) {
	if err := command(); err != nil {
		log.Warnf("session: player command failed, resuming playback: %v", err)
		if err = c.engine.Play(); err != nil {
			log.Errorf("session: playback resume failed: %v", err)
		}
	}
}

// announceTrack pushes the new current item to the surface and the OS-level
// now-playing sink.
func (c *Coordinator) announceTrack(item *piped.StreamItem) {
	np := NowPlaying{
		VideoID:      item.ID(),
		Title:        item.Title,
		Uploader:     item.UploaderName,
		ThumbnailURL: item.Thumbnail,
		Duration:     item.Duration,
	}

	if surface := c.currentSurface(); surface != nil {
		surface.OnTrackChanged(np)
	}
	if c.sink != nil {
		c.sink.UpdateNowPlaying(np)
	}
}

func (c *Coordinator) currentSurface() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

func (c *Coordinator) notice(text string) {
	if surface := c.currentSurface(); surface != nil {
		surface.OnNotice(text)
	}
}

// loadNotice phrases a gateway failure for the surface, separating connectivity
// problems from instance-side errors.
func loadNotice(err error) string {
	switch {
	case piped.IsTransport(err):
		return fmt.Sprintf("cannot reach the api instance: %v", err)
	case piped.IsProtocol(err):
		return fmt.Sprintf("the api instance returned an error: %v", err)
	default:
		return fmt.Sprintf("failed to load video: %v", err)
	}
}
