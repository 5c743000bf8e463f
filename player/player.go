// Package player defines a unified abstraction layer for media playback engines.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package player

// State models the coarse lifecycle of the playback engine.
type State int

const (
	// StateIdle - no media is loaded.
	StateIdle State = iota
	// StateBuffering - media is loaded but not yet (or no longer) ready.
	StateBuffering
	// StateReady - media is prepared and actually playable.
	StateReady
	// StateEnded - playback reached the end of the media.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuffering:
		return "buffering"
	case StateReady:
		return "ready"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a state-change notification emitted by an engine.
type Event struct {
	State State
}

// Media describes a single prepared media source.
type Media struct {
	// URL is the direct stream location handed to the engine.
	URL string
	// Title is the display title forced onto the engine window/UI.
	Title string
	// Headers are HTTP headers required to access the stream.
	Headers map[string]string
}

// Engine encapsulates the required capabilities for a media playback backend.
// Exactly one owner may drive an Engine at a time; all positions are absolute
// milliseconds.
type Engine interface {
	// Prepare loads the given media without starting playback.
	// If an engine instance is already running, it loads the new media into it.
	Prepare(media Media) error

	// Play resumes or starts playback of the prepared media.
	Play() error

	// Pause suspends playback.
	Pause() error

	// TogglePause inverts the current playback suspension state.
	TogglePause() error

	// SeekTo transitions the playback position to an absolute timestamp.
	SeekTo(ms int64) error

	// Position retrieves the current absolute playback position.
	Position() (int64, error)

	// Duration retrieves the total temporal length of the active media.
	Duration() (int64, error)

	// Playing reports whether media is loaded and not paused.
	Playing() (bool, error)

	// Events returns the state-change notification stream. The channel is
	// closed when the engine shuts down.
	Events() <-chan Event

	// Close terminates the playback engine and releases all associated system resources.
	Close() error
}
