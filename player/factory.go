package player

import (
	"fmt"
	"strings"
)

// EngineOptions carries the per-session knobs an engine is constructed with.
type EngineOptions struct {
	// Videoless runs the engine without a video output for audio-only sessions.
	Videoless bool

	// OnTop keeps the video window above other windows (picture-in-picture
	// analog for detached sessions).
	OnTop bool
}

// New resolves the configured engine by name. An empty name selects mpv, the
// default engine.
func New(name string, opts EngineOptions) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mpv":
		m := NewMPV(opts.Videoless)
		m.ontop = opts.OnTop
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported player engine %q", name)
	}
}
