package session

import (
	"context"

	"github.com/pipetube-cli/pipetube/history"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/sponsorblock"
	"github.com/samber/mo"
)

// Gateway is the subset of the API client the coordinator needs for loading
// a single video.
type Gateway interface {
	Streams(ctx context.Context, videoID string) (*piped.Streams, error)
}

// SegmentSource fetches skip segments for a video. Implementations must
// soft-fail: no segments is a normal, non-error outcome.
type SegmentSource interface {
	Segments(ctx context.Context, videoID string, categories []string) ([]sponsorblock.Segment, error)
}

// PositionStore persists and restores per-video watch positions.
type PositionStore interface {
	Position(videoID string) (mo.Option[int64], error)
	Save(videoID string, ms int64) error
}

// HistoryStore records watched videos.
type HistoryStore interface {
	Add(item *piped.StreamItem) error
}

// positionStore adapts the history package to the PositionStore seam.
type positionStore struct{}

func (positionStore) Position(videoID string) (mo.Option[int64], error) {
	return history.Position(videoID)
}

func (positionStore) Save(videoID string, ms int64) error {
	return history.SavePosition(videoID, ms)
}

// historyStore adapts the history package to the HistoryStore seam.
type historyStore struct{}

func (historyStore) Add(item *piped.StreamItem) error {
	return history.Add(item)
}

// DefaultPositionStore returns the gache-backed watch position store.
func DefaultPositionStore() PositionStore {
	return positionStore{}
}

// DefaultHistoryStore returns the gache-backed watch history store.
func DefaultHistoryStore() HistoryStore {
	return historyStore{}
}
