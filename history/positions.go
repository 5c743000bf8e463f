package history

import (
	"github.com/metafates/gache"
	"github.com/pipetube-cli/pipetube/filesystem"
	"github.com/pipetube-cli/pipetube/where"
	"github.com/samber/mo"
)

// positionCacher persists per-video playback positions keyed by canonical video id.
var positionCacher = gache.New[map[string]int64](
	&gache.Options{
		Path:       where.WatchPositions(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Position returns the saved playback position for a video in milliseconds.
func Position(videoID string) (mo.Option[int64], error) {
	cached, expired, err := positionCacher.Get()
	if err != nil {
		return mo.None[int64](), err
	}
	if expired || cached == nil {
		return mo.None[int64](), nil
	}

	ms, ok := cached[videoID]
	if !ok {
		return mo.None[int64](), nil
	}
	return mo.Some(ms), nil
}

// SavePosition persists the playback position of a video in milliseconds,
// overwriting any previous snapshot.
func SavePosition(videoID string, ms int64) error {
	cached, expired, err := positionCacher.Get()
	if err != nil || expired || cached == nil {
		cached = make(map[string]int64)
	}

	cached[videoID] = ms
	return positionCacher.Set(cached)
}

// RemovePosition deletes the saved position for a video.
func RemovePosition(videoID string) error {
	cached, expired, err := positionCacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	delete(cached, videoID)
	return positionCacher.Set(cached)
}
