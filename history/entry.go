package history

import (
	"fmt"
	"time"

	"github.com/pipetube-cli/pipetube/piped"
)

// Entry represents a single watched video preserved in the user's history.
type Entry struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Uploader     string `json:"uploader"`
	UploaderURL  string `json:"uploader_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int64  `json:"duration"`
	WatchedAt    int64  `json:"watched_at"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s : %s", e.Title, e.Uploader)
}

func newEntry(item *piped.StreamItem) *Entry {
	return &Entry{
		VideoID:      item.ID(),
		Title:        item.Title,
		Uploader:     item.UploaderName,
		UploaderURL:  item.UploaderURL,
		ThumbnailURL: item.Thumbnail,
		Duration:     item.Duration,
		WatchedAt:    time.Now().Unix(),
	}
}
