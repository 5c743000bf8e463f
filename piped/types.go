package piped

// StreamItem represents a single video reference as returned inside feeds,
// playlists, channels and related-stream lists.
type StreamItem struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	UploaderName string `json:"uploaderName"`
	UploaderURL  string `json:"uploaderUrl"`
	UploadedDate string `json:"uploadedDate"`
	Duration     int64  `json:"duration"`
	Uploaded     int64  `json:"uploaded"`
	IsShort      bool   `json:"isShort"`
}

// ID returns the canonical video identifier for this item.
func (s *StreamItem) ID() string {
	return VideoID(s.URL)
}

// Streams is the full metadata document for a single video.
type Streams struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Uploader     string       `json:"uploader"`
	UploaderURL  string       `json:"uploaderUrl"`
	UploadDate   string       `json:"uploadDate"`
	Thumbnail    string       `json:"thumbnailUrl"`
	HLS          string       `json:"hls"`
	Dash         string       `json:"dash"`
	Duration     int64        `json:"duration"`
	Views        int64        `json:"views"`
	Likes        int64        `json:"likes"`
	Livestream   bool         `json:"livestream"`
	AudioStreams []MediaTrack `json:"audioStreams"`
	VideoStreams []MediaTrack `json:"videoStreams"`
	Related      []StreamItem `json:"relatedStreams"`
}

// MediaTrack is a single downloadable/streamable rendition of a video.
type MediaTrack struct {
	URL      string `json:"url"`
	Format   string `json:"format"`
	Quality  string `json:"quality"`
	MimeType string `json:"mimeType"`
	Bitrate  int64  `json:"bitrate"`
}

// Item converts the full metadata document into the queue-entry representation,
// preserving the canonical identifier the document was fetched by.
func (s *Streams) Item(videoID string) *StreamItem {
	return &StreamItem{
		URL:          "/watch?v=" + VideoID(videoID),
		Title:        s.Title,
		Thumbnail:    s.Thumbnail,
		UploaderName: s.Uploader,
		UploaderURL:  s.UploaderURL,
		UploadedDate: s.UploadDate,
		Duration:     s.Duration,
	}
}

// MediaURL selects the playback target for this document. The adaptive HLS
// manifest is preferred when present; otherwise the highest-bitrate progressive
// track is used, audio-only when requested.
func (s *Streams) MediaURL(audioOnly bool) string {
	if s.HLS != "" && !audioOnly {
		return s.HLS
	}

	tracks := s.VideoStreams
	if audioOnly {
		tracks = s.AudioStreams
	}

	var best MediaTrack
	for _, track := range tracks {
		if track.URL != "" && track.Bitrate >= best.Bitrate {
			best = track
		}
	}
	if best.URL == "" && s.HLS != "" {
		return s.HLS
	}
	return best.URL
}

// Page is one page of a paginated playlist or channel listing.
type Page struct {
	Name     string       `json:"name"`
	Items    []StreamItem `json:"relatedStreams"`
	NextPage string       `json:"nextpage"`
}

// SearchResult is one page of search results. Non-video entries (channels,
// playlists) are already filtered out by the client.
type SearchResult struct {
	Items    []StreamItem `json:"items"`
	NextPage string       `json:"nextpage"`
}
