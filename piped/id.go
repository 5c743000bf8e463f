// Package piped implements the client for a Piped-compatible video streaming API.
package piped

import (
	"net/url"
	"strconv"
	"strings"
)

// VideoID normalizes a stream URL or path into its canonical video identifier.
// Raw URLs may differ by host or query string while referring to the same video,
// so all identity comparisons go through this function.
func VideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Already a bare identifier.
	if !strings.ContainsAny(raw, "/?") {
		return raw
	}

	if u, err := url.Parse(raw); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		raw = u.Path
	}

	// Path-style references: /watch/ID, /v/ID, /shorts/ID, /embed/ID.
	raw = strings.Trim(raw, "/")
	for _, prefix := range []string{"watch/", "v/", "shorts/", "embed/"} {
		if rest, ok := strings.CutPrefix(raw, prefix); ok {
			raw = rest
			break
		}
	}

	if i := strings.IndexAny(raw, "/?&"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// TimestampSec extracts the start timestamp carried in a shared video link
// ("t" query parameter), in seconds. Zero when absent or malformed.
func TimestampSec(raw string) int64 {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}

	t := u.Query().Get("t")
	if t == "" {
		return 0
	}
	t = strings.TrimSuffix(t, "s")

	sec, err := strconv.ParseInt(t, 10, 64)
	if err != nil || sec < 0 {
		return 0
	}
	return sec
}

// ChannelID strips the channel path prefix from a channel URL or path.
func ChannelID(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/channel/")
	if i := strings.IndexAny(raw, "/?&"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
