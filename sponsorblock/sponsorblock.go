// Package sponsorblock provides a client for SponsorBlock-compatible segment data, enabling automated retrieval of sponsor skip intervals.
package sponsorblock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/log"
	"github.com/pipetube-cli/pipetube/network"
)

// Segment is a time range within a video tagged for optional skipping.
// Start is inclusive, End exclusive; both are absolute offsets in seconds.
type Segment struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Category string  `json:"category"`
	UUID     string  `json:"uuid"`
}

// Contains reports whether the given position in seconds falls inside the
// segment. A position exactly equal to End is considered past it.
func (s Segment) Contains(posSec float64) bool {
	return posSec >= s.Start && posSec < s.End
}

// apiResponse defines the internal structural mapping for skipSegments API responses.
type apiResponse []struct {
	Segment  [2]float64 `json:"segment"`
	Category string     `json:"category"`
	UUID     string     `json:"UUID"`
}

// Client fetches segments from a SponsorBlock-compatible API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a segment client against the default SponsorBlock API.
func NewClient() *Client {
	return &Client{baseURL: constant.SponsorBlockAPI, http: network.Client}
}

// NewClientFor creates a segment client against an explicit API base URL.
func NewClientFor(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: network.Client}
}

// Segments retrieves the skip intervals of the requested categories for a video.
// Returns nil (not an error) if no segments are available or the service is
// unreachable — playback must continue unaffected either way.
func (c *Client) Segments(ctx context.Context, videoID string, categories []string) ([]Segment, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	cats, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}

	params := url.Values{}
	params.Set("videoID", videoID)
	params.Set("categories", string(cats))
	endpoint := fmt.Sprintf("%s/skipSegments?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("sponsorblock request failed: %v", err)
		return nil, nil // Graceful degradation
	}
	defer resp.Body.Close()

	// 404 means no segments are registered for this video.
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode != http.StatusNotFound {
			log.Warnf("sponsorblock returned status %d", resp.StatusCode)
		}
		return nil, nil
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		// Soft-fail: a malformed response is treated as "no segments available".
		log.Warnf("parse sponsorblock response: %v", err)
		return nil, nil
	}

	segments := make([]Segment, 0, len(data))
	for _, entry := range data {
		if entry.Segment[1] <= entry.Segment[0] {
			continue
		}
		segments = append(segments, Segment{
			Start:    entry.Segment[0],
			End:      entry.Segment[1],
			Category: entry.Category,
			UUID:     entry.UUID,
		})
	}

	return segments, nil
}
