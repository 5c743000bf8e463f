package piped

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pipetube-cli/pipetube/constant"
	"github.com/pipetube-cli/pipetube/key"
	"github.com/pipetube-cli/pipetube/network"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Client is the gateway to a Piped-compatible API instance.
// It is a pure I/O boundary: every method performs exactly one request and
// returns already-deserialized semantic objects.
type Client struct {
	instance string
	http     *http.Client
}

// NewClient creates a gateway for the configured API instance.
func NewClient() *Client {
	return &Client{
		instance: viper.GetString(key.APIInstance),
		http:     network.Client,
	}
}

// NewClientFor creates a gateway for an explicit instance URL.
func NewClientFor(instance string) *Client {
	return &Client{instance: instance, http: network.Client}
}

// Streams retrieves the full metadata document for a single video.
func (c *Client) Streams(ctx context.Context, videoID string) (*Streams, error) {
	var streams Streams
	if err := c.get(ctx, "/streams/"+VideoID(videoID), nil, &streams); err != nil {
		return nil, err
	}
	return &streams, nil
}

// PlaylistPage retrieves one page of a playlist. An empty pageToken requests
// the first page; the returned Page carries the token for the next one.
func (c *Client) PlaylistPage(ctx context.Context, playlistID, pageToken string) (*Page, error) {
	var page Page
	path := "/playlists/" + playlistID
	params := url.Values{}
	if pageToken != "" {
		path = "/nextpage" + path
		params.Set("nextpage", pageToken)
	}
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ChannelPage retrieves one page of a channel's uploads.
func (c *Client) ChannelPage(ctx context.Context, channelID, pageToken string) (*Page, error) {
	var page Page
	path := "/channel/" + ChannelID(channelID)
	params := url.Values{}
	if pageToken != "" {
		path = "/nextpage" + path
		params.Set("nextpage", pageToken)
	}
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// searchItem is the wire representation of a single search hit, which may be a
// stream, a channel or a playlist.
type searchItem struct {
	StreamItem
	Type string `json:"type"`
}

// Search queries the instance for videos matching the given query.
// Non-video hits (channels, playlists) are filtered out.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	var raw struct {
		Items    []searchItem `json:"items"`
		NextPage string       `json:"nextpage"`
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("filter", "videos")
	if err := c.get(ctx, "/search", params, &raw); err != nil {
		return nil, err
	}

	items := lo.FilterMap(raw.Items, func(item searchItem, _ int) (StreamItem, bool) {
		return item.StreamItem, item.Type == "" || item.Type == "stream"
	})

	return &SearchResult{Items: items, NextPage: raw.NextPage}, nil
}

// get performs a single GET request and decodes the JSON response into target.
// Failures are classified into the transport/protocol taxonomy.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := c.instance + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ProtocolError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &ProtocolError{Err: err}
	}

	return nil
}
