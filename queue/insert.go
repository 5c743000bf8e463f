package queue

import (
	"context"

	"github.com/pipetube-cli/pipetube/log"
	"github.com/pipetube-cli/pipetube/piped"
)

// InsertPlaylist populates the queue from a remote playlist. The first page is
// fetched and merged before this call returns; remaining pages continue to
// merge in the background, in fetch order, without disrupting playback.
//
// newCurrent marks the item the session is playing (or about to play). When it
// is nil the playlist is treated as a secondary list and merged without
// touching the current pointer.
func (q *Queue) InsertPlaylist(ctx context.Context, playlistID string, newCurrent *piped.StreamItem) error {
	page, err := q.fetcher.PlaylistPage(ctx, playlistID, "")
	if err != nil {
		return err
	}

	isMainList := newCurrent != nil
	q.merge(page.Items, newCurrent, isMainList)

	if page.NextPage != "" {
		go q.fetchMoreFromPlaylist(ctx, playlistID, page.NextPage, isMainList)
	}
	return nil
}

// InsertChannel populates the queue from a channel's uploads, analogous to
// InsertPlaylist.
func (q *Queue) InsertChannel(ctx context.Context, channelID string, newCurrent *piped.StreamItem) error {
	page, err := q.fetcher.ChannelPage(ctx, channelID, "")
	if err != nil {
		return err
	}

	q.merge(page.Items, newCurrent, true)

	if page.NextPage != "" {
		go q.fetchMoreFromChannel(ctx, channelID, page.NextPage)
	}
	return nil
}

// InsertByVideoID fetches the metadata of a single video and appends it as a
// normal entry.
func (q *Queue) InsertByVideoID(ctx context.Context, videoID string) error {
	streams, err := q.fetcher.Streams(ctx, videoID)
	if err != nil {
		return err
	}
	q.Add(streams.Item(videoID))
	return nil
}

// fetchMoreFromPlaylist walks the remaining playlist pages sequentially so the
// queue order matches upstream order. A failed fetch aborts the chain silently;
// pages already merged stay in the queue.
func (q *Queue) fetchMoreFromPlaylist(ctx context.Context, playlistID, pageToken string, isMainList bool) {
	for pageToken != "" {
		page, err := q.fetcher.PlaylistPage(ctx, playlistID, pageToken)
		if err != nil {
			log.Warnf("queue: playlist %s pagination aborted: %v", playlistID, err)
			return
		}
		q.merge(page.Items, nil, isMainList)
		pageToken = page.NextPage
	}
}

// fetchMoreFromChannel walks the remaining channel pages, see fetchMoreFromPlaylist.
func (q *Queue) fetchMoreFromChannel(ctx context.Context, channelID, pageToken string) {
	for pageToken != "" {
		page, err := q.fetcher.ChannelPage(ctx, channelID, pageToken)
		if err != nil {
			log.Warnf("queue: channel %s pagination aborted: %v", channelID, err)
			return
		}
		q.merge(page.Items, nil, true)
		pageToken = page.NextPage
	}
}

// merge folds one fetched page into the live queue while keeping the current
// item present exactly once:
//
//  1. If the current item also appears in the incoming page, any provisional
//     copy already in the queue (e.g. inserted at the front by UpdateCurrent)
//     is removed first, so the canonical copy re-inserted in list order cannot
//     duplicate it.
//  2. All incoming entries are added through the dedup-by-id Add semantics.
//  3. If the current item is still absent afterwards (it has not appeared in
//     the paged results yet, or this is a secondary list), it is re-appended
//     at the end so Next/Prev stay well-defined.
func (q *Queue) merge(items []piped.StreamItem, newCurrent *piped.StreamItem, isMainList bool) {
	q.mu.Lock()

	entries := make([]*piped.StreamItem, len(items))
	for i := range items {
		entries[i] = &items[i]
	}

	if !isMainList {
		q.addLocked(entries...)
		q.mu.Unlock()
		q.notifyChanged()
		return
	}

	current := newCurrent
	if current == nil {
		current = q.current
	}
	if current == nil {
		q.addLocked(entries...)
		q.mu.Unlock()
		q.notifyChanged()
		return
	}

	if includes(items, current) {
		q.removeByIDLocked(piped.VideoID(current.URL))
	}

	q.addLocked(entries...)

	if !q.containsLocked(current) {
		q.updateCurrentLocked(current, false)
	} else if newCurrent != nil {
		q.current = current
	}

	q.mu.Unlock()
	q.notifyChanged()
}

func includes(items []piped.StreamItem, item *piped.StreamItem) bool {
	id := item.ID()
	for i := range items {
		if items[i].ID() == id {
			return true
		}
	}
	return false
}
