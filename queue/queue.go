// Package queue implements the live playing queue: an ordered, dedup-by-identity
// collection of stream items with a current pointer held by canonical video id.
//
// The queue is populated incrementally from paginated playlist/channel sources
// while a video may already be playing; every mutation is serialized behind a
// single mutex so that background page merges and user actions can interleave
// at arbitrary timing without corrupting the "current item exactly once"
// invariant.
package queue

import (
	"context"
	"sync"

	"github.com/pipetube-cli/pipetube/log"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/samber/mo"
)

// Fetcher is the subset of the API gateway the queue needs for background
// population.
type Fetcher interface {
	Streams(ctx context.Context, videoID string) (*piped.Streams, error)
	PlaylistPage(ctx context.Context, playlistID, pageToken string) (*piped.Page, error)
	ChannelPage(ctx context.Context, channelID, pageToken string) (*piped.Page, error)
}

// Listener receives queue notifications. Callbacks are delivered outside the
// queue lock, so implementations may call back into the queue.
type Listener interface {
	// OnItemSelected is invoked when an entry is chosen via ItemSelected.
	OnItemSelected(item *piped.StreamItem)

	// OnQueueChanged is invoked after any mutation of the queue's contents.
	OnQueueChanged()
}

// Queue is an ordered sequence of stream items, set-like by canonical id and
// list-like by insertion order. A Queue instance is owned by the playback
// session scope and passed by handle to all consumers.
type Queue struct {
	mu       sync.Mutex
	items    []*piped.StreamItem
	current  *piped.StreamItem
	repeat   bool
	fetcher  Fetcher
	listener Listener
}

// New creates an empty queue backed by the given fetcher.
func New(fetcher Fetcher) *Queue {
	return &Queue{fetcher: fetcher}
}

// SetListener registers the queue notification receiver.
func (q *Queue) SetListener(listener Listener) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listener = listener
}

// SetRepeat toggles wraparound traversal for Next/Prev past queue boundaries.
func (q *Queue) SetRepeat(repeat bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.repeat = repeat
}

// Repeat reports whether wraparound traversal is enabled.
func (q *Queue) Repeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.repeat
}

// Clear empties the queue. The current pointer is left untouched; resetting it
// is the caller's responsibility.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
	q.notifyChanged()
}

// Add appends the given items. An item is silently dropped when its canonical
// id matches the current entry or when it has no usable title; an existing
// entry with the same id is removed first, so re-adding moves an item to the
// end.
func (q *Queue) Add(items ...*piped.StreamItem) {
	q.mu.Lock()
	q.addLocked(items...)
	q.mu.Unlock()
	q.notifyChanged()
}

// AddAsNext inserts the item immediately after the current entry, removing any
// existing copy first. Adding the current entry itself is a no-op.
func (q *Queue) AddAsNext(item *piped.StreamItem) {
	q.mu.Lock()
	if q.current != nil && piped.VideoID(q.current.URL) == item.ID() {
		q.mu.Unlock()
		return
	}
	q.removeByIDLocked(item.ID())
	idx := q.currentIndexLocked().OrElse(0) + 1
	if idx > len(q.items) {
		idx = len(q.items)
	}
	q.items = append(q.items[:idx], append([]*piped.StreamItem{item}, q.items[idx:]...)...)
	q.mu.Unlock()
	q.notifyChanged()
}

// UpdateCurrent sets the current pointer to the given item. If the item is not
// yet present it is inserted at the front (asFirst) or appended at the end.
// This is how an externally fetched "now playing" item is registered into a
// queue that may not yet contain it.
func (q *Queue) UpdateCurrent(item *piped.StreamItem, asFirst bool) {
	q.mu.Lock()
	q.updateCurrentLocked(item, asFirst)
	q.mu.Unlock()
	q.notifyChanged()
}

// Current returns the entry the current pointer refers to, if any.
func (q *Queue) Current() *piped.StreamItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Next resolves the canonical id of the entry after the current one. At the
// end of the queue it wraps to the first entry only when repeat is enabled.
func (q *Queue) Next() mo.Option[string] {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.currentIndexLocked().OrElse(0)
	if idx+1 < len(q.items) {
		return mo.Some(q.items[idx+1].ID())
	}
	if q.repeat && len(q.items) > 0 {
		return mo.Some(q.items[0].ID())
	}
	return mo.None[string]()
}

// Prev resolves the canonical id of the entry before the current one. At the
// front of the queue it wraps to the last entry only when repeat is enabled.
func (q *Queue) Prev() mo.Option[string] {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.currentIndexLocked().OrElse(0)
	if idx-1 >= 0 && idx-1 < len(q.items) {
		return mo.Some(q.items[idx-1].ID())
	}
	if q.repeat && len(q.items) > 0 {
		return mo.Some(q.items[len(q.items)-1].ID())
	}
	return mo.None[string]()
}

// HasNext reports whether Next would resolve an entry.
func (q *Queue) HasNext() bool {
	return q.Next().IsPresent()
}

// HasPrev reports whether Prev would resolve an entry.
func (q *Queue) HasPrev() bool {
	return q.Prev().IsPresent()
}

// CurrentIndex returns the position of the entry matching the current pointer.
// Absence is explicit: None means the current item is not in the queue, which
// is distinct from "found at position 0".
func (q *Queue) CurrentIndex() mo.Option[int] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.currentIndexLocked()
}

// Contains reports identity-by-id membership of the given item.
func (q *Queue) Contains(item *piped.StreamItem) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.containsLocked(item)
}

// Size returns the number of entries.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty reports whether the queue holds no entries.
func (q *Queue) IsEmpty() bool {
	return q.Size() == 0
}

// Items returns an immutable snapshot of the queue for display purposes.
func (q *Queue) Items() []*piped.StreamItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	snapshot := make([]*piped.StreamItem, len(q.items))
	copy(snapshot, q.items)
	return snapshot
}

// Remove deletes the entry at the given index. Out-of-range indices are
// ignored; the underlying race (UI list diverging from live queue mutation)
// is structural, not a caller bug.
func (q *Queue) Remove(index int) {
	q.mu.Lock()
	if index < 0 || index >= len(q.items) {
		q.mu.Unlock()
		log.Warnf("queue: remove index %d out of range", index)
		return
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	q.mu.Unlock()
	q.notifyChanged()
}

// Move relocates the entry at index from to index to.
func (q *Queue) Move(from, to int) {
	q.mu.Lock()
	if from < 0 || from >= len(q.items) || to < 0 || to >= len(q.items) {
		q.mu.Unlock()
		log.Warnf("queue: move %d -> %d out of range", from, to)
		return
	}
	item := q.items[from]
	q.items = append(q.items[:from], q.items[from+1:]...)
	q.items = append(q.items[:to], append([]*piped.StreamItem{item}, q.items[to:]...)...)
	q.mu.Unlock()
	q.notifyChanged()
}

// ItemSelected sets the current pointer to the entry at the given index and
// notifies the registered listener. A stale index (the displayed list raced a
// concurrent mutation) is logged and dropped, never propagated.
func (q *Queue) ItemSelected(index int) {
	q.mu.Lock()
	if index < 0 || index >= len(q.items) {
		q.mu.Unlock()
		log.Errorf("queue: stale selection index %d", index)
		return
	}
	item := q.items[index]
	q.updateCurrentLocked(item, true)
	listener := q.listener
	q.mu.Unlock()

	if listener != nil {
		listener.OnItemSelected(item)
	}
	q.notifyChanged()
}

// locked helpers

func (q *Queue) addLocked(items ...*piped.StreamItem) {
	for _, item := range items {
		if item == nil || item.Title == "" {
			continue
		}
		if q.current != nil && piped.VideoID(q.current.URL) == item.ID() {
			continue
		}
		q.removeByIDLocked(item.ID())
		q.items = append(q.items, item)
	}
}

func (q *Queue) updateCurrentLocked(item *piped.StreamItem, asFirst bool) {
	q.current = item
	if q.containsLocked(item) {
		return
	}
	if asFirst {
		q.items = append([]*piped.StreamItem{item}, q.items...)
	} else {
		q.items = append(q.items, item)
	}
}

func (q *Queue) currentIndexLocked() mo.Option[int] {
	if q.current == nil {
		return mo.None[int]()
	}
	id := piped.VideoID(q.current.URL)
	for i, item := range q.items {
		if item.ID() == id {
			return mo.Some(i)
		}
	}
	return mo.None[int]()
}

func (q *Queue) containsLocked(item *piped.StreamItem) bool {
	id := item.ID()
	for _, existing := range q.items {
		if existing.ID() == id {
			return true
		}
	}
	return false
}

func (q *Queue) removeByIDLocked(id string) {
	filtered := q.items[:0]
	for _, item := range q.items {
		if item.ID() != id {
			filtered = append(filtered, item)
		}
	}
	q.items = filtered
}

func (q *Queue) notifyChanged() {
	q.mu.Lock()
	listener := q.listener
	q.mu.Unlock()
	if listener != nil {
		listener.OnQueueChanged()
	}
}
