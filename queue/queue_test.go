package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/pipetube-cli/pipetube/piped"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(id, title string) *piped.StreamItem {
	return &piped.StreamItem{
		URL:   "/watch?v=" + id,
		Title: title,
	}
}

func ids(q *Queue) []string {
	var out []string
	for _, item := range q.Items() {
		out = append(out, item.ID())
	}
	return out
}

type fakeFetcher struct {
	pages   map[string]*piped.Page
	streams map[string]*piped.Streams
	err     error
}

func (f *fakeFetcher) Streams(_ context.Context, videoID string) (*piped.Streams, error) {
	if f.err != nil {
		return nil, f.err
	}
	streams, ok := f.streams[videoID]
	if !ok {
		return nil, errors.New("not found")
	}
	return streams, nil
}

func (f *fakeFetcher) PlaylistPage(_ context.Context, playlistID, pageToken string) (*piped.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[playlistID+"|"+pageToken]
	if !ok {
		return nil, errors.New("no such page")
	}
	return page, nil
}

func (f *fakeFetcher) ChannelPage(ctx context.Context, channelID, pageToken string) (*piped.Page, error) {
	return f.PlaylistPage(ctx, channelID, pageToken)
}

type recordingListener struct {
	selected []string
	changes  int
}

func (l *recordingListener) OnItemSelected(item *piped.StreamItem) {
	l.selected = append(l.selected, item.ID())
}

func (l *recordingListener) OnQueueChanged() {
	l.changes++
}

func TestQueueBasics(t *testing.T) {
	Convey("Given an empty queue", t, func() {
		q := New(&fakeFetcher{})

		Convey("It reports empty", func() {
			So(q.IsEmpty(), ShouldBeTrue)
			So(q.Size(), ShouldEqual, 0)
			So(q.Current(), ShouldBeNil)
			So(q.CurrentIndex().IsAbsent(), ShouldBeTrue)
			So(q.HasNext(), ShouldBeFalse)
			So(q.HasPrev(), ShouldBeFalse)
		})

		Convey("When adding items", func() {
			q.Add(entry("a", "A"), entry("b", "B"), entry("c", "C"))

			Convey("They keep insertion order", func() {
				So(ids(q), ShouldResemble, []string{"a", "b", "c"})
			})

			Convey("Re-adding an item moves it to the end", func() {
				q.Add(entry("a", "A"))
				So(ids(q), ShouldResemble, []string{"b", "c", "a"})
				So(q.Size(), ShouldEqual, 3)
			})

			Convey("Items without a title are dropped", func() {
				q.Add(entry("d", ""))
				So(q.Size(), ShouldEqual, 3)
			})

			Convey("Nil items are dropped", func() {
				q.Add(nil)
				So(q.Size(), ShouldEqual, 3)
			})
		})

		Convey("When the current entry is set", func() {
			current := entry("cur", "Current")
			q.Add(entry("a", "A"), entry("b", "B"))
			q.UpdateCurrent(current, true)

			Convey("It is inserted at the front", func() {
				So(ids(q), ShouldResemble, []string{"cur", "a", "b"})
				So(q.Current().ID(), ShouldEqual, "cur")
				So(q.CurrentIndex().MustGet(), ShouldEqual, 0)
			})

			Convey("Adding the current id again is a no-op", func() {
				q.Add(entry("cur", "Current"))
				So(ids(q), ShouldResemble, []string{"cur", "a", "b"})
			})

			Convey("Updating with an already present item keeps the order", func() {
				q.UpdateCurrent(entry("b", "B"), true)
				So(ids(q), ShouldResemble, []string{"cur", "a", "b"})
				So(q.Current().ID(), ShouldEqual, "b")
				So(q.CurrentIndex().MustGet(), ShouldEqual, 2)
			})
		})
	})
}

func TestQueueTraversal(t *testing.T) {
	Convey("Given a queue of three entries with the first current", t, func() {
		q := New(&fakeFetcher{})
		q.Add(entry("a", "A"), entry("b", "B"), entry("c", "C"))
		q.UpdateCurrent(entry("a", "A"), true)

		Convey("Next resolves the following entry", func() {
			So(q.Next().MustGet(), ShouldEqual, "b")
			So(q.HasNext(), ShouldBeTrue)
		})

		Convey("Prev at the front resolves nothing", func() {
			So(q.Prev().IsAbsent(), ShouldBeTrue)
			So(q.HasPrev(), ShouldBeFalse)
		})

		Convey("At the last entry Next resolves nothing", func() {
			q.UpdateCurrent(entry("c", "C"), true)
			So(q.Next().IsAbsent(), ShouldBeTrue)

			Convey("Unless repeat wraps around", func() {
				q.SetRepeat(true)
				So(q.Next().MustGet(), ShouldEqual, "a")
			})
		})

		Convey("With repeat, Prev at the front wraps to the last entry", func() {
			q.SetRepeat(true)
			So(q.Prev().MustGet(), ShouldEqual, "c")
		})

		Convey("A current entry missing from the queue traverses from the front", func() {
			q.UpdateCurrent(entry("ghost", "Ghost"), true)
			q.Remove(0)
			So(q.CurrentIndex().IsAbsent(), ShouldBeTrue)
			So(q.Next().MustGet(), ShouldEqual, "b")
		})
	})
}

func TestQueueMutations(t *testing.T) {
	Convey("Given a populated queue", t, func() {
		q := New(&fakeFetcher{})
		listener := &recordingListener{}
		q.SetListener(listener)
		q.Add(entry("a", "A"), entry("b", "B"), entry("c", "C"))
		q.UpdateCurrent(entry("a", "A"), true)

		Convey("AddAsNext inserts right after the current entry", func() {
			q.AddAsNext(entry("x", "X"))
			So(ids(q), ShouldResemble, []string{"a", "x", "b", "c"})

			Convey("Adding it again from elsewhere relocates it", func() {
				q.UpdateCurrent(entry("c", "C"), true)
				q.AddAsNext(entry("x", "X"))
				So(ids(q), ShouldResemble, []string{"a", "b", "c", "x"})
			})
		})

		Convey("AddAsNext with the current entry is a no-op", func() {
			q.AddAsNext(entry("a", "A"))
			So(ids(q), ShouldResemble, []string{"a", "b", "c"})
		})

		Convey("Remove deletes by index and ignores out-of-range indices", func() {
			q.Remove(1)
			So(ids(q), ShouldResemble, []string{"a", "c"})

			q.Remove(10)
			q.Remove(-1)
			So(ids(q), ShouldResemble, []string{"a", "c"})
		})

		Convey("Move relocates an entry", func() {
			q.Move(0, 2)
			So(ids(q), ShouldResemble, []string{"b", "c", "a"})
		})

		Convey("ItemSelected updates the current pointer and notifies", func() {
			q.ItemSelected(2)
			So(q.Current().ID(), ShouldEqual, "c")
			So(listener.selected, ShouldResemble, []string{"c"})
		})

		Convey("A stale selection index is dropped, not propagated", func() {
			q.ItemSelected(17)
			So(q.Current().ID(), ShouldEqual, "a")
			So(listener.selected, ShouldBeEmpty)
		})

		Convey("Mutations notify the listener", func() {
			before := listener.changes
			q.Add(entry("z", "Z"))
			So(listener.changes, ShouldBeGreaterThan, before)
		})
	})
}

func TestQueueMerge(t *testing.T) {
	Convey("Given a playlist source", t, func() {
		fetcher := &fakeFetcher{
			pages: map[string]*piped.Page{
				"pl|": {
					Items: []piped.StreamItem{
						*entry("v1", "One"),
						*entry("v2", "Two"),
						*entry("v3", "Three"),
					},
				},
			},
		}
		q := New(fetcher)

		Convey("Loading a playlist for its first video keeps it in canonical position", func() {
			err := q.InsertPlaylist(context.Background(), "pl", entry("v1", "One"))
			So(err, ShouldBeNil)

			So(ids(q), ShouldResemble, []string{"v1", "v2", "v3"})
			So(q.Current().ID(), ShouldEqual, "v1")
			So(q.Next().MustGet(), ShouldEqual, "v2")
		})

		Convey("A provisional current copy is replaced when the page contains it", func() {
			q.UpdateCurrent(entry("v2", "Two"), true)
			So(ids(q), ShouldResemble, []string{"v2"})

			page, err := fetcher.PlaylistPage(context.Background(), "pl", "")
			So(err, ShouldBeNil)
			q.merge(page.Items, nil, true)

			Convey("The current item appears exactly once", func() {
				count := 0
				for _, id := range ids(q) {
					if id == "v2" {
						count++
					}
				}
				So(count, ShouldEqual, 1)
				So(q.Current().ID(), ShouldEqual, "v2")
			})
		})

		Convey("A current item absent from the page is re-appended at the end", func() {
			q.UpdateCurrent(entry("vx", "Elsewhere"), true)

			page, err := fetcher.PlaylistPage(context.Background(), "pl", "")
			So(err, ShouldBeNil)
			q.merge(page.Items, nil, true)

			So(ids(q), ShouldResemble, []string{"v1", "v2", "v3", "vx"})
			So(q.Current().ID(), ShouldEqual, "vx")
		})

		Convey("A secondary list merge never touches the current pointer", func() {
			q.UpdateCurrent(entry("v9", "Nine"), true)

			page, err := fetcher.PlaylistPage(context.Background(), "pl", "")
			So(err, ShouldBeNil)
			q.merge(page.Items, nil, false)

			So(q.Current().ID(), ShouldEqual, "v9")
			So(ids(q), ShouldResemble, []string{"v9", "v1", "v2", "v3"})
		})

		Convey("A failed first page surfaces the error without mutating the queue", func() {
			broken := New(&fakeFetcher{err: errors.New("boom")})
			err := broken.InsertPlaylist(context.Background(), "pl", entry("v1", "One"))
			So(err, ShouldNotBeNil)
			So(broken.IsEmpty(), ShouldBeTrue)
		})
	})
}

func TestQueuePagination(t *testing.T) {
	Convey("Given a paginated playlist", t, func() {
		fetcher := &fakeFetcher{
			pages: map[string]*piped.Page{
				"pl|": {
					Items:    []piped.StreamItem{*entry("v1", "One")},
					NextPage: "p2",
				},
				"pl|p2": {
					Items:    []piped.StreamItem{*entry("v2", "Two")},
					NextPage: "p3",
				},
				"pl|p3": {
					Items: []piped.StreamItem{*entry("v3", "Three")},
				},
			},
		}
		q := New(fetcher)
		q.merge(fetcher.pages["pl|"].Items, entry("v1", "One"), true)

		Convey("Sequential page fetches preserve upstream order", func() {
			q.fetchMoreFromPlaylist(context.Background(), "pl", "p2", true)
			So(ids(q), ShouldResemble, []string{"v1", "v2", "v3"})
			So(q.Current().ID(), ShouldEqual, "v1")
		})

		Convey("A failed continuation keeps the pages already merged", func() {
			delete(fetcher.pages, "pl|p3")
			q.fetchMoreFromPlaylist(context.Background(), "pl", "p2", true)
			So(ids(q), ShouldResemble, []string{"v1", "v2"})
		})
	})
}

func TestQueueByVideoID(t *testing.T) {
	Convey("Given a resolvable video", t, func() {
		fetcher := &fakeFetcher{
			streams: map[string]*piped.Streams{
				"abc": {Title: "Some Video", Uploader: "someone"},
			},
		}
		q := New(fetcher)

		Convey("InsertByVideoID appends its queue entry", func() {
			err := q.InsertByVideoID(context.Background(), "abc")
			So(err, ShouldBeNil)
			So(ids(q), ShouldResemble, []string{"abc"})
			So(q.Items()[0].Title, ShouldEqual, "Some Video")
		})

		Convey("An unresolvable video surfaces the error", func() {
			err := q.InsertByVideoID(context.Background(), "nope")
			So(err, ShouldNotBeNil)
			So(q.IsEmpty(), ShouldBeTrue)
		})
	})
}
