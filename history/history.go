// Package history provides the implementation for tracking and persisting user media consumption state.
package history

import (
	"github.com/metafates/gache"
	"github.com/pipetube-cli/pipetube/filesystem"
	"github.com/pipetube-cli/pipetube/piped"
	"github.com/pipetube-cli/pipetube/where"
)

// cacher provides an abstracted, disk-backed registry for watched-video records.
var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of watch-history records from the persistent store.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Add records a watched video in the history registry, keyed by canonical
// video id. Re-watching refreshes the existing record's timestamp.
func Add(item *piped.StreamItem) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newEntry(item)
	saved[record.VideoID] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific record from the history registry.
func Remove(entry *Entry) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, entry.VideoID)
	return cacher.Set(saved)
}
