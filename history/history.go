// Package history provides the implementation for tracking and persisting watched live channels.
package history

import (
	"github.com/metafates/gache"

	"github.com/livesan-cli/livesan/filesystem"
	"github.com/livesan-cli/livesan/source"
	"github.com/livesan-cli/livesan/where"
)

// cacher provides an abstracted, disk-backed registry for watch records.
var cacher = gache.New[map[string]*SavedChannel](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of watch records from the persistent store.
func Get() (map[string]*SavedChannel, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedChannel), nil
	}
	return cached, nil
}

// Save records that a channel was watched, carrying over the accumulated
// watch count when the channel was seen before.
func Save(channel *source.Channel, rendition *source.Rendition) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedChannel(channel, rendition)
	record.WatchCount = 1

	if existing, exists := saved[record.encode()]; exists {
		record.WatchCount = existing.WatchCount + 1
	}

	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific watch record from the registry.
func Remove(channel *SavedChannel) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, channel.encode())
	return cacher.Set(saved)
}
