// Package history provides the implementation for tracking and persisting watched live channels.
package history

import (
	"fmt"
	"time"

	"github.com/livesan-cli/livesan/source"
)

// SavedChannel represents a single watched channel preserved in the user's history.
type SavedChannel struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	ID       string `json:"id"`

	// Title holds the broadcast title seen on the most recent watch.
	Title string `json:"title"`
	// Quality holds the rendition label picked on the most recent watch.
	Quality string `json:"quality"`

	WatchCount  int       `json:"watch_count"`
	LastWatched time.Time `json:"last_watched"`
}

func (s *SavedChannel) encode() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.SourceID)
}

func (s *SavedChannel) String() string {
	return fmt.Sprintf("%s : watched %d times, last %s", s.Name, s.WatchCount, s.LastWatched.Format("2006-01-02"))
}

func newSavedChannel(channel *source.Channel, rendition *source.Rendition) *SavedChannel {
	saved := &SavedChannel{
		SourceID:    channel.Source.ID(),
		Name:        channel.Name,
		URL:         channel.URL,
		ID:          channel.ID,
		Title:       channel.Title,
		LastWatched: time.Now(),
	}

	if rendition != nil {
		saved.Quality = rendition.Quality
	}

	return saved
}
