// Package source defines the domain models and interfaces for live channel discovery and stream retrieval.
package source

import "time"

// Source defines the required capabilities for a live-stream provider engine.
type Source interface {
	// Name returns the unique identifier for the provider.
	Name() string

	// ID returns the unique identifier of the source.
	ID() string

	// Search executes a query against the provider to discover matching live channels.
	Search(query string) ([]*Channel, error)

	// RenditionsOf retrieves the currently addressable stream variants for a specific channel.
	// It is also the authoritative endpoint queried again when an expiring
	// stream token has to be renewed mid-watch.
	RenditionsOf(channel *Channel) ([]*Rendition, error)
}

// ReloadHinter is an optional interface for sources that advise a playlist
// reload cadence derived from source-specific knowledge, such as the
// advertised segment duration.
type ReloadHinter interface {
	ReloadHint() (time.Duration, bool)
}
