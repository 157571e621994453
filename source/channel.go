// Package source defines the domain models and interfaces for live channel discovery and stream retrieval.
package source

// Channel represents a live channel discovered through a provider search.
type Channel struct {
	// Source ID (e.g. "48237").
	ID string `json:"id"`
	// Display name (e.g. "some_channel").
	Name string `json:"name"`
	// Direct URL to the channel page.
	URL string `json:"url"`
	// Current broadcast title, often empty when offline.
	Title string `json:"title"`
	// Whether the channel is currently broadcasting.
	Live bool `json:"live"`
	// Ordering index.
	Index uint16 `json:"index"`

	Source Source `json:"-"`

	// Renditions associated with this channel.
	// Populated only when necessary.
	Renditions []*Rendition `json:"renditions,omitempty"`
}

// String returns the canonical string representation of the channel identifier.
func (c *Channel) String() string {
	if c.Title != "" {
		return c.Name + ": " + c.Title
	}
	return c.Name
}
