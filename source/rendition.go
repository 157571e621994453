// Package source defines the domain models and interfaces for live channel discovery and stream retrieval.
package source

// Rendition represents one addressable variant of a live stream.
type Rendition struct {
	// Direct URL to the variant playlist.
	URL string `json:"url"`
	// Quality label (e.g. "hls_2000").
	Quality string `json:"quality"`
	// Advertised bitrate in kbps, zero when unknown.
	Bitrate int `json:"bitrate"`
	// Delivery kind (e.g. "hls", "lhls").
	Kind string `json:"kind"`
	// HTTP headers required to fetch.
	Headers map[string]string `json:"headers"`
	// Ordering index.
	Index uint16 `json:"index"`
}

// String returns the quality or URL for display.
func (r *Rendition) String() string {
	if r.Quality != "" {
		return r.Quality
	}
	return r.URL
}
