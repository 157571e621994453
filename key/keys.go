// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Provider Source Identifiers - these keys manage the registration and selection of stream providers.
const (
	DefaultSources = "sources.default"
)

// Live Stream Behavior - these keys govern playlist reload cadence and token renewal.
const (
	StreamReloadInterval = "stream.reload_interval"
	StreamExpiryMargin   = "stream.expiry_margin"
)

// History Tracking - these keys configure the persistence of watched channel state.
const (
	HistorySaveOnWatch = "history.save_on_watch"
)

// Search Interaction - these keys define the UI/UX parameters for channel discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Network Stack - these keys tune the shared HTTP layer used by providers.
const (
	NetworkTLSSpoof = "network.tls_spoof"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
