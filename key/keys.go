// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// API Instance - these keys select and configure the remote streaming API.
const (
	APIInstance = "api.instance"
)

// Playback - these keys govern the player engine and session behavior.
const (
	PlayerDefault  = "player.default"
	PlayerAutoplay = "player.autoplay"
)

// Queue Behavior - these keys configure traversal and population of the playing queue.
const (
	QueueRepeat            = "queue.repeat"
	QueueAutoInsertRelated = "queue.auto_insert_related"
)

// SponsorBlock Integration - these keys manage segment fetching and skip behavior.
const (
	SponsorBlockEnabled       = "sponsorblock.enabled"
	SponsorBlockSkipManually  = "sponsorblock.skip_manually"
	SponsorBlockNotifications = "sponsorblock.notifications"
	SponsorBlockCategories    = "sponsorblock.categories"
)

// History Tracking - these keys configure the persistence of media consumption state.
const (
	HistoryWatchPositions = "history.watch_positions"
	HistoryWatchHistory   = "history.watch_history"
)

// Search Interaction - these keys define the behavior of search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
