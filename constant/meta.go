// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Pipetube is the canonical application identifier used for filesystem paths and CLI branding.
	Pipetube = "pipetube"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the default HTTP User-Agent string used for network requests to the streaming API.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultInstance is the API instance queried when none is configured.
	DefaultInstance = "https://pipedapi.kavin.rocks"

	// SponsorBlockAPI is the segment service queried for sponsor skip intervals.
	SponsorBlockAPI = "https://sponsor.ajay.app/api"
)

// Build metadata, overridden at link time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
