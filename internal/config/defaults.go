package config

import "time"

// DefaultUserAgents provides a list of common user agents
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
}

const (
	// DefaultWorkers keeps tracing sequential unless asked otherwise.
	DefaultWorkers = 1
	// DefaultTimeout bounds one whole transaction, redirect hops included.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects matches the hop limit of common HTTP client libraries.
	DefaultMaxRedirects = 30
	// DefaultIndent is the JSON indentation of the result set.
	DefaultIndent = "  "
	// DefaultLogLevel is the diagnostic level when nothing else is configured.
	DefaultLogLevel = "info"
	// DefaultBrowserWait is how long the browser lingers for client-side redirects.
	DefaultBrowserWait = 2 * time.Second
)
