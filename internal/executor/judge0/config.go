package judge0

import "net/http"

// Config holds the connection settings for the remote Judge0 API.
type Config struct {
	// BaseURL is the root of the Judge0 API, e.g. "https://judge0-ce.p.rapidapi.com".
	// Required.
	BaseURL string
	// APIKey, when set, is sent as X-RapidAPI-Key (for gateway deployments).
	APIKey string
	// HostHeader, when set, is sent as X-RapidAPI-Host.
	HostHeader string
	// HTTPClient overrides the client used for submissions. Defaults to
	// http.DefaultClient: no local timeout is imposed beyond the network
	// stack's, matching the single synchronous wait the API contract assumes.
	HTTPClient *http.Client
}
