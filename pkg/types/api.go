package types

// CreateLocationRequest is the payload for POST /locations.
type CreateLocationRequest struct {
	// Directory to register as an import location. Must exist on disk.
	// example: /photos/2024
	Directory string `json:"directory" validate:"required" example:"/photos/2024"`
}

// LocationsResponse wraps the list returned by GET /locations.
type LocationsResponse struct {
	Locations []Location `json:"locations"`
}

// ImagesResponse is a page of catalog images.
type ImagesResponse struct {
	Images []Image `json:"images"`
	// Total number of images in the catalog (not just this page).
	// example: 1337
	Total int64 `json:"total" example:"1337"`
	// Page size that was applied after clamping.
	// example: 100
	Limit int `json:"limit" example:"100"`
	// Offset that was applied.
	// example: 0
	Offset int `json:"offset" example:"0"`
}

// SearchResponse is returned by GET /search.
type SearchResponse struct {
	// The query that was embedded and ranked against.
	// example: sunset over water
	Query  string  `json:"query" example:"sunset over water"`
	Images []Image `json:"images"`
}

// ScanResponse acknowledges a scan trigger.
type ScanResponse struct {
	// Whether a new scan run was started.
	// example: true
	Started bool `json:"started" example:"true"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall service state (e.g., ready, scanning, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Registered import locations.
	// example: 3
	Locations int64 `json:"locations" example:"3"`
	// Images in the catalog.
	// example: 1337
	Images int64 `json:"images" example:"1337"`
	// Images still waiting for a description.
	// example: 12
	PendingDescriptions int64 `json:"pending_descriptions" example:"12"`
	// Whether a scan run is currently executing.
	ScanRunning bool `json:"scan_running"`
	// Whether a describe run is currently executing.
	DescribeRunning bool `json:"describe_running"`
	// Unix seconds of the last completed scan, 0 if never.
	// example: 1700000000
	LastScanUnix int64 `json:"last_scan_unix" example:"1700000000"`
	// Whether the Ollama runtime answered the last ping.
	OllamaReachable bool `json:"ollama_reachable"`
	// Version string reported by Ollama, when reachable.
	// example: 0.5.7
	OllamaVersion string `json:"ollama_version,omitempty" example:"0.5.7"`
	// Last error observed by the background runs, if any.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total scan runs completed since start.
	// example: 5
	ScansTotal uint64 `json:"scans_total" example:"5"`
	// Total images described since start.
	// example: 120
	DescribedTotal uint64 `json:"described_total" example:"120"`
}
