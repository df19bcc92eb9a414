// internal/app/system/limits/limits.go
package limits

// Request size limits for the API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the default cap on request bodies under /api.
	// MAX_BODY_BYTES overrides it; 0 disables the cap.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxHeaderBytes bounds the request line and headers on the listener.
	MaxHeaderBytes = 64 << 10 // 64 KB
)
