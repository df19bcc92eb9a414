// internal/app/bootstrap/appconfig.go
package bootstrap

import "github.com/dalemusser/storehub/internal/app/system/configsource"

// AppConfig holds service-specific configuration for storehub.
//
// It is built once by LoadConfig from the effective configuration (local
// overrides merged with the remote secret bundle) and passed by value to
// every later stage. Nothing modifies it after LoadConfig returns.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (MONGO_URI, required)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // 0 leaves the driver default
	MongoMinPoolSize uint64

	// HTTP listener
	Port string // TCP port to bind (PORT, default 3000)

	// API request limits
	RateLimitRPS   float64 // per-client requests per second; 0 disables
	RateLimitBurst int
	MaxBodyBytes   int64 // request body cap for /api

	// Values is the full effective configuration, including keys this
	// struct does not model.
	Values configsource.Values
}

// ListenAddr returns the address the HTTP listener binds.
func (c AppConfig) ListenAddr() string {
	return ":" + c.Port
}
