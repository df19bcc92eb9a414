// internal/app/bootstrap/settings.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/storehub/internal/app/system/secretstore"
	"github.com/dalemusser/storehub/internal/app/system/timeouts"
)

// Defaults for Settings.
const (
	DefaultEnvFile      = ".env"
	DefaultSecretID     = "myApp/mongodb/credentials"
	DefaultSecretRegion = "ap-south-1"
)

// Settings tell the process where its configuration lives and how long to
// wait for it. They come from command-line flags and STOREHUB_* environment
// variables, never from the secret bundle.
type Settings struct {
	EnvFile string // dotenv file with local overrides; missing is fine

	SecretID           string
	SecretRegion       string
	SecretEndpoint     string // optional endpoint override (e.g. localstack)
	SecretVersionStage string

	LogLevel  string
	LogFormat string

	SecretTimeout   time.Duration
	ConnectTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DefaultSettings returns the settings used when nothing is overridden.
func DefaultSettings() Settings {
	return Settings{
		EnvFile:            DefaultEnvFile,
		SecretID:           DefaultSecretID,
		SecretRegion:       DefaultSecretRegion,
		SecretVersionStage: secretstore.VersionCurrent,
		LogLevel:           "info",
		LogFormat:          "json",
		SecretTimeout:      timeouts.DefaultSecretFetch,
		ConnectTimeout:     timeouts.DefaultConnect,
		ShutdownTimeout:    timeouts.DefaultShutdown,
	}
}

// Timeouts converts the settings into a timeouts.Config.
func (s Settings) Timeouts() timeouts.Config {
	return timeouts.Config{
		SecretFetch: s.SecretTimeout,
		Connect:     s.ConnectTimeout,
		Shutdown:    s.ShutdownTimeout,
	}
}
