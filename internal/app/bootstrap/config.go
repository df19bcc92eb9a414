// internal/app/bootstrap/config.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dalemusser/storehub/internal/app/system/configsource"
	"github.com/dalemusser/storehub/internal/app/system/limits"
	"github.com/dalemusser/storehub/internal/app/system/secretstore"
	"github.com/dalemusser/storehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Configuration keys read from the effective configuration.
const (
	KeyMongoURI         = "MONGO_URI"
	KeyMongoDatabase    = "MONGO_DATABASE"
	KeyMongoMaxPoolSize = "MONGO_MAX_POOL_SIZE"
	KeyMongoMinPoolSize = "MONGO_MIN_POOL_SIZE"
	KeyPort             = "PORT"
	KeyRateLimitRPS     = "RATE_LIMIT_RPS"
	KeyRateLimitBurst   = "RATE_LIMIT_BURST"
	KeyMaxBodyBytes     = "MAX_BODY_BYTES"
)

// DefaultPort is bound when PORT is not configured.
const DefaultPort = "3000"

var (
	// ErrMissingKey is returned when a required key is absent or empty.
	ErrMissingKey = errors.New("required configuration key is missing")
	// ErrInvalidPort is returned when PORT is not a TCP port number.
	ErrInvalidPort = errors.New("invalid port")
)

// appKey describes one configuration key the app understands.
type appKey struct {
	Name     string
	Default  string
	Required bool
	Desc     string
}

// appConfigKeys defines the configuration keys for storehub.
// Values come from, in increasing precedence:
//   - the local override file (.env by default)
//   - process environment variables with the same names
//   - the remote secret bundle
var appConfigKeys = []appKey{
	{Name: KeyMongoURI, Required: true, Desc: "MongoDB connection URI"},
	{Name: KeyMongoDatabase, Default: "storehub", Desc: "MongoDB database name"},
	{Name: KeyMongoMaxPoolSize, Default: "0", Desc: "MongoDB max connection pool size (0 = driver default)"},
	{Name: KeyMongoMinPoolSize, Default: "0", Desc: "MongoDB min connection pool size"},
	{Name: KeyPort, Default: DefaultPort, Desc: "HTTP listen port"},

	// API limits
	{Name: KeyRateLimitRPS, Default: "25", Desc: "Per-client API requests per second (0 disables)"},
	{Name: KeyRateLimitBurst, Default: "50", Desc: "Per-client API burst size"},
	{Name: KeyMaxBodyBytes, Default: strconv.Itoa(limits.MaxJSONBody), Desc: "Maximum API request body size in bytes"},
}

// envKeys lists the keys that may be supplied through the process environment.
func envKeys() []string {
	names := make([]string, len(appConfigKeys))
	for i, k := range appConfigKeys {
		names[i] = k.Name
	}
	return names
}

// DescribeKey returns the description of a configuration key storehub
// understands, or "" for keys it ignores.
func DescribeKey(name string) string {
	for _, k := range appConfigKeys {
		if k.Name == name {
			return k.Desc
		}
	}
	return ""
}

// LoadConfig resolves the effective configuration and builds AppConfig.
//
// It reads the local override layer, fetches the secret bundle (exactly one
// call, bounded by timeouts.SecretFetch) and merges the bundle over the local
// layer so that remote values win. Any failure is returned unrecovered.
func (a *App) LoadConfig(ctx context.Context, logger *zap.Logger) (AppConfig, error) {
	local, err := configsource.LoadLocal(a.Settings.EnvFile, envKeys())
	if err != nil {
		logger.Error("failed to read local overrides", zap.String("path", a.Settings.EnvFile), zap.Error(err))
		return AppConfig{}, err
	}

	store, err := a.secretStore(ctx)
	if err != nil {
		logger.Error("failed to load secrets", zap.String("secret_id", a.Settings.SecretID), zap.Error(err))
		return AppConfig{}, err
	}

	fctx, cancel := timeouts.WithTimeout(ctx, timeouts.SecretFetch(), logger, "secret fetch")
	defer cancel()

	bundle, err := store.Fetch(fctx, a.Settings.SecretID)
	if err != nil {
		logger.Error("failed to load secrets", zap.String("secret_id", a.Settings.SecretID), zap.Error(err))
		return AppConfig{}, err
	}

	values := configsource.Merge(local, configsource.Layer(bundle))
	cfg, err := newAppConfig(values)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return AppConfig{}, err
	}

	logger.Info("configuration loaded",
		zap.String("secret_id", a.Settings.SecretID),
		zap.Int("local_keys", len(local)),
		zap.Int("secret_keys", len(bundle)),
		zap.Int("effective_keys", values.Len()))
	return cfg, nil
}

func (a *App) secretStore(ctx context.Context) (secretstore.Fetcher, error) {
	if a.Secrets != nil {
		return a.Secrets, nil
	}
	store, err := secretstore.NewAWS(ctx, secretstore.AWSOptions{
		Region:       a.Settings.SecretRegion,
		Endpoint:     a.Settings.SecretEndpoint,
		VersionStage: a.Settings.SecretVersionStage,
	})
	if err != nil {
		return nil, &secretstore.FetchError{SecretID: a.Settings.SecretID, Kind: secretstore.KindClient, Err: err}
	}
	return store, nil
}

// newAppConfig maps effective configuration values onto AppConfig,
// applying defaults for optional keys.
func newAppConfig(values configsource.Values) (AppConfig, error) {
	get := func(name string) string {
		for _, k := range appConfigKeys {
			if k.Name == name {
				return values.GetDefault(name, k.Default)
			}
		}
		return values.Get(name)
	}

	maxPool, err := strconv.ParseUint(get(KeyMongoMaxPoolSize), 10, 64)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", KeyMongoMaxPoolSize, err)
	}
	minPool, err := strconv.ParseUint(get(KeyMongoMinPoolSize), 10, 64)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", KeyMongoMinPoolSize, err)
	}
	rps, err := strconv.ParseFloat(get(KeyRateLimitRPS), 64)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", KeyRateLimitRPS, err)
	}
	burst, err := strconv.Atoi(get(KeyRateLimitBurst))
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", KeyRateLimitBurst, err)
	}
	maxBody, err := strconv.ParseInt(get(KeyMaxBodyBytes), 10, 64)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%s: %w", KeyMaxBodyBytes, err)
	}

	return AppConfig{
		MongoURI:         get(KeyMongoURI),
		MongoDatabase:    get(KeyMongoDatabase),
		MongoMaxPoolSize: maxPool,
		MongoMinPoolSize: minPool,
		Port:             get(KeyPort),
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
		MaxBodyBytes:     maxBody,
		Values:           values,
	}, nil
}

// ValidateConfig checks invariants before any connection is attempted.
//
// Every required key must be present and non-empty, and the port must be a
// usable TCP port. The connection string format is checked by the datastore
// stage, which reports it as a connection failure.
func ValidateConfig(cfg AppConfig, logger *zap.Logger) error {
	var errs []error
	for _, k := range appConfigKeys {
		if k.Required && cfg.Values.Get(k.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingKey, k.Name))
		}
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPort, cfg.Port))
	}

	if cfg.MongoMinPoolSize > 0 && cfg.MongoMaxPoolSize > 0 && cfg.MongoMinPoolSize > cfg.MongoMaxPoolSize {
		errs = append(errs, fmt.Errorf("%s (%d) exceeds %s (%d)",
			KeyMongoMinPoolSize, cfg.MongoMinPoolSize, KeyMongoMaxPoolSize, cfg.MongoMaxPoolSize))
	}

	if err := errors.Join(errs...); err != nil {
		logger.Error("configuration validation failed", zap.Error(err))
		return err
	}
	return nil
}
