package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/storehub/internal/app/system/configsource"
	"github.com/dalemusser/storehub/internal/app/system/secretstore"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakeSecrets returns a fixed bundle or error and counts calls.
type fakeSecrets struct {
	bundle secretstore.Bundle
	err    error
	calls  int
	ids    []string
}

func (f *fakeSecrets) Fetch(ctx context.Context, secretID string) (secretstore.Bundle, error) {
	f.calls++
	f.ids = append(f.ids, secretID)
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

// testSettings points the local layer at a file inside a temp dir, so the
// developer's own .env never leaks into tests.
func testSettings(t *testing.T, envContent string) Settings {
	t.Helper()
	s := DefaultSettings()
	s.EnvFile = filepath.Join(t.TempDir(), ".env")
	if envContent != "" {
		if err := os.WriteFile(s.EnvFile, []byte(envContent), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
	}
	return s
}

// clearAppEnv unsets app keys that may be present in the test environment.
func clearAppEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys() {
		if v, ok := os.LookupEnv(k); ok {
			t.Setenv(k, v) // registers restore
			os.Unsetenv(k)
		}
	}
}

func TestLoadConfig_RemoteOverridesLocal(t *testing.T) {
	clearAppEnv(t)
	secrets := &fakeSecrets{bundle: secretstore.Bundle{"MONGO_URI": "remote"}}
	app := &App{Settings: testSettings(t, "MONGO_URI=local\nMONGO_DATABASE=devdb\n"), Secrets: secrets}

	cfg, err := app.LoadConfig(context.Background(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.MongoURI != "remote" {
		t.Errorf("MongoURI = %q, want %q", cfg.MongoURI, "remote")
	}
	if cfg.MongoDatabase != "devdb" {
		t.Errorf("MongoDatabase = %q, want local value %q", cfg.MongoDatabase, "devdb")
	}
	if secrets.calls != 1 || secrets.ids[0] != DefaultSecretID {
		t.Errorf("expected one fetch of %q, got %v", DefaultSecretID, secrets.ids)
	}
}

func TestLoadConfig_EveryBundleKeyIsEffective(t *testing.T) {
	clearAppEnv(t)
	bundle := secretstore.Bundle{"MONGO_URI": "conn-string", "PORT": "8080", "STRIPE_KEY": "sk_test"}
	app := &App{Settings: testSettings(t, "PORT=4000\nSTRIPE_KEY=local\n"), Secrets: &fakeSecrets{bundle: bundle}}

	cfg, err := app.LoadConfig(context.Background(), testLogger())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	for k, want := range bundle {
		if got, ok := cfg.Values.Lookup(k); !ok || got != want {
			t.Errorf("%s = %q (defined %v), want %q", k, got, ok, want)
		}
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
}

func TestLoadConfig_EmptyBundleKeepsLocal(t *testing.T) {
	clearAppEnv(t)
	app := &App{Settings: testSettings(t, "MONGO_URI=mongodb://localhost:27017\n"), Secrets: &fakeSecrets{}}

	cfg, err := app.LoadConfig(context.Background(), testLogger())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	clearAppEnv(t)
	t.Setenv("MONGO_DATABASE", "from-env")
	app := &App{Settings: testSettings(t, "MONGO_DATABASE=from-file\n"), Secrets: &fakeSecrets{}}

	cfg, err := app.LoadConfig(context.Background(), testLogger())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MongoDatabase != "from-env" {
		t.Errorf("MongoDatabase = %q, want from-env", cfg.MongoDatabase)
	}
}

func TestLoadConfig_SecretFailure(t *testing.T) {
	clearAppEnv(t)
	fetchErr := &secretstore.FetchError{SecretID: DefaultSecretID, Kind: secretstore.KindPermission, Err: errors.New("access denied")}
	app := &App{Settings: testSettings(t, "MONGO_URI=local\n"), Secrets: &fakeSecrets{err: fetchErr}}

	_, err := app.LoadConfig(context.Background(), testLogger())
	if !secretstore.IsKind(err, secretstore.KindPermission) {
		t.Fatalf("expected permission FetchError, got %v", err)
	}
}

func TestLoadConfig_FetchHasDeadline(t *testing.T) {
	clearAppEnv(t)
	var hadDeadline bool
	app := &App{
		Settings: testSettings(t, ""),
		Secrets: fetcherFunc(func(ctx context.Context, id string) (secretstore.Bundle, error) {
			_, hadDeadline = ctx.Deadline()
			return secretstore.Bundle{"MONGO_URI": "x"}, nil
		}),
	}

	if _, err := app.LoadConfig(context.Background(), testLogger()); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !hadDeadline {
		t.Error("secret fetch was not bounded by a deadline")
	}
}

type fetcherFunc func(ctx context.Context, id string) (secretstore.Bundle, error)

func (f fetcherFunc) Fetch(ctx context.Context, id string) (secretstore.Bundle, error) {
	return f(ctx, id)
}

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg, err := newAppConfig(configsource.Merge(configsource.Layer{"MONGO_URI": "mongodb://db"}))
	if err != nil {
		t.Fatalf("newAppConfig returned error: %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.ListenAddr() != ":3000" {
		t.Errorf("ListenAddr() = %q, want :3000", cfg.ListenAddr())
	}
	if cfg.MongoDatabase != "storehub" {
		t.Errorf("MongoDatabase = %q, want storehub", cfg.MongoDatabase)
	}
	if cfg.MongoMaxPoolSize != 0 || cfg.MongoMinPoolSize != 0 {
		t.Errorf("expected driver default pool sizes, got %d/%d", cfg.MongoMaxPoolSize, cfg.MongoMinPoolSize)
	}
	if cfg.RateLimitRPS != 25 || cfg.RateLimitBurst != 50 {
		t.Errorf("rate limit = %v/%d, want 25/50", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d, want %d", cfg.MaxBodyBytes, 1<<20)
	}
}

func TestNewAppConfig_InvalidNumbers(t *testing.T) {
	for _, key := range []string{KeyMongoMaxPoolSize, KeyMongoMinPoolSize, KeyRateLimitRPS, KeyRateLimitBurst, KeyMaxBodyBytes} {
		t.Run(key, func(t *testing.T) {
			_, err := newAppConfig(configsource.Merge(configsource.Layer{key: "lots"}))
			if err == nil {
				t.Fatalf("expected error for %s=lots", key)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() AppConfig {
		cfg, err := newAppConfig(configsource.Merge(configsource.Layer{"MONGO_URI": "mongodb://db", "PORT": "8080"}))
		if err != nil {
			t.Fatalf("newAppConfig: %v", err)
		}
		return cfg
	}

	if err := ValidateConfig(valid(), testLogger()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		layer   configsource.Layer
		wantErr error
	}{
		{"missing uri", configsource.Layer{"PORT": "8080"}, ErrMissingKey},
		{"empty uri", configsource.Layer{"MONGO_URI": ""}, ErrMissingKey},
		{"port not a number", configsource.Layer{"MONGO_URI": "mongodb://db", "PORT": "http"}, ErrInvalidPort},
		{"port zero", configsource.Layer{"MONGO_URI": "mongodb://db", "PORT": "0"}, ErrInvalidPort},
		{"port too large", configsource.Layer{"MONGO_URI": "mongodb://db", "PORT": "70000"}, ErrInvalidPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newAppConfig(configsource.Merge(tt.layer))
			if err != nil {
				t.Fatalf("newAppConfig: %v", err)
			}
			if err := ValidateConfig(cfg, testLogger()); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConfig error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfig_PoolBounds(t *testing.T) {
	cfg, err := newAppConfig(configsource.Merge(configsource.Layer{
		"MONGO_URI":           "mongodb://db",
		"MONGO_MAX_POOL_SIZE": "5",
		"MONGO_MIN_POOL_SIZE": "10",
	}))
	if err != nil {
		t.Fatalf("newAppConfig: %v", err)
	}
	if err := ValidateConfig(cfg, testLogger()); err == nil {
		t.Error("expected error when min pool size exceeds max")
	}
}

func TestDescribeKey(t *testing.T) {
	if DescribeKey(KeyMongoURI) == "" {
		t.Error("MONGO_URI should have a description")
	}
	if got := DescribeKey("SOMETHING_ELSE"); got != "" {
		t.Errorf("DescribeKey(unknown) = %q, want empty", got)
	}
}
