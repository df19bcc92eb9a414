// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/storehub/internal/app/lifecycle"
	"github.com/dalemusser/storehub/internal/app/system/secretstore"
	"go.uber.org/zap"
)

// App carries what the lifecycle hooks need beyond configuration values.
// Secrets and Dial default to AWS Secrets Manager and datastore.Connect.
type App struct {
	Settings Settings
	Secrets  secretstore.Fetcher
	Dial     DialFunc
}

// Hooks wires the app into the lifecycle.
func (a *App) Hooks() lifecycle.Hooks[AppConfig, DBDeps] {
	return lifecycle.Hooks[AppConfig, DBDeps]{
		Name:           "storehub",
		LoadConfig:     a.LoadConfig,
		ValidateConfig: ValidateConfig,
		ConnectDB:      a.ConnectDB,
		BuildHandler:   BuildHandler,
		ListenAddr:     AppConfig.ListenAddr,
		Shutdown:       Shutdown,
	}
}

// ResolveConfig runs only the configuration stage: LoadConfig followed by
// ValidateConfig.
func (a *App) ResolveConfig(ctx context.Context, logger *zap.Logger) (AppConfig, error) {
	cfg, err := a.LoadConfig(ctx, logger)
	if err != nil {
		return AppConfig{}, err
	}
	if err := ValidateConfig(cfg, logger); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
