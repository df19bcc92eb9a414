// internal/app/lifecycle/hooks.go
package lifecycle

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Hooks wires an app into the boot sequence. C is the app's configuration
// type and D holds its backend dependencies (database clients and so on).
//
// Run calls the hooks in this order and stops at the first error:
//
//	LoadConfig -> ValidateConfig -> ConnectDB -> BuildHandler -> (bind) -> Shutdown
//
// ValidateConfig and Shutdown are optional. Shutdown is only called when
// ConnectDB succeeded.
type Hooks[C any, D any] struct {
	Name string

	LoadConfig     func(ctx context.Context, logger *zap.Logger) (C, error)
	ValidateConfig func(cfg C, logger *zap.Logger) error
	ConnectDB      func(ctx context.Context, cfg C, logger *zap.Logger) (D, error)
	BuildHandler   func(cfg C, deps D, logger *zap.Logger) (http.Handler, error)
	ListenAddr     func(cfg C) string
	Shutdown       func(ctx context.Context, cfg C, deps D, logger *zap.Logger) error
}

func (h Hooks[C, D]) check() error {
	var errs []error
	if h.LoadConfig == nil {
		errs = append(errs, errors.New("lifecycle: LoadConfig hook is required"))
	}
	if h.ConnectDB == nil {
		errs = append(errs, errors.New("lifecycle: ConnectDB hook is required"))
	}
	if h.BuildHandler == nil {
		errs = append(errs, errors.New("lifecycle: BuildHandler hook is required"))
	}
	if h.ListenAddr == nil {
		errs = append(errs, errors.New("lifecycle: ListenAddr hook is required"))
	}
	return errors.Join(errs...)
}
