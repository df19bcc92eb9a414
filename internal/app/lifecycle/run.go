// internal/app/lifecycle/run.go
package lifecycle

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dalemusser/storehub/internal/app/system/limits"
	"github.com/dalemusser/storehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ListenFunc binds a network listener. net.Listen is the default.
type ListenFunc func(network, address string) (net.Listener, error)

// Option customizes a Run.
type Option func(*options)

type options struct {
	listen          ListenFunc
	observer        func(State)
	shutdownTimeout time.Duration
}

// WithListen replaces net.Listen.
func WithListen(fn ListenFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.listen = fn
		}
	}
}

// WithObserver registers a callback invoked on every state transition.
// It runs on the Run goroutine.
func WithObserver(fn func(State)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithShutdownTimeout bounds graceful server shutdown and the Shutdown hook.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// Run executes the boot sequence for hooks and then serves HTTP until ctx is
// cancelled.
//
// Stages run strictly in order on the calling goroutine: configuration,
// datastore connection, listener. The first failure ends the run with a
// *StageError and no later stage is attempted. Nothing is retried. Run never
// exits the process; callers decide that with ExitCode.
//
// A nil error means the server was listening and shut down cleanly after ctx
// was cancelled.
func Run[C any, D any](ctx context.Context, hooks Hooks[C, D], logger *zap.Logger, opts ...Option) error {
	if err := hooks.check(); err != nil {
		return err
	}

	o := options{
		listen:          net.Listen,
		shutdownTimeout: timeouts.Shutdown(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if hooks.Name != "" {
		logger = logger.With(zap.String("app", hooks.Name))
	}

	r := &run[C, D]{
		hooks:  hooks,
		opts:   o,
		logger: logger,
		m:      &machine{observer: o.observer},
	}
	return r.execute(ctx)
}

type run[C any, D any] struct {
	hooks  Hooks[C, D]
	opts   options
	logger *zap.Logger
	m      *machine
}

func (r *run[C, D]) execute(ctx context.Context) error {
	cfg, err := r.hooks.LoadConfig(ctx, r.logger)
	if err == nil && r.hooks.ValidateConfig != nil {
		err = r.hooks.ValidateConfig(cfg, r.logger)
	}
	if err != nil {
		return r.fail(StageConfig, err)
	}
	if err := r.m.advance(ConfigLoaded); err != nil {
		return r.fail(StageConfig, err)
	}

	deps, err := r.hooks.ConnectDB(ctx, cfg, r.logger)
	if err != nil {
		return r.fail(StageConnect, err)
	}
	if err := r.m.advance(Connected); err != nil {
		r.release(ctx, cfg, deps)
		return r.fail(StageConnect, err)
	}

	// From here on deps are owned by the run and released however it ends.
	handler, err := r.hooks.BuildHandler(cfg, deps, r.logger)
	if err != nil {
		r.release(ctx, cfg, deps)
		return r.fail(StageListen, err)
	}

	addr := r.hooks.ListenAddr(cfg)
	ln, err := r.opts.listen("tcp", addr)
	if err != nil {
		r.release(ctx, cfg, deps)
		return r.fail(StageListen, &BindError{Addr: addr, Err: err})
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader(),
		MaxHeaderBytes:    limits.MaxHeaderBytes,
	}
	r.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
	if err := r.m.advance(Listening); err != nil {
		_ = ln.Close()
		r.release(ctx, cfg, deps)
		return r.fail(StageListen, err)
	}

	serveErr := serve(ctx, srv, ln, r.opts.shutdownTimeout, r.logger)
	r.release(ctx, cfg, deps)
	_ = r.m.advance(Terminated)
	if serveErr != nil {
		r.logger.Error("server stopped with error", zap.Error(serveErr))
		return &StageError{Stage: StageServe, Err: serveErr}
	}
	r.logger.Info("server stopped")
	return nil
}

func (r *run[C, D]) fail(stage Stage, err error) error {
	r.logger.Error("startup failed",
		zap.String("stage", string(stage)),
		zap.Error(err))
	_ = r.m.advance(Terminated)
	return &StageError{Stage: stage, Err: err}
}

func (r *run[C, D]) release(ctx context.Context, cfg C, deps D) {
	if r.hooks.Shutdown == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.shutdownTimeout)
	defer cancel()
	if err := r.hooks.Shutdown(sctx, cfg, deps, r.logger); err != nil {
		r.logger.Warn("shutdown hook failed", zap.Error(err))
	}
}
