// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	apierrors "github.com/dalemusser/storehub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/storehub/internal/app/features/health"
	"github.com/dalemusser/storehub/internal/app/system/ratelimit"
	"github.com/dalemusser/storehub/internal/app/system/reqlog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router).
//
// It is called only after configuration and the datastore connection have
// succeeded. Both front-end apps reach the backend under /api, from any
// origin.
func BuildHandler(cfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(reqlog.RequestID)
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", reqlog.Header},
		ExposedHeaders: []string{reqlog.Header},
		MaxAge:         300,
	}))

	errHandler := apierrors.NewHandler()
	r.NotFound(errHandler.NotFound)
	r.MethodNotAllowed(errHandler.MethodNotAllowed)

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.Reject = errHandler.TooManyRequests

	r.Route("/api", func(api chi.Router) {
		api.Use(limiter.Middleware)
		if cfg.MaxBodyBytes > 0 {
			api.Use(middleware.RequestSize(cfg.MaxBodyBytes))
		}

		// Health check endpoint for load balancers and orchestrators
		healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
		api.Mount("/health", healthfeature.Routes(healthHandler))
	})

	return r, nil
}
