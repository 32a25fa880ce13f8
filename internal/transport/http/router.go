package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-core/internal/application/otp"
	"github.com/go-otp-core/internal/application/token"
	"github.com/go-otp-core/internal/config"
	"github.com/go-otp-core/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-core/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	otpSvc := otp.NewService(otp.Deps{
		Repo:     deps.VerificationRepo,
		Limiter:  deps.Limiter,
		Adapters: deps.Adapters,
		Audit:    deps.Audit,
		Config:   deps.OTPConfig,
	})
	tokenSvc := token.NewService(deps.JWTProvider, deps.Registry, deps.Audit)

	healthH := handler.NewHealthHandler()
	codeH := handler.NewCodeHandler(otpSvc)
	tokenH := handler.NewTokenHandler(tokenSvc)

	// 5 requests/second with a burst of 10 on the public code endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	authMw := appmiddleware.Auth(tokenSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/codes", codeH.Issue)
		r.With(sensitiveRL.Limit).Post("/codes/verify", codeH.Verify)

		r.Post("/tokens", tokenH.IssuePair)
		r.Post("/tokens/refresh", tokenH.Rotate)
		r.Post("/tokens/revoke", tokenH.Revoke)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/tokens/introspect", tokenH.Introspect)
		})
	})

	return r
}
