package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sikacredit/ussd-api/internal/application/admin"
	"github.com/sikacredit/ussd-api/internal/application/dialog"
	"github.com/sikacredit/ussd-api/internal/config"
	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/transport/http/handler"
	appmiddleware "github.com/sikacredit/ussd-api/internal/transport/http/middleware"
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
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 50 requests/second, burst of 100 — USSD gateways funnel all subscriber
	// traffic through a handful of source IPs.
	gatewayRL := appmiddleware.NewRateLimiter(rate.Limit(50), 100)

	dialogSvc := dialog.NewService(dialog.ServiceDeps{
		Sessions:     deps.Sessions,
		IdentityRepo: deps.IdentityRepo,
		LoanRepo:     deps.LoanRepo,
		ActivityRepo: deps.ActivityRepo,
		Mailer:       deps.Mailer,
		SMSSender:    deps.SMSSender,
		Schema:       dialog.ParseSchema(cfg.RegistrationFields),
		CountryCode:  cfg.CountryCode,
		LoanMin:      cfg.LoanMinAmount,
		LoanMax:      cfg.LoanMaxAmount,
		RepoTimeout:  cfg.RepoTimeout,
	})
	adminSvc := admin.NewService(deps.IdentityRepo, deps.LoanRepo, deps.ActivityRepo)

	healthH := handler.NewHealthHandler()
	ussdH := handler.NewUSSDHandler(dialogSvc)
	adminH := handler.NewAdminHandler(adminSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(gatewayRL.Limit).Post("/ussd", ussdH.Callback)

		// ── Administrative side-channel ──────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

			r.Post("/identities/{id}/approve", adminH.ApproveIdentity)
			r.Post("/identities/{id}/suspend", adminH.SuspendIdentity)
			r.Get("/identities/{id}/profile", adminH.Profile)
			r.Put("/loans/{id}/decision", adminH.DecideLoan)
		})
	})

	return r
}
