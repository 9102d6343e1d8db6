package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smart-office/dashboard/backend/internal/http/handlers"
)

// NewRouter builds full HTTP routing tree for backend API and static frontend.
// Dashboard routes are served both at the root and under /api.
func NewRouter(api *handlers.API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RecoverJSON)
	r.Use(RequestLogger(api))

	r.Get("/healthz", api.Health)
	mountDashboard(r, api)
	r.Route("/api", func(apiRouter chi.Router) {
		mountDashboard(apiRouter, api)
	})

	r.Get("/*", api.Static)
	r.Get("/", api.Static)
	return r
}

func mountDashboard(r chi.Router, api *handlers.API) {
	requireAuth := RequireAuth(api.Authenticator())

	// Long-lived; kept out of the request timeout.
	r.With(requireAuth).Get("/ws", api.Live)

	r.Group(func(g chi.Router) {
		g.Use(middleware.Timeout(20 * time.Second))

		g.Post("/auth/signup", api.SignUp)
		g.Post("/auth/signin", api.SignIn)

		g.Group(func(protected chi.Router) {
			protected.Use(requireAuth)
			protected.Post("/auth/signout", api.SignOut)

			protected.Get("/monitoring", api.GetMonitoring)
			protected.Get("/monitoring/history", api.MonitoringHistory)
			protected.Post("/monitoring/light-control", api.LightControl)

			protected.Get("/alerts", api.GetAlerts)
			protected.Post("/alerts/toggle-mode", api.ToggleAlertMode)
			protected.Post("/alerts/log-motion", api.LogMotion)

			protected.Get("/access-safety", api.GetAccessSafety)
			protected.Post("/access-safety/rfid-scan", api.RFIDScan)
			protected.Post("/access-safety/fire-system-toggle", api.ToggleFireSystem)

			protected.Post("/refresh", api.Refresh)
		})
	})
}

// RunServer starts and gracefully stops HTTP server with context cancellation.
func RunServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "err", err)
			return err
		}
		return nil
	}
}
