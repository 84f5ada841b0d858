package main

import (
	"log"
	"net/http"

	httphandlers "tekeer/internal/interfaces/http"
	"tekeer/internal/shared/config"
	"tekeer/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/links", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleSubmit)))
	mux.Handle("/api/links/continue", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleContinue)))
	mux.Handle("/api/sync/cards", authMiddleware(http.HandlerFunc(deps.SyncHandler.HandleSyncCards)))
	mux.Handle("/api/sync/billing", authMiddleware(http.HandlerFunc(deps.SyncHandler.HandleSyncBilling)))
	mux.Handle("/api/sync/approvals", authMiddleware(http.HandlerFunc(deps.SyncHandler.HandleSyncApprovals)))
	mux.Handle("/api/cards", authMiddleware(http.HandlerFunc(deps.CardHandler.HandleListCards)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(mux))

	// Wrap with the OTel HTTP instrumentation when telemetry is exporting
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
