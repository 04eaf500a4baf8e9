package routes

import (
	"net/http"

	"github.com/OwlvinAiDevs/OwlvinAi/handlers"
	"github.com/OwlvinAiDevs/OwlvinAi/middleware"
)

// RegisterAllRoutes registers all authenticated application routes
func RegisterAllRoutes(mux *http.ServeMux, h *handlers.Handler) {
	RegisterScheduleRoutes(mux, h)
	RegisterChatRoutes(mux, h)
	RegisterTaskRoutes(mux, h)
	RegisterNoteRoutes(mux, h)
	RegisterSyncRoutes(mux, h)
}

// NewRouter builds the full server handler: /health is public, everything
// else needs a bearer token.
func NewRouter(h *handlers.Handler, jwtSecret string) http.Handler {
	api := http.NewServeMux()
	RegisterAllRoutes(api, h)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", h.HealthHandler)
	root.Handle("/", middleware.AuthMiddleware(jwtSecret)(api))

	return middleware.Chain(
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)(root)
}
