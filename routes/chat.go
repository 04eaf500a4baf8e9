package routes

import (
	"net/http"

	"github.com/OwlvinAiDevs/OwlvinAi/handlers"
)

// RegisterChatRoutes registers all chat-related routes
func RegisterChatRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("POST /chat", h.ChatHandler)
	mux.HandleFunc("GET /chat/history", h.ChatHistoryHandler)
}
