package routes

import (
	"net/http"

	"github.com/OwlvinAiDevs/OwlvinAi/handlers"
)

func RegisterScheduleRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("POST /schedule/generate", h.GenerateScheduleHandler)
	mux.HandleFunc("GET /schedule", h.GetScheduleHandler)
}

func RegisterSyncRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("POST /sync/backup", h.SyncBackupHandler)
	mux.HandleFunc("POST /sync/calendar", h.SyncCalendarHandler)
}
