package routes

import (
	"net/http"

	"github.com/OwlvinAiDevs/OwlvinAi/handlers"
)

// RegisterTaskRoutes registers all task-related routes
func RegisterTaskRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("POST /tasks/create", h.CreateTaskHandler)
	mux.HandleFunc("PATCH /tasks/update", h.UpdateTaskHandler)
	mux.HandleFunc("PATCH /tasks/complete", h.CompleteTaskHandler)
	mux.HandleFunc("DELETE /tasks/delete", h.DeleteTaskHandler)
	mux.HandleFunc("GET /tasks", h.GetTasksHandler)
	mux.HandleFunc("GET /task", h.GetSingleTaskHandler)
}

func RegisterNoteRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("POST /notes", h.AddNoteHandler)
	mux.HandleFunc("GET /notes", h.GetNotesHandler)
	mux.HandleFunc("DELETE /notes", h.DeleteNotesHandler)
}
