package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

func (h *Handler) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var note types.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	note.ID = 0
	note.UserID = uid

	saved, err := h.Store.AddNote(r.Context(), note)
	if err != nil {
		fail(w, r, "Could not save note", err)
		return
	}
	writeJSON(w, http.StatusCreated, types.NotesResponse{Success: true, Notes: []types.Note{saved}})
}

func (h *Handler) GetNotesHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	notes, err := h.Store.ListNotes(r.Context(), uid, r.URL.Query().Get("date"))
	if err != nil {
		fail(w, r, "Could not fetch notes", err)
		return
	}
	if notes == nil {
		notes = []types.Note{}
	}
	writeJSON(w, http.StatusOK, types.NotesResponse{Success: true, Notes: notes})
}

func (h *Handler) DeleteNotesHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, "Missing date", http.StatusBadRequest)
		return
	}
	removed, err := h.Store.DeleteNotes(r.Context(), uid, date)
	if err != nil {
		fail(w, r, "Could not delete notes", err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeleteNotesResponse{Success: true, Removed: removed})
}
