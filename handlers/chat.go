package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

const defaultHistoryLimit = 50

func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	writeResult(w, h.Scheduler.Chat(r.Context(), uid, req.Message, req.IncludeContext))
}

func (h *Handler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	log, err := h.Store.ListChatExchanges(r.Context(), uid, limit)
	if err != nil {
		fail(w, r, "Could not fetch chat history", err)
		return
	}
	if log == nil {
		log = []types.ChatExchange{}
	}
	writeJSON(w, http.StatusOK, types.ChatHistoryResponse{
		Success:   true,
		Exchanges: log,
	})
}
