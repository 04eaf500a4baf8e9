package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/middleware"
	"github.com/OwlvinAiDevs/OwlvinAi/reconcile"
	"github.com/OwlvinAiDevs/OwlvinAi/store"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, types.ErrorResponse{
		Success:      false,
		ErrorMessage: message,
	})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		ve *types.ValidationError
		te *types.TransportError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &te):
		return http.StatusBadGateway
	case errors.Is(err, reconcile.ErrNoBackup), errors.Is(err, reconcile.ErrNoCalendar):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	entry := config.Logger.WithError(err).WithField("path", r.URL.Path)
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}
	if status == http.StatusInternalServerError {
		writeError(w, msg, status)
		return
	}
	writeError(w, err.Error(), status)
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		writeError(w, "Missing "+key, http.StatusBadRequest)
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		writeError(w, "Invalid "+key, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
