package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/reconcile"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

const healthTimeout = 5 * time.Second

type backupResponse struct {
	Success bool `json:"success"`
	reconcile.BackupResult
}

type pushResponse struct {
	Success bool `json:"success"`
	reconcile.PushReport
}

func (h *Handler) SyncBackupHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if h.Sync == nil {
		fail(w, r, "Backup is not configured", reconcile.ErrNoBackup)
		return
	}
	res, err := h.Sync.SyncBackup(r.Context(), uid)
	if err != nil {
		fail(w, r, "Backup sync failed", err)
		return
	}
	writeJSON(w, http.StatusOK, backupResponse{Success: true, BackupResult: res})
}

func (h *Handler) SyncCalendarHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if h.Sync == nil {
		fail(w, r, "Calendar is not configured", reconcile.ErrNoCalendar)
		return
	}
	report, err := h.Sync.PushSchedule(r.Context(), uid)
	if err != nil {
		fail(w, r, "Calendar push failed", err)
		return
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}
	writeJSON(w, http.StatusOK, pushResponse{Success: true, PushReport: report})
}

// HealthHandler reports whether the planner answers its ping. The server
// itself is healthy whenever it can respond.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := types.HealthResponse{Status: "ok", Planner: "ok"}
	if h.Planner != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.Planner.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Planner = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
