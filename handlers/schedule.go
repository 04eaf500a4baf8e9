package handlers

import (
	"net/http"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/orchestrator"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

type resultResponse struct {
	Success bool `json:"success"`
	orchestrator.Result
}

func writeResult(w http.ResponseWriter, res orchestrator.Result) {
	status := http.StatusOK
	if res.Failed() {
		status = statusFor(res.Err)
	}
	writeJSON(w, status, resultResponse{Success: !res.Failed(), Result: res})
}

func (h *Handler) GenerateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	res := h.Scheduler.GenerateSchedule(r.Context(), uid)
	if res.Failed() {
		config.Logger.WithError(res.Err).WithField("request_id", res.RequestID).Warn("Schedule generation failed")
	}
	writeResult(w, res)
}

func (h *Handler) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	sessions, err := h.Store.GetSchedule(r.Context(), uid)
	if err != nil {
		fail(w, r, "Could not fetch schedule", err)
		return
	}
	if sessions == nil {
		sessions = []types.ScheduledSession{}
	}
	writeJSON(w, http.StatusOK, types.GetScheduleResponse{
		Success:  true,
		Sessions: sessions,
	})
}
