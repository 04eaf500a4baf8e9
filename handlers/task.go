package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

func (h *Handler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var task types.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		config.Logger.WithError(err).Warn("Failed to decode task JSON")
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(task.Title) == "" {
		writeError(w, "Missing title", http.StatusBadRequest)
		return
	}
	task.ID = 0
	task.UserID = uid
	task.Completed = false

	saved, err := h.Store.CreateTask(r.Context(), task)
	if err != nil {
		fail(w, r, "Failed to create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, types.TaskResponse{
		Success: true,
		Task:    saved,
	})
}

func (h *Handler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	taskID, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	var upd types.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil || upd.Empty() {
		writeError(w, "Invalid or empty update payload", http.StatusBadRequest)
		return
	}

	task, err := h.Store.UpdateTask(r.Context(), uid, taskID, upd)
	if err != nil {
		fail(w, r, "Failed to update task", err)
		return
	}
	writeJSON(w, http.StatusOK, types.TaskResponse{Success: true, Task: task})
}

func (h *Handler) CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	taskID, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	task, err := h.Store.CompleteTask(r.Context(), uid, taskID)
	if err != nil {
		fail(w, r, "Failed to complete task", err)
		return
	}
	writeJSON(w, http.StatusOK, types.TaskResponse{Success: true, Task: task})
}

func (h *Handler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	taskID, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteTask(r.Context(), uid, taskID); err != nil {
		fail(w, r, "Could not delete task", err)
		return
	}
	writeJSON(w, http.StatusOK, types.DeleteTaskResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// GetTasksHandler lists the user's tasks; ?status=pending limits it to open
// ones.
func (h *Handler) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var (
		tasks []types.Task
		err   error
	)
	switch r.URL.Query().Get("status") {
	case "", "all":
		tasks, err = h.Store.ListTasks(r.Context(), uid)
	case "pending":
		tasks, err = h.Store.ListIncompleteTasks(r.Context(), uid)
	default:
		writeError(w, "Invalid status", http.StatusBadRequest)
		return
	}
	if err != nil {
		fail(w, r, "Could not fetch tasks", err)
		return
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	writeJSON(w, http.StatusOK, types.GetTasksResponse{
		Success: true,
		Tasks:   tasks,
		Total:   len(tasks),
	})
}

func (h *Handler) GetSingleTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	taskID, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	task, err := h.Store.GetTask(r.Context(), uid, taskID)
	if err != nil {
		fail(w, r, "Could not fetch task", err)
		return
	}
	writeJSON(w, http.StatusOK, types.TaskResponse{Success: true, Task: task})
}
