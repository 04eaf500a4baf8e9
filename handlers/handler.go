package handlers

import (
	"context"

	"github.com/OwlvinAiDevs/OwlvinAi/orchestrator"
	"github.com/OwlvinAiDevs/OwlvinAi/reconcile"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

type Scheduler interface {
	GenerateSchedule(ctx context.Context, userID int) orchestrator.Result
	Chat(ctx context.Context, userID int, message string, includeContext bool) orchestrator.Result
}

type Store interface {
	CreateTask(ctx context.Context, task types.Task) (types.Task, error)
	GetTask(ctx context.Context, userID, taskID int) (types.Task, error)
	ListTasks(ctx context.Context, userID int) ([]types.Task, error)
	ListIncompleteTasks(ctx context.Context, userID int) ([]types.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int, upd types.TaskUpdate) (types.Task, error)
	CompleteTask(ctx context.Context, userID, taskID int) (types.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int) error

	GetSchedule(ctx context.Context, userID int) ([]types.ScheduledSession, error)
	ListChatExchanges(ctx context.Context, userID, limit int) ([]types.ChatExchange, error)

	AddNote(ctx context.Context, note types.Note) (types.Note, error)
	ListNotes(ctx context.Context, userID int, dateKey string) ([]types.Note, error)
	DeleteNotes(ctx context.Context, userID int, dateKey string) (int, error)
}

type Syncer interface {
	SyncBackup(ctx context.Context, userID int) (reconcile.BackupResult, error)
	PushSchedule(ctx context.Context, userID int) (reconcile.PushReport, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP API. Sync may be nil when no remote is configured.
type Handler struct {
	Scheduler Scheduler
	Store     Store
	Sync      Syncer
	Planner   Pinger
}
