package types

import "time"

type SyncAction string

const (
	SyncUpload   SyncAction = "upload"
	SyncDownload SyncAction = "download"
	SyncUpdate   SyncAction = "update"
	SyncNoOp     SyncAction = "noop"
)

// SyncRecord is one side of a reconciliation. A nil *SyncRecord means the
// side has no data at all.
type SyncRecord struct {
	ModifiedAt time.Time
	RemoteID   string
}

// RemoteSyncRecord describes one reconciliation decision. It is never stored.
type RemoteSyncRecord struct {
	LocalModifiedAt  *time.Time `json:"local_modified_at,omitempty"`
	RemoteModifiedAt *time.Time `json:"remote_modified_at,omitempty"`
	RemoteID         string     `json:"remote_id,omitempty"`
}

// RemoteObject is what a backup store knows about a stored blob.
type RemoteObject struct {
	ID         string
	ModifiedAt time.Time
}

const SnapshotVersion = 1

// Snapshot is the per-user backup document.
type Snapshot struct {
	Version    int                `json:"version"`
	UserID     int                `json:"user_id"`
	ModifiedAt time.Time          `json:"modified_at"`
	Tasks      []Task             `json:"tasks"`
	Sessions   []ScheduledSession `json:"sessions"`
	Notes      []Note             `json:"notes"`
	Chat       []ChatExchange     `json:"chat"`
}

type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	SessionKey  string
}
