package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/store"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
)

var (
	ErrNoBackup   = errors.New("no backup store configured")
	ErrNoCalendar = errors.New("no calendar service configured")
)

// Sync decides which side of a reconciliation overwrites the other. The
// newer modification time wins as a whole; a missing side is always filled
// from the present one.
func Sync(local, remote *types.SyncRecord) types.SyncAction {
	switch {
	case local == nil && remote == nil:
		return types.SyncNoOp
	case remote == nil:
		return types.SyncUpload
	case local == nil:
		return types.SyncDownload
	}

	switch {
	case local.ModifiedAt.After(remote.ModifiedAt):
		return types.SyncUpdate
	case remote.ModifiedAt.After(local.ModifiedAt):
		return types.SyncDownload
	default:
		return types.SyncNoOp
	}
}

// LocalStore is the part of the local store the reconciler reads and writes
// through. It never touches storage directly.
type LocalStore interface {
	GetSchedule(ctx context.Context, userID int) ([]types.ScheduledSession, error)
	GetTask(ctx context.Context, userID, taskID int) (types.Task, error)
	LocalModifiedAt(ctx context.Context, userID int) (time.Time, bool, error)
	ExportUser(ctx context.Context, userID int) (*types.Snapshot, error)
	ImportUser(ctx context.Context, snap *types.Snapshot) error
	MarkSynced(ctx context.Context, userID int, expected, remote time.Time) (bool, error)
}

var _ LocalStore = (*store.Store)(nil)

// CalendarService is the remote calendar a schedule is pushed to.
type CalendarService interface {
	ListEvents(ctx context.Context, userID int, from, to time.Time) ([]types.CalendarEvent, error)
	CreateEvent(ctx context.Context, userID int, event types.CalendarEvent) (string, error)
}

// BackupStore keeps one backup blob per user. GetRemoteModifiedTime returns
// nil when the user has no backup yet; Upload with an empty remoteID creates
// one.
type BackupStore interface {
	GetRemoteModifiedTime(ctx context.Context, userID int) (*types.RemoteObject, error)
	Upload(ctx context.Context, userID int, remoteID string, data []byte) (*types.RemoteObject, error)
	Download(ctx context.Context, userID int, remoteID string) ([]byte, error)
}

type Reconciler struct {
	local    LocalStore
	calendar CalendarService
	backup   BackupStore
}

// New builds a Reconciler. calendar and backup may be nil when the
// corresponding remote is not configured.
func New(local LocalStore, calendar CalendarService, backup BackupStore) *Reconciler {
	return &Reconciler{local: local, calendar: calendar, backup: backup}
}
