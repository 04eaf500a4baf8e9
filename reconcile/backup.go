package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/sirupsen/logrus"
)

type BackupResult struct {
	UserID int                    `json:"user_id"`
	Action types.SyncAction       `json:"action"`
	Record types.RemoteSyncRecord `json:"record"`
}

// SyncBackup compares the user's local data with their backup blob and moves
// the newer copy over the older one.
func (r *Reconciler) SyncBackup(ctx context.Context, userID int) (BackupResult, error) {
	result := BackupResult{UserID: userID, Action: types.SyncNoOp}
	if r.backup == nil {
		return result, ErrNoBackup
	}

	localAt, ok, err := r.local.LocalModifiedAt(ctx, userID)
	if err != nil {
		return result, err
	}
	var local *types.SyncRecord
	if ok {
		local = &types.SyncRecord{ModifiedAt: localAt}
		result.Record.LocalModifiedAt = &localAt
	}

	obj, err := r.backup.GetRemoteModifiedTime(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("stat backup: %w", err)
	}
	var remote *types.SyncRecord
	if obj != nil {
		remote = &types.SyncRecord{ModifiedAt: obj.ModifiedAt, RemoteID: obj.ID}
		remoteAt := obj.ModifiedAt
		result.Record.RemoteModifiedAt = &remoteAt
		result.Record.RemoteID = obj.ID
	}

	result.Action = Sync(local, remote)
	log := config.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"action":  result.Action,
	})
	log.Info("Backup sync decided")

	switch result.Action {
	case types.SyncUpload, types.SyncUpdate:
		remoteID := ""
		if remote != nil {
			remoteID = remote.RemoteID
		}
		if err := r.pushBackup(ctx, userID, remoteID, &result); err != nil {
			return result, err
		}
	case types.SyncDownload:
		if err := r.pullBackup(ctx, userID, *remote); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *Reconciler) pushBackup(ctx context.Context, userID int, remoteID string, result *BackupResult) error {
	snap, err := r.local.ExportUser(ctx, userID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	obj, err := r.backup.Upload(ctx, userID, remoteID, data)
	if err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}
	result.Record.RemoteID = obj.ID
	remoteAt := obj.ModifiedAt
	result.Record.RemoteModifiedAt = &remoteAt

	aligned, err := r.local.MarkSynced(ctx, userID, snap.ModifiedAt, obj.ModifiedAt)
	if err != nil {
		return err
	}
	if !aligned {
		config.Logger.WithField("user_id", userID).Info("Local data changed during upload, next sync will push again")
	}
	return nil
}

func (r *Reconciler) pullBackup(ctx context.Context, userID int, remote types.SyncRecord) error {
	data, err := r.backup.Download(ctx, userID, remote.RemoteID)
	if err != nil {
		return fmt.Errorf("download backup: %w", err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &types.ParseWarning{Reason: "backup is not a valid snapshot", Details: []string{err.Error()}}
	}
	if snap.UserID != userID {
		return &types.ValidationError{Index: -1, Field: "snapshot", Reason: fmt.Sprintf("belongs to user %d", snap.UserID)}
	}

	// the imported data carries the remote stamp so both sides compare equal
	snap.ModifiedAt = remote.ModifiedAt
	return r.local.ImportUser(ctx, &snap)
}
