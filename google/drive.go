package google

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	appDataFolder   = "appDataFolder"
	maxBackupBytes  = 32 << 20
	backupFileMedia = "application/json"
)

// DriveBackup keeps one snapshot file per user in the app-private Drive
// folder.
type DriveBackup struct {
	srv *drive.Service
}

func NewDriveBackup(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*DriveBackup, error) {
	srv, err := drive.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}
	return &DriveBackup{srv: srv}, nil
}

// BackupName is the file name of a user's snapshot.
func BackupName(userID int) string {
	return fmt.Sprintf("UserSchedule-%d.json", userID)
}

func (d *DriveBackup) GetRemoteModifiedTime(ctx context.Context, userID int) (*types.RemoteObject, error) {
	list, err := d.srv.Files.List().
		Spaces(appDataFolder).
		Q(fmt.Sprintf("name = '%s' and trashed = false", BackupName(userID))).
		OrderBy("modifiedTime desc").
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, transportError("drive list", err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	if len(list.Files) > 1 {
		config.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"files":   len(list.Files),
		}).Warn("Several backups found, using the newest")
	}
	return remoteObject(list.Files[0])
}

func (d *DriveBackup) Upload(ctx context.Context, userID int, remoteID string, data []byte) (*types.RemoteObject, error) {
	media := googleapi.ContentType(backupFileMedia)
	var (
		f   *drive.File
		err error
	)
	if remoteID == "" {
		f, err = d.srv.Files.Create(&drive.File{
			Name:     BackupName(userID),
			Parents:  []string{appDataFolder},
			MimeType: backupFileMedia,
		}).Media(bytes.NewReader(data), media).Fields("id, modifiedTime").Context(ctx).Do()
	} else {
		f, err = d.srv.Files.Update(remoteID, &drive.File{}).
			Media(bytes.NewReader(data), media).Fields("id, modifiedTime").Context(ctx).Do()
	}
	if err != nil {
		return nil, transportError("drive upload", err)
	}
	return remoteObject(f)
}

func (d *DriveBackup) Download(ctx context.Context, userID int, remoteID string) ([]byte, error) {
	resp, err := d.srv.Files.Get(remoteID).Context(ctx).Download()
	if err != nil {
		return nil, transportError("drive download", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBackupBytes))
	if err != nil {
		return nil, &types.TransportError{Op: "drive download", Err: err}
	}
	config.Logger.WithFields(logrus.Fields{"user_id": userID, "bytes": len(data)}).Debug("Downloaded backup")
	return data, nil
}

func remoteObject(f *drive.File) (*types.RemoteObject, error) {
	modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return nil, fmt.Errorf("parse modifiedTime %q: %w", f.ModifiedTime, err)
	}
	return &types.RemoteObject{ID: f.Id, ModifiedAt: modified.UTC()}, nil
}
