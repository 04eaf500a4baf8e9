package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/sirupsen/logrus"
	storage "github.com/supabase-community/storage-go"
)

const listPageSize = 100

// objectStorage is the subset of the storage client used for backups.
type objectStorage interface {
	ListFiles(bucketID, queryPath string, options storage.FileSearchOptions) ([]storage.FileObject, error)
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error)
	UpdateFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error)
	DownloadFile(bucketID, filePath string, urlOptions ...storage.UrlOptions) ([]byte, error)
}

// StorageBackup keeps one snapshot object per user in a storage bucket. The
// object path doubles as its remote id.
type StorageBackup struct {
	objects objectStorage
	bucket  string
}

func ObjectName(userID int) string {
	return fmt.Sprintf("UserSchedule-%d.json", userID)
}

// GetRemoteModifiedTime does not take part in cancellation; the storage client
// has no context support.
func (s *StorageBackup) GetRemoteModifiedTime(ctx context.Context, userID int) (*types.RemoteObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := ObjectName(userID)
	for offset := 0; ; offset += listPageSize {
		files, err := s.objects.ListFiles(s.bucket, "", storage.FileSearchOptions{
			Limit:         listPageSize,
			Offset:        offset,
			SortByOptions: storage.SortBy{Column: "name", Order: "asc"},
		})
		if err != nil {
			return nil, &types.TransportError{Op: "storage list", Err: err}
		}
		for _, f := range files {
			if f.Name != name {
				continue
			}
			modified, err := time.Parse(time.RFC3339, f.UpdatedAt)
			if err != nil {
				return nil, fmt.Errorf("parse updated_at %q: %w", f.UpdatedAt, err)
			}
			return &types.RemoteObject{ID: name, ModifiedAt: modified.UTC()}, nil
		}
		if len(files) < listPageSize {
			return nil, nil
		}
	}
}

func (s *StorageBackup) Upload(ctx context.Context, userID int, remoteID string, data []byte) (*types.RemoteObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contentType := "application/json"
	upsert := true
	opts := storage.FileOptions{ContentType: &contentType, Upsert: &upsert}

	var err error
	if remoteID == "" {
		_, err = s.objects.UploadFile(s.bucket, ObjectName(userID), bytes.NewReader(data), opts)
	} else {
		_, err = s.objects.UpdateFile(s.bucket, remoteID, bytes.NewReader(data), opts)
	}
	if err != nil {
		return nil, &types.TransportError{Op: "storage upload", Err: err}
	}

	obj, err := s.GetRemoteModifiedTime(ctx, userID)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, &types.TransportError{Op: "storage upload", Err: fmt.Errorf("object %s missing after upload", ObjectName(userID))}
	}
	config.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"bucket":  s.bucket,
		"bytes":   len(data),
	}).Info("Uploaded backup to storage")
	return obj, nil
}

func (s *StorageBackup) Download(ctx context.Context, userID int, remoteID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if remoteID == "" {
		remoteID = ObjectName(userID)
	}
	data, err := s.objects.DownloadFile(s.bucket, remoteID)
	if err != nil {
		return nil, &types.TransportError{Op: "storage download", Err: err}
	}
	return data, nil
}
