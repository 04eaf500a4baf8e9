package supabase

import (
	"fmt"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/supabase-community/supabase-go"
)

// NewClient builds a service client for the project at apiURL.
func NewClient(apiURL, apiKey string) (*supabase.Client, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}
	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}

// NewStorageBackup stores snapshots in bucket of the project's storage.
func NewStorageBackup(apiURL, apiKey, bucket string) (*StorageBackup, error) {
	client, err := NewClient(apiURL, apiKey)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = config.DefaultBackupBucket
	}
	return &StorageBackup{objects: client.Storage, bucket: bucket}, nil
}
