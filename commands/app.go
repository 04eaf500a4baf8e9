package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/google"
	"github.com/OwlvinAiDevs/OwlvinAi/llm"
	"github.com/OwlvinAiDevs/OwlvinAi/orchestrator"
	"github.com/OwlvinAiDevs/OwlvinAi/reconcile"
	"github.com/OwlvinAiDevs/OwlvinAi/store"
	"github.com/OwlvinAiDevs/OwlvinAi/supabase"
	"github.com/sirupsen/logrus"
)

const appConfigDir = "owlvin"

// app holds everything a command needs. The store is opened once here and
// passed to every component.
type app struct {
	settings     config.Settings
	store        *store.Store
	planner      *llm.Client
	reconciler   *reconcile.Reconciler
	orchestrator *orchestrator.Orchestrator
	hasRemote    bool
}

func newApp(ctx context.Context, s config.Settings) (*app, error) {
	profile, err := config.LoadProfile(s.ProfilePath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(s.DBPath)
	if err != nil {
		return nil, err
	}

	calendar, backup, err := remotes(ctx, s)
	if err != nil {
		st.Close()
		return nil, err
	}

	a := &app{
		settings:  s,
		store:     st,
		planner:   llm.NewClient(s.APIBaseURL, s.RequestTimeout),
		hasRemote: calendar != nil || backup != nil,
	}

	// a nil *google.Calendar must not become a non-nil interface
	var cal reconcile.CalendarService
	if calendar != nil {
		cal = calendar
	}
	a.reconciler = reconcile.New(st, cal, backup)

	opts := []orchestrator.Option{orchestrator.WithTimeout(s.RequestTimeout)}
	if s.CalendarAutoPush && calendar != nil {
		opts = append(opts, orchestrator.WithCalendarPush(a.reconciler))
	}
	a.orchestrator = orchestrator.New(a.planner, st, profile, opts...)

	config.Logger.WithFields(logrus.Fields{
		"db":       s.DBPath,
		"api":      s.APIBaseURL,
		"calendar": calendar != nil,
		"backup":   s.BackupProvider,
	}).Debug("Application ready")
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		config.Logger.WithError(err).Error("Error closing database")
	}
}

// remotes builds the calendar and backup store the settings ask for. Google
// services are skipped with a warning until `owlvin auth google` has run.
func remotes(ctx context.Context, s config.Settings) (*google.Calendar, reconcile.BackupStore, error) {
	var backup reconcile.BackupStore
	if s.BackupProvider == config.BackupSupabase {
		sb, err := supabase.NewStorageBackup(s.SupabaseURL, s.SupabaseKey, s.SupabaseBackupBucket)
		if err != nil {
			return nil, nil, err
		}
		backup = sb
	}

	client, err := googleClient(ctx, s)
	if errors.Is(err, google.ErrNoToken) || errors.Is(err, os.ErrNotExist) {
		config.Logger.WithError(err).Warn("Google services are disabled")
		if s.BackupProvider == config.BackupDrive {
			return nil, nil, fmt.Errorf("drive backups need google credentials: %w", err)
		}
		return nil, backup, nil
	}
	if err != nil {
		return nil, nil, err
	}

	calendar, err := google.NewCalendar(ctx, client, s.GoogleCalendarID)
	if err != nil {
		return nil, nil, err
	}
	if s.BackupProvider == config.BackupDrive {
		drive, err := google.NewDriveBackup(ctx, client)
		if err != nil {
			return nil, nil, err
		}
		backup = drive
	}
	return calendar, backup, nil
}

func googleClient(ctx context.Context, s config.Settings) (*http.Client, error) {
	creds, token, err := googleFiles(s)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(creds); err != nil {
		return nil, err
	}
	return google.HTTPClient(ctx, creds, token)
}

// googleFiles resolves the credential and token paths, defaulting to the
// user's config directory.
func googleFiles(s config.Settings) (string, string, error) {
	creds, token := s.GoogleCredentialsFile, s.GoogleTokenFile
	if creds != "" && token != "" {
		return creds, token, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", "", err
	}
	dir := filepath.Join(base, appConfigDir)
	if creds == "" {
		creds = filepath.Join(dir, "credentials.json")
	}
	if token == "" {
		token = filepath.Join(dir, "token.json")
	}
	return creds, token, nil
}
