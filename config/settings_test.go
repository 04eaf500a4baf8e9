package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	for _, key := range []string{
		"OWLVIN_API_BASE_URL", "OWLVIN_DB_PATH", "OWLVIN_REQUEST_TIMEOUT", "OWLVIN_PROFILE",
		"PORT", "LOG_LEVEL", "BACKUP_PROVIDER", "SUPABASE_URL", "SUPABASE_KEY",
		"SUPABASE_JWT_SECRET", "SUPABASE_BACKUP_BUCKET", "GOOGLE_CREDENTIALS_FILE",
		"GOOGLE_TOKEN_FILE", "GOOGLE_CALENDAR_ID", "CALENDAR_AUTO_PUSH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, s.APIBaseURL)
	assert.Equal(t, DefaultDBPath, s.DBPath)
	assert.Equal(t, DefaultTimeout, s.RequestTimeout)
	assert.Equal(t, BackupNone, s.BackupProvider)
	assert.Equal(t, DefaultCalendarID, s.GoogleCalendarID)
	assert.False(t, s.CalendarAutoPush)
}

func TestLoadSettings_Overrides(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("OWLVIN_API_BASE_URL", "http://localhost:9000/")
	t.Setenv("OWLVIN_REQUEST_TIMEOUT", "45")
	t.Setenv("CALENDAR_AUTO_PUSH", "true")
	t.Setenv("BACKUP_PROVIDER", "Drive")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", s.APIBaseURL)
	assert.Equal(t, 45*time.Second, s.RequestTimeout)
	assert.True(t, s.CalendarAutoPush)
	assert.Equal(t, BackupDrive, s.BackupProvider)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad timeout":            {"OWLVIN_REQUEST_TIMEOUT": "soon"},
		"negative timeout":       {"OWLVIN_REQUEST_TIMEOUT": "-5s"},
		"bad push flag":          {"CALENDAR_AUTO_PUSH": "maybe"},
		"unknown provider":       {"BACKUP_PROVIDER": "dropbox"},
		"supabase without creds": {"BACKUP_PROVIDER": "supabase"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearSettingsEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadSettings()
			require.Error(t, err)
		})
	}
}
