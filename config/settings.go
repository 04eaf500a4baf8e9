package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Settings struct {
	APIBaseURL     string
	DBPath         string
	RequestTimeout time.Duration
	ProfilePath    string
	Port           string
	LogLevel       string

	BackupProvider       string
	SupabaseURL          string
	SupabaseKey          string
	SupabaseJWTSecret    string
	SupabaseBackupBucket string

	GoogleCredentialsFile string
	GoogleTokenFile       string
	GoogleCalendarID      string
	CalendarAutoPush      bool
}

// LoadSettings reads Settings from the environment. Call LoadEnv first so a
// .env file is taken into account.
func LoadSettings() (Settings, error) {
	s := Settings{
		APIBaseURL:            envOr("OWLVIN_API_BASE_URL", DefaultAPIBaseURL),
		DBPath:                envOr("OWLVIN_DB_PATH", DefaultDBPath),
		ProfilePath:           os.Getenv("OWLVIN_PROFILE"),
		Port:                  envOr("PORT", DefaultPort),
		LogLevel:              envOr("LOG_LEVEL", "info"),
		BackupProvider:        strings.ToLower(envOr("BACKUP_PROVIDER", BackupNone)),
		SupabaseURL:           os.Getenv("SUPABASE_URL"),
		SupabaseKey:           os.Getenv("SUPABASE_KEY"),
		SupabaseJWTSecret:     os.Getenv("SUPABASE_JWT_SECRET"),
		SupabaseBackupBucket:  envOr("SUPABASE_BACKUP_BUCKET", DefaultBackupBucket),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleTokenFile:       os.Getenv("GOOGLE_TOKEN_FILE"),
		GoogleCalendarID:      envOr("GOOGLE_CALENDAR_ID", DefaultCalendarID),
	}
	s.APIBaseURL = strings.TrimRight(s.APIBaseURL, "/")

	timeout, err := parseTimeout(os.Getenv("OWLVIN_REQUEST_TIMEOUT"))
	if err != nil {
		return Settings{}, err
	}
	s.RequestTimeout = timeout

	if raw := os.Getenv("CALENDAR_AUTO_PUSH"); raw != "" {
		push, err := strconv.ParseBool(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid CALENDAR_AUTO_PUSH %q: %w", raw, err)
		}
		s.CalendarAutoPush = push
	}

	switch s.BackupProvider {
	case BackupNone, BackupDrive:
	case BackupSupabase:
		if s.SupabaseURL == "" || s.SupabaseKey == "" {
			return Settings{}, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing for supabase backups")
		}
	default:
		return Settings{}, fmt.Errorf("unknown BACKUP_PROVIDER %q", s.BackupProvider)
	}

	return s, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeout, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		raw = fmt.Sprintf("%ds", secs)
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid OWLVIN_REQUEST_TIMEOUT %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("OWLVIN_REQUEST_TIMEOUT must be positive, got %s", d)
	}
	return d, nil
}
