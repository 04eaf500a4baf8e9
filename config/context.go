package config

import "time"

// Remote planner endpoints
const (
	DefaultAPIBaseURL   = "https://studybuddy-api-w8g5.onrender.com"
	EndpointSchedule    = "/generate_ai_schedule"
	EndpointChat        = "/chat"
	EndpointPing        = "/ping"
	DefaultTimeout      = 60 * time.Second
	DefaultDBPath       = "owlvin.db"
	DefaultPort         = "8080"
	DefaultBackupBucket = "schedules"
	DefaultCalendarID   = "primary"
)

// Request defaults used when no study profile is configured
const (
	DefaultPomodoroLength = 25
	DefaultEnergyLevel    = 3
	UnknownEnergyLevel    = 2
	DefaultSlotOffset     = time.Hour
	DefaultSlotLength     = 2 * time.Hour
)

// Backup providers
const (
	BackupNone     = "none"
	BackupDrive    = "drive"
	BackupSupabase = "supabase"
)
