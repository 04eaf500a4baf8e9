package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/orchestrator"
	"github.com/OwlvinAiDevs/OwlvinAi/reconcile"
	"github.com/OwlvinAiDevs/OwlvinAi/supabase"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every setting at a temp dir so the host environment does
// not leak into the command under test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"OWLVIN_API_BASE_URL", "OWLVIN_REQUEST_TIMEOUT", "OWLVIN_PROFILE", "PORT", "LOG_LEVEL",
		"BACKUP_PROVIDER", "SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_JWT_SECRET",
		"SUPABASE_BACKUP_BUCKET", "GOOGLE_CALENDAR_ID", "CALENDAR_AUTO_PUSH",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OWLVIN_DB_PATH", filepath.Join(dir, "owlvin.db"))
	t.Setenv("GOOGLE_CREDENTIALS_FILE", filepath.Join(dir, "missing-credentials.json"))
	t.Setenv("GOOGLE_TOKEN_FILE", filepath.Join(dir, "token.json"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "owlvin", cmd.Use)

	for _, name := range []string{"serve", "generate", "chat", "sync", "tasks", "auth", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--format", "yaml", "tasks", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestTasksLifecycle(t *testing.T) {
	isolate(t)

	out, err := execute(t, "tasks", "add", "Essay", "--due", "2030-03-04 17:00", "--duration", "50", "--category", "Writing")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task 1.")

	out, err = execute(t, "--format", "json", "tasks", "list")
	require.NoError(t, err)
	var tasks []types.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Title)
	assert.Equal(t, 50, tasks[0].DurationMinutes)

	out, err = execute(t, "tasks", "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `Completed "Essay".`)

	out, err = execute(t, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks.")

	out, err = execute(t, "tasks", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "[x]")
}

func TestTasksAdd_BadDue(t *testing.T) {
	isolate(t)
	_, err := execute(t, "tasks", "add", "Essay", "--due", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --due")
}

func TestTasksOtherUser(t *testing.T) {
	isolate(t)
	_, err := execute(t, "tasks", "add", "Essay")
	require.NoError(t, err)

	out, err := execute(t, "tasks", "list", "--user", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks.")
}

func TestGenerate(t *testing.T) {
	isolate(t)

	planner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, config.EndpointSchedule, r.URL.Path)
		var req types.ScheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Tasks, 1)

		fmt.Fprint(w, `{
			"user_id": 1,
			"sessions": [{"task": {"title": "Essay", "category": "Writing"}, "task_id": 1,
				"start_time": "2030-03-04T09:00:00Z", "end_time": "2030-03-04T09:50:00Z", "break_after": 10}],
			"success": true,
			"message": "Scheduled 1 session.",
			"warnings": []
		}`)
	}))
	defer planner.Close()
	t.Setenv("OWLVIN_API_BASE_URL", planner.URL)

	_, err := execute(t, "tasks", "add", "Essay", "--duration", "50", "--category", "Writing")
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "generate")
	require.NoError(t, err)

	var res orchestrator.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, orchestrator.StateDone, res.State)
	assert.True(t, res.Persisted)
	assert.Equal(t, 1, res.Sessions)
	assert.Equal(t, "Scheduled 1 session.", res.Summary)
}

func TestGenerate_PlannerDown(t *testing.T) {
	isolate(t)
	planner := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer planner.Close()
	t.Setenv("OWLVIN_API_BASE_URL", planner.URL)

	_, err := execute(t, "generate")
	var te *types.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
}

func TestChat_EmptyMessage(t *testing.T) {
	isolate(t)
	out, err := execute(t, "chat", "   ")
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, out, "Please enter a message.")
}

func TestSyncWithoutRemotes(t *testing.T) {
	isolate(t)

	_, err := execute(t, "sync", "backup")
	assert.ErrorIs(t, err, reconcile.ErrNoBackup)

	_, err = execute(t, "sync", "calendar")
	assert.ErrorIs(t, err, reconcile.ErrNoCalendar)
}

func TestDriveBackupNeedsCredentials(t *testing.T) {
	isolate(t)
	t.Setenv("BACKUP_PROVIDER", config.BackupDrive)

	_, err := execute(t, "sync", "backup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google credentials")
}

func TestToken(t *testing.T) {
	isolate(t)
	t.Setenv("SUPABASE_JWT_SECRET", "cli-secret")

	out, err := execute(t, "token", "--user", "42", "--ttl", "1h")
	require.NoError(t, err)

	id, err := supabase.UserIDFromToken(string(bytes.TrimSpace([]byte(out))), "cli-secret")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}
