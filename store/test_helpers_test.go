package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one second on every read.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}

func session(taskID int, title string, start, end time.Time) types.ScheduledSession {
	return types.ScheduledSession{TaskID: taskID, Title: title, StartTime: start, EndTime: end, BreakAfter: 5}
}

// sessionKeys strips ids so stored and requested sets can be compared.
func sessionKeys(sessions []types.ScheduledSession) []string {
	keys := make([]string, 0, len(sessions))
	for _, s := range sessions {
		keys = append(keys, s.Title+"|"+s.StartTime.UTC().Format(time.RFC3339)+"|"+s.EndTime.UTC().Format(time.RFC3339))
	}
	return keys
}
