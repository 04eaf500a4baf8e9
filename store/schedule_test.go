package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSchedule_ReplacesWholeSet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s1 := []types.ScheduledSession{
		session(0, "Essay", at(9, 0), at(10, 0)),
		session(0, "Reading", at(10, 5), at(11, 0)),
		session(0, "Math", at(11, 5), at(12, 0)),
	}
	n, err := s.ReplaceSchedule(ctx, 1, s1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	s2 := []types.ScheduledSession{
		session(0, "Lab report", at(14, 0), at(15, 0)),
	}
	_, err = s.ReplaceSchedule(ctx, 1, s2)
	require.NoError(t, err)

	got, err := s.GetSchedule(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sessionKeys(s2), sessionKeys(got))
	assert.Equal(t, 1, got[0].UserID)
	assert.Equal(t, 5, got[0].BreakAfter)
}

func TestReplaceSchedule_InvalidRowKeepsPriorSet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	prior := []types.ScheduledSession{session(0, "Essay", at(9, 0), at(10, 0))}
	_, err := s.ReplaceSchedule(ctx, 1, prior)
	require.NoError(t, err)

	tests := map[string]types.ScheduledSession{
		"inverted":       session(0, "Backwards", at(11, 0), at(10, 0)),
		"empty range":    session(0, "Zero", at(11, 0), at(11, 0)),
		"missing start":  {Title: "No start", EndTime: at(11, 0)},
		"negative break": {Title: "Neg", StartTime: at(11, 0), EndTime: at(12, 0), BreakAfter: -1},
		"other user":     {UserID: 2, Title: "Theirs", StartTime: at(11, 0), EndTime: at(12, 0)},
	}
	for name, bad := range tests {
		t.Run(name, func(t *testing.T) {
			next := []types.ScheduledSession{
				session(0, "Fine", at(13, 0), at(14, 0)),
				bad,
			}
			_, err := s.ReplaceSchedule(ctx, 1, next)
			require.Error(t, err)

			var verr *types.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, 1, verr.Index)

			got, err := s.GetSchedule(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, sessionKeys(prior), sessionKeys(got))
		})
	}
}

func TestReplaceSchedule_IsolatesUsers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceSchedule(ctx, 1, []types.ScheduledSession{session(0, "Mine", at(9, 0), at(10, 0))})
	require.NoError(t, err)
	_, err = s.ReplaceSchedule(ctx, 2, []types.ScheduledSession{session(0, "Theirs", at(9, 0), at(10, 0))})
	require.NoError(t, err)

	_, err = s.ReplaceSchedule(ctx, 1, nil)
	require.NoError(t, err)

	mine, err := s.GetSchedule(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := s.GetSchedule(ctx, 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Theirs", theirs[0].Title)
}

func TestReplaceSchedule_RejectsBadUser(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ReplaceSchedule(context.Background(), 0, nil)
	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestGetSchedule_OrderedByStart(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceSchedule(ctx, 1, []types.ScheduledSession{
		session(0, "Third", at(15, 0), at(16, 0)),
		session(0, "First", at(8, 0), at(9, 0)),
		session(0, "Second", at(9, 30), at(10, 0)),
	})
	require.NoError(t, err)

	got, err := s.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Second", got[1].Title)
	assert.Equal(t, "Third", got[2].Title)
	assert.True(t, got[0].StartTime.Equal(at(8, 0)))
}

func TestReplaceSchedule_ConcurrentReplacesNeverMix(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	setA := []types.ScheduledSession{
		session(0, "A1", at(9, 0), at(10, 0)),
		session(0, "A2", at(10, 0), at(11, 0)),
	}
	setB := []types.ScheduledSession{
		session(0, "B1", at(12, 0), at(13, 0)),
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.ReplaceSchedule(ctx, 1, setA)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.ReplaceSchedule(ctx, 1, setB)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetSchedule(ctx, 1)
	require.NoError(t, err)
	keys := sessionKeys(got)
	if len(keys) == 2 {
		assert.Equal(t, sessionKeys(setA), keys)
	} else {
		assert.Equal(t, sessionKeys(setB), keys)
	}
}
