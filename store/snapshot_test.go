package store

import (
	"context"
	"testing"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalModifiedAt_TracksWrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LocalModifiedAt(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.CreateTask(ctx, types.Task{UserID: 1, Title: "Essay"})
	require.NoError(t, err)
	first, ok, err := s.LocalModifiedAt(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.ReplaceSchedule(ctx, 1, []types.ScheduledSession{session(0, "Essay", at(9, 0), at(10, 0))})
	require.NoError(t, err)
	second, _, err := s.LocalModifiedAt(ctx, 1)
	require.NoError(t, err)
	assert.True(t, second.After(first))

	_, ok, err = s.LocalModifiedAt(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkSynced_CompareAndSet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, types.Task{UserID: 1, Title: "Essay"})
	require.NoError(t, err)
	local, _, err := s.LocalModifiedAt(ctx, 1)
	require.NoError(t, err)

	remote := local.Add(3 * time.Second)
	ok, err := s.MarkSynced(ctx, 1, local, remote)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _, err := s.LocalModifiedAt(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(remote))

	ok, err = s.MarkSynced(ctx, 1, local, remote.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExportImport_RoundTripsAcrossStores(t *testing.T) {
	src, _ := newTestStore(t)
	dst, _ := newTestStore(t)
	ctx := context.Background()

	// occupy ids in the destination so task ids must be remapped
	_, err := dst.CreateTask(ctx, types.Task{UserID: 9, Title: "Someone else"})
	require.NoError(t, err)
	_, err = dst.CreateTask(ctx, types.Task{UserID: 1, Title: "Stale"})
	require.NoError(t, err)

	essay, err := src.CreateTask(ctx, types.Task{UserID: 1, Title: "Essay", Category: "Writing"})
	require.NoError(t, err)
	_, err = src.ReplaceSchedule(ctx, 1, []types.ScheduledSession{
		session(essay.ID, "Essay", at(9, 0), at(10, 0)),
		session(0, "Ad hoc", at(10, 5), at(10, 30)),
	})
	require.NoError(t, err)
	_, err = src.AddNote(ctx, types.Note{UserID: 1, DateKey: "2024-01-01", Body: "Quiet day"})
	require.NoError(t, err)
	_, err = src.AppendChatExchange(ctx, types.ChatExchange{UserID: 1, Role: types.RoleUser, Message: "hi"})
	require.NoError(t, err)

	snap, err := src.ExportUser(ctx, 1)
	require.NoError(t, err)
	assert.False(t, snap.ModifiedAt.IsZero())
	require.Len(t, snap.Tasks, 1)
	require.Len(t, snap.Sessions, 2)

	require.NoError(t, dst.ImportUser(ctx, snap))
	// importing twice must not duplicate the chat log
	require.NoError(t, dst.ImportUser(ctx, snap))

	tasks, err := dst.ListTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Title)

	sessions, err := dst.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, tasks[0].ID, sessions[0].TaskID)
	assert.Zero(t, sessions[1].TaskID)

	chat, err := dst.ListChatExchanges(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, chat, 1)

	notes, err := dst.ListNotes(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	stamp, ok, err := dst.LocalModifiedAt(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stamp.Equal(snap.ModifiedAt))

	others, err := dst.ListTasks(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestImportUser_RejectsInvalidSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.Error(t, s.ImportUser(ctx, nil))
	require.Error(t, s.ImportUser(ctx, &types.Snapshot{UserID: 1, Version: types.SnapshotVersion + 1}))

	_, err := s.ReplaceSchedule(ctx, 1, []types.ScheduledSession{session(0, "Keep", at(9, 0), at(10, 0))})
	require.NoError(t, err)

	bad := &types.Snapshot{UserID: 1, Version: 1, Sessions: []types.ScheduledSession{
		session(0, "Backwards", at(10, 0), at(9, 0)),
	}}
	require.Error(t, s.ImportUser(ctx, bad))

	sessions, err := s.GetSchedule(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Keep", sessions[0].Title)
}
