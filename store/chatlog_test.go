package store

import (
	"context"
	"errors"
	"testing"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatLog_AppendAndList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, ex := range []types.ChatExchange{
		{UserID: 1, Role: types.RoleUser, Message: "plan my week"},
		{UserID: 1, Role: types.RoleAssistant, Message: "Here is your plan."},
		{UserID: 1, Role: types.RoleUser, Message: "thanks"},
		{UserID: 2, Role: types.RoleUser, Message: "not yours"},
	} {
		_, err := s.AppendChatExchange(ctx, ex)
		require.NoError(t, err)
	}

	all, err := s.ListChatExchanges(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "plan my week", all[0].Message)
	assert.Equal(t, types.RoleAssistant, all[1].Role)

	latest, err := s.ListChatExchanges(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Here is your plan.", latest[0].Message)
	assert.Equal(t, "thanks", latest[1].Message)
}

func TestChatLog_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := map[string]types.ChatExchange{
		"no user":      {Role: types.RoleUser, Message: "hi"},
		"unknown role": {UserID: 1, Role: "system", Message: "hi"},
		"blank":        {UserID: 1, Role: types.RoleUser, Message: "  "},
	}
	for name, ex := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.AppendChatExchange(ctx, ex)
			var verr *types.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestNotes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddNote(ctx, types.Note{UserID: 1, DateKey: "2024-01-01", Body: "Library closes early"})
	require.NoError(t, err)
	_, err = s.AddNote(ctx, types.Note{UserID: 1, DateKey: "2024-01-02", Body: "Bring calculator"})
	require.NoError(t, err)

	_, err = s.AddNote(ctx, types.Note{UserID: 1, DateKey: "01/02/2024", Body: "bad key"})
	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr))

	day, err := s.ListNotes(ctx, 1, "2024-01-01")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Library closes early", day[0].Body)

	all, err := s.ListNotes(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	removed, err := s.DeleteNotes(ctx, 1, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = s.DeleteNotes(ctx, 1, "2024-01-01")
	require.NoError(t, err)
	assert.Zero(t, removed)
}
