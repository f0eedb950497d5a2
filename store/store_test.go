package store

import (
	"context"
	"testing"
	"time"

	"loneton_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UserRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	last := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	user := &models.User{
		ID:                   "u1",
		Name:                 "Ada",
		CompatibilityAnswers: []int{1, 2, 3},
		LastMatchDate:        &last,
		UnpinnedMatches:      []string{"m0"},
	}
	require.NoError(t, s.SaveUser(ctx, user))

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, []int{1, 2, 3}, got.CompatibilityAnswers)
	require.NotNil(t, got.LastMatchDate)
	assert.True(t, last.Equal(*got.LastMatchDate))
	assert.True(t, got.HasUnpinned("m0"))
}

func TestStore_GetUserMissing(t *testing.T) {
	s := New(NewMemoryKV())

	_, err := s.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UsersIndexHasNoDuplicates(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	require.NoError(t, s.SaveUser(ctx, &models.User{ID: "b"}))
	require.NoError(t, s.SaveUser(ctx, &models.User{ID: "a"}))
	require.NoError(t, s.SaveUser(ctx, &models.User{ID: "b", Name: "again"}))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0].ID)
	assert.Equal(t, "again", users[0].Name)
	assert.Equal(t, "a", users[1].ID)
}

func TestStore_ListUsersSkipsMissingRecords(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := New(kv)

	require.NoError(t, kv.Put(ctx, models.UsersKey, []byte(`["ghost","real"]`)))
	require.NoError(t, s.SaveUser(ctx, &models.User{ID: "real"}))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "real", users[0].ID)
}

func TestStore_EmptyLogsAreNotErrors(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	messages, err := s.GetMessages(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, messages)

	feedback, err := s.GetFeedback(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, feedback)
}

func TestStore_MessagesKeyedByMatch(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := New(kv)

	require.NoError(t, s.SaveMessages(ctx, "m1", []models.Message{{ID: "1", SenderID: "u1", Content: "hi"}}))

	_, err := kv.Get(ctx, "messages:m1")
	require.NoError(t, err)

	messages, err := s.GetMessages(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Content)
}

func TestStore_RejectsEmptyIDs(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	assert.Error(t, s.SaveUser(ctx, &models.User{}))
	assert.Error(t, s.SaveMatch(ctx, &models.Match{}))
}
