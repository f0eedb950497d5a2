package services

import (
	"context"
	"testing"

	"loneton_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileService_Register(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	ctx := context.Background()

	user, err := env.profiles.Register(ctx, models.User{Name: " Ana ", Email: "Ana@Example.com", Age: 27})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, 27, user.Age)
	assert.False(t, user.HasCompletedQuestionnaire)
	assert.True(t, user.CreatedAt.Equal(env.clock.Now()))

	stored := env.user(t, user.ID)
	assert.Equal(t, user.Email, stored.Email)

	_, err = env.profiles.Register(ctx, models.User{Name: "Other", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = env.profiles.Register(ctx, models.User{Name: "  ", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = env.profiles.Register(ctx, models.User{Name: "No Email"})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestUserProfileService_Login(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	ctx := context.Background()

	registered, err := env.profiles.Register(ctx, models.User{Name: "Ben", Email: "ben@example.com"})
	require.NoError(t, err)

	user, err := env.profiles.Login(ctx, " BEN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = env.profiles.Login(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserProfileService_UpdateUserProfile(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	ctx := context.Background()

	match := matchedPair(t, env)
	bio := "new bio"
	age := 31

	user, err := env.profiles.UpdateUserProfile(ctx, "a", ProfileUpdate{Bio: &bio, Age: &age, Interests: []string{"chess"}})
	require.NoError(t, err)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, 31, user.Age)
	assert.Equal(t, []string{"chess"}, user.Interests)
	assert.Equal(t, "user a", user.Name)

	stored := env.user(t, "a")
	assert.Equal(t, "new bio", stored.Bio)
	assert.Equal(t, match.ID, stored.CurrentMatch, "profile edits keep match state")
	assert.NotNil(t, stored.LastMatchDate)

	blank := " "
	_, err = env.profiles.UpdateUserProfile(ctx, "a", ProfileUpdate{Name: &blank})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = env.profiles.UpdateUserProfile(ctx, "ghost", ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserProfileService_SubmitQuestionnaire(t *testing.T) {
	env := newTestEnv(t, MatchOptions{})
	ctx := context.Background()

	registered, err := env.profiles.Register(ctx, models.User{Name: "Cy", Email: "cy@example.com"})
	require.NoError(t, err)

	invalid := [][]int{
		nil,
		answers(1, 2, 3),
		append(tenOf(3), 3),
		append(tenOf(3)[:9], 6),
		append(tenOf(3)[:9], 0),
	}
	for _, a := range invalid {
		_, err := env.profiles.SubmitQuestionnaire(ctx, registered.ID, a)
		assert.ErrorIs(t, err, ErrInvalidAnswers, "%v", a)
	}

	submitted := answers(1, 2, 3, 4, 5, 5, 4, 3, 2, 1)
	user, err := env.profiles.SubmitQuestionnaire(ctx, registered.ID, submitted)
	require.NoError(t, err)
	assert.True(t, user.HasCompletedQuestionnaire)
	assert.Equal(t, submitted, env.user(t, registered.ID).CompatibilityAnswers)

	_, err = env.profiles.SubmitQuestionnaire(ctx, registered.ID, tenOf(3))
	assert.ErrorIs(t, err, ErrQuestionnaireCompleted)
	assert.Equal(t, submitted, env.user(t, registered.ID).CompatibilityAnswers)

	_, err = env.profiles.SubmitQuestionnaire(ctx, "ghost", tenOf(3))
	assert.ErrorIs(t, err, ErrUserNotFound)
}
