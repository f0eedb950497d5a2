package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"loneton_server/models"
	"loneton_server/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserProfileService handles registration, profile edits and the one-time
// compatibility questionnaire.
type UserProfileService struct {
	Repo   store.Repository
	Now    func() time.Time
	Logger *zap.Logger

	// Lock must be shared with MatchService; both rewrite whole user records.
	Lock sync.Locker
}

func NewUserProfileService(repo store.Repository, now func() time.Time, logger *zap.Logger, lock sync.Locker) *UserProfileService {
	return &UserProfileService{Repo: repo, Now: now, Logger: logger, Lock: lock}
}

// ProfileUpdate carries the editable profile fields; nil fields are left alone.
type ProfileUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Bio       *string  `json:"bio,omitempty"`
	Avatar    *string  `json:"avatar,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Location  *string  `json:"location,omitempty"`
	Age       *int     `json:"age,omitempty"`
	Gender    *string  `json:"gender,omitempty"`
}

// Register creates a new user. Emails are unique, compared case-insensitively.
func (ups *UserProfileService) Register(ctx context.Context, profile models.User) (*models.User, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Name == "" || profile.Email == "" {
		return nil, ErrInvalidProfile
	}

	ups.Lock.Lock()
	defer ups.Lock.Unlock()

	existing, err := ups.findByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      profile.Name,
		Email:     profile.Email,
		Avatar:    profile.Avatar,
		Bio:       profile.Bio,
		Interests: profile.Interests,
		Location:  profile.Location,
		Age:       profile.Age,
		Gender:    profile.Gender,
		CreatedAt: ups.Now(),
	}
	if err := ups.Repo.SaveUser(ctx, &user); err != nil {
		ups.Logger.Error("❌ failed to register user", zap.String("email", user.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	ups.Logger.Info("✅ user registered", zap.String("userId", user.ID))
	return &user, nil
}

// Login looks a user up by email. Credentials are checked upstream.
func (ups *UserProfileService) Login(ctx context.Context, email string) (*models.User, error) {
	user, err := ups.findByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (ups *UserProfileService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := ups.Repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := ups.Repo.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return user, nil
}

// UpdateUserProfile applies the non-nil fields of update.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	ups.Lock.Lock()
	defer ups.Lock.Unlock()

	user, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrInvalidProfile
		}
		user.Name = name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Interests != nil {
		user.Interests = update.Interests
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Gender != nil {
		user.Gender = *update.Gender
	}

	if err := ups.Repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// SubmitQuestionnaire stores the compatibility answers. They can only be
// submitted once.
func (ups *UserProfileService) SubmitQuestionnaire(ctx context.Context, userID string, answers []int) (*models.User, error) {
	if len(answers) != models.QuestionnaireLength {
		return nil, ErrInvalidAnswers
	}
	for _, a := range answers {
		if a < models.MinAnswer || a > models.MaxAnswer {
			return nil, ErrInvalidAnswers
		}
	}

	ups.Lock.Lock()
	defer ups.Lock.Unlock()

	user, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasCompletedQuestionnaire {
		return nil, ErrQuestionnaireCompleted
	}

	user.CompatibilityAnswers = append([]int(nil), answers...)
	user.HasCompletedQuestionnaire = true
	if err := ups.Repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save questionnaire: %w", err)
	}

	ups.Logger.Info("📝 questionnaire completed", zap.String("userId", userID))
	return user, nil
}
