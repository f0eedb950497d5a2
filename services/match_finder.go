package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"loneton_server/models"
	"loneton_server/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchFinder picks the single best candidate for a user's daily match.
type MatchFinder struct {
	Repo   store.Repository
	Now    func() time.Time
	Logger *zap.Logger
}

func NewMatchFinder(repo store.Repository, now func() time.Time, logger *zap.Logger) *MatchFinder {
	return &MatchFinder{Repo: repo, Now: now, Logger: logger}
}

// FindDailyMatch returns the highest scoring eligible candidate at or above
// the compatibility floor, or nil when nobody qualifies. Equal top scores are
// resolved in favour of the lowest user id. Nothing is persisted.
func (f *MatchFinder) FindDailyMatch(ctx context.Context, user *models.User) (*models.Match, error) {
	pool, err := f.Repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user pool: %w", err)
	}

	excluded, err := f.excludedUsers(ctx, user)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })

	now := f.Now()
	var best *models.User
	highest := 0
	candidates := 0

	for i := range pool {
		candidate := &pool[i]
		if !isCandidate(user, candidate, excluded, now) {
			continue
		}
		candidates++

		score := CalculateCompatibilityScore(user.CompatibilityAnswers, candidate.CompatibilityAnswers)
		f.Logger.Debug("candidate scored",
			zap.String("userId", user.ID),
			zap.String("candidateId", candidate.ID),
			zap.Int("score", score))

		if score >= models.MinCompatibilityScore && score > highest {
			highest = score
			best = candidate
		}
	}

	f.Logger.Info("🔍 daily match search finished",
		zap.String("userId", user.ID),
		zap.Int("candidates", candidates),
		zap.Int("bestScore", highest))

	if best == nil {
		return nil, nil
	}
	return newUserMatch(user.ID, best, highest, now), nil
}

// excludedUsers resolves the requester's unpinned set to user ids. An entry
// excludes both a user with that id and the counterpart of a match with that id.
func (f *MatchFinder) excludedUsers(ctx context.Context, user *models.User) (map[string]struct{}, error) {
	excluded := make(map[string]struct{}, len(user.UnpinnedMatches))
	for _, id := range user.UnpinnedMatches {
		excluded[id] = struct{}{}

		match, err := f.Repo.GetMatch(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve unpinned match %s: %w", id, err)
		}
		excluded[match.Counterpart(user.ID)] = struct{}{}
	}
	return excluded, nil
}

func isCandidate(user, candidate *models.User, excluded map[string]struct{}, now time.Time) bool {
	if candidate.ID == user.ID {
		return false
	}
	if !candidate.HasCompletedQuestionnaire || len(candidate.CompatibilityAnswers) == 0 {
		return false
	}
	if candidate.CurrentMatch != "" || candidate.InReflection(now) {
		return false
	}
	_, skip := excluded[candidate.ID]
	return !skip
}

func newUserMatch(ownerID string, counterpart *models.User, score int, now time.Time) *models.Match {
	return &models.Match{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		UserID:             counterpart.ID,
		Name:               counterpart.Name,
		Avatar:             counterpart.Avatar,
		Bio:                counterpart.Bio,
		Interests:          append([]string(nil), counterpart.Interests...),
		Location:           counterpart.Location,
		Age:                counterpart.Age,
		CompatibilityScore: score,
		MatchedAt:          now,
		MatchExpiresAt:     now.Add(models.MatchLifetime),
		Status:             models.MatchStatusActive,
		IsPinned:           true,
		PinnedBy:           []string{ownerID, counterpart.ID},
	}
}
