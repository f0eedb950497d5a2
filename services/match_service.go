package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"loneton_server/models"
	"loneton_server/store"

	"go.uber.org/zap"
)

// MatchOptions tunes the lifecycle manager.
type MatchOptions struct {
	// MatchLatency is the simulated time a match search takes.
	MatchLatency time.Duration
	// BotFallback creates a bot match when no human clears the floor.
	BotFallback bool
}

// MatchService owns match state: creation, expiry, unpinning and the message
// count that unlocks video calls.
type MatchService struct {
	Repo   store.Repository
	Finder *MatchFinder
	Chat   *ChatService
	Bots   *BotResponder
	Now    func() time.Time
	Logger *zap.Logger
	Opts   MatchOptions

	// mu serialises read-modify-write sequences on user and match records
	mu  sync.Mutex
	rng *rand.Rand

	pendingMu sync.Mutex
	pending   map[string]struct{}
}

func NewMatchService(repo store.Repository, chat *ChatService, bots *BotResponder, now func() time.Time, logger *zap.Logger, opts MatchOptions) *MatchService {
	s := &MatchService{
		Repo:    repo,
		Finder:  NewMatchFinder(repo, now, logger),
		Chat:    chat,
		Bots:    bots,
		Now:     now,
		Logger:  logger,
		Opts:    opts,
		rng:     rand.New(rand.NewSource(now().UnixNano())),
		pending: make(map[string]struct{}),
	}
	bots.OnReply(s.applyBotReply)
	return s
}

// Locker returns the lock guarding user and match rewrites, for services
// that edit the same records.
func (s *MatchService) Locker() sync.Locker {
	return &s.mu
}

// GenerateDailyMatch finds and pins today's match for userID. It returns nil
// without error when the user is not eligible or nobody qualifies. A second
// call for the same user while one is running fails with
// ErrMatchRequestPending.
func (s *MatchService) GenerateDailyMatch(ctx context.Context, userID string) (*models.Match, error) {
	if !s.beginRequest(userID) {
		matchRequestsTotal.WithLabelValues(resultPending).Inc()
		return nil, ErrMatchRequestPending
	}
	defer s.endRequest(userID)

	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	match, result, err := s.generateLocked(ctx, userID)
	if err != nil {
		result = resultError
		s.Logger.Error("❌ daily match failed", zap.String("userId", userID), zap.Error(err))
	}
	matchRequestsTotal.WithLabelValues(result).Inc()
	return match, err
}

func (s *MatchService) generateLocked(ctx context.Context, userID string) (*models.Match, string, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !user.HasCompletedQuestionnaire {
		return nil, resultIneligible, nil
	}

	if _, err := s.observeLocked(ctx, user); err != nil {
		return nil, "", err
	}
	eligibility := CheckEligibility(user, s.Now())
	if eligibility.ReflectionElapsed {
		if err := s.clearReflectionLocked(ctx, user); err != nil {
			return nil, "", err
		}
	}
	if !eligibility.CanGetNewMatch {
		s.Logger.Info("match request while not eligible",
			zap.String("userId", userID),
			zap.Int("hoursUntilNext", eligibility.HoursUntilNext))
		return nil, resultIneligible, nil
	}

	match, err := s.Finder.FindDailyMatch(ctx, user)
	if err != nil {
		return nil, "", err
	}
	result := resultMatched
	if match == nil && s.Opts.BotFallback {
		excluded, err := s.Finder.excludedUsers(ctx, user)
		if err != nil {
			return nil, "", err
		}
		if match = newBotMatch(user.ID, excluded, s.rng, s.Now()); match != nil {
			result = resultBot
		}
	}
	if match == nil {
		return nil, resultNone, nil
	}

	if err := s.createMatchLocked(ctx, user, match); err != nil {
		if errors.Is(err, errCounterpartUnavailable) {
			return nil, resultNone, nil
		}
		return nil, "", err
	}

	s.Logger.Info("✅ daily match created",
		zap.String("userId", userID),
		zap.String("matchId", match.ID),
		zap.String("counterpartId", match.UserID),
		zap.Int("score", match.CompatibilityScore),
		zap.Bool("isBot", match.IsBot))
	return match, result, nil
}

// CurrentMatch returns the user's active match, expiring it first when its
// window has passed. Nil means no active match.
func (s *MatchService) CurrentMatch(ctx context.Context, userID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	match, err := s.observeLocked(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.viewForLocked(ctx, userID, match)
}

// viewForLocked projects match onto viewerID's side. Profile fields are stored
// from the owner's side, so the counterpart is shown the owner instead.
func (s *MatchService) viewForLocked(ctx context.Context, viewerID string, match *models.Match) (*models.Match, error) {
	if match == nil || match.IsBot || viewerID != match.UserID {
		return match, nil
	}
	owner, err := s.loadUser(ctx, match.OwnerID)
	if err != nil {
		return nil, err
	}
	return match.MirroredFor(owner), nil
}

// Status reports the eligibility fields the UI polls. Elapsed reflection
// flags are cleared as a separate write after the pure check.
func (s *MatchService) Status(ctx context.Context, userID string) (Eligibility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return Eligibility{}, err
	}
	if _, err := s.observeLocked(ctx, user); err != nil {
		return Eligibility{}, err
	}

	eligibility := CheckEligibility(user, s.Now())
	if eligibility.ReflectionElapsed {
		if err := s.clearReflectionLocked(ctx, user); err != nil {
			return Eligibility{}, err
		}
	}
	return eligibility, nil
}

// SendMessage appends content to the user's active match and counts it.
// It does nothing unless matchID is the user's active match and content is
// not blank.
func (s *MatchService) SendMessage(ctx context.Context, userID, matchID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	match, err := s.observeLocked(ctx, user)
	if err != nil {
		return nil, err
	}
	if match == nil || match.ID != matchID {
		return nil, nil
	}

	message, err := s.Chat.AppendMessage(ctx, matchID, userID, content)
	if err != nil {
		return nil, err
	}
	if err := s.countMessageLocked(ctx, match, "user"); err != nil {
		return nil, err
	}

	if match.IsBot {
		s.Bots.Schedule(matchID)
	}
	return message, nil
}

// applyBotReply is called when a scheduled bot reply fires. Replies for a
// match that is no longer active are dropped.
func (s *MatchService) applyBotReply(matchID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	match, err := s.Repo.GetMatch(ctx, matchID)
	if err != nil {
		s.Logger.Error("❌ bot reply could not load match", zap.String("matchId", matchID), zap.Error(err))
		return
	}
	if !match.IsBot || !match.IsActive() || match.IsExpiredAt(s.Now()) {
		botRepliesDiscardedTotal.Inc()
		s.Logger.Info("bot reply discarded", zap.String("matchId", matchID), zap.String("status", match.Status))
		return
	}

	if _, err := s.Chat.AppendMessage(ctx, matchID, match.UserID, content); err != nil {
		s.Logger.Error("❌ bot reply could not be stored", zap.String("matchId", matchID), zap.Error(err))
		return
	}
	if err := s.countMessageLocked(ctx, match, "bot"); err != nil {
		s.Logger.Error("❌ bot reply could not be counted", zap.String("matchId", matchID), zap.Error(err))
	}
}

// Messages returns the match's conversation as userID sees it.
func (s *MatchService) Messages(ctx context.Context, userID, matchID string) ([]models.MessageView, error) {
	return s.Chat.ViewFor(ctx, userID, matchID)
}

// MarkMessagesAsRead marks the match's log read. Non-participants and
// unknown matches are ignored.
func (s *MatchService) MarkMessagesAsRead(ctx context.Context, userID, matchID string) (int, error) {
	match, err := s.Repo.GetMatch(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch match: %w", err)
	}
	if !match.HasParticipant(userID) {
		return 0, nil
	}
	return s.Chat.MarkAsRead(ctx, matchID)
}

// Feedback returns the feedback left for userID by people who unpinned them.
func (s *MatchService) Feedback(ctx context.Context, userID string) ([]models.Feedback, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	feedback, err := s.Repo.GetFeedback(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	return feedback, nil
}

// Reconcile applies lazy transitions for one user: expiry of an overdue match
// and clearing of an elapsed reflection. Running it twice changes nothing.
func (s *MatchService) Reconcile(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.observeLocked(ctx, user); err != nil {
		return err
	}
	if CheckEligibility(user, s.Now()).ReflectionElapsed {
		return s.clearReflectionLocked(ctx, user)
	}
	return nil
}

// observeLocked resolves user's current match. An overdue match is expired
// for both sides; a reference to a match that is missing or no longer active
// is dropped from the user record.
func (s *MatchService) observeLocked(ctx context.Context, user *models.User) (*models.Match, error) {
	if user.CurrentMatch == "" {
		return nil, nil
	}

	match, err := s.Repo.GetMatch(ctx, user.CurrentMatch)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch current match: %w", err)
	}

	switch {
	case match == nil || !match.IsActive():
		user.CurrentMatch = ""
		if err := s.Repo.SaveUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to drop stale match reference: %w", err)
		}
		return nil, nil
	case match.IsExpiredAt(s.Now()):
		if err := s.expireLocked(ctx, match); err != nil {
			return nil, err
		}
		user.CurrentMatch = ""
		return nil, nil
	}
	return match, nil
}

// expireLocked moves an active match to expired and releases both sides.
func (s *MatchService) expireLocked(ctx context.Context, match *models.Match) error {
	match.Status = models.MatchStatusExpired
	match.IsPinned = false
	if err := s.Repo.SaveMatch(ctx, match); err != nil {
		return fmt.Errorf("failed to expire match: %w", err)
	}
	s.Bots.Cancel(match.ID)
	matchesEndedTotal.WithLabelValues(models.MatchStatusExpired).Inc()

	participants := []string{match.OwnerID}
	if !match.IsBot {
		participants = append(participants, match.UserID)
	}
	for _, id := range participants {
		if err := s.releaseParticipant(ctx, id, match.ID); err != nil {
			return err
		}
	}

	s.Logger.Info("⌛ match expired", zap.String("matchId", match.ID))
	return nil
}

// releaseParticipant clears userID's current match if it still points at matchID.
func (s *MatchService) releaseParticipant(ctx context.Context, userID, matchID string) error {
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch participant %s: %w", userID, err)
	}
	if user.CurrentMatch != matchID {
		return nil
	}
	user.CurrentMatch = ""
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to release participant %s: %w", userID, err)
	}
	return nil
}

func (s *MatchService) clearReflectionLocked(ctx context.Context, user *models.User) error {
	user.IsInReflectionPeriod = false
	user.ReflectionEndsAt = nil
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to clear reflection period: %w", err)
	}
	s.Logger.Info("reflection period ended", zap.String("userId", user.ID))
	return nil
}

// countMessageLocked records one more message on the match. The video flag
// only ever goes from false to true.
func (s *MatchService) countMessageLocked(ctx context.Context, match *models.Match, sender string) error {
	wasUnlocked := match.VideoCallUnlocked
	match.MessageCount++
	match.VideoCallUnlocked = match.VideoCallUnlocked || match.MessageCount >= models.VideoUnlockThreshold

	if err := s.Repo.SaveMatch(ctx, match); err != nil {
		return fmt.Errorf("failed to update message count: %w", err)
	}
	messagesTotal.WithLabelValues(sender).Inc()

	if !wasUnlocked && match.VideoCallUnlocked {
		videoUnlocksTotal.Inc()
		s.Logger.Info("🎥 video calling unlocked", zap.String("matchId", match.ID), zap.Int("messageCount", match.MessageCount))
	}
	return nil
}

func (s *MatchService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return user, nil
}

func (s *MatchService) beginRequest(userID string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if _, busy := s.pending[userID]; busy {
		return false
	}
	s.pending[userID] = struct{}{}
	return true
}

func (s *MatchService) endRequest(userID string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	delete(s.pending, userID)
}

func (s *MatchService) isPending(userID string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	_, busy := s.pending[userID]
	return busy
}

func (s *MatchService) simulateLatency(ctx context.Context) error {
	if s.Opts.MatchLatency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Opts.MatchLatency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
