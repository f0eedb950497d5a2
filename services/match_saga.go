package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loneton_server/models"
	"loneton_server/store"

	"go.uber.org/zap"
)

// Creating and unpinning a match touch up to three records. There is no
// transaction across keys, so both operations run as ordered steps:
//
//	create: match record -> requester -> counterpart
//	        a failed user step restores the user snapshots and expires the match
//	unpin:  match record -> unpinner -> counterpart + feedback
//	        every step is idempotent; calling UnpinMatch again finishes a
//	        partially applied unpin

func (s *MatchService) createMatchLocked(ctx context.Context, owner *models.User, match *models.Match) error {
	matchedAt := match.MatchedAt

	if err := s.Repo.SaveMatch(ctx, match); err != nil {
		return fmt.Errorf("create match: save match: %w", err)
	}

	ownerBefore := owner.Clone()
	owner.CurrentMatch = match.ID
	owner.LastMatchDate = &matchedAt
	if err := s.Repo.SaveUser(ctx, owner); err != nil {
		*owner = ownerBefore
		s.abandonMatchLocked(ctx, match)
		return fmt.Errorf("create match: update requester: %w", err)
	}

	if match.IsBot {
		return nil
	}

	err := s.pinCounterpartLocked(ctx, match)
	if err == nil {
		return nil
	}

	if restoreErr := s.Repo.SaveUser(ctx, &ownerBefore); restoreErr != nil {
		s.Logger.Error("❌ could not restore requester after failed match creation",
			zap.String("userId", owner.ID),
			zap.String("matchId", match.ID),
			zap.Error(restoreErr))
	}
	*owner = ownerBefore
	s.abandonMatchLocked(ctx, match)

	if errors.Is(err, errCounterpartUnavailable) {
		return err
	}
	return fmt.Errorf("create match: update counterpart: %w", err)
}

func (s *MatchService) pinCounterpartLocked(ctx context.Context, match *models.Match) error {
	counterpart, err := s.Repo.GetUser(ctx, match.UserID)
	if err != nil {
		return err
	}
	if counterpart.CurrentMatch != "" {
		return errCounterpartUnavailable
	}

	matchedAt := match.MatchedAt
	counterpart.CurrentMatch = match.ID
	counterpart.LastMatchDate = &matchedAt
	return s.Repo.SaveUser(ctx, counterpart)
}

// abandonMatchLocked retires a match whose creation could not complete.
func (s *MatchService) abandonMatchLocked(ctx context.Context, match *models.Match) {
	match.Status = models.MatchStatusExpired
	match.IsPinned = false
	if err := s.Repo.SaveMatch(ctx, match); err != nil {
		s.Logger.Error("❌ could not retire abandoned match", zap.String("matchId", match.ID), zap.Error(err))
	}
}

// UnpinMatch ends userID's active match matchID with a reason. The unpinner
// enters a 24h reflection period and never sees that counterpart again; a
// human counterpart becomes eligible 2h after the unpin and receives the
// reason as feedback. Blank reasons and matches the user cannot unpin are
// ignored.
func (s *MatchService) UnpinMatch(ctx context.Context, userID, matchID, reason string) (*models.Match, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	match, err := s.Repo.GetMatch(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}
	if !match.HasParticipant(userID) {
		return nil, nil
	}

	switch {
	case match.IsActive():
		if user.CurrentMatch != matchID {
			return nil, nil
		}
		if match.IsExpiredAt(s.Now()) {
			if _, err := s.observeLocked(ctx, user); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if err := s.markUnpinnedLocked(ctx, match, userID); err != nil {
			return nil, err
		}
	case match.Status == models.MatchStatusUnpinned && match.WasUnpinnedBy(userID):
		if unpinSettled(user, match) {
			return nil, nil
		}
		s.Logger.Warn("resuming partially applied unpin", zap.String("userId", userID), zap.String("matchId", matchID))
	default:
		return nil, nil
	}

	if err := s.releaseUnpinnerLocked(ctx, user, match); err != nil {
		return nil, err
	}
	if !match.IsBot && !match.CounterpartReleased {
		if err := s.releaseCounterpartLocked(ctx, user, match, reason); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("📌 match unpinned",
		zap.String("userId", userID),
		zap.String("matchId", matchID),
		zap.Bool("isBot", match.IsBot))
	return s.viewForLocked(ctx, userID, match)
}

func unpinSettled(user *models.User, match *models.Match) bool {
	unpinnerDone := user.CurrentMatch != match.ID && user.HasUnpinned(match.ID)
	return unpinnerDone && (match.IsBot || match.CounterpartReleased)
}

// markUnpinnedLocked is the first unpin step; once the match record says
// unpinned neither side can use it again.
func (s *MatchService) markUnpinnedLocked(ctx context.Context, match *models.Match, userID string) error {
	now := s.Now()
	match.Status = models.MatchStatusUnpinned
	match.IsPinned = false
	match.UnpinnedAt = &now
	match.UnpinnedBy = append(match.UnpinnedBy, userID)

	pinned := match.PinnedBy[:0]
	for _, id := range match.PinnedBy {
		if id != userID {
			pinned = append(pinned, id)
		}
	}
	match.PinnedBy = pinned

	if err := s.Repo.SaveMatch(ctx, match); err != nil {
		return fmt.Errorf("unpin: save match: %w", err)
	}
	s.Bots.Cancel(match.ID)
	matchesEndedTotal.WithLabelValues(models.MatchStatusUnpinned).Inc()
	return nil
}

// releaseUnpinnerLocked starts the reflection window, measured from the
// unpin time so a retry lands on the same values.
func (s *MatchService) releaseUnpinnerLocked(ctx context.Context, user *models.User, match *models.Match) error {
	if user.CurrentMatch != match.ID && user.HasUnpinned(match.ID) {
		return nil
	}

	reflectionEndsAt := match.UnpinnedAt.Add(models.ReflectionPeriod)
	if user.CurrentMatch == match.ID {
		user.CurrentMatch = ""
	}
	user.IsInReflectionPeriod = true
	user.ReflectionEndsAt = &reflectionEndsAt
	if !user.HasUnpinned(match.ID) {
		user.UnpinnedMatches = append(user.UnpinnedMatches, match.ID)
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("unpin: update unpinner: %w", err)
	}
	return nil
}

// releaseCounterpartLocked frees the other side, makes them eligible 2h after
// the unpin and leaves them the reason. The cooldown rule waits 24h from
// LastMatchDate, so LastMatchDate is set 22h before the unpin.
func (s *MatchService) releaseCounterpartLocked(ctx context.Context, unpinner *models.User, match *models.Match, reason string) error {
	counterpartID := match.Counterpart(unpinner.ID)

	counterpart, err := s.Repo.GetUser(ctx, counterpartID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		counterpart = nil
	case err != nil:
		return fmt.Errorf("unpin: fetch counterpart: %w", err)
	}

	if counterpart != nil {
		if counterpart.CurrentMatch == match.ID {
			nextEligible := match.UnpinnedAt.Add(models.CounterpartNextMatch - models.MatchCooldown)
			counterpart.CurrentMatch = ""
			counterpart.LastMatchDate = &nextEligible
			if err := s.Repo.SaveUser(ctx, counterpart); err != nil {
				return fmt.Errorf("unpin: update counterpart: %w", err)
			}
		}

		if err := s.leaveFeedbackLocked(ctx, counterpartID, models.Feedback{
			MatchID:    match.ID,
			Reason:     reason,
			Timestamp:  *match.UnpinnedAt,
			FromUser:   unpinner.Name,
			FromUserID: unpinner.ID,
		}); err != nil {
			return err
		}
	}

	match.CounterpartReleased = true
	if err := s.Repo.SaveMatch(ctx, match); err != nil {
		return fmt.Errorf("unpin: save match: %w", err)
	}
	return nil
}

func (s *MatchService) leaveFeedbackLocked(ctx context.Context, userID string, entry models.Feedback) error {
	feedback, err := s.Repo.GetFeedback(ctx, userID)
	if err != nil {
		return fmt.Errorf("unpin: fetch feedback: %w", err)
	}
	for _, f := range feedback {
		if f.MatchID == entry.MatchID {
			return nil
		}
	}
	if err := s.Repo.SaveFeedback(ctx, userID, append(feedback, entry)); err != nil {
		return fmt.Errorf("unpin: save feedback: %w", err)
	}
	return nil
}
