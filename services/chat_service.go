package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"loneton_server/models"
	"loneton_server/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService owns the conversation log of every match. There is one log
// per match; each participant's view is computed when it is read.
type ChatService struct {
	Repo   store.Repository
	Now    func() time.Time
	Logger *zap.Logger

	mu sync.Mutex
}

func NewChatService(repo store.Repository, now func() time.Time, logger *zap.Logger) *ChatService {
	return &ChatService{Repo: repo, Now: now, Logger: logger}
}

// AppendMessage adds a new unread message at the end of the match's log.
func (s *ChatService) AppendMessage(ctx context.Context, matchID, senderID, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.Repo.GetMessages(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	message := models.Message{
		ID:        uuid.NewString(),
		MatchID:   matchID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: s.Now(),
	}
	if err := s.Repo.SaveMessages(ctx, matchID, append(messages, message)); err != nil {
		s.Logger.Error("❌ failed to store message", zap.String("matchId", matchID), zap.Error(err))
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.Logger.Debug("📩 message stored", zap.String("matchId", matchID), zap.String("senderId", senderID))
	return &message, nil
}

// GetMessages returns the match's log in send order.
func (s *ChatService) GetMessages(ctx context.Context, matchID string) ([]models.Message, error) {
	messages, err := s.Repo.GetMessages(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// ViewFor returns the log as viewerID sees it. Only participants may read it.
func (s *ChatService) ViewFor(ctx context.Context, viewerID, matchID string) ([]models.MessageView, error) {
	match, err := s.Repo.GetMatch(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}
	if !match.HasParticipant(viewerID) {
		return nil, ErrNotParticipant
	}

	messages, err := s.GetMessages(ctx, matchID)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, len(messages))
	for i, m := range messages {
		views[i] = models.MessageView{Message: m, Mine: m.SenderID == viewerID}
	}
	return views, nil
}

// MarkAsRead flips every unread message in the log to read and reports how
// many changed. Nothing is written when all messages are already read.
func (s *ChatService) MarkAsRead(ctx context.Context, matchID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.Repo.GetMessages(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	changed := 0
	for i := range messages {
		if !messages[i].Read {
			messages[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := s.Repo.SaveMessages(ctx, matchID, messages); err != nil {
		s.Logger.Error("❌ failed to mark messages as read", zap.String("matchId", matchID), zap.Error(err))
		return 0, fmt.Errorf("failed to mark messages as read: %w", err)
	}

	s.Logger.Info("✅ messages marked as read", zap.String("matchId", matchID), zap.Int("count", changed))
	return changed, nil
}
