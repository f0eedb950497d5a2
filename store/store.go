package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"loneton_server/models"
)

// ErrNotFound is returned by every backend when a key has no value.
var ErrNotFound = errors.New("item not found")

// KeyValueStore is the persistence contract: last writer wins per key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Repository gives typed access to the persisted records. Every write is an
// independent single-key write; nothing spans two keys atomically.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	SaveMatch(ctx context.Context, match *models.Match) error

	GetMessages(ctx context.Context, matchID string) ([]models.Message, error)
	SaveMessages(ctx context.Context, matchID string, messages []models.Message) error

	GetFeedback(ctx context.Context, userID string) ([]models.Feedback, error)
	SaveFeedback(ctx context.Context, userID string, feedback []models.Feedback) error
}

// Store implements Repository on top of any KeyValueStore.
type Store struct {
	kv KeyValueStore

	// guards the read-modify-write of the users index
	indexMu sync.Mutex
}

func New(kv KeyValueStore) *Store {
	return &Store{kv: kv}
}

func UserKey(userID string) string      { return models.UserKeyPrefix + userID }
func MatchKey(matchID string) string    { return models.MatchKeyPrefix + matchID }
func MessagesKey(matchID string) string { return models.MessagesKeyPrefix + matchID }
func FeedbackKey(userID string) string  { return models.FeedbackKeyPrefix + userID }

func (s *Store) getJSON(ctx context.Context, key string, out interface{}) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode '%s': %w", key, err)
	}
	return nil
}

func (s *Store) putJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode '%s': %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write '%s': %w", key, err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.getJSON(ctx, UserKey(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser writes the user record and makes sure the id is in the pool index.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user id cannot be empty")
	}
	if err := s.putJSON(ctx, UserKey(user.ID), user); err != nil {
		return err
	}
	return s.indexUser(ctx, user.ID)
}

func (s *Store) indexUser(ctx context.Context, userID string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	ids, err := s.userIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == userID {
			return nil
		}
	}
	return s.putJSON(ctx, models.UsersKey, append(ids, userID))
}

func (s *Store) userIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.getJSON(ctx, models.UsersKey, &ids)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return ids, err
}

// ListUsers returns every indexed user in index order. Ids whose record is
// missing are skipped.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	ids, err := s.userIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read users index: %w", err)
	}

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (s *Store) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	if err := s.getJSON(ctx, MatchKey(matchID), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Store) SaveMatch(ctx context.Context, match *models.Match) error {
	if match.ID == "" {
		return errors.New("match id cannot be empty")
	}
	return s.putJSON(ctx, MatchKey(match.ID), match)
}

// GetMessages returns the match's log, empty when nothing was sent yet.
func (s *Store) GetMessages(ctx context.Context, matchID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.getJSON(ctx, MessagesKey(matchID), &messages)
	if errors.Is(err, ErrNotFound) {
		return []models.Message{}, nil
	}
	return messages, err
}

func (s *Store) SaveMessages(ctx context.Context, matchID string, messages []models.Message) error {
	return s.putJSON(ctx, MessagesKey(matchID), messages)
}

func (s *Store) GetFeedback(ctx context.Context, userID string) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := s.getJSON(ctx, FeedbackKey(userID), &feedback)
	if errors.Is(err, ErrNotFound) {
		return []models.Feedback{}, nil
	}
	return feedback, err
}

func (s *Store) SaveFeedback(ctx context.Context, userID string, feedback []models.Feedback) error {
	return s.putJSON(ctx, FeedbackKey(userID), feedback)
}
