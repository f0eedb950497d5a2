package models

import "time"

// ✅ Match statuses
const (
	MatchStatusActive   = "active"
	MatchStatusUnpinned = "unpinned"
	MatchStatusExpired  = "expired"
	// MatchStatusCompleted is reserved; no current rule reaches it.
	MatchStatusCompleted = "completed"
)

// ✅ Matching rules
const (
	MinCompatibilityScore = 85
	VideoUnlockThreshold  = 100
	MaxAnswerDifference   = 4 // answers are on a 1-5 scale

	MatchLifetime        = 48 * time.Hour
	MatchCooldown        = 24 * time.Hour
	ReflectionPeriod     = 24 * time.Hour
	CounterpartNextMatch = 2 * time.Hour

	QuestionnaireLength = 10
	MinAnswer           = 1
	MaxAnswer           = 5
)

// ✅ Storage keys
const (
	UsersKey          = "users"
	UserKeyPrefix     = "user:"
	MatchKeyPrefix    = "match:"
	MessagesKeyPrefix = "messages:" // one log per match, shared by both sides
	FeedbackKeyPrefix = "feedback:"
)

// BotIDPrefix marks counterpart ids that belong to bot profiles.
const BotIDPrefix = "bot_"
