package models

import "time"

type Message struct {
	ID        string    `dynamodbav:"id" json:"id"`
	MatchID   string    `dynamodbav:"matchId" json:"matchId"`
	SenderID  string    `dynamodbav:"senderId" json:"senderId"`
	Content   string    `dynamodbav:"content" json:"content"`
	Timestamp time.Time `dynamodbav:"timestamp" json:"timestamp"`
	Read      bool      `dynamodbav:"read" json:"read"`
}

// MessageView is a message as seen by one participant.
type MessageView struct {
	Message
	Mine bool `json:"mine"`
}

// Feedback is left for the counterpart of an unpinned match.
type Feedback struct {
	MatchID    string    `dynamodbav:"matchId" json:"matchId"`
	Reason     string    `dynamodbav:"reason" json:"reason"`
	Timestamp  time.Time `dynamodbav:"timestamp" json:"timestamp"`
	FromUser   string    `dynamodbav:"fromUser" json:"fromUser"`
	FromUserID string    `dynamodbav:"fromUserId" json:"fromUserId"`
}
