package models

import "time"

// Match is the single shared record referenced by both participants'
// CurrentMatch. OwnerID requested the match; UserID is the counterpart.
type Match struct {
	ID                  string     `dynamodbav:"id" json:"id"`
	OwnerID             string     `dynamodbav:"ownerId" json:"ownerId"`
	UserID              string     `dynamodbav:"userId" json:"userId"`
	Name                string     `dynamodbav:"name" json:"name"`
	Avatar              string     `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Bio                 string     `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Interests           []string   `dynamodbav:"interests,omitempty" json:"interests"`
	Location            string     `dynamodbav:"location,omitempty" json:"location"`
	Age                 int        `dynamodbav:"age,omitempty" json:"age"`
	CompatibilityScore  int        `dynamodbav:"compatibilityScore" json:"compatibilityScore"`
	MatchedAt           time.Time  `dynamodbav:"matchedAt" json:"matchedAt"`
	MatchExpiresAt      time.Time  `dynamodbav:"matchExpiresAt" json:"matchExpiresAt"`
	IsBot               bool       `dynamodbav:"isBot" json:"isBot"`
	Status              string     `dynamodbav:"status" json:"status"`
	MessageCount        int        `dynamodbav:"messageCount" json:"messageCount"`
	VideoCallUnlocked   bool       `dynamodbav:"videoCallUnlocked" json:"videoCallUnlocked"`
	IsPinned            bool       `dynamodbav:"isPinned" json:"isPinned"`
	PinnedBy            []string   `dynamodbav:"pinnedBy,omitempty" json:"pinnedBy"`
	UnpinnedBy          []string   `dynamodbav:"unpinnedBy,omitempty" json:"unpinnedBy,omitempty"`
	UnpinnedAt          *time.Time `dynamodbav:"unpinnedAt,omitempty" json:"unpinnedAt,omitempty"`
	CounterpartReleased bool       `dynamodbav:"counterpartReleased" json:"counterpartReleased,omitempty"`
}

// IsActive reports whether the match is still in the active state.
func (m *Match) IsActive() bool {
	return m.Status == MatchStatusActive
}

// HasParticipant reports whether userID is one of the two sides.
func (m *Match) HasParticipant(userID string) bool {
	return userID != "" && (m.OwnerID == userID || m.UserID == userID)
}

// Counterpart returns the other side of the match from viewerID's point of view.
func (m *Match) Counterpart(viewerID string) string {
	if viewerID == m.UserID {
		return m.OwnerID
	}
	return m.UserID
}

// MirroredFor returns a copy of the match seen from the counterpart's side,
// with owner's profile in place of the stored counterpart snapshot.
func (m *Match) MirroredFor(owner *User) *Match {
	view := *m
	view.UserID = owner.ID
	view.Name = owner.Name
	view.Avatar = owner.Avatar
	view.Bio = owner.Bio
	view.Interests = append([]string(nil), owner.Interests...)
	view.Location = owner.Location
	view.Age = owner.Age
	return &view
}

// IsExpiredAt reports whether an active match has outlived its window.
func (m *Match) IsExpiredAt(now time.Time) bool {
	return !now.Before(m.MatchExpiresAt)
}

// MessagesUntilVideo is the number of messages left before video unlocks.
func (m *Match) MessagesUntilVideo() int {
	left := VideoUnlockThreshold - m.MessageCount
	if left < 0 {
		return 0
	}
	return left
}

// WasUnpinnedBy reports whether userID is recorded as having unpinned the match.
func (m *Match) WasUnpinnedBy(userID string) bool {
	for _, id := range m.UnpinnedBy {
		if id == userID {
			return true
		}
	}
	return false
}
