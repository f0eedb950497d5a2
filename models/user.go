package models

import "time"

// User is the persisted user record. Match and reflection fields are owned by
// the match lifecycle; profile fields by the user profile service.
type User struct {
	ID                        string     `dynamodbav:"id" json:"id"`
	Name                      string     `dynamodbav:"name" json:"name"`
	Email                     string     `dynamodbav:"email" json:"email"`
	Avatar                    string     `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Bio                       string     `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Interests                 []string   `dynamodbav:"interests,omitempty" json:"interests"`
	Location                  string     `dynamodbav:"location,omitempty" json:"location"`
	Age                       int        `dynamodbav:"age,omitempty" json:"age"`
	Gender                    string     `dynamodbav:"gender,omitempty" json:"gender"`
	CreatedAt                 time.Time  `dynamodbav:"createdAt" json:"createdAt"`
	HasCompletedQuestionnaire bool       `dynamodbav:"hasCompletedQuestionnaire" json:"hasCompletedQuestionnaire"`
	CompatibilityAnswers      []int      `dynamodbav:"compatibilityAnswers,omitempty" json:"compatibilityAnswers"`
	CurrentMatch              string     `dynamodbav:"currentMatch,omitempty" json:"currentMatch,omitempty"`
	LastMatchDate             *time.Time `dynamodbav:"lastMatchDate,omitempty" json:"lastMatchDate,omitempty"`
	IsInReflectionPeriod      bool       `dynamodbav:"isInReflectionPeriod" json:"isInReflectionPeriod"`
	ReflectionEndsAt          *time.Time `dynamodbav:"reflectionEndsAt,omitempty" json:"reflectionEndsAt,omitempty"`
	UnpinnedMatches           []string   `dynamodbav:"unpinnedMatches,omitempty" json:"unpinnedMatches"`
}

// PublicProfile is the part of a user record that any caller may read.
type PublicProfile struct {
	ID                        string   `json:"id"`
	Name                      string   `json:"name"`
	Avatar                    string   `json:"avatar,omitempty"`
	Bio                       string   `json:"bio,omitempty"`
	Interests                 []string `json:"interests"`
	Location                  string   `json:"location"`
	Age                       int      `json:"age"`
	Gender                    string   `json:"gender"`
	HasCompletedQuestionnaire bool     `json:"hasCompletedQuestionnaire"`
}

// Public drops email, compatibility answers and match state.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:                        u.ID,
		Name:                      u.Name,
		Avatar:                    u.Avatar,
		Bio:                       u.Bio,
		Interests:                 append([]string(nil), u.Interests...),
		Location:                  u.Location,
		Age:                       u.Age,
		Gender:                    u.Gender,
		HasCompletedQuestionnaire: u.HasCompletedQuestionnaire,
	}
}

// InReflection reports whether the reflection window is still running at now.
func (u *User) InReflection(now time.Time) bool {
	return u.IsInReflectionPeriod && u.ReflectionEndsAt != nil && now.Before(*u.ReflectionEndsAt)
}

// HasUnpinned reports whether matchID is in the user's unpinned set.
func (u *User) HasUnpinned(matchID string) bool {
	for _, id := range u.UnpinnedMatches {
		if id == matchID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used as a compensation snapshot.
func (u User) Clone() User {
	c := u
	c.Interests = append([]string(nil), u.Interests...)
	c.CompatibilityAnswers = append([]int(nil), u.CompatibilityAnswers...)
	c.UnpinnedMatches = append([]string(nil), u.UnpinnedMatches...)
	if u.LastMatchDate != nil {
		t := *u.LastMatchDate
		c.LastMatchDate = &t
	}
	if u.ReflectionEndsAt != nil {
		t := *u.ReflectionEndsAt
		c.ReflectionEndsAt = &t
	}
	return c
}
