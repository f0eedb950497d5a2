package services

import (
	"math"
	"time"

	"loneton_server/models"
)

// Eligibility is what the clock derives from a user record at a given time.
type Eligibility struct {
	CanGetNewMatch           bool `json:"canGetNewMatch"`
	HoursUntilNext           int  `json:"timeUntilNewMatch"`
	IsInReflectionPeriod     bool `json:"isInReflectionPeriod"`
	ReflectionHoursRemaining int  `json:"reflectionTimeRemaining"`
	// ReflectionElapsed means the stored flags are stale and should be
	// cleared by the caller.
	ReflectionElapsed bool `json:"-"`
}

// CheckEligibility decides whether user may request a new match at now.
// It never mutates the user.
func CheckEligibility(user *models.User, now time.Time) Eligibility {
	var e Eligibility

	if user.IsInReflectionPeriod {
		if user.InReflection(now) {
			hours := ceilHours(user.ReflectionEndsAt.Sub(now))
			e.IsInReflectionPeriod = true
			e.ReflectionHoursRemaining = hours
			e.HoursUntilNext = hours
			return e
		}
		e.ReflectionElapsed = true
	}

	if user.CurrentMatch != "" {
		return e
	}

	if user.LastMatchDate != nil {
		since := now.Sub(*user.LastMatchDate)
		if since < models.MatchCooldown {
			e.HoursUntilNext = int(math.Ceil(models.MatchCooldown.Hours() - since.Hours()))
			return e
		}
	}

	e.CanGetNewMatch = true
	return e
}

func ceilHours(d time.Duration) int {
	return int(math.Ceil(d.Hours()))
}
