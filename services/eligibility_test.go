package services

import (
	"testing"
	"time"

	"loneton_server/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	tests := []struct {
		name string
		user models.User
		want Eligibility
	}{
		{
			name: "never matched",
			user: models.User{},
			want: Eligibility{CanGetNewMatch: true},
		},
		{
			name: "reflection running",
			user: models.User{IsInReflectionPeriod: true, ReflectionEndsAt: at(5*time.Hour + 10*time.Minute)},
			want: Eligibility{HoursUntilNext: 6, IsInReflectionPeriod: true, ReflectionHoursRemaining: 6},
		},
		{
			name: "reflection wins over current match",
			user: models.User{IsInReflectionPeriod: true, ReflectionEndsAt: at(time.Hour), CurrentMatch: "m1"},
			want: Eligibility{HoursUntilNext: 1, IsInReflectionPeriod: true, ReflectionHoursRemaining: 1},
		},
		{
			name: "reflection elapsed",
			user: models.User{IsInReflectionPeriod: true, ReflectionEndsAt: at(-time.Minute)},
			want: Eligibility{CanGetNewMatch: true, ReflectionElapsed: true},
		},
		{
			name: "reflection elapsed but matched recently",
			user: models.User{IsInReflectionPeriod: true, ReflectionEndsAt: at(-time.Minute), LastMatchDate: at(-20 * time.Hour)},
			want: Eligibility{HoursUntilNext: 4, ReflectionElapsed: true},
		},
		{
			name: "active match",
			user: models.User{CurrentMatch: "m1", LastMatchDate: at(-30 * time.Hour)},
			want: Eligibility{},
		},
		{
			name: "matched 23.5 hours ago",
			user: models.User{LastMatchDate: at(-23*time.Hour - 30*time.Minute)},
			want: Eligibility{HoursUntilNext: 1},
		},
		{
			name: "matched exactly 24 hours ago",
			user: models.User{LastMatchDate: at(-24 * time.Hour)},
			want: Eligibility{CanGetNewMatch: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			before := user.Clone()

			assert.Equal(t, tt.want, CheckEligibility(&user, now))
			assert.Equal(t, tt.want, CheckEligibility(&user, now), "repeat query must agree")
			assert.Equal(t, before, user.Clone(), "check must not mutate the user")
		})
	}
}
