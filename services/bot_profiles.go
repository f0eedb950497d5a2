package services

import (
	"math/rand"
	"strings"
	"time"

	"loneton_server/models"

	"github.com/google/uuid"
)

type botProfile struct {
	Name      string
	Bio       string
	Interests []string
	Location  string
	Age       int
}

var botProfiles = []botProfile{
	{
		Name:      "Emma",
		Bio:       "Deep conversations over small talk. Philosophy, art and people watching.",
		Interests: []string{"philosophy", "art", "reading", "meditation"},
		Location:  "San Francisco, CA",
		Age:       26,
	},
	{
		Name:      "Alex",
		Bio:       "Quiet evenings, long talks and figuring out what makes people tick.",
		Interests: []string{"psychology", "music", "writing", "nature"},
		Location:  "Austin, TX",
		Age:       29,
	},
	{
		Name:      "Maya",
		Bio:       "Everyone has a story worth hearing. Tell me yours.",
		Interests: []string{"storytelling", "yoga", "traveling", "cooking"},
		Location:  "Portland, OR",
		Age:       24,
	},
	{
		Name:      "Jordan",
		Bio:       "Looking for something built on respect and honest communication.",
		Interests: []string{"mindfulness", "hiking", "photography", "volunteering"},
		Location:  "Denver, CO",
		Age:       31,
	},
	{
		Name:      "Sofia",
		Bio:       "Depth over surface. Coffee, books and learning something new every week.",
		Interests: []string{"literature", "coffee", "learning", "empathy"},
		Location:  "Seattle, WA",
		Age:       27,
	},
	{
		Name:      "Ryan",
		Bio:       "Slow and intentional. The best connections take their time.",
		Interests: []string{"gardening", "music", "cycling", "reflection"},
		Location:  "New York, NY",
		Age:       33,
	},
}

func (p botProfile) id() string {
	return models.BotIDPrefix + strings.ToLower(p.Name)
}

// newBotMatch builds a fallback match with a random bot profile the owner has
// not unpinned before, or nil when every bot is excluded. Bots score between
// 85 and 99 and only the requester pins them.
func newBotMatch(ownerID string, excluded map[string]struct{}, rng *rand.Rand, now time.Time) *models.Match {
	roster := make([]botProfile, 0, len(botProfiles))
	for _, p := range botProfiles {
		if _, skip := excluded[p.id()]; !skip {
			roster = append(roster, p)
		}
	}
	if len(roster) == 0 {
		return nil
	}

	profile := roster[rng.Intn(len(roster))]
	return &models.Match{
		ID:                 uuid.NewString(),
		OwnerID:            ownerID,
		UserID:             profile.id(),
		Name:               profile.Name,
		Bio:                profile.Bio,
		Interests:          append([]string(nil), profile.Interests...),
		Location:           profile.Location,
		Age:                profile.Age,
		CompatibilityScore: models.MinCompatibilityScore + rng.Intn(15),
		MatchedAt:          now,
		MatchExpiresAt:     now.Add(models.MatchLifetime),
		IsBot:              true,
		Status:             models.MatchStatusActive,
		IsPinned:           true,
		PinnedBy:           []string{ownerID},
	}
}
