package controllers

import (
	"net/http"

	"loneton_server/helpers"
	"loneton_server/models"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MatchController handles HTTP requests for the daily match lifecycle
type MatchController struct {
	MatchService *services.MatchService
	Logger       *zap.Logger
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, logger *zap.Logger) *MatchController {
	return &MatchController{MatchService: matchService, Logger: logger}
}

type currentMatchResponse struct {
	Match              *models.Match `json:"match"`
	MessagesUntilVideo int           `json:"messagesUntilVideo"`
	HoursRemaining     int           `json:"matchTimeRemaining"`
}

// GenerateDailyMatch runs the daily search for the user in the path
func (c *MatchController) GenerateDailyMatch(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	match, err := c.MatchService.GenerateDailyMatch(r.Context(), userID)
	if err != nil {
		writeServiceError(w, c.Logger, "generate daily match", err)
		return
	}

	if match == nil {
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
			"match":   nil,
			"message": "No match available right now",
		})
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{"match": match})
}

// GetCurrentMatch returns the user's active match with its countdowns
func (c *MatchController) GetCurrentMatch(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	match, err := c.MatchService.CurrentMatch(r.Context(), userID)
	if err != nil {
		writeServiceError(w, c.Logger, "fetch current match", err)
		return
	}

	resp := currentMatchResponse{Match: match}
	if match != nil {
		resp.MessagesUntilVideo = match.MessagesUntilVideo()
		if left := match.MatchExpiresAt.Sub(c.MatchService.Now()); left > 0 {
			resp.HoursRemaining = int(left.Hours())
		}
	}
	helpers.WriteJSONResponse(w, http.StatusOK, resp)
}

// GetMatchStatus returns the user's eligibility for a new match
func (c *MatchController) GetMatchStatus(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	status, err := c.MatchService.Status(r.Context(), userID)
	if err != nil {
		writeServiceError(w, c.Logger, "fetch match status", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, status)
}

// UnpinMatch ends the user's match with a reason
func (c *MatchController) UnpinMatch(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var request struct {
		MatchID string `json:"matchId"`
		Reason  string `json:"reason"`
	}
	if err := helpers.DecodeJSONBody(r, &request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.MatchID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "matchId is required")
		return
	}

	match, err := c.MatchService.UnpinMatch(r.Context(), userID, request.MatchID, request.Reason)
	if err != nil {
		writeServiceError(w, c.Logger, "unpin match", err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"unpinned": match != nil,
		"match":    match,
	})
}

// GetFeedback returns the unpin reasons left for the user
func (c *MatchController) GetFeedback(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	feedback, err := c.MatchService.Feedback(r.Context(), userID)
	if err != nil {
		writeServiceError(w, c.Logger, "fetch feedback", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}
