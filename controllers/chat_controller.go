package controllers

import (
	"net/http"

	"loneton_server/helpers"
	"loneton_server/services"

	"go.uber.org/zap"
)

// ChatController struct
type ChatController struct {
	MatchService *services.MatchService
	Logger       *zap.Logger
}

// NewChatController initializes the chat controller
func NewChatController(matchService *services.MatchService, logger *zap.Logger) *ChatController {
	return &ChatController{MatchService: matchService, Logger: logger}
}

// HandleSendMessage - Handles sending a new message on the sender's active match
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID  string `json:"matchId"`
		SenderID string `json:"senderId"`
		Content  string `json:"content"`
	}
	if err := helpers.DecodeJSONBody(r, &request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.MatchID == "" || request.SenderID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Missing required fields: matchId or senderId")
		return
	}

	c.Logger.Debug("📩 send message request", zap.String("matchId", request.MatchID), zap.String("senderId", request.SenderID))

	message, err := c.MatchService.SendMessage(r.Context(), request.SenderID, request.MatchID, request.Content)
	if err != nil {
		writeServiceError(w, c.Logger, "send message", err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"sent":    message != nil,
		"message": message,
	})
}

// HandleGetMessages - Fetch the conversation of matchId as userId sees it
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	userID := r.URL.Query().Get("userId")
	if matchID == "" || userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "matchId and userId are required")
		return
	}

	messages, err := c.MatchService.Messages(r.Context(), userID, matchID)
	if err != nil {
		writeServiceError(w, c.Logger, "fetch messages", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleMarkMessagesAsRead - Mark the match's messages as read
func (c *ChatController) HandleMarkMessagesAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		MatchID string `json:"matchId"`
		UserID  string `json:"userId"`
	}
	if err := helpers.DecodeJSONBody(r, &request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.MatchID == "" || request.UserID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "matchId and userId are required")
		return
	}

	updated, err := c.MatchService.MarkMessagesAsRead(r.Context(), request.UserID, request.MatchID)
	if err != nil {
		writeServiceError(w, c.Logger, "mark messages as read", err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"updated": updated,
	})
}
