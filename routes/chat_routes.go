package routes

import (
	"loneton_server/controllers"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, matchService *services.MatchService, logger *zap.Logger) {
	controller := controllers.NewChatController(matchService, logger)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/mark-as-read", controller.HandleMarkMessagesAsRead).Methods("POST")
}
