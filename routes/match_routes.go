package routes

import (
	"loneton_server/controllers"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterMatchRoutes sets up routes for the daily match under /api/match and
// the feedback log under /api/feedback
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, logger *zap.Logger) {
	controller := controllers.NewMatchController(matchService, logger)

	matchRouter := r.PathPrefix("/api/match/{userId}").Subrouter()
	matchRouter.HandleFunc("/daily", controller.GenerateDailyMatch).Methods("POST")
	matchRouter.HandleFunc("/current", controller.GetCurrentMatch).Methods("GET")
	matchRouter.HandleFunc("/status", controller.GetMatchStatus).Methods("GET")
	matchRouter.HandleFunc("/unpin", controller.UnpinMatch).Methods("POST")

	r.HandleFunc("/api/feedback/{userId}", controller.GetFeedback).Methods("GET")
}
