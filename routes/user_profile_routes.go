package routes

import (
	"loneton_server/controllers"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterUserProfileRoutes sets up routes for user operations under /api/users
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, logger *zap.Logger) {
	controller := controllers.NewUserProfileController(userProfileService, logger)

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("", controller.CreateUserProfile).Methods("POST")
	userRouter.HandleFunc("/login", controller.Login).Methods("POST")
	userRouter.HandleFunc("/{userId}", controller.GetUserProfileByID).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.UpdateUserProfile).Methods("PATCH")
	userRouter.HandleFunc("/{userId}/questionnaire", controller.SubmitQuestionnaire).Methods("POST")
}
