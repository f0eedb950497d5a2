package routes

import (
	"loneton_server/controllers"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RegisterS3Routes sets up the avatar upload and read URL routes
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, logger *zap.Logger) {
	controller := controllers.NewS3Controller(s3Service, logger)

	r.HandleFunc("/api/users/{userId}/avatar-url", controller.GeneratePresignedURL).Methods("POST")
	r.HandleFunc("/api/avatars/read-url", controller.GetPresignedReadURL).Methods("POST")
}
