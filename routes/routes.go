package routes

import (
	"loneton_server/controllers"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services groups what the HTTP layer talks to. S3 is optional.
type Services struct {
	Users   *services.UserProfileService
	Matches *services.MatchService
	S3      *services.S3Service
}

// NewRouter builds the application router with every route registered.
func NewRouter(svc Services, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()

	RegisterRoutes(r)
	if svc.S3 != nil {
		RegisterS3Routes(r, svc.S3, logger)
	}
	RegisterUserProfileRoutes(r, svc.Users, logger)
	RegisterMatchRoutes(r, svc.Matches, logger)
	RegisterChatRoutes(r, svc.Matches, logger)

	return r
}

// RegisterRoutes sets up the service-level routes
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/privacy-policy", PrivacyPolicyHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
