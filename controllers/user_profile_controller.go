package controllers

import (
	"net/http"

	"loneton_server/helpers"
	"loneton_server/models"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
	Logger             *zap.Logger
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService, logger *zap.Logger) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService, Logger: logger}
}

type registerRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Avatar    string   `json:"avatar"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
	Location  string   `json:"location"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
}

// CreateUserProfile registers a new user
func (c *UserProfileController) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if err := helpers.DecodeJSONBody(r, &request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := c.UserProfileService.Register(r.Context(), models.User{
		Name:      request.Name,
		Email:     request.Email,
		Avatar:    request.Avatar,
		Bio:       request.Bio,
		Interests: request.Interests,
		Location:  request.Location,
		Age:       request.Age,
		Gender:    request.Gender,
	})
	if err != nil {
		writeServiceError(w, c.Logger, "add profile", err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"message": "Profile added successfully",
		"profile": user,
	})
}

// Login looks up a user by email
func (c *UserProfileController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email string `json:"email"`
	}
	if err := helpers.DecodeJSONBody(r, &request); err != nil || request.Email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := c.UserProfileService.Login(r.Context(), request.Email)
	if err != nil {
		writeServiceError(w, c.Logger, "log in", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"profile": user})
}

// GetUserProfileByID returns the public part of a user's profile
func (c *UserProfileController) GetUserProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	user, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, c.Logger, "fetch profile", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"profile": user.Public()})
}

// UpdateUserProfile handles updating an existing user profile
func (c *UserProfileController) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var update services.ProfileUpdate
	if err := helpers.DecodeJSONBody(r, &update); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := c.UserProfileService.UpdateUserProfile(r.Context(), userID, update)
	if err != nil {
		writeServiceError(w, c.Logger, "update profile", err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": user,
	})
}

// SubmitQuestionnaire stores the user's compatibility answers
func (c *UserProfileController) SubmitQuestionnaire(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var request struct {
		Answers []int `json:"answers"`
	}
	if err := helpers.DecodeJSONBody(r, &request); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := c.UserProfileService.SubmitQuestionnaire(r.Context(), userID, request.Answers)
	if err != nil {
		writeServiceError(w, c.Logger, "save questionnaire", err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"profile": user})
}
