package controllers

import (
	"net/http"
	"strings"

	"loneton_server/helpers"
	"loneton_server/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// S3Controller hands out presigned avatar URLs
type S3Controller struct {
	S3Service *services.S3Service
	Logger    *zap.Logger
}

func NewS3Controller(s3Service *services.S3Service, logger *zap.Logger) *S3Controller {
	return &S3Controller{S3Service: s3Service, Logger: logger}
}

// GeneratePresignedURL generates a presigned URL for an avatar upload
func (c *S3Controller) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := helpers.DecodeJSONBody(r, &payload); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.FileName == "" || !strings.HasPrefix(payload.FileType, "image/") {
		helpers.WriteJSONError(w, http.StatusBadRequest, "fileName and an image fileType are required")
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), userID, payload.FileName, payload.FileType)
	if err != nil {
		c.Logger.Error("❌ error generating pre-signed URL", zap.String("userId", userID), zap.Error(err))
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate pre-signed URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url, "fileName": key})
}

// GetPresignedReadURL generates a presigned URL for reading an avatar
func (c *S3Controller) GetPresignedReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := helpers.DecodeJSONBody(r, &payload); err != nil || payload.Key == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), payload.Key)
	if err != nil {
		c.Logger.Error("❌ error generating read URL", zap.String("key", payload.Key), zap.Error(err))
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to generate read pre-signed URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
