package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"moviemate/services/storage"
	"moviemate/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler exposes media upload endpoints.
type StorageHandler struct {
	Storage storage.StorageService
	Users   user.UserService
}

// NewStorageHandler creates a StorageHandler.
func NewStorageHandler(svc storage.StorageService, users user.UserService) *StorageHandler {
	return &StorageHandler{Storage: svc, Users: users}
}

// UploadAvatarHandler accepts a multipart avatar image, uploads it, and
// stores the resulting URL on the caller's profile.
func (h *StorageHandler) UploadAvatarHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Avatar uploads are not configured"})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No file uploaded"})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("avatar-%s%s", userID, filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		logger.Error("Failed to persist uploaded avatar", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process uploaded file"})
		return
	}
	defer os.Remove(tmpPath)

	url, err := h.Storage.UploadAvatar(c.Request.Context(), tmpPath, userID)
	if err != nil {
		logger.Error("Failed to upload avatar", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload avatar"})
		return
	}

	if _, err := h.Users.UpdateProfile(userID, user.ProfileUpdate{Avatar: &url}); err != nil {
		logger.Error("Failed to store avatar URL", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "message": "Avatar uploaded successfully"})
}
