package handlers

import (
	"net/http"
	"strconv"

	"moviemate/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes profile, bookmark, and watch-log endpoints.
type UserHandler struct {
	Users user.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users user.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func movieIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("movieId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid movie id"})
		return 0, false
	}
	return id, true
}

// UpdateProfileHandler applies a partial profile update.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req user.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid profile update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.Users.UpdateProfile(userID, req)
	if err != nil {
		logger.Error("Failed to update profile", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully", "data": gin.H{"user": updated}})
}

// --- Bookmarks ---

// ListBookmarksHandler returns the caller's watchlist.
func (h *UserHandler) ListBookmarksHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	bookmarks, err := h.Users.ListBookmarks(userID)
	if err != nil {
		logger.Error("Failed to list bookmarks", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch bookmarks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"bookmarks": bookmarks}})
}

type bookmarkRequest struct {
	MovieTitle  string `json:"movieTitle" binding:"required"`
	MoviePoster string `json:"moviePoster"`
}

// AddBookmarkHandler adds a movie to the caller's watchlist.
func (h *UserHandler) AddBookmarkHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Movie title is required"})
		return
	}

	bookmark, err := h.Users.AddBookmark(userID, movieID, req.MovieTitle, req.MoviePoster)
	if err != nil {
		logger.Error("Failed to add bookmark", zap.String("userID", userID), zap.Int("movieID", movieID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add bookmark"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Bookmark added", "data": gin.H{"bookmark": bookmark}})
}

// RemoveBookmarkHandler removes a movie from the caller's watchlist.
func (h *UserHandler) RemoveBookmarkHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	if err := h.Users.RemoveBookmark(userID, movieID); err != nil {
		logger.Error("Failed to remove bookmark", zap.String("userID", userID), zap.Int("movieID", movieID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove bookmark"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Bookmark removed"})
}

// CheckBookmarkHandler reports whether a movie is bookmarked.
func (h *UserHandler) CheckBookmarkHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	bookmarked, err := h.Users.IsBookmarked(userID, movieID)
	if err != nil {
		logger.Error("Failed to check bookmark", zap.String("userID", userID), zap.Int("movieID", movieID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check bookmark"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"isBookmarked": bookmarked}})
}

// --- Watched ---

// ListWatchedHandler returns the caller's watch log.
func (h *UserHandler) ListWatchedHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	watched, err := h.Users.ListWatched(userID)
	if err != nil {
		logger.Error("Failed to list watched movies", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch watched movies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"watched": watched}})
}

// AddWatchedHandler records a movie as watched, with an optional rating and
// review.
func (h *UserHandler) AddWatchedHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	var req user.WatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	watched, err := h.Users.AddWatched(userID, movieID, req)
	if err != nil {
		logger.Error("Failed to mark movie as watched", zap.String("userID", userID), zap.Int("movieID", movieID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark movie as watched"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Movie marked as watched", "data": gin.H{"watched": watched}})
}

// RemoveWatchedHandler deletes a watch-log entry.
func (h *UserHandler) RemoveWatchedHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	if err := h.Users.RemoveWatched(userID, movieID); err != nil {
		logger.Error("Failed to remove watched movie", zap.String("userID", userID), zap.Int("movieID", movieID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove watched movie"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Watched movie removed"})
}

// CheckWatchedHandler reports whether a movie is in the watch log.
func (h *UserHandler) CheckWatchedHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}
	movieID, ok := movieIDParam(c)
	if !ok {
		return
	}

	watched, err := h.Users.IsWatched(userID, movieID)
	if err != nil {
		logger.Error("Failed to check watched movie", zap.String("userID", userID), zap.Int("movieID", movieID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check watched movie"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"isWatched": watched}})
}
