// File: services/notification/payload.go
package notification

import (
	"fmt"

	"moviemate/models"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w500"

// BookmarkPayload builds the push payload for a freshly bookmarked movie.
func BookmarkPayload(movie models.MovieData) models.PushPayload {
	return models.PushPayload{
		Type:       models.NotificationTypeBookmark,
		Title:      "🔖 Movie Bookmarked!",
		Body:       fmt.Sprintf("%q has been added to your watchlist", movie.Title),
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		Icon:       "/icons/icon-192x192.png",
		Badge:      "/icons/badge-72x72.png",
		Image:      posterImage(movie.PosterPath),
		URL:        fmt.Sprintf("/movies/%d", movie.ID),
	}
}

// WatchedPayload builds the push payload for a movie marked as watched. The
// rating rides along; the worker synthesizes the rated body text on display.
func WatchedPayload(movie models.MovieData) models.PushPayload {
	return models.PushPayload{
		Type:       models.NotificationTypeWatched,
		Title:      "🎬 Movie Watched!",
		Body:       fmt.Sprintf("You've watched %q", movie.Title),
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		Rating:     movie.Rating,
		Icon:       "/icons/icon-192x192.png",
		Badge:      "/icons/badge-72x72.png",
		Image:      posterImage(movie.PosterPath),
		URL:        fmt.Sprintf("/movies/%d", movie.ID),
	}
}

// TestPayload builds the synthetic payload behind the /notifications/test
// endpoint.
func TestPayload() models.PushPayload {
	return models.PushPayload{
		Type:  models.NotificationTypeSystem,
		Title: "🎬 Test Notification",
		Body:  "This is a test notification from Movie Mate!",
		Icon:  "/icons/icon-192x192.png",
		Badge: "/icons/badge-72x72.png",
		URL:   "/dashboard",
	}
}

func posterImage(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return posterBaseURL + posterPath
}
