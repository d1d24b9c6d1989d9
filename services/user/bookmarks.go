package user

import (
	"fmt"
	"time"

	"moviemate/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListBookmarks returns the user's watchlist.
func (s *DefaultUserService) ListBookmarks(userID string) ([]models.Bookmark, error) {
	u, err := s.Repo.GetByIDWithProjection(userID, bson.M{"bookmarks": 1})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user with id %s not found", userID)
	}
	return u.Bookmarks, nil
}

// AddBookmark adds a movie to the watchlist. Re-bookmarking the same movie
// replaces the existing entry.
func (s *DefaultUserService) AddBookmark(userID string, movieID int, title, poster string) (*models.Bookmark, error) {
	if title == "" {
		return nil, fmt.Errorf("movie title is required")
	}

	bookmark := models.Bookmark{
		MovieID:     movieID,
		MovieTitle:  title,
		MoviePoster: poster,
		DateAdded:   time.Now(),
	}
	if err := s.Repo.AddBookmark(userID, bookmark); err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}
	return &bookmark, nil
}

// RemoveBookmark drops a movie from the watchlist; absent movies are a no-op.
func (s *DefaultUserService) RemoveBookmark(userID string, movieID int) error {
	if err := s.Repo.RemoveBookmark(userID, movieID); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// IsBookmarked reports whether the movie is on the user's watchlist.
func (s *DefaultUserService) IsBookmarked(userID string, movieID int) (bool, error) {
	bookmarks, err := s.ListBookmarks(userID)
	if err != nil {
		return false, err
	}
	for _, b := range bookmarks {
		if b.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}
