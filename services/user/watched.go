package user

import (
	"fmt"
	"time"

	"moviemate/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListWatched returns the user's watch log.
func (s *DefaultUserService) ListWatched(userID string) ([]models.WatchedMovie, error) {
	u, err := s.Repo.GetByIDWithProjection(userID, bson.M{"watched_logs": 1})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user with id %s not found", userID)
	}
	return u.WatchedLogs, nil
}

// AddWatched records a movie as watched. Marking an already-watched movie
// replaces the prior log entry (and its rating/review).
func (s *DefaultUserService) AddWatched(userID string, movieID int, req WatchedRequest) (*models.WatchedMovie, error) {
	if req.MovieTitle == "" {
		return nil, fmt.Errorf("movie title is required")
	}

	log := models.WatchedMovie{
		MovieID:     movieID,
		MovieTitle:  req.MovieTitle,
		MoviePoster: req.MoviePoster,
		Rating:      req.Rating,
		Review:      req.Review,
		DateWatched: time.Now(),
	}
	if err := s.Repo.AddWatchedLog(userID, log); err != nil {
		return nil, fmt.Errorf("add watched: %w", err)
	}
	return &log, nil
}

// RemoveWatched deletes the watch-log entry for a movie; absent movies are a
// no-op.
func (s *DefaultUserService) RemoveWatched(userID string, movieID int) error {
	if err := s.Repo.RemoveWatchedLog(userID, movieID); err != nil {
		return fmt.Errorf("remove watched: %w", err)
	}
	return nil
}

// IsWatched reports whether the movie is in the user's watch log.
func (s *DefaultUserService) IsWatched(userID string, movieID int) (bool, error) {
	logs, err := s.ListWatched(userID)
	if err != nil {
		return false, err
	}
	for _, l := range logs {
		if l.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}
