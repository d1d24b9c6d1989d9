package user

import (
	"fmt"

	"moviemate/models"

	"go.mongodb.org/mongo-driver/bson"
)

// GetByID retrieves the full user document.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	u, err := s.Repo.GetByIDWithProjection(id, nil)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user with id %s not found", id)
	}
	return u, nil
}

// UpdateProfile applies only the provided fields, mirroring a partial PATCH.
func (s *DefaultUserService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	updateDoc := bson.M{}
	if update.DisplayName != nil {
		updateDoc["profile.display_name"] = *update.DisplayName
	}
	if update.Bio != nil {
		updateDoc["profile.bio"] = *update.Bio
	}
	if update.Country != nil {
		updateDoc["profile.country"] = *update.Country
	}
	if update.Website != nil {
		updateDoc["profile.website"] = *update.Website
	}
	if update.Avatar != nil {
		updateDoc["profile.avatar"] = *update.Avatar
	}
	if update.FavoriteGenres != nil {
		updateDoc["profile.favorite_genres"] = *update.FavoriteGenres
	}

	if len(updateDoc) > 0 {
		if err := s.Repo.UpdateSetDocument(userID, updateDoc); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetByID(userID)
}

// SetPushPreference flips the push-notification gate the dispatcher checks.
func (s *DefaultUserService) SetPushPreference(userID string, enabled bool) error {
	if err := s.Repo.UpdateSetDocument(userID, bson.M{"preferences.notifications.push": enabled}); err != nil {
		return fmt.Errorf("set push preference: %w", err)
	}
	return nil
}
