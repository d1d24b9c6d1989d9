package userRepo

import (
	"moviemate/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines persistence operations on user documents.
type UserRepository interface {
	Create(user *models.User) error
	Delete(id string) error
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	GetByEmailWithProjection(email string, projection bson.M) (*models.User, error)
	GetByUsernameWithProjection(username string, projection bson.M) (*models.User, error)
	UpdateSetDocument(id string, updateDoc bson.M) error
	AddBookmark(id string, bookmark models.Bookmark) error
	RemoveBookmark(id string, movieID int) error
	AddWatchedLog(id string, log models.WatchedMovie) error
	RemoveWatchedLog(id string, movieID int) error
}
