package user

import "moviemate/models"

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ProfileUpdate carries optional profile fields; nil pointers are left
// untouched.
type ProfileUpdate struct {
	DisplayName    *string   `json:"displayName"`
	Bio            *string   `json:"bio"`
	Country        *string   `json:"country"`
	Website        *string   `json:"website"`
	Avatar         *string   `json:"avatar"`
	FavoriteGenres *[]string `json:"favoriteGenres"`
}

// WatchedRequest carries the details of a watch-log entry.
type WatchedRequest struct {
	MovieTitle  string `json:"movieTitle" binding:"required"`
	MoviePoster string `json:"moviePoster"`
	Rating      int    `json:"rating" binding:"omitempty,min=1,max=10"`
	Review      string `json:"review"`
}

// UserService defines account, bookmark, and watch-log operations.
type UserService interface {
	Register(req RegisterRequest) (*models.User, error)
	Authenticate(email, password string) (*models.User, string, error)
	RevokeToken(userID string) error
	GetByID(id string) (*models.User, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.User, error)
	SetPushPreference(userID string, enabled bool) error

	ListBookmarks(userID string) ([]models.Bookmark, error)
	AddBookmark(userID string, movieID int, title, poster string) (*models.Bookmark, error)
	RemoveBookmark(userID string, movieID int) error
	IsBookmarked(userID string, movieID int) (bool, error)

	ListWatched(userID string) ([]models.WatchedMovie, error)
	AddWatched(userID string, movieID int, req WatchedRequest) (*models.WatchedMovie, error)
	RemoveWatched(userID string, movieID int) error
	IsWatched(userID string, movieID int) (bool, error)
}
