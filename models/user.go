// models/user.go
package models

import "time"

// User represents a platform user. Bookmarks and watch logs are embedded
// arrays on the user document, mirroring how the rest of the API reads them.
type User struct {
	ID           string          `bson:"id" json:"id"`
	Username     string          `bson:"username" json:"username"`
	Email        string          `bson:"email" json:"email"`
	PasswordHash string          `bson:"password_hash" json:"-"`
	TokenHash    string          `bson:"token_hash,omitempty" json:"-"`
	Profile      Profile         `bson:"profile" json:"profile"`
	Preferences  Preferences     `bson:"preferences" json:"preferences"`
	Bookmarks    []Bookmark      `bson:"bookmarks" json:"bookmarks"`
	WatchedLogs  []WatchedMovie  `bson:"watched_logs" json:"watchedLogs"`
	CreatedAt    time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updatedAt"`
}

// Profile holds public-facing user details.
type Profile struct {
	Avatar         string   `bson:"avatar,omitempty" json:"avatar,omitempty"`
	DisplayName    string   `bson:"display_name,omitempty" json:"displayName,omitempty"`
	Bio            string   `bson:"bio,omitempty" json:"bio,omitempty"`
	FavoriteGenres []string `bson:"favorite_genres,omitempty" json:"favoriteGenres,omitempty"`
	Country        string   `bson:"country,omitempty" json:"country,omitempty"`
	Website        string   `bson:"website,omitempty" json:"website,omitempty"`
}

// Preferences holds per-user settings.
type Preferences struct {
	Theme         string                  `bson:"theme" json:"theme"`
	Language      string                  `bson:"language" json:"language"`
	Notifications NotificationPreferences `bson:"notifications" json:"notifications"`
}

// NotificationPreferences gates which channels a user receives.
type NotificationPreferences struct {
	Email bool `bson:"email" json:"email"`
	Push  bool `bson:"push" json:"push"`
}

// Bookmark is a watchlist entry.
type Bookmark struct {
	MovieID     int       `bson:"movie_id" json:"movieId"`
	MovieTitle  string    `bson:"movie_title" json:"movieTitle"`
	MoviePoster string    `bson:"movie_poster,omitempty" json:"moviePoster,omitempty"`
	DateAdded   time.Time `bson:"date_added" json:"dateAdded"`
}

// WatchedMovie is one watch-log entry. Rating is 1-10; zero means unrated.
type WatchedMovie struct {
	MovieID     int       `bson:"movie_id" json:"movieId"`
	MovieTitle  string    `bson:"movie_title" json:"movieTitle"`
	MoviePoster string    `bson:"movie_poster,omitempty" json:"moviePoster,omitempty"`
	Rating      int       `bson:"rating,omitempty" json:"rating,omitempty"`
	Review      string    `bson:"review,omitempty" json:"review,omitempty"`
	DateWatched time.Time `bson:"date_watched" json:"dateWatched"`
}

// DefaultPreferences returns the settings applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:    "dark",
		Language: "en",
		Notifications: NotificationPreferences{
			Email: true,
			Push:  true,
		},
	}
}
