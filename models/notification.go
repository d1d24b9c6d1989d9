// models/notification.go
package models

import "strconv"

// Notification types form a closed set shared by the dispatcher and the
// delivery worker. The wire values match what the web client stores in its
// local feed.
const (
	NotificationTypeBookmark = "bookmark"
	NotificationTypeWatched  = "watched"
	NotificationTypeRating   = "rating"
	NotificationTypeSystem   = "system"
)

// PushPayload is the JSON message sent through the push transport and decoded
// by the delivery worker. It is constructed per dispatch and never persisted.
type PushPayload struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Body       string `json:"body,omitempty"`
	MovieID    int    `json:"movieId,omitempty"`
	MovieTitle string `json:"movieTitle,omitempty"`
	Rating     int    `json:"rating,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Badge      string `json:"badge,omitempty"`
	Image      string `json:"image,omitempty"`
	URL        string `json:"url,omitempty"`
}

// DedupKey identifies "the same logical event" for suppression purposes.
// Payloads without a movie identity collapse onto a per-type "general" key.
func (p PushPayload) DedupKey() string {
	if p.MovieID != 0 {
		return p.Type + ":" + strconv.Itoa(p.MovieID)
	}
	return p.Type + ":general"
}

// MovieData is the movie fragment clients attach to notification triggers.
type MovieData struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
	Rating     int    `json:"rating,omitempty"`
}
