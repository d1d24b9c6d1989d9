// File: database/repository/user/arrays.go
package userRepo

import (
	"fmt"
	"time"

	"moviemate/models"

	"go.mongodb.org/mongo-driver/bson"
)

// AddBookmark appends a bookmark after pulling any prior entry for the same
// movie, so re-bookmarking replaces instead of duplicating.
func (r *MongoUserRepo) AddBookmark(id string, bookmark models.Bookmark) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	pull := bson.M{"$pull": bson.M{"bookmarks": bson.M{"movie_id": bookmark.MovieID}}}
	if _, err := r.coll.UpdateOne(ctx, filter, pull); err != nil {
		return fmt.Errorf("failed to clear existing bookmark for user %s: %w", id, err)
	}

	push := bson.M{
		"$push": bson.M{"bookmarks": bookmark},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, push)
	if err != nil {
		return fmt.Errorf("failed to add bookmark for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// RemoveBookmark pulls the bookmark for the given movie if present.
func (r *MongoUserRepo) RemoveBookmark(id string, movieID int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{
		"$pull": bson.M{"bookmarks": bson.M{"movie_id": movieID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// AddWatchedLog appends a watch-log entry, replacing any prior entry for the
// same movie.
func (r *MongoUserRepo) AddWatchedLog(id string, log models.WatchedMovie) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	pull := bson.M{"$pull": bson.M{"watched_logs": bson.M{"movie_id": log.MovieID}}}
	if _, err := r.coll.UpdateOne(ctx, filter, pull); err != nil {
		return fmt.Errorf("failed to clear existing watch log for user %s: %w", id, err)
	}

	push := bson.M{
		"$push": bson.M{"watched_logs": log},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, push)
	if err != nil {
		return fmt.Errorf("failed to add watch log for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

// RemoveWatchedLog pulls the watch-log entry for the given movie if present.
func (r *MongoUserRepo) RemoveWatchedLog(id string, movieID int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{
		"$pull": bson.M{"watched_logs": bson.M{"movie_id": movieID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove watch log for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}
