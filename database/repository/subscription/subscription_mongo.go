package subscriptionRepo

import (
	"context"
	"fmt"
	"time"

	"moviemate/database"
	"moviemate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionRepo implements Repository using MongoDB.
type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoSubscriptionRepo creates a new Repository backed by MongoDB.
func NewMongoSubscriptionRepo() Repository {
	coll := database.MongoClient.Database("moviemate").Collection("push_subscriptions")
	repo := &MongoSubscriptionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes enforces at most one record per (user, endpoint) and makes
// per-user lookups cheap.
func (r *MongoSubscriptionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "endpoint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Upsert stores or replaces the subscription for (userID, endpoint).
func (r *MongoSubscriptionRepo) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	now := time.Now()
	filter := bson.M{"user_id": sub.UserID, "endpoint": sub.Endpoint}
	update := bson.M{
		"$set": bson.M{
			"keys":       sub.Keys,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"user_id":    sub.UserID,
			"endpoint":   sub.Endpoint,
			"created_at": now,
		},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s: %w", sub.UserID, err)
	}
	return nil
}

// Remove deletes the matching record. Removing an absent endpoint is a no-op.
func (r *MongoSubscriptionRepo) Remove(ctx context.Context, userID, endpoint string) error {
	filter := bson.M{"user_id": userID, "endpoint": endpoint}
	if _, err := r.coll.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to remove subscription for user %s: %w", userID, err)
	}
	return nil
}

// ListFor returns all subscriptions registered for a user.
func (r *MongoSubscriptionRepo) ListFor(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	for cursor.Next(ctx) {
		var s models.PushSubscription
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, nil
}
