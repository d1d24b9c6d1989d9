package subscriptionRepo

import (
	"context"

	"moviemate/models"
)

// Repository is the subscription registry: it stores per-user push delivery
// targets keyed by (userID, endpoint).
type Repository interface {
	// Upsert stores or replaces the subscription for (userID, endpoint).
	// Re-subscribing with the same endpoint overwrites key material.
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	// Remove deletes the matching record if present; absent records are not an
	// error.
	Remove(ctx context.Context, userID, endpoint string) error
	// ListFor returns all subscriptions for a user, order irrelevant.
	ListFor(ctx context.Context, userID string) ([]models.PushSubscription, error)
}
