// models/subscription.go
package models

import "time"

// SubscriptionKeys holds the encryption key material the push transport needs
// to encrypt messages for one endpoint.
type SubscriptionKeys struct {
	P256dh string `bson:"p256dh" json:"p256dh"`
	Auth   string `bson:"auth" json:"auth"`
}

// PushSubscription identifies one delivery target for one user. A user may
// hold several (one per browser/device); at most one record exists per
// (user, endpoint) pair.
type PushSubscription struct {
	UserID    string           `bson:"user_id" json:"userId"`
	Endpoint  string           `bson:"endpoint" json:"endpoint"`
	Keys      SubscriptionKeys `bson:"keys" json:"keys"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updatedAt"`
}
