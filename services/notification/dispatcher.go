package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	subscriptionRepo "moviemate/database/repository/subscription"
	userRepo "moviemate/database/repository/user"
	"moviemate/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ErrNotSubscribed is returned when a user has push disabled or holds no
// subscriptions. Callers treat it as "nothing to deliver", not a fault.
var ErrNotSubscribed = errors.New("user is not subscribed to push notifications")

// VAPIDConfig carries the keys the Web Push transport signs requests with.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

// DefaultDispatcher is the production Dispatcher.
type DefaultDispatcher struct {
	Subs      subscriptionRepo.Repository
	Users     userRepo.UserRepository
	Transport Transport
	VAPID     VAPIDConfig
	Logger    *zap.Logger
}

// pushTTL is how long the push service may hold an undelivered message.
const pushTTL = 60 * 60 * 24

// Dispatch sends the payload to every subscription the user holds. Sends run
// concurrently; one endpoint's failure never blocks or fails the others.
func (d *DefaultDispatcher) Dispatch(ctx context.Context, userID string, payload models.PushPayload) error {
	user, err := d.Users.GetByIDWithProjection(userID, bson.M{"id": 1, "preferences": 1})
	if err != nil {
		return fmt.Errorf("dispatch: failed to load user %s: %w", userID, err)
	}
	if user == nil || !user.Preferences.Notifications.Push {
		return ErrNotSubscribed
	}

	subs, err := d.Subs.ListFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("dispatch: failed to list subscriptions for user %s: %w", userID, err)
	}
	if len(subs) == 0 {
		return ErrNotSubscribed
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("dispatch: failed to encode payload: %w", err)
	}

	opts := &webpush.Options{
		Subscriber:      d.VAPID.Subscriber,
		VAPIDPublicKey:  d.VAPID.PublicKey,
		VAPIDPrivateKey: d.VAPID.PrivateKey,
		TTL:             pushTTL,
	}

	var delivered atomic.Int32
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub models.PushSubscription) {
			defer wg.Done()
			if d.sendOne(ctx, message, sub, opts) {
				delivered.Add(1)
			}
		}(sub)
	}
	wg.Wait()

	d.Logger.Debug("dispatch complete",
		zap.String("userID", userID),
		zap.String("type", payload.Type),
		zap.Int32("delivered", delivered.Load()),
		zap.Int("subscriptions", len(subs)))
	return nil
}

// sendOne attempts a single push-transport send and reports whether it was
// accepted. Endpoints the push service reports as gone are pruned from the
// registry; everything else is logged and dropped, never retried.
func (d *DefaultDispatcher) sendOne(ctx context.Context, message []byte, sub models.PushSubscription, opts *webpush.Options) bool {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	resp, err := d.Transport.Send(ctx, message, target, opts)
	if err != nil {
		d.Logger.Warn("push send failed",
			zap.String("userID", sub.UserID),
			zap.String("endpoint", truncateEndpoint(sub.Endpoint)),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// Subscription expired or revoked: self-heal by pruning it.
		d.Logger.Info("pruning invalid subscription",
			zap.String("userID", sub.UserID),
			zap.String("endpoint", truncateEndpoint(sub.Endpoint)),
			zap.Int("status", resp.StatusCode))
		if err := d.Subs.Remove(ctx, sub.UserID, sub.Endpoint); err != nil {
			d.Logger.Warn("failed to prune subscription", zap.Error(err))
		}
		return false
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true
	default:
		d.Logger.Warn("unexpected push service status",
			zap.String("userID", sub.UserID),
			zap.String("endpoint", truncateEndpoint(sub.Endpoint)),
			zap.Int("status", resp.StatusCode))
		return false
	}
}

// truncateEndpoint keeps logs readable; endpoint URLs are long and opaque.
func truncateEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50]
	}
	return endpoint
}
