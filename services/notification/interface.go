package notification

import (
	"context"
	"net/http"

	"moviemate/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Dispatcher fans a notification payload out to every push subscription a user
// holds. Delivery is best-effort and at-most-once: permanently dead endpoints
// are pruned from the registry, transient failures are logged and dropped.
// De-duplication is not done here; the receiving worker owns it, since only
// the device knows what it has already shown.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, payload models.PushPayload) error
}

// Transport performs one push-transport send. It exists so tests can stand in
// for the Web Push service.
type Transport interface {
	Send(ctx context.Context, message []byte, sub *webpush.Subscription, opts *webpush.Options) (*http.Response, error)
}

// WebPushTransport is the production Transport backed by the Web Push
// protocol with VAPID authentication.
type WebPushTransport struct{}

func (WebPushTransport) Send(ctx context.Context, message []byte, sub *webpush.Subscription, opts *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, message, sub, opts)
}
