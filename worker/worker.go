package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"moviemate/models"

	"go.uber.org/zap"
)

const (
	// SuppressionWindow is how long a repeat push with the same
	// de-duplication key is not shown again.
	SuppressionWindow = 10 * time.Second
	// cleanupHorizon bounds the delivery record: entries older than this are
	// purged opportunistically on each arrival.
	cleanupHorizon = 60 * time.Second

	defaultIcon  = "/icons/icon-192x192.png"
	defaultBadge = "/icons/badge-72x72.png"
	defaultBody  = "You have a new notification"
)

// DeliveryWorker handles push-pipeline events. Each event is handled to
// completion; pushes arriving close together may be handled concurrently, so
// the delivery record is guarded by a mutex. The record itself is ephemeral:
// it starts empty on every worker start and is never persisted, which means a
// restart favors showing over suppressing.
type DeliveryWorker struct {
	notifier Notifier
	views    ViewRegistry
	reporter DismissalReporter
	logger   *zap.Logger

	// origin is the application's base URL; click targets outside it are
	// opened relative to it.
	origin string

	now func() time.Time

	mu        sync.Mutex
	lastShown map[string]time.Time

	pending sync.WaitGroup
}

// Option configures a DeliveryWorker.
type Option func(*DeliveryWorker)

// WithClock overrides the wall clock. Suppression uses arrival time, so tests
// drive the window with this.
func WithClock(now func() time.Time) Option {
	return func(w *DeliveryWorker) { w.now = now }
}

// WithDismissalReporter wires best-effort dismissal analytics.
func WithDismissalReporter(r DismissalReporter) Option {
	return func(w *DeliveryWorker) { w.reporter = r }
}

// New creates a DeliveryWorker with an empty delivery record.
func New(notifier Notifier, views ViewRegistry, origin string, logger *zap.Logger, opts ...Option) *DeliveryWorker {
	w := &DeliveryWorker{
		notifier:  notifier,
		views:     views,
		logger:    logger,
		origin:    strings.TrimSuffix(origin, "/"),
		now:       time.Now,
		lastShown: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Install handles the install lifecycle event.
func (w *DeliveryWorker) Install(ctx context.Context) {
	w.logger.Debug("worker installed")
}

// Activate handles the activate lifecycle event. A fresh activation means a
// fresh worker instance, so the delivery record starts empty.
func (w *DeliveryWorker) Activate(ctx context.Context) {
	w.mu.Lock()
	w.lastShown = make(map[string]time.Time)
	w.mu.Unlock()
	w.logger.Debug("worker activated")
}

// HandlePush processes one arriving push message: parse, de-duplicate, show.
// Malformed payloads abort silently; a failed show is logged and dropped.
// Push is advisory, so nothing here returns an error to the host.
func (w *DeliveryWorker) HandlePush(ctx context.Context, data []byte) {
	w.pending.Add(1)
	defer w.pending.Done()

	if len(data) == 0 {
		w.logger.Debug("push event with no data")
		return
	}

	var payload models.PushPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		w.logger.Debug("unparseable push payload", zap.Error(err))
		return
	}

	arrival := w.now()
	key := payload.DedupKey()
	if !w.record(key, arrival) {
		w.logger.Debug("suppressed duplicate push",
			zap.String("key", key),
			zap.Time("arrival", arrival))
		return
	}

	n := w.buildNotification(payload, arrival)
	if err := w.notifier.Show(ctx, n); err != nil {
		w.logger.Warn("failed to show notification",
			zap.String("tag", n.Tag),
			zap.Error(err))
	}
}

// record decides whether a push with the given key may be shown at the given
// arrival instant, updating the delivery record when it may. Entries past the
// cleanup horizon are purged on every call, independent of the decision.
func (w *DeliveryWorker) record(key string, arrival time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	show := true
	if last, ok := w.lastShown[key]; ok && arrival.Sub(last) < SuppressionWindow {
		// Suppressed arrivals do not refresh the timestamp, or a steady
		// stream of duplicates would mute the key forever.
		show = false
	} else {
		w.lastShown[key] = arrival
	}

	for k, t := range w.lastShown {
		if arrival.Sub(t) > cleanupHorizon {
			delete(w.lastShown, k)
		}
	}
	return show
}

// buildNotification converts a payload into the visible notification. When a
// watched payload carries a rating, the rated body text wins over whatever
// body the payload provided.
func (w *DeliveryWorker) buildNotification(payload models.PushPayload, arrival time.Time) Notification {
	title := payload.Title
	if title == "" {
		title = "Movie Mate"
	}

	body := payload.Body
	if body == "" {
		body = defaultBody
	}
	if payload.Type == models.NotificationTypeWatched && payload.Rating > 0 && payload.MovieTitle != "" {
		body = fmt.Sprintf("You've watched %q and rated it %d/10!", payload.MovieTitle, payload.Rating)
	}

	icon := payload.Icon
	if icon == "" {
		icon = defaultIcon
	}
	badge := payload.Badge
	if badge == "" {
		badge = defaultBadge
	}

	return Notification{
		Title: title,
		Body:  body,
		Icon:  icon,
		Badge: badge,
		Image: payload.Image,
		// The tag includes the arrival instant so the platform never
		// collapses two distinct arrivals itself; real de-duplication already
		// happened above.
		Tag: fmt.Sprintf("%s-%d-%d", payload.Type, payload.MovieID, arrival.UnixMilli()),
		Actions: []Action{
			{ID: ActionView, Title: "View Movie"},
			{ID: ActionDismiss, Title: "Dismiss"},
		},
		Data: NotificationData{
			Type:      payload.Type,
			MovieID:   payload.MovieID,
			URL:       payload.URL,
			Timestamp: arrival,
		},
	}
}

// HandleNotificationClick reacts to the user activating a shown notification:
// close it, then either do nothing (explicit dismiss) or route an open view to
// the target URL, opening a new one when no view is open.
func (w *DeliveryWorker) HandleNotificationClick(ctx context.Context, ev ClickEvent) {
	w.pending.Add(1)
	defer w.pending.Done()

	if err := w.notifier.Close(ctx, ev.Tag); err != nil {
		w.logger.Debug("failed to close notification", zap.String("tag", ev.Tag), zap.Error(err))
	}

	if ev.Action == ActionDismiss {
		return
	}

	target := w.targetURL(ev.Data)

	views, err := w.views.MatchAll(ctx)
	if err != nil {
		w.logger.Warn("failed to enumerate open views", zap.Error(err))
		views = nil
	}

	for _, v := range views {
		if !strings.HasPrefix(v.URL(), w.origin) {
			continue
		}
		if err := v.Focus(ctx); err != nil {
			w.logger.Debug("failed to focus view", zap.Error(err))
			continue
		}
		if err := v.PostMessage(ctx, PageMessage{Type: MessageNotificationClick, URL: target}); err != nil {
			w.logger.Debug("failed to message view", zap.Error(err))
		}
		return
	}

	if err := w.views.OpenWindow(ctx, w.origin+target); err != nil {
		w.logger.Warn("failed to open window", zap.String("url", target), zap.Error(err))
	}
}

// targetURL resolves where a click should land: the movie page when a movie
// identity is present, then any explicit payload URL, then the root.
func (w *DeliveryWorker) targetURL(data NotificationData) string {
	switch {
	case data.MovieID != 0:
		return fmt.Sprintf("/movies/%d", data.MovieID)
	case data.URL != "":
		return data.URL
	default:
		return "/"
	}
}

// HandleNotificationClose tracks dismissals when a reporter is wired. Failures
// are logged only; dismissal analytics are never worth surfacing.
func (w *DeliveryWorker) HandleNotificationClose(ctx context.Context, ev CloseEvent) {
	w.pending.Add(1)
	defer w.pending.Done()

	if w.reporter == nil || ev.Data.Type == "" {
		return
	}
	if err := w.reporter.ReportDismissed(ctx, ev.Data); err != nil {
		w.logger.Debug("failed to report dismissal", zap.Error(err))
	}
}

// HandlePageMessage processes messages sent from an open page.
func (w *DeliveryWorker) HandlePageMessage(ctx context.Context, msg PageMessage) {
	w.pending.Add(1)
	defer w.pending.Done()

	if msg.Type == MessageSkipWaiting {
		w.logger.Debug("page requested immediate activation")
		w.Activate(ctx)
	}
}

// Drain blocks until all in-flight event handling completes or the context
// expires. Hosts call it before terminating the worker.
func (w *DeliveryWorker) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		w.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
