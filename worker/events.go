// Package worker implements the background delivery worker: the event-driven
// component that receives pushed messages, decides whether to surface a system
// notification, and reacts to the user interacting with one. The host platform
// may start, suspend, and kill the worker between events, so everything here
// is rebuildable state; only the short-lived de-duplication record lives in
// memory, and losing it merely risks a duplicate notification.
package worker

import (
	"context"
	"time"
)

// Notification is the visible system notification handed to the Notifier.
type Notification struct {
	Title   string
	Body    string
	Icon    string
	Badge   string
	Image   string
	Tag     string
	Actions []Action
	Data    NotificationData
}

// Action is one button on a shown notification.
type Action struct {
	ID    string
	Title string
}

// Action identifiers the worker understands.
const (
	ActionView    = "view"
	ActionDismiss = "dismiss"
)

// NotificationData is the context attached to a shown notification and echoed
// back on click/close events.
type NotificationData struct {
	Type      string
	MovieID   int
	URL       string
	Timestamp time.Time
}

// ClickEvent is delivered when the user activates a shown notification.
type ClickEvent struct {
	// Action is the identifier of the chosen action button, or empty for the
	// notification body itself.
	Action string
	Tag    string
	Data   NotificationData
}

// CloseEvent is delivered when a shown notification is dismissed without
// activation.
type CloseEvent struct {
	Tag  string
	Data NotificationData
}

// PageMessage is the message the worker posts to an open client view so the
// page can navigate in place instead of reloading.
type PageMessage struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PageMessage types.
const (
	MessageNotificationClick = "NOTIFICATION_CLICK"
	MessageSkipWaiting       = "SKIP_WAITING"
)

// Notifier shows system notifications on the device.
type Notifier interface {
	Show(ctx context.Context, n Notification) error
	Close(ctx context.Context, tag string) error
}

// View is one open client page.
type View interface {
	// URL returns the page's current location.
	URL() string
	// Focus brings the page to the foreground.
	Focus(ctx context.Context) error
	// PostMessage hands the page a message for in-page handling.
	PostMessage(ctx context.Context, msg PageMessage) error
}

// ViewRegistry enumerates open client views and opens new ones.
type ViewRegistry interface {
	MatchAll(ctx context.Context) ([]View, error)
	OpenWindow(ctx context.Context, url string) error
}

// DismissalReporter receives best-effort analytics about closed notifications.
type DismissalReporter interface {
	ReportDismissed(ctx context.Context, data NotificationData) error
}
