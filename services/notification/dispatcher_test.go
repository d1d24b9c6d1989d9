package notification

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	subscriptionRepo "moviemate/database/repository/subscription"
	userRepo "moviemate/database/repository/user"
	"moviemate/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fakeSubRepo struct {
	mu      sync.Mutex
	subs    []models.PushSubscription
	removed []string
	listErr error
}

var _ subscriptionRepo.Repository = (*fakeSubRepo)(nil)

func (f *fakeSubRepo) Upsert(_ context.Context, sub *models.PushSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeSubRepo) Remove(_ context.Context, userID, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, endpoint)
	return nil
}

func (f *fakeSubRepo) ListFor(_ context.Context, userID string) ([]models.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.PushSubscription, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

// fakeUserRepo serves only the projection lookup the dispatcher performs.
type fakeUserRepo struct {
	userRepo.UserRepository
	user *models.User
	err  error
}

func (f *fakeUserRepo) GetByIDWithProjection(id string, _ bson.M) (*models.User, error) {
	return f.user, f.err
}

type fakeTransport struct {
	mu        sync.Mutex
	statuses  map[string]int
	err       error
	endpoints []string
}

func (f *fakeTransport) Send(_ context.Context, _ []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = append(f.endpoints, sub.Endpoint)
	if f.err != nil {
		return nil, f.err
	}
	status := http.StatusCreated
	if s, ok := f.statuses[sub.Endpoint]; ok {
		status = s
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func pushUser(pushEnabled bool) *models.User {
	return &models.User{
		ID: "user-1",
		Preferences: models.Preferences{
			Notifications: models.NotificationPreferences{Push: pushEnabled},
		},
	}
}

func subscription(endpoint string) models.PushSubscription {
	return models.PushSubscription{
		UserID:   "user-1",
		Endpoint: endpoint,
		Keys:     models.SubscriptionKeys{P256dh: "p256dh-key", Auth: "auth-secret"},
	}
}

func newDispatcher(subs *fakeSubRepo, users *fakeUserRepo, transport *fakeTransport) *DefaultDispatcher {
	return &DefaultDispatcher{
		Subs:      subs,
		Users:     users,
		Transport: transport,
		VAPID: VAPIDConfig{
			PublicKey:  "pub",
			PrivateKey: "priv",
			Subscriber: "mailto:ops@moviemate.app",
		},
		Logger: zap.NewNop(),
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	payload := models.PushPayload{Type: models.NotificationTypeBookmark, Title: "Bookmarked", MovieID: 42}

	t.Run("fans out to every subscription", func(t *testing.T) {
		subs := &fakeSubRepo{subs: []models.PushSubscription{
			subscription("https://push.example/a"),
			subscription("https://push.example/b"),
		}}
		transport := &fakeTransport{}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(true)}, transport)

		if err := d.Dispatch(ctx, "user-1", payload); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(transport.endpoints) != 2 {
			t.Fatalf("expected 2 sends, got %d", len(transport.endpoints))
		}
		if len(subs.removed) != 0 {
			t.Errorf("nothing should be pruned, removed %v", subs.removed)
		}
	})

	t.Run("prunes gone endpoints without failing the rest", func(t *testing.T) {
		subs := &fakeSubRepo{subs: []models.PushSubscription{
			subscription("https://push.example/dead"),
			subscription("https://push.example/live"),
		}}
		transport := &fakeTransport{statuses: map[string]int{
			"https://push.example/dead": http.StatusGone,
		}}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(true)}, transport)

		if err := d.Dispatch(ctx, "user-1", payload); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(subs.removed) != 1 || subs.removed[0] != "https://push.example/dead" {
			t.Fatalf("expected only the dead endpoint pruned, removed %v", subs.removed)
		}
		if len(transport.endpoints) != 2 {
			t.Errorf("expected both endpoints attempted, got %d", len(transport.endpoints))
		}
	})

	t.Run("404 also prunes", func(t *testing.T) {
		subs := &fakeSubRepo{subs: []models.PushSubscription{subscription("https://push.example/a")}}
		transport := &fakeTransport{statuses: map[string]int{
			"https://push.example/a": http.StatusNotFound,
		}}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(true)}, transport)

		if err := d.Dispatch(ctx, "user-1", payload); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(subs.removed) != 1 {
			t.Fatalf("expected the endpoint pruned, removed %v", subs.removed)
		}
	})

	t.Run("transient transport errors never prune", func(t *testing.T) {
		subs := &fakeSubRepo{subs: []models.PushSubscription{subscription("https://push.example/a")}}
		transport := &fakeTransport{err: errors.New("connection reset")}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(true)}, transport)

		if err := d.Dispatch(ctx, "user-1", payload); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(subs.removed) != 0 {
			t.Errorf("transient failures must keep the subscription, removed %v", subs.removed)
		}
	})

	t.Run("server errors neither prune nor fail", func(t *testing.T) {
		subs := &fakeSubRepo{subs: []models.PushSubscription{subscription("https://push.example/a")}}
		transport := &fakeTransport{statuses: map[string]int{
			"https://push.example/a": http.StatusInternalServerError,
		}}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(true)}, transport)

		if err := d.Dispatch(ctx, "user-1", payload); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(subs.removed) != 0 {
			t.Errorf("5xx must not prune, removed %v", subs.removed)
		}
	})

	t.Run("push preference off short-circuits", func(t *testing.T) {
		subs := &fakeSubRepo{subs: []models.PushSubscription{subscription("https://push.example/a")}}
		transport := &fakeTransport{}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(false)}, transport)

		if err := d.Dispatch(ctx, "user-1", payload); !errors.Is(err, ErrNotSubscribed) {
			t.Fatalf("expected ErrNotSubscribed, got %v", err)
		}
		if len(transport.endpoints) != 0 {
			t.Errorf("transport must not be touched, sent to %v", transport.endpoints)
		}
	})

	t.Run("no subscriptions", func(t *testing.T) {
		d := newDispatcher(&fakeSubRepo{}, &fakeUserRepo{user: pushUser(true)}, &fakeTransport{})

		if err := d.Dispatch(ctx, "user-1", payload); !errors.Is(err, ErrNotSubscribed) {
			t.Fatalf("expected ErrNotSubscribed, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		d := newDispatcher(&fakeSubRepo{}, &fakeUserRepo{user: nil}, &fakeTransport{})

		if err := d.Dispatch(ctx, "missing", payload); !errors.Is(err, ErrNotSubscribed) {
			t.Fatalf("expected ErrNotSubscribed, got %v", err)
		}
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		subs := &fakeSubRepo{listErr: errors.New("mongo down")}
		d := newDispatcher(subs, &fakeUserRepo{user: pushUser(true)}, &fakeTransport{})

		if err := d.Dispatch(ctx, "user-1", payload); err == nil || errors.Is(err, ErrNotSubscribed) {
			t.Fatalf("expected a hard error, got %v", err)
		}
	})
}

func TestPayloadBuilders(t *testing.T) {
	movie := models.MovieData{ID: 42, Title: "Dune", PosterPath: "/dune.jpg", Rating: 9}

	t.Run("bookmark", func(t *testing.T) {
		p := BookmarkPayload(movie)
		if p.Type != models.NotificationTypeBookmark {
			t.Errorf("type = %q", p.Type)
		}
		if p.MovieID != 42 || p.URL != "/movies/42" {
			t.Errorf("movie routing diverged: id=%d url=%q", p.MovieID, p.URL)
		}
		if !strings.Contains(p.Body, "Dune") {
			t.Errorf("body %q does not name the movie", p.Body)
		}
		if !strings.HasPrefix(p.Image, posterBaseURL) {
			t.Errorf("image %q does not resolve the poster path", p.Image)
		}
	})

	t.Run("watched carries the rating", func(t *testing.T) {
		p := WatchedPayload(movie)
		if p.Type != models.NotificationTypeWatched || p.Rating != 9 || p.MovieTitle != "Dune" {
			t.Errorf("payload diverged: %+v", p)
		}
	})

	t.Run("dedup keys", func(t *testing.T) {
		if got := BookmarkPayload(movie).DedupKey(); got != "bookmark:42" {
			t.Errorf("bookmark key = %q", got)
		}
		if got := TestPayload().DedupKey(); got != "system:general" {
			t.Errorf("system key = %q", got)
		}
	})
}
