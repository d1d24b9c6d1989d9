package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testOrigin = "https://moviemate.app"

type fakeNotifier struct {
	mu      sync.Mutex
	shown   []Notification
	closed  []string
	showErr error
}

func (f *fakeNotifier) Show(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.showErr != nil {
		return f.showErr
	}
	f.shown = append(f.shown, n)
	return nil
}

func (f *fakeNotifier) Close(_ context.Context, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, tag)
	return nil
}

func (f *fakeNotifier) shownCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shown)
}

type fakeView struct {
	url     string
	focused bool
	msgs    []PageMessage
}

func (v *fakeView) URL() string                     { return v.url }
func (v *fakeView) Focus(context.Context) error     { v.focused = true; return nil }
func (v *fakeView) PostMessage(_ context.Context, msg PageMessage) error {
	v.msgs = append(v.msgs, msg)
	return nil
}

type fakeViews struct {
	views  []View
	opened []string
}

func (f *fakeViews) MatchAll(context.Context) ([]View, error) { return f.views, nil }
func (f *fakeViews) OpenWindow(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestWorker(t *testing.T) (*DeliveryWorker, *fakeNotifier, *fakeViews, *testClock) {
	t.Helper()
	notifier := &fakeNotifier{}
	views := &fakeViews{}
	clock := newTestClock()
	w := New(notifier, views, testOrigin, zap.NewNop(), WithClock(clock.Now))
	return w, notifier, views, clock
}

func TestHandlePushSuppression(t *testing.T) {
	ctx := context.Background()

	t.Run("identical pushes within the window show once", func(t *testing.T) {
		w, notifier, _, _ := newTestWorker(t)

		push := []byte(`{"type":"bookmark","title":"Bookmarked","movieId":42}`)
		w.HandlePush(ctx, push)
		w.HandlePush(ctx, push)

		if got := notifier.shownCount(); got != 1 {
			t.Fatalf("expected 1 shown notification, got %d", got)
		}
		if !strings.Contains(notifier.shown[0].Tag, "bookmark-42-") {
			t.Errorf("tag %q does not carry the movie identity", notifier.shown[0].Tag)
		}
	})

	t.Run("identical pushes beyond the window both show", func(t *testing.T) {
		w, notifier, _, clock := newTestWorker(t)

		push := []byte(`{"type":"bookmark","title":"Bookmarked","movieId":42}`)
		w.HandlePush(ctx, push)
		clock.Advance(SuppressionWindow + time.Second)
		w.HandlePush(ctx, push)

		if got := notifier.shownCount(); got != 2 {
			t.Fatalf("expected 2 shown notifications, got %d", got)
		}
		if notifier.shown[0].Tag == notifier.shown[1].Tag {
			t.Errorf("distinct arrivals should have distinct tags, both were %q", notifier.shown[0].Tag)
		}
	})

	t.Run("differing keys always show", func(t *testing.T) {
		w, notifier, _, _ := newTestWorker(t)

		w.HandlePush(ctx, []byte(`{"type":"bookmark","title":"A","movieId":42}`))
		w.HandlePush(ctx, []byte(`{"type":"bookmark","title":"B","movieId":43}`))
		w.HandlePush(ctx, []byte(`{"type":"watched","title":"C","movieId":42}`))
		w.HandlePush(ctx, []byte(`{"type":"system","title":"D"}`))

		if got := notifier.shownCount(); got != 4 {
			t.Fatalf("expected 4 shown notifications, got %d", got)
		}
	})

	t.Run("suppressed arrivals do not refresh the timestamp", func(t *testing.T) {
		w, notifier, _, clock := newTestWorker(t)

		push := []byte(`{"type":"watched","title":"Watched","movieId":7}`)
		w.HandlePush(ctx, push)
		clock.Advance(6 * time.Second)
		w.HandlePush(ctx, push) // suppressed
		clock.Advance(5 * time.Second)
		// 11s after the first show: outside the window even though a
		// duplicate arrived in between.
		w.HandlePush(ctx, push)

		if got := notifier.shownCount(); got != 2 {
			t.Fatalf("expected 2 shown notifications, got %d", got)
		}
	})

	t.Run("payloads without movie identity share a general key", func(t *testing.T) {
		w, notifier, _, _ := newTestWorker(t)

		w.HandlePush(ctx, []byte(`{"type":"system","title":"One"}`))
		w.HandlePush(ctx, []byte(`{"type":"system","title":"Two"}`))

		if got := notifier.shownCount(); got != 1 {
			t.Fatalf("expected 1 shown notification, got %d", got)
		}
	})
}

func TestDeliveryRecordPurge(t *testing.T) {
	ctx := context.Background()
	w, _, _, clock := newTestWorker(t)

	w.HandlePush(ctx, []byte(`{"type":"bookmark","title":"A","movieId":1}`))
	w.HandlePush(ctx, []byte(`{"type":"bookmark","title":"B","movieId":2}`))

	clock.Advance(cleanupHorizon + time.Second)
	w.HandlePush(ctx, []byte(`{"type":"bookmark","title":"C","movieId":3}`))

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.lastShown) != 1 {
		t.Fatalf("expected stale entries purged, record holds %d entries", len(w.lastShown))
	}
	if _, ok := w.lastShown["bookmark:3"]; !ok {
		t.Errorf("expected the fresh key to survive the purge")
	}
}

func TestHandlePushNotificationContent(t *testing.T) {
	ctx := context.Background()

	t.Run("watched with rating synthesizes the body", func(t *testing.T) {
		w, notifier, _, _ := newTestWorker(t)

		w.HandlePush(ctx, []byte(`{"type":"watched","title":"Watched","body":"ignored","movieId":7,"movieTitle":"Dune","rating":9}`))

		if got := notifier.shownCount(); got != 1 {
			t.Fatalf("expected 1 shown notification, got %d", got)
		}
		want := `You've watched "Dune" and rated it 9/10!`
		if notifier.shown[0].Body != want {
			t.Errorf("body = %q, want %q", notifier.shown[0].Body, want)
		}
	})

	t.Run("watched without rating keeps the payload body", func(t *testing.T) {
		w, notifier, _, _ := newTestWorker(t)

		w.HandlePush(ctx, []byte(`{"type":"watched","title":"Watched","body":"You've watched \"Dune\"","movieId":7,"movieTitle":"Dune"}`))

		if notifier.shown[0].Body != `You've watched "Dune"` {
			t.Errorf("body = %q", notifier.shown[0].Body)
		}
	})

	t.Run("missing fields fall back to defaults", func(t *testing.T) {
		w, notifier, _, _ := newTestWorker(t)

		w.HandlePush(ctx, []byte(`{"type":"system"}`))

		n := notifier.shown[0]
		if n.Title != "Movie Mate" {
			t.Errorf("title = %q", n.Title)
		}
		if n.Body != defaultBody {
			t.Errorf("body = %q", n.Body)
		}
		if n.Icon != defaultIcon || n.Badge != defaultBadge {
			t.Errorf("icon/badge = %q/%q", n.Icon, n.Badge)
		}
	})
}

func TestHandlePushMalformed(t *testing.T) {
	ctx := context.Background()
	w, notifier, _, _ := newTestWorker(t)

	w.HandlePush(ctx, nil)
	w.HandlePush(ctx, []byte(`{not json`))

	if got := notifier.shownCount(); got != 0 {
		t.Fatalf("malformed payloads must not show notifications, got %d", got)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.lastShown) != 0 {
		t.Errorf("malformed payloads must not mutate the delivery record")
	}
}

func TestHandlePushShowFailure(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{showErr: errors.New("platform refused")}
	w := New(notifier, &fakeViews{}, testOrigin, zap.NewNop())

	// Must not panic or propagate; push is advisory.
	w.HandlePush(ctx, []byte(`{"type":"system","title":"X"}`))
}

func TestActivateResetsDeliveryRecord(t *testing.T) {
	ctx := context.Background()
	w, notifier, _, _ := newTestWorker(t)

	push := []byte(`{"type":"bookmark","title":"A","movieId":42}`)
	w.HandlePush(ctx, push)
	w.Activate(ctx)
	w.HandlePush(ctx, push)

	// A restart favors showing over suppressing.
	if got := notifier.shownCount(); got != 2 {
		t.Fatalf("expected 2 shown notifications across a restart, got %d", got)
	}
}

func TestHandleNotificationClick(t *testing.T) {
	ctx := context.Background()

	t.Run("dismiss closes and does nothing else", func(t *testing.T) {
		w, notifier, views, _ := newTestWorker(t)

		w.HandleNotificationClick(ctx, ClickEvent{
			Action: ActionDismiss,
			Tag:    "bookmark-42-1",
			Data:   NotificationData{Type: "bookmark", MovieID: 42},
		})

		if len(notifier.closed) != 1 || notifier.closed[0] != "bookmark-42-1" {
			t.Fatalf("expected the notification closed, got %v", notifier.closed)
		}
		if len(views.opened) != 0 {
			t.Errorf("dismiss must not open windows, opened %v", views.opened)
		}
	})

	t.Run("focuses and messages a matching open view", func(t *testing.T) {
		w, _, views, _ := newTestWorker(t)
		page := &fakeView{url: testOrigin + "/dashboard"}
		views.views = []View{page}

		w.HandleNotificationClick(ctx, ClickEvent{
			Data: NotificationData{Type: "bookmark", MovieID: 42},
		})

		if !page.focused {
			t.Fatal("expected the open view to be focused")
		}
		if len(page.msgs) != 1 || page.msgs[0].URL != "/movies/42" || page.msgs[0].Type != MessageNotificationClick {
			t.Errorf("unexpected page message %+v", page.msgs)
		}
		if len(views.opened) != 0 {
			t.Errorf("must not open a window when a view matched, opened %v", views.opened)
		}
	})

	t.Run("opens a new window when no view matches", func(t *testing.T) {
		w, _, views, _ := newTestWorker(t)
		views.views = []View{&fakeView{url: "https://other.example/page"}}

		w.HandleNotificationClick(ctx, ClickEvent{
			Data: NotificationData{Type: "bookmark", MovieID: 42},
		})

		if len(views.opened) != 1 || views.opened[0] != testOrigin+"/movies/42" {
			t.Fatalf("expected a new window at the movie page, opened %v", views.opened)
		}
	})

	t.Run("payload URL wins when no movie identity exists", func(t *testing.T) {
		w, _, views, _ := newTestWorker(t)

		w.HandleNotificationClick(ctx, ClickEvent{
			Data: NotificationData{Type: "system", URL: "/dashboard"},
		})

		if len(views.opened) != 1 || views.opened[0] != testOrigin+"/dashboard" {
			t.Fatalf("opened %v", views.opened)
		}
	})

	t.Run("falls back to root", func(t *testing.T) {
		w, _, views, _ := newTestWorker(t)

		w.HandleNotificationClick(ctx, ClickEvent{Data: NotificationData{Type: "system"}})

		if len(views.opened) != 1 || views.opened[0] != testOrigin+"/" {
			t.Fatalf("opened %v", views.opened)
		}
	})
}

type fakeReporter struct {
	reported []NotificationData
}

func (f *fakeReporter) ReportDismissed(_ context.Context, data NotificationData) error {
	f.reported = append(f.reported, data)
	return nil
}

func TestHandleNotificationClose(t *testing.T) {
	ctx := context.Background()

	t.Run("reports dismissals when a reporter is wired", func(t *testing.T) {
		reporter := &fakeReporter{}
		w := New(&fakeNotifier{}, &fakeViews{}, testOrigin, zap.NewNop(), WithDismissalReporter(reporter))

		w.HandleNotificationClose(ctx, CloseEvent{Data: NotificationData{Type: "bookmark", MovieID: 42}})

		if len(reporter.reported) != 1 || reporter.reported[0].MovieID != 42 {
			t.Fatalf("reported %v", reporter.reported)
		}
	})

	t.Run("no reporter is fine", func(t *testing.T) {
		w, _, _, _ := newTestWorker(t)
		w.HandleNotificationClose(ctx, CloseEvent{Data: NotificationData{Type: "bookmark"}})
	})
}

func TestConcurrentPushes(t *testing.T) {
	ctx := context.Background()
	w, notifier, _, _ := newTestWorker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the pushes share one key, the rest are distinct.
			id := 0
			if i%2 == 0 {
				id = i
			}
			w.HandlePush(ctx, []byte(fmt.Sprintf(`{"type":"bookmark","title":"T","movieId":%d}`, id)))
		}(i + 1)
	}
	wg.Wait()

	// 10 distinct even ids plus exactly one for the shared "odd" key.
	if got := notifier.shownCount(); got != 11 {
		t.Fatalf("expected 11 shown notifications, got %d", got)
	}

	if err := w.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
}
