package feed

import (
	"fmt"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestStoreAdd(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		s := NewStore(WithClock(fixedClock()))
		s.Add(Input{Type: "bookmark", Title: "First", Message: "a"})
		s.Add(Input{Type: "watched", Title: "Second", Message: "b"})

		list := s.List()
		if len(list) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(list))
		}
		if list[0].Title != "Second" || list[1].Title != "First" {
			t.Errorf("expected newest first, got %q then %q", list[0].Title, list[1].Title)
		}
	})

	t.Run("entries start unread with generated ids", func(t *testing.T) {
		s := NewStore(WithClock(fixedClock()))
		n := s.Add(Input{Type: "system", Title: "T", Message: "m"})

		if n.ID == "" {
			t.Error("expected a generated id")
		}
		if n.IsRead {
			t.Error("new entries must start unread")
		}
		if s.UnreadCount() != 1 {
			t.Errorf("unread = %d, want 1", s.UnreadCount())
		}
	})

	t.Run("capacity evicts the oldest", func(t *testing.T) {
		s := NewStore(WithClock(fixedClock()))
		for i := 0; i < maxEntries+10; i++ {
			s.Add(Input{Type: "system", Title: fmt.Sprintf("n%d", i), Message: "m"})
		}

		list := s.List()
		if len(list) != maxEntries {
			t.Fatalf("expected %d entries, got %d", maxEntries, len(list))
		}
		if list[0].Title != fmt.Sprintf("n%d", maxEntries+9) {
			t.Errorf("newest entry is %q", list[0].Title)
		}
		if list[len(list)-1].Title != "n10" {
			t.Errorf("oldest surviving entry is %q, want n10", list[len(list)-1].Title)
		}
	})
}

func TestStoreReadState(t *testing.T) {
	t.Run("mark one", func(t *testing.T) {
		s := NewStore(WithClock(fixedClock()))
		a := s.Add(Input{Type: "system", Title: "A", Message: "m"})
		s.Add(Input{Type: "system", Title: "B", Message: "m"})

		if !s.MarkAsRead(a.ID) {
			t.Fatal("expected MarkAsRead to find the entry")
		}
		if s.UnreadCount() != 1 {
			t.Errorf("unread = %d, want 1", s.UnreadCount())
		}
		// Marking again is a no-op, not an error.
		if !s.MarkAsRead(a.ID) {
			t.Error("re-marking a read entry should still report found")
		}
	})

	t.Run("mark unknown id", func(t *testing.T) {
		s := NewStore(WithClock(fixedClock()))
		if s.MarkAsRead("missing") {
			t.Error("expected MarkAsRead to report not found")
		}
	})

	t.Run("mark all", func(t *testing.T) {
		s := NewStore(WithClock(fixedClock()))
		for i := 0; i < 5; i++ {
			s.Add(Input{Type: "system", Title: "T", Message: "m"})
		}
		s.MarkAllAsRead()
		if s.UnreadCount() != 0 {
			t.Errorf("unread = %d, want 0", s.UnreadCount())
		}
	})
}

func TestStoreRemoveAndClear(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := s.Add(Input{Type: "system", Title: "A", Message: "m"})
	s.Add(Input{Type: "system", Title: "B", Message: "m"})

	if !s.Remove(a.ID) {
		t.Fatal("expected Remove to find the entry")
	}
	if s.Remove(a.ID) {
		t.Error("removing twice should report not found")
	}
	if len(s.List()) != 1 {
		t.Errorf("expected 1 entry after remove, got %d", len(s.List()))
	}

	s.ClearAll()
	if len(s.List()) != 0 || s.UnreadCount() != 0 {
		t.Errorf("expected an empty store after clear")
	}
}

func TestStoreSerializeRestore(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	a := s.Add(Input{Type: "watched", Title: "Watched", Message: `You've watched "Dune" and rated it 9/10!`, MovieID: 7, MovieTitle: "Dune", Rating: 9})
	s.Add(Input{Type: "bookmark", Title: "Bookmarked", Message: "m", MovieID: 3})
	s.MarkAsRead(a.ID)

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	restored := NewStore(WithClock(fixedClock()))
	if err := restored.Restore(data); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	list := restored.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 restored entries, got %d", len(list))
	}
	if list[1].ID != a.ID || !list[1].IsRead || list[1].Rating != 9 {
		t.Errorf("restored entry diverged: %+v", list[1])
	}
	// Unread is always derived, never persisted.
	if restored.UnreadCount() != 1 {
		t.Errorf("unread = %d, want 1", restored.UnreadCount())
	}
}

func TestStoreRestoreReappliesCap(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	for i := 0; i < maxEntries; i++ {
		s.Add(Input{Type: "system", Title: fmt.Sprintf("n%d", i), Message: "m"})
	}
	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	restored := NewStore(WithClock(fixedClock()))
	if err := restored.Restore(data); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if got := len(restored.List()); got != maxEntries {
		t.Fatalf("expected the cap honored on restore, got %d", got)
	}
}

func TestStoreRestoreRejectsGarbage(t *testing.T) {
	s := NewStore(WithClock(fixedClock()))
	if err := s.Restore([]byte("{not json")); err == nil {
		t.Fatal("expected an error for malformed state")
	}
}
