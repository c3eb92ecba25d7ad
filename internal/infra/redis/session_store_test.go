package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"vocab-quiz/internal/app"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	store.Add(&app.Session{ID: "s-1", DeckID: "cet4"})
	if !mr.Exists("quiz:session:s-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:s-1"); got != "cet4" {
		t.Fatalf("expected deck id in marker, got %q", got)
	}
	if _, ok := store.Get("s-1"); !ok {
		t.Fatalf("expected session present")
	}

	if _, ok := store.Remove("s-1"); !ok {
		t.Fatalf("expected session removed")
	}
	if mr.Exists("quiz:session:s-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Remove("s-1"); ok {
		t.Fatalf("second remove should report missing")
	}
}
