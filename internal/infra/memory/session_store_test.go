package memory

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"vocab-quiz/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	settings := app.NewSettingsService(NewSettingsStore(), zerolog.Nop())
	decks := NewDeckRepository(NewStaticDeckLoader(BuiltinDecks()), time.Minute)
	service := app.NewQuizService(store, decks, settings,
		app.WithScheduler(app.NewManualScheduler()),
		app.WithIDGenerator(func() string { return "s-1" }),
	)

	session, err := service.Start(context.Background(), DefaultDeckID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := store.Get(session.ID); !ok {
		t.Fatalf("expected session present")
	}

	service.End(context.Background(), session.ID)
	if _, ok := store.Get(session.ID); ok {
		t.Fatalf("expected session removed after end")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
