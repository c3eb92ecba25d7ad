package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"vocab-quiz/internal/domain"
)

// DeckLoader fetches deck content from a backing store (YAML file, Postgres, built-ins).
type DeckLoader interface {
	LoadDeck(ctx context.Context, deckID string) (domain.Deck, error)
}

// DeckRepository caches decks with TTL to avoid repeated loads.
type DeckRepository struct {
	loader DeckLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedDeck
}

type cachedDeck struct {
	deck      domain.Deck
	expiresAt time.Time
}

func NewDeckRepository(loader DeckLoader, ttl time.Duration) *DeckRepository {
	return &DeckRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		cache:  make(map[string]cachedDeck),
	}
}

func (r *DeckRepository) GetDeck(ctx context.Context, deckID string) (domain.Deck, error) {
	if deck, ok := r.cached(deckID); ok {
		return deck, nil
	}

	result, err, _ := r.sf.Do(deckID, func() (interface{}, error) {
		if deck, ok := r.cached(deckID); ok {
			return deck, nil
		}

		deck, err := r.loader.LoadDeck(ctx, deckID)
		if err != nil {
			return domain.Deck{}, err
		}
		if err := deck.Validate(); err != nil {
			return domain.Deck{}, err
		}

		r.mu.Lock()
		r.cache[deckID] = cachedDeck{
			deck:      deck,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return deck, nil
	})
	if err != nil {
		return domain.Deck{}, err
	}
	return result.(domain.Deck), nil
}

func (r *DeckRepository) cached(deckID string) (domain.Deck, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[deckID]; ok && entry.expiresAt.After(now) {
		return entry.deck, true
	}
	return domain.Deck{}, false
}

func (r *DeckRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}

// StaticDeckLoader serves decks from an in-memory map (built-ins, tests, demos).
type StaticDeckLoader struct {
	decks map[string]domain.Deck
}

func NewStaticDeckLoader(decks map[string]domain.Deck) *StaticDeckLoader {
	return &StaticDeckLoader{decks: decks}
}

func (l *StaticDeckLoader) LoadDeck(_ context.Context, deckID string) (domain.Deck, error) {
	if deck, ok := l.decks[deckID]; ok {
		return deck, nil
	}
	return domain.Deck{}, domain.ErrDeckNotFound
}

// FallbackLoader tries each loader in order, moving on only when a deck is not found.
type FallbackLoader []DeckLoader

func (f FallbackLoader) LoadDeck(ctx context.Context, deckID string) (domain.Deck, error) {
	for _, loader := range f {
		deck, err := loader.LoadDeck(ctx, deckID)
		if err == nil {
			return deck, nil
		}
		if !errors.Is(err, domain.ErrDeckNotFound) {
			return domain.Deck{}, err
		}
	}
	return domain.Deck{}, domain.ErrDeckNotFound
}
