package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"vocab-quiz/internal/domain"
)

// DeckLoader fetches deck content from a backing store (YAML file, Postgres, built-ins).
type DeckLoader interface {
	LoadDeck(ctx context.Context, deckID string) (domain.Deck, error)
}

// DeckRepository caches decks in Redis and falls back to a loader on cache miss.
// Decks are stored as JSON: SET deck:{deckID} {json} EX ttl
type DeckRepository struct {
	client *redis.Client
	loader DeckLoader
	ttl    time.Duration
	sf     singleflight.Group
}

func NewDeckRepository(client *redis.Client, loader DeckLoader, ttl time.Duration) *DeckRepository {
	return &DeckRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
	}
}

func (r *DeckRepository) GetDeck(ctx context.Context, deckID string) (domain.Deck, error) {
	if deck, ok := r.cached(ctx, deckID); ok {
		return deck, nil
	}

	result, err, _ := r.sf.Do(deckID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if deck, ok := r.cached(ctx, deckID); ok {
			return deck, nil
		}

		deck, err := r.loader.LoadDeck(ctx, deckID)
		if err != nil {
			return domain.Deck{}, err
		}
		if err := deck.Validate(); err != nil {
			return domain.Deck{}, err
		}

		if raw, err := json.Marshal(deck); err == nil {
			// best-effort; a failed write only costs another load
			_ = r.client.Set(ctx, r.key(deckID), raw, r.ttlWithJitter()).Err()
		}
		return deck, nil
	})
	if err != nil {
		return domain.Deck{}, err
	}
	return result.(domain.Deck), nil
}

// Invalidate drops the cached copy of a deck.
func (r *DeckRepository) Invalidate(ctx context.Context, deckID string) error {
	return r.client.Del(ctx, r.key(deckID)).Err()
}

func (r *DeckRepository) cached(ctx context.Context, deckID string) (domain.Deck, bool) {
	raw, err := r.client.Get(ctx, r.key(deckID)).Bytes()
	if err != nil {
		return domain.Deck{}, false
	}
	var deck domain.Deck
	if err := json.Unmarshal(raw, &deck); err != nil {
		return domain.Deck{}, false
	}
	return deck, true
}

func (r *DeckRepository) key(deckID string) string {
	return "deck:" + deckID
}

func (r *DeckRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
