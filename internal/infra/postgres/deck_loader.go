package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"vocab-quiz/internal/domain"
)

// DeckLoader loads deck JSONB from Postgres.
type DeckLoader struct {
	pool *pgxpool.Pool
}

func NewDeckLoader(pool *pgxpool.Pool) *DeckLoader {
	return &DeckLoader{pool: pool}
}

func (l *DeckLoader) LoadDeck(ctx context.Context, deckID string) (domain.Deck, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM decks WHERE id=$1`, deckID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Deck{}, domain.ErrDeckNotFound
	}
	if err != nil {
		return domain.Deck{}, fmt.Errorf("load deck: %w", err)
	}
	var deck domain.Deck
	if err := json.Unmarshal(raw, &deck); err != nil {
		return domain.Deck{}, fmt.Errorf("unmarshal deck: %w", err)
	}
	return deck, nil
}

// SaveDeck inserts or replaces a deck.
func (l *DeckLoader) SaveDeck(ctx context.Context, deck domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("marshal deck: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO decks (id, data, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		deck.ID, string(raw))
	if err != nil {
		return fmt.Errorf("save deck: %w", err)
	}
	return nil
}
