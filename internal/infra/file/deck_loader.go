package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"vocab-quiz/internal/domain"
)

// DeckLoader reads decks from a YAML document of the form:
//
//	decks:
//	  - id: cet4
//	    title: ...
//	    questions:
//	      - prompt: Good
//	        options: [...]
//	        correct: 0
type DeckLoader struct {
	path string
}

type deckFile struct {
	Decks []domain.Deck `yaml:"decks"`
}

func NewDeckLoader(path string) *DeckLoader {
	return &DeckLoader{path: path}
}

func (l *DeckLoader) LoadDeck(_ context.Context, deckID string) (domain.Deck, error) {
	decks, err := l.LoadAll()
	if err != nil {
		return domain.Deck{}, err
	}
	for _, deck := range decks {
		if deck.ID == deckID {
			return deck, nil
		}
	}
	return domain.Deck{}, domain.ErrDeckNotFound
}

// LoadAll parses every deck in the file.
func (l *DeckLoader) LoadAll() ([]domain.Deck, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read decks: %w", err)
	}
	var parsed deckFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse decks: %w", err)
	}
	return parsed.Decks, nil
}
