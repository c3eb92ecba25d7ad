package memory

import "vocab-quiz/internal/domain"

// DefaultDeckID names the deck played when none is requested.
const DefaultDeckID = "cet4"

// BuiltinDecks returns the decks compiled into the binary.
func BuiltinDecks() map[string]domain.Deck {
	return map[string]domain.Deck{
		DefaultDeckID: {
			ID:    DefaultDeckID,
			Title: "四级词汇书",
			Questions: []domain.Question{
				{Prompt: "Good", Options: []string{"好的; 棒的", "坏的", "一般的", "优秀的"}, Correct: 0},
				{Prompt: "Bad", Options: []string{"好的", "坏的; 糟糕的", "一般的", "可怕的"}, Correct: 1},
				{Prompt: "Average", Options: []string{"好的", "坏的", "一般的; 中等的", "普通的"}, Correct: 2},
			},
		},
	}
}
