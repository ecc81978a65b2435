package question

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

// Question is one trivia item. Immutable once drawn into a session.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

// Bank exposes the read-only question collection loaded at startup.
type Bank interface {
	AllQuestions(ctx context.Context) ([]Question, error)
}

// FileBank serves questions from a JSON file read once at construction.
type FileBank struct {
	questions []Question
}

var _ Bank = (*FileBank)(nil)

// NewFileBank reads and validates the question file.
func NewFileBank(path string) (*FileBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question file: %w", err)
	}
	if err := Validate(questions); err != nil {
		return nil, err
	}
	return &FileBank{questions: questions}, nil
}

func (b *FileBank) AllQuestions(ctx context.Context) ([]Question, error) {
	return b.questions, nil
}

// Validate rejects banks that cannot be played.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}
	for i, q := range questions {
		if q.Prompt == "" {
			return fmt.Errorf("question %d: empty prompt", i)
		}
		if len(q.Choices) < 2 {
			return fmt.Errorf("question %d: needs at least 2 choices", i)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
			return fmt.Errorf("question %d: correct index %d out of range", i, q.CorrectIndex)
		}
	}
	return nil
}

// Sample returns an unbiased Fisher-Yates shuffle of a copy of the bank,
// truncated to clamp(n, 1, len(all)). Sessions therefore never repeat a
// question. A nil rng uses the shared source.
func Sample(rng *rand.Rand, all []Question, n int) []Question {
	picked := make([]Question, len(all))
	copy(picked, all)

	swap := func(i, j int) { picked[i], picked[j] = picked[j], picked[i] }
	if rng != nil {
		rng.Shuffle(len(picked), swap)
	} else {
		rand.Shuffle(len(picked), swap)
	}

	if n < 1 {
		n = 1
	}
	if n > len(picked) {
		n = len(picked)
	}
	return picked[:n]
}
