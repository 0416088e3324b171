package model

import (
	"fmt"
	"time"
)

const (
	MinDecayRate     = 0.01
	MaxDecayRate     = 1.00
	DefaultDecayRate = 0.90
)

// ScoreEntry is a single recorded score. Entries are never edited in place.
type ScoreEntry struct {
	Score     int64
	Timestamp time.Time
}

// Item owns a chronological score sequence and the decay rate used to weight it.
type Item struct {
	Scores    []ScoreEntry
	DecayRate float64
	UpdatedAt time.Time
}

// ValidateDecayRate reports whether rate lies in [MinDecayRate, MaxDecayRate].
func ValidateDecayRate(rate float64) error {
	if rate >= MinDecayRate && rate <= MaxDecayRate {
		return nil
	}
	return fmt.Errorf("%w: %v is not within %.2f - %.2f", ErrDecayOutOfRange, rate, MinDecayRate, MaxDecayRate)
}

// Values returns the raw scores in insertion order.
func (it *Item) Values() []int64 {
	values := make([]int64, len(it.Scores))
	for i, s := range it.Scores {
		values[i] = s.Score
	}
	return values
}

func (it *Item) addScore(score int64, now time.Time) error {
	if score < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeScore, score)
	}
	it.Scores = append(it.Scores, ScoreEntry{Score: score, Timestamp: now})
	it.UpdatedAt = now
	return nil
}

func (it *Item) removeScore(index int, now time.Time) error {
	if index < 0 || index >= len(it.Scores) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(it.Scores))
	}
	it.Scores = append(it.Scores[:index], it.Scores[index+1:]...)
	it.UpdatedAt = now
	return nil
}

func (it *Item) updateDecayRate(rate float64, now time.Time) error {
	if err := ValidateDecayRate(rate); err != nil {
		return err
	}
	it.DecayRate = rate
	it.UpdatedAt = now
	return nil
}

func (it *Item) clone() *Item {
	cp := *it
	if it.Scores != nil {
		cp.Scores = make([]ScoreEntry, len(it.Scores))
		copy(cp.Scores, it.Scores)
	}
	return &cp
}
