package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Store is the category -> item -> score hierarchy. It is not safe for
// concurrent use; a single control loop owns it.
type Store struct {
	Categories map[string]*Category

	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for created/updated timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{Categories: make(map[string]*Category)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetClock replaces the time source, e.g. after a store was decoded from disk.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

func (s *Store) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now().UTC()
}

// Clone returns a deep copy sharing no mutable state with s.
func (s *Store) Clone() *Store {
	cp := &Store{clock: s.clock, Categories: make(map[string]*Category, len(s.Categories))}
	for name, c := range s.Categories {
		cp.Categories[name] = c.clone()
	}
	return cp
}

func (s *Store) HasCategory(name string) bool {
	_, ok := s.Categories[name]
	return ok
}

func (s *Store) HasItem(cat, item string) bool {
	c, ok := s.Categories[cat]
	return ok && c.HasItem(item)
}

// Category looks up a category by exact name.
func (s *Store) Category(name string) (*Category, error) {
	c, ok := s.Categories[name]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", name, ErrCategoryNotFound)
	}
	return c, nil
}

// Item looks up an item inside a category.
func (s *Store) Item(cat, item string) (*Item, error) {
	c, err := s.Category(cat)
	if err != nil {
		return nil, err
	}
	return c.item(item)
}

func (s *Store) ItemDecay(cat, item string) (float64, error) {
	it, err := s.Item(cat, item)
	if err != nil {
		return 0, err
	}
	return it.DecayRate, nil
}

// CategoryNames lists categories newest first; ties fall back to name order.
func (s *Store) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.Categories[names[i]].CreatedAt, s.Categories[names[j]].CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return names[i] < names[j]
	})
	return names
}

// CategoryNamesAlpha lists categories alphabetically, for destination pickers.
func (s *Store) CategoryNamesAlpha() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ItemNames lists the items of cat, most recently updated first.
func (s *Store) ItemNames(cat string) ([]string, error) {
	c, err := s.Category(cat)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.Items))
	for name := range c.Items {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := c.Items[names[i]].UpdatedAt, c.Items[names[j]].UpdatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return names[i] < names[j]
	})
	return names, nil
}

func (s *Store) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category: %w", ErrEmptyName)
	}
	if s.HasCategory(name) {
		return fmt.Errorf("category %q: %w", name, ErrDuplicateName)
	}
	if s.Categories == nil {
		s.Categories = make(map[string]*Category)
	}
	s.Categories[name] = &Category{Items: make(map[string]*Item), CreatedAt: s.now()}
	return nil
}

// RemoveCategory deletes a category together with its items and scores.
func (s *Store) RemoveCategory(name string) (*Category, error) {
	c, err := s.Category(name)
	if err != nil {
		return nil, err
	}
	delete(s.Categories, name)
	return c, nil
}

// RenameCategory moves the whole subtree of oldName under newName.
// Renaming to the same name is a no-op.
func (s *Store) RenameCategory(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if oldName == newName {
		return nil
	}
	if newName == "" {
		return fmt.Errorf("category: %w", ErrEmptyName)
	}
	if s.HasCategory(newName) {
		return fmt.Errorf("category %q: %w", newName, ErrDuplicateName)
	}
	c, err := s.Category(oldName)
	if err != nil {
		return err
	}
	delete(s.Categories, oldName)
	s.Categories[newName] = c
	return nil
}

func (s *Store) AddItem(cat, name string, rate float64) error {
	if err := ValidateDecayRate(rate); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("item: %w", ErrEmptyName)
	}
	c, err := s.Category(cat)
	if err != nil {
		return err
	}
	return c.addItem(name, rate, s.now())
}

func (s *Store) RemoveItem(cat, item string) error {
	c, err := s.Category(cat)
	if err != nil {
		return err
	}
	_, err = c.removeItem(item)
	return err
}

func (s *Store) RenameItem(cat, oldName, newName string) error {
	c, err := s.Category(cat)
	if err != nil {
		return err
	}
	return c.renameItem(oldName, newName)
}

// MoveItem relocates item from one category to another, keeping its name.
func (s *Store) MoveItem(from, to, item string) error {
	if from == to {
		return nil
	}
	src, ok := s.Categories[from]
	if !ok {
		return fmt.Errorf("source category %q: %w", from, ErrCategoryNotFound)
	}
	dst, ok := s.Categories[to]
	if !ok {
		return fmt.Errorf("destination category %q: %w", to, ErrCategoryNotFound)
	}
	if dst.HasItem(item) {
		return fmt.Errorf("item %q in category %q: %w", item, to, ErrDuplicateName)
	}
	it, err := src.removeItem(item)
	if err != nil {
		return err
	}
	if dst.Items == nil {
		dst.Items = make(map[string]*Item)
	}
	dst.Items[item] = it
	return nil
}

func (s *Store) UpdateDecay(cat, item string, rate float64) error {
	it, err := s.Item(cat, item)
	if err != nil {
		return err
	}
	return it.updateDecayRate(rate, s.now())
}

// UpdateItem moves, renames and re-weights an item as one edit. The steps run
// against a clone and the clone replaces s only when all of them succeed, so a
// failure leaves s exactly as it was.
func (s *Store) UpdateItem(fromCat, item, toCat, newName string, rate float64) error {
	newName = strings.TrimSpace(newName)

	tmp := s.Clone()
	if err := tmp.MoveItem(fromCat, toCat, item); err != nil {
		return err
	}
	if err := tmp.RenameItem(toCat, item, newName); err != nil {
		return err
	}
	if err := tmp.UpdateDecay(toCat, newName, rate); err != nil {
		return err
	}

	*s = *tmp
	return nil
}

func (s *Store) AddScore(cat, item string, score int64) error {
	it, err := s.Item(cat, item)
	if err != nil {
		return err
	}
	return it.addScore(score, s.now())
}

// RemoveScore deletes the entry at the physical insertion index.
func (s *Store) RemoveScore(cat, item string, index int) error {
	it, err := s.Item(cat, item)
	if err != nil {
		return err
	}
	return it.removeScore(index, s.now())
}
