package model

import (
	"fmt"
	"strings"
	"time"
)

// Category groups items by area (training, study, games, etc.).
type Category struct {
	Items     map[string]*Item
	CreatedAt time.Time
}

func (c *Category) HasItem(name string) bool {
	_, ok := c.Items[name]
	return ok
}

func (c *Category) item(name string) (*Item, error) {
	it, ok := c.Items[name]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", name, ErrItemNotFound)
	}
	return it, nil
}

func (c *Category) addItem(name string, rate float64, now time.Time) error {
	if err := ValidateDecayRate(rate); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("item: %w", ErrEmptyName)
	}
	if c.HasItem(name) {
		return fmt.Errorf("item %q: %w", name, ErrDuplicateName)
	}
	if c.Items == nil {
		c.Items = make(map[string]*Item)
	}
	c.Items[name] = &Item{DecayRate: rate, UpdatedAt: now}
	return nil
}

func (c *Category) renameItem(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if oldName == newName {
		return nil
	}
	if newName == "" {
		return fmt.Errorf("item: %w", ErrEmptyName)
	}
	if c.HasItem(newName) {
		return fmt.Errorf("item %q: %w", newName, ErrDuplicateName)
	}
	it, err := c.item(oldName)
	if err != nil {
		return err
	}
	delete(c.Items, oldName)
	c.Items[newName] = it
	return nil
}

func (c *Category) removeItem(name string) (*Item, error) {
	it, err := c.item(name)
	if err != nil {
		return nil, err
	}
	delete(c.Items, name)
	return it, nil
}

func (c *Category) clone() *Category {
	cp := &Category{CreatedAt: c.CreatedAt}
	if c.Items != nil {
		cp.Items = make(map[string]*Item, len(c.Items))
		for name, it := range c.Items {
			cp.Items[name] = it.clone()
		}
	}
	return cp
}
