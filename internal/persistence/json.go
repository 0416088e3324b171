// Package persistence reads and writes the store as a JSON document.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"score-tracker/internal/model"
)

type document struct {
	Categories map[string]categoryDoc `json:"categories"`
}

type categoryDoc struct {
	CreatedAt *time.Time         `json:"created_at,omitempty"`
	Items     map[string]itemDoc `json:"items"`
}

type itemDoc struct {
	DecayRate *float64   `json:"decay_rate,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	// CreatedAt is the name older files used for UpdatedAt.
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Scores    []scoreDoc `json:"scores"`
}

type scoreDoc struct {
	Score     int64      `json:"score"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *model.Store) error {
	doc := document{Categories: make(map[string]categoryDoc, len(s.Categories))}
	for name, c := range s.Categories {
		created := c.CreatedAt
		cd := categoryDoc{CreatedAt: &created, Items: make(map[string]itemDoc, len(c.Items))}
		for itemName, it := range c.Items {
			rate, updated := it.DecayRate, it.UpdatedAt
			id := itemDoc{DecayRate: &rate, UpdatedAt: &updated, Scores: make([]scoreDoc, len(it.Scores))}
			for i, e := range it.Scores {
				ts := e.Timestamp
				id.Scores[i] = scoreDoc{Score: e.Score, Timestamp: &ts}
			}
			cd.Items[itemName] = id
		}
		doc.Categories[name] = cd
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return nil
}

// Decode parses a JSON document into a store. Missing timestamps are filled
// with now and a missing decay rate with model.DefaultDecayRate. A document
// that breaks a store invariant (blank name, decay rate out of range, negative
// score) is rejected as a whole.
func Decode(r io.Reader, now time.Time) (*model.Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}

	s := model.NewStore()
	for name, cd := range doc.Categories {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("decode store: category %q: %w", name, model.ErrEmptyName)
		}
		c := &model.Category{CreatedAt: orNow(cd.CreatedAt, now), Items: make(map[string]*model.Item, len(cd.Items))}
		for itemName, id := range cd.Items {
			if strings.TrimSpace(itemName) == "" {
				return nil, fmt.Errorf("decode store: item %q in %q: %w", itemName, name, model.ErrEmptyName)
			}
			it := &model.Item{DecayRate: model.DefaultDecayRate, UpdatedAt: now}
			if id.DecayRate != nil {
				if err := model.ValidateDecayRate(*id.DecayRate); err != nil {
					return nil, fmt.Errorf("decode store: %s/%s: %w", name, itemName, err)
				}
				it.DecayRate = *id.DecayRate
			}
			switch {
			case id.UpdatedAt != nil:
				it.UpdatedAt = *id.UpdatedAt
			case id.CreatedAt != nil:
				it.UpdatedAt = *id.CreatedAt
			}
			if len(id.Scores) > 0 {
				it.Scores = make([]model.ScoreEntry, len(id.Scores))
				for i, sd := range id.Scores {
					if sd.Score < 0 {
						return nil, fmt.Errorf("decode store: %s/%s #%d: %w", name, itemName, i+1, model.ErrNegativeScore)
					}
					it.Scores[i] = model.ScoreEntry{Score: sd.Score, Timestamp: orNow(sd.Timestamp, now)}
				}
			}
			c.Items[itemName] = it
		}
		s.Categories[name] = c
	}
	return s, nil
}

func orNow(t *time.Time, now time.Time) time.Time {
	if t == nil {
		return now
	}
	return *t
}

// FileStore keeps the store in a single JSON file.
type FileStore struct {
	path string
	log  *slog.Logger
	now  func() time.Time
}

func NewFileStore(path string, log *slog.Logger) *FileStore {
	if log == nil {
		log = slog.Default()
	}
	return &FileStore{path: path, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (f *FileStore) Path() string { return f.path }

// Load returns the stored snapshot. An absent or unreadable file yields an
// empty store; the error result is always nil.
func (f *FileStore) Load(ctx context.Context) (*model.Store, error) {
	s, err := f.LoadStrict(ctx)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.log.Info("data file not found, starting empty", "path", f.path)
		return model.NewStore(), nil
	case err != nil:
		f.log.Warn("unusable data file, starting empty", "path", f.path, "error", err)
		return model.NewStore(), nil
	}
	f.log.Debug("loaded data file", "path", f.path, "categories", len(s.Categories))
	return s, nil
}

// LoadStrict is Load without the fallback: a missing, unreadable or malformed
// file is returned as an error.
func (f *FileStore) LoadStrict(ctx context.Context) (*model.Store, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	s, err := Decode(file, f.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return s, nil
}

// Strict returns a view of f whose Load is LoadStrict.
func (f *FileStore) Strict() StrictFileStore { return StrictFileStore{files: f} }

// StrictFileStore loads without falling back to an empty store. Batch jobs
// that overwrite other data from the file use it.
type StrictFileStore struct {
	files *FileStore
}

func (s StrictFileStore) Load(ctx context.Context) (*model.Store, error) {
	return s.files.LoadStrict(ctx)
}

// Save writes s to a temp file next to the target and renames it into place.
func (f *FileStore) Save(ctx context.Context, s *model.Store) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
