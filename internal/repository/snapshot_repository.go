package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"score-tracker/internal/model"
)

// SnapshotRepository stores whole-store snapshots in SQLite. Every Save
// replaces the previous snapshot inside a single transaction.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Counts summarises what the current snapshot holds.
type Counts struct {
	Categories int64
	Items      int64
	Scores     int64
}

func (r *SnapshotRepository) Save(ctx context.Context, s *model.Store) error {
	records := toRecords(s)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{&ScoreRecord{}, &ItemRecord{}, &CategoryRecord{}} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("clear snapshot: %w", err)
			}
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context) (*model.Store, error) {
	var records []CategoryRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Scores", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return fromRecords(records), nil
}

func (r *SnapshotRepository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	db := r.db.WithContext(ctx)
	if err := db.Model(&CategoryRecord{}).Count(&c.Categories).Error; err != nil {
		return c, err
	}
	if err := db.Model(&ItemRecord{}).Count(&c.Items).Error; err != nil {
		return c, err
	}
	if err := db.Model(&ScoreRecord{}).Count(&c.Scores).Error; err != nil {
		return c, err
	}
	return c, nil
}

func toRecords(s *model.Store) []CategoryRecord {
	records := make([]CategoryRecord, 0, len(s.Categories))
	for _, name := range s.CategoryNamesAlpha() {
		c := s.Categories[name]
		cr := CategoryRecord{Name: name, Created: c.CreatedAt}
		for itemName, it := range c.Items {
			ir := ItemRecord{Name: itemName, DecayRate: it.DecayRate, Touched: it.UpdatedAt}
			for pos, e := range it.Scores {
				ir.Scores = append(ir.Scores, ScoreRecord{Position: pos, Score: e.Score, Timestamp: e.Timestamp})
			}
			cr.Items = append(cr.Items, ir)
		}
		records = append(records, cr)
	}
	return records
}

func fromRecords(records []CategoryRecord) *model.Store {
	s := model.NewStore()
	for _, cr := range records {
		c := &model.Category{CreatedAt: cr.Created, Items: make(map[string]*model.Item, len(cr.Items))}
		for _, ir := range cr.Items {
			it := &model.Item{DecayRate: ir.DecayRate, UpdatedAt: ir.Touched}
			for _, sr := range ir.Scores {
				it.Scores = append(it.Scores, model.ScoreEntry{Score: sr.Score, Timestamp: sr.Timestamp})
			}
			c.Items[ir.Name] = it
		}
		s.Categories[cr.Name] = c
	}
	return s
}
