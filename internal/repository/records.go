package repository

import "time"

// CategoryRecord is the row form of a category.
type CategoryRecord struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"uniqueIndex"`
	Created time.Time
	Items   []ItemRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (CategoryRecord) TableName() string { return "categories" }

// ItemRecord is the row form of an item; names are unique per category.
type ItemRecord struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"index:idx_category_item_name,unique"`
	Name       string `gorm:"index:idx_category_item_name,unique"`
	DecayRate  float64
	Touched    time.Time
	Scores     []ScoreRecord `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

func (ItemRecord) TableName() string { return "items" }

// ScoreRecord keeps the insertion position explicitly so reloads preserve order.
type ScoreRecord struct {
	ID        uint `gorm:"primaryKey"`
	ItemID    uint `gorm:"index"`
	Position  int
	Score     int64
	Timestamp time.Time
}

func (ScoreRecord) TableName() string { return "scores" }
