package models

import (
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleZoneSetting controls how an article appears inside a single zone.
type ArticleZoneSetting struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ArticleID            uuid.UUID  `gorm:"column:article_id;type:uuid;not null;uniqueIndex:idx_article_zone"`
	Zone                 enums.Zone `gorm:"column:zone;type:text;not null;uniqueIndex:idx_article_zone"`
	Visible              bool       `gorm:"column:visible;not null"`
	RequiresSubscription bool       `gorm:"column:requires_subscription;not null"`
	FreeAfterDate        *time.Time `gorm:"column:free_after_date"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ArticleZoneSetting) TableName() string { return "article_zone_settings" }

func (z *ArticleZoneSetting) BeforeCreate(*gorm.DB) error {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return nil
}
