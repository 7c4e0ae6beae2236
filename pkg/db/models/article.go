package models

import (
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Article is an editorial piece, optionally premium-gated and surfaced in one or more zones.
type Article struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Slug               string                `gorm:"column:slug;type:text;not null;uniqueIndex"`
	Title              string                `gorm:"column:title;not null"`
	Excerpt            string                `gorm:"column:excerpt;not null"`
	Content            string                `gorm:"column:content;not null"`
	FeaturedImageURL   *string               `gorm:"column:featured_image_url"`
	Category           enums.ArticleCategory `gorm:"column:category;type:text;not null"`
	Tags               pq.StringArray        `gorm:"column:tags;type:text[];not null"`
	Status             enums.ArticleStatus   `gorm:"column:status;type:text;not null"`
	IsPremium          bool                  `gorm:"column:is_premium;not null"`
	IsPermanentPremium bool                  `gorm:"column:is_permanent_premium;not null"`
	PremiumReleaseDate *time.Time            `gorm:"column:premium_release_date"`
	ReadTime           int                   `gorm:"column:read_time;not null"`
	CustomOrder        *int                  `gorm:"column:custom_order"`
	ViewCount          int64                 `gorm:"column:view_count;not null"`
	AuthorID           uuid.UUID             `gorm:"column:author_id;type:uuid;not null"`
	Author             *User                 `gorm:"foreignKey:AuthorID"`
	Zones              []ArticleZoneSetting  `gorm:"foreignKey:ArticleID"`
	PublishedAt        *time.Time            `gorm:"column:published_at"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Article) TableName() string { return "articles" }

func (a *Article) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsPublished reports whether the article is publicly visible.
func (a *Article) IsPublished() bool {
	return a != nil && a.Status == enums.ArticleStatusPublished
}
