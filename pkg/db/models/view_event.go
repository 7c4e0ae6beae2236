package models

import (
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViewEvent is one recorded read of an article. Rows are append-only.
type ViewEvent struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ArticleID         uuid.UUID        `gorm:"column:article_id;type:uuid;not null;index"`
	SessionID         string           `gorm:"column:session_id;not null"`
	UserID            *uuid.UUID       `gorm:"column:user_id;type:uuid"`
	ViewDuration      int              `gorm:"column:view_duration;not null"`
	CompletionPercent int              `gorm:"column:completion_percent;not null"`
	Referrer          *string          `gorm:"column:referrer"`
	DeviceType        enums.DeviceType `gorm:"column:device_type;type:text;not null"`
	IPAddress         *string          `gorm:"column:ip_address"`
	UserAgent         *string          `gorm:"column:user_agent"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime;index"`
}

func (ViewEvent) TableName() string { return "view_events" }

func (v *ViewEvent) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
