package views

import (
	"context"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists view events.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts the event and bumps the article's view counter atomically.
func (r *Repository) Record(ctx context.Context, event *models.ViewEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Article{}).
			Where("id = ?", event.ArticleID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteOlderThan removes events created before cutoff and returns how many went.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ViewEvent{})
	return res.RowsAffected, res.Error
}

// CountForArticle returns the number of stored events for an article.
func (r *Repository) CountForArticle(ctx context.Context, articleID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ViewEvent{}).Where("article_id = ?", articleID).Count(&n).Error
	return n, err
}
