package articles

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlugConstraint is the unique constraint guarding articles.slug.
const SlugConstraint = "articles_slug_key"

// effectivePremiumClause matches rows still gated at the bound instant.
const effectivePremiumClause = "(articles.is_premium = ? AND (articles.is_permanent_premium = ? OR articles.premium_release_date IS NULL OR articles.premium_release_date > ?))"

const zoneVisibleClause = "EXISTS (SELECT 1 FROM article_zone_settings z WHERE z.article_id = articles.id AND z.zone = ? AND z.visible = ?)"

// Repository wires together article persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns one page of articles matching filters plus the filtered total.
func (r *Repository) List(ctx context.Context, filters ListFilters, sort Sort, page pagination.Params, now time.Time) ([]models.Article, int64, error) {
	qb := applyFilters(r.db.WithContext(ctx).Model(&models.Article{}), filters, now)

	var total int64
	if err := qb.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Article{}, 0, nil
	}

	page = page.Normalize()
	var items []models.Article
	err := orderBy(qb.Session(&gorm.Session{}), sort).
		Preload("Author").
		Preload("Zones", func(db *gorm.DB) *gorm.DB { return db.Order("zone ASC") }).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func applyFilters(qb *gorm.DB, f ListFilters, now time.Time) *gorm.DB {
	if f.Status != nil {
		qb = qb.Where("articles.status = ?", *f.Status)
	}
	if f.Category != nil {
		qb = qb.Where("articles.category = ?", *f.Category)
	}
	if f.Zone != nil {
		qb = qb.Where(zoneVisibleClause, *f.Zone, true)
	}
	if f.IsPremium != nil {
		if *f.IsPremium {
			qb = qb.Where(effectivePremiumClause, true, true, now)
		} else {
			qb = qb.Where("NOT "+effectivePremiumClause, true, true, now)
		}
	}
	if f.Search != nil {
		if term := strings.TrimSpace(*f.Search); term != "" {
			lowered := strings.ToLower(term)
			pattern := "%" + escapeLike(lowered) + "%"
			// sanitized content keeps quotes and ampersands as entities
			encoded := "%" + escapeLike(html.EscapeString(lowered)) + "%"
			qb = qb.Where(`(LOWER(articles.title) LIKE ? ESCAPE '\' OR LOWER(articles.content) LIKE ? ESCAPE '\' OR LOWER(articles.content) LIKE ? ESCAPE '\')`, pattern, pattern, encoded)
		}
	}
	return qb
}

func orderBy(qb *gorm.DB, sort Sort) *gorm.DB {
	if !sort.By.IsValid() {
		sort.By = DefaultSort.By
	}
	dir := "DESC"
	if sort.Order == SortAsc {
		dir = "ASC"
	}
	column := sortColumns[sort.By]
	// nullable sort keys always go last
	if sort.By == SortCustomOrder || sort.By == SortPublishedAt {
		qb = qb.Order("CASE WHEN " + column + " IS NULL THEN 1 ELSE 0 END")
	}
	return qb.Order(column + " " + dir).Order("articles.id ASC")
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// FindBySlug loads an article with author and zones.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.findOne(ctx, "articles.slug = ?", slug)
}

// FindByID loads an article with author and zones.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return r.findOne(ctx, "articles.id = ?", id)
}

func (r *Repository) findOne(ctx context.Context, clause string, arg any) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Zones", func(db *gorm.DB) *gorm.DB { return db.Order("zone ASC") }).
		Where(clause, arg).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// SlugExists reports whether another article already uses value.
func (r *Repository) SlugExists(ctx context.Context, value string, excludeID *uuid.UUID) (bool, error) {
	qb := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", value)
	if excludeID != nil {
		qb = qb.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the article row followed by its zone settings.
func (r *Repository) Create(ctx context.Context, article *models.Article) error {
	zones := article.Zones
	article.Zones = nil
	if err := r.db.WithContext(ctx).Omit("Author", "Zones").Create(article).Error; err != nil {
		return err
	}
	if err := r.ReplaceZones(ctx, article.ID, zones); err != nil {
		return err
	}
	article.Zones = zones
	return nil
}

// Update writes every column of article. Concurrent edits are last-write-wins.
func (r *Repository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Omit("Author", "Zones").Save(article).Error
}

// ReplaceZones swaps the zone settings of an article.
func (r *Repository) ReplaceZones(ctx context.Context, articleID uuid.UUID, zones []models.ArticleZoneSetting) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("article_id = ?", articleID).Delete(&models.ArticleZoneSetting{}).Error; err != nil {
		return err
	}
	if len(zones) == 0 {
		return nil
	}
	for i := range zones {
		zones[i].ArticleID = articleID
		zones[i].ID = uuid.Nil
	}
	return tx.Create(&zones).Error
}

// Delete hard-deletes the article and its dependent rows. It returns gorm.ErrRecordNotFound
// when nothing matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("article_id = ?", id).Delete(&models.ViewEvent{}).Error; err != nil {
		return err
	}
	if err := tx.Where("article_id = ?", id).Delete(&models.ArticleZoneSetting{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", id).Delete(&models.Article{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReleaseExpiredPremium turns aged, non-permanent premium articles into free ones.
func (r *Repository) ReleaseExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("is_premium = ? AND is_permanent_premium = ? AND premium_release_date IS NOT NULL AND premium_release_date <= ?", true, false, now).
		Updates(map[string]any{"is_premium": false, "updated_at": now})
	return res.RowsAffected, res.Error
}
