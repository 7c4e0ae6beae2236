package articles

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/footballzones-backend/internal/users"
	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, conn *gorm.DB, role enums.Role) *models.User {
	t.Helper()
	user, err := users.NewRepository(conn).Create(context.Background(), users.CreateUserDTO{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Name:         "Автор",
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

type articleOpt func(*models.Article)

func withStatus(s enums.ArticleStatus) articleOpt {
	return func(a *models.Article) { a.Status = s }
}

func withPremium(permanent bool, release *time.Time) articleOpt {
	return func(a *models.Article) {
		a.IsPremium = true
		a.IsPermanentPremium = permanent
		a.PremiumReleaseDate = release
	}
}

func withZones(zones ...enums.Zone) articleOpt {
	return func(a *models.Article) {
		a.Zones = nil
		for _, z := range zones {
			a.Zones = append(a.Zones, models.ArticleZoneSetting{Zone: z, Visible: true})
		}
	}
}

func withContent(content string) articleOpt {
	return func(a *models.Article) { a.Content = content }
}

func seedArticle(t *testing.T, repo *Repository, author *models.User, title string, opts ...articleOpt) *models.Article {
	t.Helper()
	now := time.Now().UTC()
	a := &models.Article{
		ID:          uuid.New(),
		Slug:        BaseSlug(title) + "-" + uuid.NewString()[:6],
		Title:       title,
		Excerpt:     "Кратко описание",
		Content:     "<p>Съдържание</p>",
		Category:    enums.ArticleCategoryTactics,
		Tags:        pq.StringArray{},
		Status:      enums.ArticleStatusPublished,
		ReadTime:    1,
		AuthorID:    author.ID,
		PublishedAt: &now,
	}
	withZones(enums.ZoneRead)(a)
	for _, opt := range opts {
		opt(a)
	}
	if a.Status != enums.ArticleStatusPublished {
		a.PublishedAt = nil
	}
	for i := range a.Zones {
		a.Zones[i].ArticleID = a.ID
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}
