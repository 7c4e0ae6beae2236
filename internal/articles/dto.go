package articles

import (
	"time"

	"github.com/angelmondragon/footballzones-backend/internal/users"
	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/angelmondragon/footballzones-backend/pkg/visibility"
	"github.com/google/uuid"
)

// ZoneSettingInput configures one zone on create or update.
type ZoneSettingInput struct {
	Zone                 enums.Zone `json:"zone" validate:"required"`
	Visible              *bool      `json:"visible,omitempty"`
	RequiresSubscription bool       `json:"requiresSubscription"`
	FreeAfterDate        *time.Time `json:"freeAfterDate,omitempty"`
}

// CreateArticleRequest is the payload of POST /articles.
type CreateArticleRequest struct {
	Title              string                `json:"title" validate:"required,min=3,max=200"`
	Slug               *string               `json:"slug,omitempty" validate:"omitempty,max=220"`
	Excerpt            string                `json:"excerpt" validate:"required,max=500"`
	Content            string                `json:"content" validate:"required"`
	FeaturedImageURL   *string               `json:"featuredImageUrl,omitempty" validate:"omitempty,url"`
	Category           enums.ArticleCategory `json:"category" validate:"required"`
	Tags               []string              `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
	Status             *enums.ArticleStatus  `json:"status,omitempty"`
	IsPremium          bool                  `json:"isPremium"`
	IsPermanentPremium bool                  `json:"isPermanentPremium"`
	PremiumReleaseDate *time.Time            `json:"premiumReleaseDate,omitempty"`
	ReadTime           *int                  `json:"readTime,omitempty" validate:"omitempty,min=1,max=600"`
	CustomOrder        *int                  `json:"customOrder,omitempty"`
	Zones              []ZoneSettingInput    `json:"zones" validate:"required,min=1,max=5,dive"`
}

// UpdateArticleRequest is the payload of PUT /articles/{id}. Nil fields are left unchanged.
type UpdateArticleRequest struct {
	Title              *string                `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Slug               *string                `json:"slug,omitempty" validate:"omitempty,max=220"`
	Excerpt            *string                `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Content            *string                `json:"content,omitempty" validate:"omitempty,min=1"`
	FeaturedImageURL   *string                `json:"featuredImageUrl,omitempty" validate:"omitempty,url"`
	Category           *enums.ArticleCategory `json:"category,omitempty"`
	Tags               []string               `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Status             *enums.ArticleStatus   `json:"status,omitempty"`
	IsPremium          *bool                  `json:"isPremium,omitempty"`
	IsPermanentPremium *bool                  `json:"isPermanentPremium,omitempty"`
	PremiumReleaseDate *time.Time             `json:"premiumReleaseDate,omitempty"`
	ClearReleaseDate   bool                   `json:"clearPremiumReleaseDate,omitempty"`
	ReadTime           *int                   `json:"readTime,omitempty" validate:"omitempty,min=1,max=600"`
	CustomOrder        *int                   `json:"customOrder,omitempty"`
	Zones              []ZoneSettingInput     `json:"zones,omitempty" validate:"omitempty,min=1,max=5,dive"`
}

// ZoneSettingDTO is the public shape of a zone setting.
type ZoneSettingDTO struct {
	Zone                 enums.Zone `json:"zone"`
	Visible              bool       `json:"visible"`
	RequiresSubscription bool       `json:"requiresSubscription"`
	FreeAfterDate        *time.Time `json:"freeAfterDate,omitempty"`
}

// ArticleDTO is the response body for a single article. Content is empty for excerpt-only access.
type ArticleDTO struct {
	ID                 uuid.UUID             `json:"id"`
	Slug               string                `json:"slug"`
	Title              string                `json:"title"`
	Excerpt            string                `json:"excerpt"`
	Content            string                `json:"content,omitempty"`
	FeaturedImageURL   *string               `json:"featuredImageUrl,omitempty"`
	Category           enums.ArticleCategory `json:"category"`
	Tags               []string              `json:"tags"`
	Status             enums.ArticleStatus   `json:"status"`
	IsPremium          bool                  `json:"isPremium"`
	IsPermanentPremium bool                  `json:"isPermanentPremium"`
	PremiumReleaseDate *time.Time            `json:"premiumReleaseDate,omitempty"`
	ReadTime           int                   `json:"readTime"`
	CustomOrder        *int                  `json:"customOrder,omitempty"`
	ViewCount          int64                 `json:"viewCount"`
	Access             visibility.Decision   `json:"access"`
	Author             *users.AuthorDTO      `json:"author,omitempty"`
	Zones              []ZoneSettingDTO      `json:"zones"`
	PublishedAt        *time.Time            `json:"publishedAt,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// FromModel projects an article for a requester given the access decision.
func FromModel(a *models.Article, decision visibility.Decision) ArticleDTO {
	dto := ArticleDTO{
		ID:                 a.ID,
		Slug:               a.Slug,
		Title:              a.Title,
		Excerpt:            a.Excerpt,
		FeaturedImageURL:   a.FeaturedImageURL,
		Category:           a.Category,
		Tags:               append([]string{}, a.Tags...),
		Status:             a.Status,
		IsPremium:          a.IsPremium,
		IsPermanentPremium: a.IsPermanentPremium,
		PremiumReleaseDate: a.PremiumReleaseDate,
		ReadTime:           a.ReadTime,
		CustomOrder:        a.CustomOrder,
		ViewCount:          a.ViewCount,
		Access:             decision,
		Author:             users.AuthorFromModel(a.Author),
		Zones:              make([]ZoneSettingDTO, 0, len(a.Zones)),
		PublishedAt:        a.PublishedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if decision == visibility.DecisionFull {
		dto.Content = a.Content
	}
	for _, z := range a.Zones {
		dto.Zones = append(dto.Zones, ZoneSettingDTO{
			Zone:                 z.Zone,
			Visible:              z.Visible,
			RequiresSubscription: z.RequiresSubscription,
			FreeAfterDate:        z.FreeAfterDate,
		})
	}
	return dto
}

func zoneModels(articleID uuid.UUID, inputs []ZoneSettingInput) []models.ArticleZoneSetting {
	out := make([]models.ArticleZoneSetting, 0, len(inputs))
	for _, in := range inputs {
		visible := true
		if in.Visible != nil {
			visible = *in.Visible
		}
		out = append(out, models.ArticleZoneSetting{
			ArticleID:            articleID,
			Zone:                 in.Zone,
			Visible:              visible,
			RequiresSubscription: in.RequiresSubscription,
			FreeAfterDate:        in.FreeAfterDate,
		})
	}
	return out
}
