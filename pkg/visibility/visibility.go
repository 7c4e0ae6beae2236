package visibility

import (
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/google/uuid"
)

// Decision is the outcome of the article access check.
type Decision string

const (
	DecisionFull        Decision = "FULL"
	DecisionExcerptOnly Decision = "EXCERPT_ONLY"
	DecisionNotFound    Decision = "NOT_FOUND"
)

// Requester describes who is asking. The zero value is an anonymous visitor.
type Requester struct {
	UserID   *uuid.UUID
	Role     enums.Role
	Entitled bool
}

// Anonymous reports whether no identity was supplied.
func (r Requester) Anonymous() bool {
	return r.UserID == nil
}

// IsAdmin reports whether the requester holds the admin role.
func (r Requester) IsAdmin() bool {
	return !r.Anonymous() && r.Role.IsAdmin()
}

// IsAuthorOf reports whether the requester wrote the article.
func (r Requester) IsAuthorOf(article *models.Article) bool {
	return article != nil && r.UserID != nil && *r.UserID == article.AuthorID
}

// CanModify reports whether the requester may update or delete the article.
func (r Requester) CanModify(article *models.Article) bool {
	return r.IsAdmin() || r.IsAuthorOf(article)
}

// EffectivePremium reports whether the article is still gated at now.
// Non-permanent premium content becomes free once its release date passes.
func EffectivePremium(article *models.Article, now time.Time) bool {
	if article == nil || !article.IsPremium {
		return false
	}
	if article.IsPermanentPremium || article.PremiumReleaseDate == nil {
		return true
	}
	return now.Before(*article.PremiumReleaseDate)
}

// Decide returns how much of the article the requester may see.
func Decide(article *models.Article, req Requester, now time.Time) Decision {
	if article == nil {
		return DecisionNotFound
	}
	if article.Status != enums.ArticleStatusPublished && !req.IsAdmin() && !req.IsAuthorOf(article) {
		return DecisionNotFound
	}
	if !EffectivePremium(article, now) {
		return DecisionFull
	}
	if req.Entitled || req.IsAdmin() {
		return DecisionFull
	}
	return DecisionExcerptOnly
}
