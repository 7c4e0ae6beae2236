package articles

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/angelmondragon/footballzones-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	slugLanguage    = "bg"
	maxSlugLength   = 200
	maxSlugAttempts = 50
	wordsPerMinute  = 200
)

type slugChecker interface {
	SlugExists(ctx context.Context, value string, excludeID *uuid.UUID) (bool, error)
}

// BaseSlug transliterates title into a URL-safe slug.
func BaseSlug(title string) string {
	s := slug.MakeLang(title, slugLanguage)
	if len(s) > maxSlugLength {
		s = strings.Trim(s[:maxSlugLength], "-")
	}
	return s
}

// uniqueSlug returns base, or base-N for the first N with no existing article.
func uniqueSlug(ctx context.Context, repo slugChecker, base string, excludeID *uuid.UUID) (string, error) {
	if base == "" {
		base = "article"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

// EstimateReadTime returns whole minutes at 200 words per minute, never less than one.
func EstimateReadTime(content string) int {
	// pad tags so adjacent block elements do not glue words together
	words := len(strings.Fields(security.StripTags(strings.ReplaceAll(content, "<", " <"))))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
