package enums

import (
	"fmt"
	"strings"
)

// ArticleStatus tracks the editorial lifecycle of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"
	ArticleStatusPublished ArticleStatus = "PUBLISHED"
	ArticleStatusArchived  ArticleStatus = "ARCHIVED"
)

var validArticleStatuses = []ArticleStatus{
	ArticleStatusDraft,
	ArticleStatusPublished,
	ArticleStatusArchived,
}

func (s ArticleStatus) String() string {
	return string(s)
}

func (s ArticleStatus) IsValid() bool {
	for _, candidate := range validArticleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseArticleStatus(value string) (ArticleStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validArticleStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid article status %q", value)
}
