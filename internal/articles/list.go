package articles

import (
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
)

// SortField names the columns listings can be ordered by.
type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortUpdatedAt   SortField = "updatedAt"
	SortPublishedAt SortField = "publishedAt"
	SortTitle       SortField = "title"
	SortViewCount   SortField = "viewCount"
	SortReadTime    SortField = "readTime"
	SortCustomOrder SortField = "customOrder"
)

var sortColumns = map[SortField]string{
	SortCreatedAt:   "articles.created_at",
	SortUpdatedAt:   "articles.updated_at",
	SortPublishedAt: "articles.published_at",
	SortTitle:       "articles.title",
	SortViewCount:   "articles.view_count",
	SortReadTime:    "articles.read_time",
	SortCustomOrder: "articles.custom_order",
}

// IsValid reports whether the field can be sorted on.
func (f SortField) IsValid() bool {
	_, ok := sortColumns[f]
	return ok
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// ListFilters is a partial filter: each clause applies only when its field is set.
type ListFilters struct {
	Category  *enums.ArticleCategory `json:"category,omitempty"`
	Zone      *enums.Zone            `json:"zone,omitempty"`
	IsPremium *bool                  `json:"isPremium,omitempty"`
	Status    *enums.ArticleStatus   `json:"status,omitempty"`
	Search    *string                `json:"search,omitempty"`
}

// Sort is the resolved ordering for a listing.
type Sort struct {
	By    SortField `json:"sortBy"`
	Order SortOrder `json:"sortOrder"`
}

// DefaultSort orders newest first.
var DefaultSort = Sort{By: SortCreatedAt, Order: SortDesc}

// ListQuery is the full input of a listing request.
type ListQuery struct {
	Filters    ListFilters
	Sort       Sort
	Pagination pagination.Params
}

// ListResult is the paginated output handed to controllers.
type ListResult struct {
	Items      []ArticleDTO    `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
	Query      QueryEcho       `json:"query"`
}

// QueryEcho reports the filters that were actually applied.
type QueryEcho struct {
	ListFilters
	Sort
}
