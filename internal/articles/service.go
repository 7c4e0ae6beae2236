package articles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/footballzones-backend/internal/subscriptions"
	"github.com/angelmondragon/footballzones-backend/pkg/db"
	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
	"github.com/angelmondragon/footballzones-backend/pkg/security"
	"github.com/angelmondragon/footballzones-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	maxZonesPerArticle = 5
	notFoundMessage    = "article not found"
)

// Service is the article use-case surface consumed by controllers.
type Service interface {
	List(ctx context.Context, req visibility.Requester, query ListQuery) (*ListResult, error)
	Search(ctx context.Context, req visibility.Requester, term string, query ListQuery) (*ListResult, error)
	GetBySlug(ctx context.Context, req visibility.Requester, slug string) (*ArticleDTO, error)
	Create(ctx context.Context, actor visibility.Requester, in CreateArticleRequest) (*ArticleDTO, error)
	Update(ctx context.Context, actor visibility.Requester, id uuid.UUID, in UpdateArticleRequest) (*ArticleDTO, error)
	Delete(ctx context.Context, actor visibility.Requester, id uuid.UUID) error
	EnsureReadable(ctx context.Context, req visibility.Requester, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build the article service.
type ServiceParams struct {
	DB           txRunner
	Repo         *Repository
	Entitlements subscriptions.EntitlementChecker
	Sanitizer    *security.ContentSanitizer
	Logger       *logger.Logger
	Now          func() time.Time
}

type service struct {
	db           txRunner
	repo         *Repository
	entitlements subscriptions.EntitlementChecker
	sanitizer    *security.ContentSanitizer
	logg         *logger.Logger
	now          func() time.Time
}

// NewService validates params and constructs the article service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("article repository is required")
	}
	if params.Entitlements == nil {
		params.Entitlements = subscriptions.NewRoleEntitlements()
	}
	if params.Sanitizer == nil {
		params.Sanitizer = security.NewContentSanitizer()
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:           params.DB,
		repo:         params.Repo,
		entitlements: params.Entitlements,
		sanitizer:    params.Sanitizer,
		logg:         params.Logger,
		now:          params.Now,
	}, nil
}

func (s *service) List(ctx context.Context, req visibility.Requester, query ListQuery) (*ListResult, error) {
	if err := validateQuery(&query); err != nil {
		return nil, err
	}
	if !req.IsAdmin() || query.Filters.Status == nil {
		published := enums.ArticleStatusPublished
		query.Filters.Status = &published
	}

	req, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items, total, err := s.repo.List(ctx, query.Filters, query.Sort, query.Pagination, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list articles")
	}

	out := make([]ArticleDTO, 0, len(items))
	for i := range items {
		decision := visibility.Decide(&items[i], req, now)
		if decision == visibility.DecisionNotFound {
			continue
		}
		out = append(out, FromModel(&items[i], decision))
	}

	return &ListResult{
		Items:      out,
		Pagination: pagination.NewMeta(query.Pagination, total),
		Query:      QueryEcho{ListFilters: query.Filters, Sort: query.Sort},
	}, nil
}

func (s *service) Search(ctx context.Context, req visibility.Requester, term string, query ListQuery) (*ListResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Search query required").
			WithDetails([]pkgerrors.FieldError{{Field: "q", Message: "required"}})
	}
	query.Filters.Search = &term
	return s.List(ctx, req, query)
}

func (s *service) GetBySlug(ctx context.Context, req visibility.Requester, value string) (*ArticleDTO, error) {
	article, err := s.repo.FindBySlug(ctx, strings.TrimSpace(value))
	if err != nil {
		return nil, s.lookupError(err)
	}
	req, err = s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	decision := visibility.Decide(article, req, s.now())
	if decision == visibility.DecisionNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	dto := FromModel(article, decision)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, actor visibility.Requester, in CreateArticleRequest) (*ArticleDTO, error) {
	if actor.Anonymous() || !actor.Role.CanAuthor() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only coaches and admins can create articles")
	}

	status := enums.ArticleStatusDraft
	if in.Status != nil {
		status = *in.Status
	}
	var fields []pkgerrors.FieldError
	if !in.Category.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "category", Message: "invalid category"})
	}
	if !status.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "status", Message: "invalid status"})
	}
	if in.IsPermanentPremium && !in.IsPremium {
		fields = append(fields, pkgerrors.FieldError{Field: "isPermanentPremium", Message: "requires isPremium"})
	}
	fields = append(fields, validateZones(in.Zones)...)
	if len(fields) > 0 {
		return nil, validationError(fields)
	}

	now := s.now()
	article := &models.Article{
		ID:                 uuid.New(),
		Title:              security.StripTags(in.Title),
		Excerpt:            security.StripTags(in.Excerpt),
		Content:            s.sanitizer.Sanitize(in.Content),
		FeaturedImageURL:   in.FeaturedImageURL,
		Category:           in.Category,
		Tags:               normalizeTags(in.Tags),
		Status:             status,
		IsPremium:          in.IsPremium,
		IsPermanentPremium: in.IsPermanentPremium,
		PremiumReleaseDate: utcPtr(in.PremiumReleaseDate),
		CustomOrder:        in.CustomOrder,
		AuthorID:           *actor.UserID,
	}
	article.ReadTime = readTimeOrEstimate(in.ReadTime, article.Content)
	if status == enums.ArticleStatusPublished {
		article.PublishedAt = &now
	}
	article.Zones = zoneModels(article.ID, in.Zones)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		value, err := s.pickSlug(ctx, repo, in.Slug, article.Title, nil)
		if err != nil {
			return err
		}
		article.Slug = value
		return repo.Create(ctx, article)
	})
	if err != nil {
		return nil, s.writeError(err, "create article")
	}

	s.logInfo(ctx, article.ID, "article created")
	return s.reload(ctx, article.ID)
}

func (s *service) Update(ctx context.Context, actor visibility.Requester, id uuid.UUID, in UpdateArticleRequest) (*ArticleDTO, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	if !actor.CanModify(article) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author or an admin can modify this article")
	}

	fields := applyUpdate(article, in, s.sanitizer, s.now())
	if in.Zones != nil {
		fields = append(fields, validateZones(in.Zones)...)
	}
	if len(fields) > 0 {
		return nil, validationError(fields)
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if in.Slug != nil {
			value, err := s.pickSlug(ctx, repo, in.Slug, article.Title, &article.ID)
			if err != nil {
				return err
			}
			article.Slug = value
		}
		if err := repo.Update(ctx, article); err != nil {
			return err
		}
		if in.Zones != nil {
			return repo.ReplaceZones(ctx, article.ID, zoneModels(article.ID, in.Zones))
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "update article")
	}

	s.logInfo(ctx, article.ID, "article updated")
	return s.reload(ctx, article.ID)
}

func (s *service) Delete(ctx context.Context, actor visibility.Requester, id uuid.UUID) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(err)
	}
	if !actor.CanModify(article) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author or an admin can delete this article")
	}
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete article")
	}
	s.logInfo(ctx, id, "article deleted")
	return nil
}

// EnsureReadable succeeds only when req could read the article, so tracking never
// touches drafts or archived rows the caller cannot see.
func (s *service) EnsureReadable(ctx context.Context, req visibility.Requester, id uuid.UUID) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.lookupError(err)
	}
	req, err = s.resolve(ctx, req)
	if err != nil {
		return err
	}
	if visibility.Decide(article, req, s.now()) == visibility.DecisionNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return nil
}

func (s *service) resolve(ctx context.Context, req visibility.Requester) (visibility.Requester, error) {
	if req.Anonymous() || req.Entitled {
		return req, nil
	}
	ok, err := s.entitlements.Entitled(ctx, *req.UserID, req.Role)
	if err != nil {
		return req, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve entitlement")
	}
	req.Entitled = ok
	return req, nil
}

func (s *service) pickSlug(ctx context.Context, repo *Repository, explicit *string, title string, excludeID *uuid.UUID) (string, error) {
	if explicit == nil || strings.TrimSpace(*explicit) == "" {
		value, err := uniqueSlug(ctx, repo, BaseSlug(title), excludeID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
		}
		return value, nil
	}

	value := strings.ToLower(strings.TrimSpace(*explicit))
	if !slug.IsSlug(value) {
		return "", validationError([]pkgerrors.FieldError{{Field: "slug", Message: "must contain only lowercase letters, digits and hyphens"}})
	}
	exists, err := repo.SlugExists(ctx, value, excludeID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if exists {
		return "", pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	}
	return value, nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	dto := FromModel(article, visibility.DecisionFull)
	return &dto, nil
}

func (s *service) lookupError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load article")
}

func (s *service) writeError(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug or zone already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func (s *service) logInfo(ctx context.Context, id uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithArticleID(ctx, id.String()), msg)
}

func applyUpdate(article *models.Article, in UpdateArticleRequest, sanitizer *security.ContentSanitizer, now time.Time) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError
	if in.Title != nil {
		article.Title = security.StripTags(*in.Title)
	}
	if in.Excerpt != nil {
		article.Excerpt = security.StripTags(*in.Excerpt)
	}
	if in.Content != nil {
		article.Content = sanitizer.Sanitize(*in.Content)
		if in.ReadTime == nil {
			article.ReadTime = EstimateReadTime(article.Content)
		}
	}
	if in.ReadTime != nil {
		article.ReadTime = *in.ReadTime
	}
	if in.FeaturedImageURL != nil {
		article.FeaturedImageURL = in.FeaturedImageURL
	}
	if in.Category != nil {
		if !in.Category.IsValid() {
			fields = append(fields, pkgerrors.FieldError{Field: "category", Message: "invalid category"})
		}
		article.Category = *in.Category
	}
	if in.Tags != nil {
		article.Tags = normalizeTags(in.Tags)
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			fields = append(fields, pkgerrors.FieldError{Field: "status", Message: "invalid status"})
		}
		article.Status = *in.Status
		if article.Status == enums.ArticleStatusPublished && article.PublishedAt == nil {
			article.PublishedAt = &now
		}
	}
	if in.IsPremium != nil {
		article.IsPremium = *in.IsPremium
	}
	if in.IsPermanentPremium != nil {
		article.IsPermanentPremium = *in.IsPermanentPremium
	}
	if in.ClearReleaseDate {
		article.PremiumReleaseDate = nil
	} else if in.PremiumReleaseDate != nil {
		article.PremiumReleaseDate = utcPtr(in.PremiumReleaseDate)
	}
	if in.CustomOrder != nil {
		article.CustomOrder = in.CustomOrder
	}
	if article.IsPermanentPremium && !article.IsPremium {
		fields = append(fields, pkgerrors.FieldError{Field: "isPermanentPremium", Message: "requires isPremium"})
	}
	return fields
}

func validateQuery(query *ListQuery) error {
	var fields []pkgerrors.FieldError
	if err := query.Pagination.Validate(); err != nil {
		fields = append(fields, pkgerrors.FieldError{Field: "pagination", Message: err.Error()})
	}
	query.Pagination = query.Pagination.Normalize()

	if query.Sort.By == "" {
		query.Sort.By = DefaultSort.By
	}
	if query.Sort.Order == "" {
		query.Sort.Order = DefaultSort.Order
	}
	if !query.Sort.By.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "sortBy", Message: "unsupported sort field"})
	}
	if !query.Sort.Order.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "sortOrder", Message: "must be asc or desc"})
	}

	f := query.Filters
	if f.Category != nil && !f.Category.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "category", Message: "invalid category"})
	}
	if f.Zone != nil && !f.Zone.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "zone", Message: "invalid zone"})
	}
	if f.Status != nil && !f.Status.IsValid() {
		fields = append(fields, pkgerrors.FieldError{Field: "status", Message: "invalid status"})
	}
	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func validateZones(zones []ZoneSettingInput) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError
	if len(zones) == 0 || len(zones) > maxZonesPerArticle {
		fields = append(fields, pkgerrors.FieldError{Field: "zones", Message: fmt.Sprintf("between 1 and %d zones are required", maxZonesPerArticle)})
	}
	seen := map[enums.Zone]struct{}{}
	for i, z := range zones {
		field := fmt.Sprintf("zones[%d].zone", i)
		if !z.Zone.IsValid() {
			fields = append(fields, pkgerrors.FieldError{Field: field, Message: "invalid zone"})
			continue
		}
		if _, dup := seen[z.Zone]; dup {
			fields = append(fields, pkgerrors.FieldError{Field: field, Message: "duplicate zone"})
		}
		seen[z.Zone] = struct{}{}
	}
	return fields
}

func validationError(fields []pkgerrors.FieldError) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
}

func normalizeTags(tags []string) pq.StringArray {
	out := pq.StringArray{}
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func readTimeOrEstimate(value *int, content string) int {
	if value != nil && *value > 0 {
		return *value
	}
	return EstimateReadTime(content)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
