package articles

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/db/dbtest"
	"github.com/angelmondragon/footballzones-backend/pkg/db/models"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
	"github.com/angelmondragon/footballzones-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	svc  Service
	repo *Repository
	conn *gorm.DB
	now  time.Time
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	now := time.Now().UTC()
	svc, err := NewService(ServiceParams{
		DB:   client,
		Repo: repo,
		Now:  func() time.Time { return now },
	})
	require.NoError(t, err)
	return serviceFixture{svc: svc, repo: repo, conn: client.DB(), now: now}
}

func requesterFor(u *models.User) visibility.Requester {
	id := u.ID
	return visibility.Requester{UserID: &id, Role: u.Role}
}

func validCreate(title string) CreateArticleRequest {
	return CreateArticleRequest{
		Title:    title,
		Excerpt:  "Кратко",
		Content:  "<p>Първи абзац</p><script>alert(1)</script><p>Втори</p>",
		Category: enums.ArticleCategoryTactics,
		Tags:     []string{" pressing ", "Pressing", "", "youth"},
		Zones:    []ZoneSettingInput{{Zone: enums.ZoneCoach}},
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestListHidesDraftsFromNonAdmins(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	admin := seedUser(t, f.conn, enums.RoleAdmin)
	seedArticle(t, f.repo, author, "Live")
	seedArticle(t, f.repo, author, "Hidden", withStatus(enums.ArticleStatusDraft))

	draft := enums.ArticleStatusDraft
	res, err := f.svc.List(context.Background(), visibility.Requester{}, ListQuery{Filters: ListFilters{Status: &draft}})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Live", res.Items[0].Title)
	assert.Equal(t, enums.ArticleStatusPublished, *res.Query.Status)

	res, err = f.svc.List(context.Background(), requesterFor(admin), ListQuery{Filters: ListFilters{Status: &draft}})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Hidden", res.Items[0].Title)
}

func TestListPremiumExcerptByEntitlement(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	free := seedUser(t, f.conn, enums.RoleFree)
	player := seedUser(t, f.conn, enums.RolePlayer)
	seedArticle(t, f.repo, author, "Premium", withPremium(true, nil))

	cases := []struct {
		name   string
		req    visibility.Requester
		access visibility.Decision
	}{
		{"anonymous", visibility.Requester{}, visibility.DecisionExcerptOnly},
		{"free", requesterFor(free), visibility.DecisionExcerptOnly},
		{"player", requesterFor(player), visibility.DecisionFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.svc.List(context.Background(), tc.req, ListQuery{})
			require.NoError(t, err)
			require.Len(t, res.Items, 1)
			item := res.Items[0]
			assert.Equal(t, tc.access, item.Access)
			if tc.access == visibility.DecisionFull {
				assert.NotEmpty(t, item.Content)
			} else {
				assert.Empty(t, item.Content)
				assert.NotEmpty(t, item.Excerpt)
			}
		})
	}
}

func TestListPaginationMeta(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	for i := 0; i < 5; i++ {
		seedArticle(t, f.repo, author, "Item")
	}

	res, err := f.svc.List(context.Background(), visibility.Requester{}, ListQuery{Pagination: pagination.Params{Page: 3, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, pagination.Meta{Page: 3, Limit: 2, Total: 5, Pages: 3}, res.Pagination)
	assert.Equal(t, DefaultSort, res.Query.Sort)
}

func TestListRejectsBadQuery(t *testing.T) {
	f := newServiceFixture(t)
	zone := enums.Zone("STADIUM")

	_, err := f.svc.List(context.Background(), visibility.Requester{}, ListQuery{Sort: Sort{By: "popularity"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.List(context.Background(), visibility.Requester{}, ListQuery{Filters: ListFilters{Zone: &zone}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.List(context.Background(), visibility.Requester{}, ListQuery{Pagination: pagination.Params{Limit: 500}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSearch(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	seedArticle(t, f.repo, author, "ТАКТИКА в защита")
	seedArticle(t, f.repo, author, "Хранене")

	_, err := f.svc.Search(context.Background(), visibility.Requester{}, "   ", ListQuery{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	res, err := f.svc.Search(context.Background(), visibility.Requester{}, "тактика", ListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "тактика", *res.Query.Search)
}

func TestCreateStoresPlainTextTitleAndSearchFindsIt(t *testing.T) {
	f := newServiceFixture(t)
	coach := seedUser(t, f.conn, enums.RoleCoach)
	ctx := context.Background()
	published := enums.ArticleStatusPublished

	in := validCreate(`Messi's goals & "Ronaldo"`)
	in.Excerpt = "Who's better? Stats & records"
	in.Content = "<p>Messi's left foot & Ronaldo's header</p>"
	in.Status = &published
	dto, err := f.svc.Create(ctx, requesterFor(coach), in)
	require.NoError(t, err)
	assert.Equal(t, `Messi's goals & "Ronaldo"`, dto.Title)
	assert.Equal(t, "Who's better? Stats & records", dto.Excerpt)
	assert.Equal(t, BaseSlug(`Messi's goals & "Ronaldo"`), dto.Slug)
	assert.NotContains(t, dto.Slug, "39")
	assert.NotContains(t, dto.Slug, "amp")
	assert.NotContains(t, dto.Slug, "quot")

	res, err := f.svc.Search(ctx, visibility.Requester{}, "Messi's", ListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, dto.ID, res.Items[0].ID)

	res, err = f.svc.Search(ctx, visibility.Requester{}, "foot & ronaldo's", ListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1, "content match against sanitized body")

	title := "Tiki-taka & pressing"
	updated, err := f.svc.Update(ctx, requesterFor(coach), dto.ID, UpdateArticleRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestGetBySlug(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	other := seedUser(t, f.conn, enums.RoleCoach)
	draft := seedArticle(t, f.repo, author, "Draft", withStatus(enums.ArticleStatusDraft))
	ctx := context.Background()

	_, err := f.svc.GetBySlug(ctx, visibility.Requester{}, draft.Slug)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.GetBySlug(ctx, requesterFor(other), draft.Slug)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	dto, err := f.svc.GetBySlug(ctx, requesterFor(author), draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, visibility.DecisionFull, dto.Access)

	_, err = f.svc.GetBySlug(ctx, visibility.Requester{}, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateArticle(t *testing.T) {
	f := newServiceFixture(t)
	coach := seedUser(t, f.conn, enums.RoleCoach)
	ctx := context.Background()
	published := enums.ArticleStatusPublished

	in := validCreate("Тактика при пресиране")
	in.Status = &published
	dto, err := f.svc.Create(ctx, requesterFor(coach), in)
	require.NoError(t, err)
	assert.Equal(t, BaseSlug(in.Title), dto.Slug)
	assert.NotContains(t, dto.Content, "script")
	assert.Contains(t, dto.Content, "Първи абзац")
	assert.Equal(t, []string{"pressing", "youth"}, dto.Tags)
	assert.Equal(t, 1, dto.ReadTime)
	require.NotNil(t, dto.PublishedAt)
	require.NotNil(t, dto.Author)
	assert.Equal(t, coach.ID, dto.Author.ID)
	require.Len(t, dto.Zones, 1)
	assert.True(t, dto.Zones[0].Visible)

	again, err := f.svc.Create(ctx, requesterFor(coach), validCreate("Тактика при пресиране"))
	require.NoError(t, err)
	assert.Equal(t, BaseSlug(in.Title)+"-2", again.Slug)
	assert.Nil(t, again.PublishedAt)
	assert.Equal(t, enums.ArticleStatusDraft, again.Status)
}

func TestCreateArticleRejections(t *testing.T) {
	f := newServiceFixture(t)
	coach := seedUser(t, f.conn, enums.RoleCoach)
	free := seedUser(t, f.conn, enums.RoleFree)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, requesterFor(free), validCreate("Free user"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = f.svc.Create(ctx, visibility.Requester{Role: enums.RoleAdmin}, validCreate("Anonymous admin"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	dup := validCreate("Duplicate zones")
	dup.Zones = []ZoneSettingInput{{Zone: enums.ZoneCoach}, {Zone: enums.ZoneCoach}}
	_, err = f.svc.Create(ctx, requesterFor(coach), dup)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	fields, ok := pkgerrors.As(err).Details().([]pkgerrors.FieldError)
	require.True(t, ok)
	assert.Equal(t, "zones[1].zone", fields[0].Field)

	perm := validCreate("Permanent without premium")
	perm.IsPermanentPremium = true
	_, err = f.svc.Create(ctx, requesterFor(coach), perm)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	explicit := "my-article"
	first := validCreate("First")
	first.Slug = &explicit
	_, err = f.svc.Create(ctx, requesterFor(coach), first)
	require.NoError(t, err)
	second := validCreate("Second")
	second.Slug = &explicit
	_, err = f.svc.Create(ctx, requesterFor(coach), second)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	bad := "Not A Slug!"
	third := validCreate("Third")
	third.Slug = &bad
	_, err = f.svc.Create(ctx, requesterFor(coach), third)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateArticle(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	other := seedUser(t, f.conn, enums.RoleCoach)
	article := seedArticle(t, f.repo, author, "Original", withStatus(enums.ArticleStatusDraft))
	ctx := context.Background()

	title := "Renamed"
	_, err := f.svc.Update(ctx, requesterFor(other), article.ID, UpdateArticleRequest{Title: &title})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	published := enums.ArticleStatusPublished
	dto, err := f.svc.Update(ctx, requesterFor(author), article.ID, UpdateArticleRequest{
		Title:  &title,
		Status: &published,
		Zones:  []ZoneSettingInput{{Zone: enums.ZonePlayer}, {Zone: enums.ZoneParent}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", dto.Title)
	assert.Equal(t, article.Slug, dto.Slug)
	assert.NotNil(t, dto.PublishedAt)
	assert.Len(t, dto.Zones, 2)

	_, err = f.svc.Update(ctx, requesterFor(author), uuid.New(), UpdateArticleRequest{Title: &title})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteAndEnsureReadable(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	admin := seedUser(t, f.conn, enums.RoleAdmin)
	player := seedUser(t, f.conn, enums.RolePlayer)
	article := seedArticle(t, f.repo, author, "Doomed")
	ctx := context.Background()

	require.NoError(t, f.svc.EnsureReadable(ctx, visibility.Requester{}, article.ID))

	err := f.svc.Delete(ctx, requesterFor(player), article.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	require.NoError(t, f.svc.Delete(ctx, requesterFor(admin), article.ID))
	err = f.svc.EnsureReadable(ctx, requesterFor(admin), article.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestEnsureReadableHidesUnpublishedArticles(t *testing.T) {
	f := newServiceFixture(t)
	author := seedUser(t, f.conn, enums.RoleCoach)
	other := seedUser(t, f.conn, enums.RoleCoach)
	admin := seedUser(t, f.conn, enums.RoleAdmin)
	ctx := context.Background()

	for _, status := range []enums.ArticleStatus{enums.ArticleStatusDraft, enums.ArticleStatusArchived} {
		article := seedArticle(t, f.repo, author, "Hidden "+string(status), withStatus(status))

		err := f.svc.EnsureReadable(ctx, visibility.Requester{}, article.ID)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "anonymous %s", status)
		err = f.svc.EnsureReadable(ctx, requesterFor(other), article.ID)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "non-author %s", status)

		assert.NoError(t, f.svc.EnsureReadable(ctx, requesterFor(author), article.ID))
		assert.NoError(t, f.svc.EnsureReadable(ctx, requesterFor(admin), article.ID))
	}

	premium := seedArticle(t, f.repo, author, "Premium", withPremium(true, nil))
	assert.NoError(t, f.svc.EnsureReadable(ctx, visibility.Requester{}, premium.ID), "excerpt readers still count")
}
