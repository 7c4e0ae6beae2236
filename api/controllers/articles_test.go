package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/footballzones-backend/api/middleware"
	"github.com/angelmondragon/footballzones-backend/internal/articles"
	"github.com/angelmondragon/footballzones-backend/internal/views"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/footballzones-backend/pkg/errors"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
	"github.com/angelmondragon/footballzones-backend/pkg/visibility"
)

type stubArticleService struct {
	listFn   func(ctx context.Context, req visibility.Requester, q articles.ListQuery) (*articles.ListResult, error)
	searchFn func(ctx context.Context, req visibility.Requester, term string, q articles.ListQuery) (*articles.ListResult, error)
	getFn    func(ctx context.Context, req visibility.Requester, slug string) (*articles.ArticleDTO, error)
	createFn func(ctx context.Context, actor visibility.Requester, in articles.CreateArticleRequest) (*articles.ArticleDTO, error)
	updateFn func(ctx context.Context, actor visibility.Requester, id uuid.UUID, in articles.UpdateArticleRequest) (*articles.ArticleDTO, error)
	deleteFn func(ctx context.Context, actor visibility.Requester, id uuid.UUID) error
	readFn   func(ctx context.Context, req visibility.Requester, id uuid.UUID) error
}

func (s stubArticleService) List(ctx context.Context, req visibility.Requester, q articles.ListQuery) (*articles.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, req, q)
	}
	return &articles.ListResult{}, nil
}

func (s stubArticleService) Search(ctx context.Context, req visibility.Requester, term string, q articles.ListQuery) (*articles.ListResult, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, req, term, q)
	}
	return &articles.ListResult{}, nil
}

func (s stubArticleService) GetBySlug(ctx context.Context, req visibility.Requester, slug string) (*articles.ArticleDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, req, slug)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
}

func (s stubArticleService) Create(ctx context.Context, actor visibility.Requester, in articles.CreateArticleRequest) (*articles.ArticleDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, actor, in)
	}
	return &articles.ArticleDTO{}, nil
}

func (s stubArticleService) Update(ctx context.Context, actor visibility.Requester, id uuid.UUID, in articles.UpdateArticleRequest) (*articles.ArticleDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, actor, id, in)
	}
	return &articles.ArticleDTO{ID: id}, nil
}

func (s stubArticleService) Delete(ctx context.Context, actor visibility.Requester, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, actor, id)
	}
	return nil
}

func (s stubArticleService) EnsureReadable(ctx context.Context, req visibility.Requester, id uuid.UUID) error {
	if s.readFn != nil {
		return s.readFn(ctx, req, id)
	}
	return nil
}

type recordingTracker struct {
	mu     sync.Mutex
	events []views.Event
}

func (r *recordingTracker) Track(_ context.Context, ev views.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Data       json.RawMessage  `json:"data"`
	Pagination *pagination.Meta `json:"pagination"`
	Query      map[string]any   `json:"query"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestArticlesListParsesQuery(t *testing.T) {
	var got articles.ListQuery
	svc := stubArticleService{
		listFn: func(ctx context.Context, req visibility.Requester, q articles.ListQuery) (*articles.ListResult, error) {
			if !req.Anonymous() {
				t.Fatalf("expected anonymous requester")
			}
			got = q
			return &articles.ListResult{
				Items:      []articles.ArticleDTO{{Slug: "pressing"}},
				Pagination: pagination.NewMeta(q.Pagination, 1),
				Query:      articles.QueryEcho{ListFilters: q.Filters, Sort: articles.DefaultSort},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=5&category=tactics&zone=COACH&isPremium=true&search=%20press%20&sortBy=title&sortOrder=ASC", nil)
	w := httptest.NewRecorder()
	ArticlesList(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.Pagination.Page != 2 || got.Pagination.Limit != 5 {
		t.Fatalf("unexpected pagination %+v", got.Pagination)
	}
	if got.Filters.Category == nil || *got.Filters.Category != enums.ArticleCategoryTactics {
		t.Fatalf("unexpected category %v", got.Filters.Category)
	}
	if got.Filters.Zone == nil || *got.Filters.Zone != enums.ZoneCoach {
		t.Fatalf("unexpected zone %v", got.Filters.Zone)
	}
	if got.Filters.IsPremium == nil || !*got.Filters.IsPremium {
		t.Fatalf("expected premium filter")
	}
	if got.Filters.Search == nil || *got.Filters.Search != "press" {
		t.Fatalf("unexpected search %v", got.Filters.Search)
	}
	if got.Sort.By != articles.SortTitle || got.Sort.Order != articles.SortAsc {
		t.Fatalf("unexpected sort %+v", got.Sort)
	}

	env := decodeEnvelope(t, w)
	if !env.Success || env.Pagination == nil || env.Pagination.Total != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}
	var items []articles.ArticleDTO
	if err := json.Unmarshal(env.Data, &items); err != nil || len(items) != 1 || items[0].Slug != "pressing" {
		t.Fatalf("unexpected items %s", env.Data)
	}
}

func TestArticlesListRejectsBadLimit(t *testing.T) {
	called := false
	svc := stubArticleService{
		listFn: func(context.Context, visibility.Requester, articles.ListQuery) (*articles.ListResult, error) {
			called = true
			return &articles.ListResult{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/?limit=1000", nil)
	w := httptest.NewRecorder()
	ArticlesList(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if called {
		t.Fatalf("service should not be called")
	}
}

func TestArticlesSearchPassesTermAndPrincipal(t *testing.T) {
	userID := uuid.New()
	svc := stubArticleService{
		searchFn: func(ctx context.Context, req visibility.Requester, term string, q articles.ListQuery) (*articles.ListResult, error) {
			if term != "тактика" {
				t.Fatalf("unexpected term %q", term)
			}
			if req.UserID == nil || *req.UserID != userID || req.Role != enums.RoleCoach {
				t.Fatalf("unexpected requester %+v", req)
			}
			return &articles.ListResult{Items: []articles.ArticleDTO{}, Pagination: pagination.NewMeta(q.Pagination, 0)}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/?q=%D1%82%D0%B0%D0%BA%D1%82%D0%B8%D0%BA%D0%B0", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: userID, Role: enums.RoleCoach}))
	w := httptest.NewRecorder()
	ArticlesSearch(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestArticlesSearchMapsValidationError(t *testing.T) {
	svc := stubArticleService{
		searchFn: func(context.Context, visibility.Requester, string, articles.ListQuery) (*articles.ListResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Search query required")
		},
	}
	w := httptest.NewRecorder()
	ArticlesSearch(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.Error == nil || env.Error.Message != "Search query required" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestArticleGetNotFound(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "slug", "missing")
	w := httptest.NewRecorder()
	ArticleGet(stubArticleService{}, nil).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestArticleGetBySlug(t *testing.T) {
	svc := stubArticleService{
		getFn: func(ctx context.Context, req visibility.Requester, slug string) (*articles.ArticleDTO, error) {
			return &articles.ArticleDTO{Slug: slug, Access: visibility.DecisionExcerptOnly}, nil
		},
	}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "slug", "pressing-basics")
	w := httptest.NewRecorder()
	ArticleGet(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var dto articles.ArticleDTO
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &dto); err != nil {
		t.Fatalf("decode dto: %v", err)
	}
	if dto.Slug != "pressing-basics" || dto.Access != visibility.DecisionExcerptOnly {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestArticleCreateReturns201(t *testing.T) {
	svc := stubArticleService{
		createFn: func(ctx context.Context, actor visibility.Requester, in articles.CreateArticleRequest) (*articles.ArticleDTO, error) {
			if in.Title != "Pressing basics" || len(in.Zones) != 1 || in.Zones[0].Zone != enums.ZoneCoach {
				t.Fatalf("unexpected payload %+v", in)
			}
			return &articles.ArticleDTO{Slug: "pressing-basics"}, nil
		},
	}
	body := `{"title":"Pressing basics","excerpt":"Intro","content":"<p>Body</p>","category":"TACTICS","zones":[{"zone":"COACH"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: uuid.New(), Role: enums.RoleCoach}))
	w := httptest.NewRecorder()
	ArticleCreate(svc, nil).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Message != "Article created" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestArticleCreateRejectsMissingZones(t *testing.T) {
	body := `{"title":"Pressing basics","excerpt":"Intro","content":"Body","category":"TACTICS"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	ArticleCreate(stubArticleService{}, nil).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestArticleUpdateAndDelete(t *testing.T) {
	id := uuid.New()
	svc := stubArticleService{
		deleteFn: func(ctx context.Context, actor visibility.Requester, got uuid.UUID) error {
			if got != id {
				t.Fatalf("unexpected id %s", got)
			}
			return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed")
		},
	}

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"title":"New title"}`)), "id", id.String())
	w := httptest.NewRecorder()
	ArticleUpdate(svc, nil).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Message != "Article updated" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", id.String())
	w = httptest.NewRecorder()
	ArticleDelete(svc, nil).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", "not-a-uuid")
	w = httptest.NewRecorder()
	ArticleDelete(svc, nil).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestArticleTrackEnqueuesEvent(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	tracker := &recordingTracker{}
	var checked visibility.Requester
	svc := stubArticleService{
		readFn: func(_ context.Context, req visibility.Requester, _ uuid.UUID) error {
			checked = req
			return nil
		},
	}

	body := `{"sessionId":"s-1","viewDuration":42,"completionPercent":150,"deviceType":"tablet"}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "id", id.String())
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{UserID: userID, Role: enums.RoleFree}))
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone)")
	req.RemoteAddr = "203.0.113.9:5000"
	w := httptest.NewRecorder()
	ArticleTrack(svc, tracker, nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if checked.UserID == nil || *checked.UserID != userID {
		t.Fatalf("readability check did not receive the caller: %+v", checked)
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Message != "View tracked" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if len(tracker.events) != 1 {
		t.Fatalf("expected one event, got %d", len(tracker.events))
	}
	ev := tracker.events[0]
	if ev.ArticleID != id || ev.UserID == nil || *ev.UserID != userID {
		t.Fatalf("unexpected event ids %+v", ev)
	}
	if ev.SessionID != "s-1" || ev.Completion != 150 || ev.DeviceType != enums.DeviceTypeTablet || ev.IPAddress != "203.0.113.9" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestArticleTrackUnreadableArticle(t *testing.T) {
	tracker := &recordingTracker{}
	svc := stubArticleService{
		readFn: func(context.Context, visibility.Requester, uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		},
	}
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sessionId":"s-1","completionPercent":10}`)), "id", uuid.NewString())
	w := httptest.NewRecorder()
	ArticleTrack(svc, tracker, nil).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if len(tracker.events) != 0 {
		t.Fatalf("no event expected")
	}
}
