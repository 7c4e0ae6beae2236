package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/footballzones-backend/api/middleware"
	"github.com/angelmondragon/footballzones-backend/api/responses"
	"github.com/angelmondragon/footballzones-backend/api/validators"
	"github.com/angelmondragon/footballzones-backend/internal/articles"
	"github.com/angelmondragon/footballzones-backend/internal/views"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/angelmondragon/footballzones-backend/pkg/logger"
	"github.com/angelmondragon/footballzones-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

const maxSearchLength = 200

type viewTracker interface {
	Track(ctx context.Context, ev views.Event)
}

func ArticlesList(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), middleware.RequesterFromContext(r.Context()), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, result.Items, result.Pagination, result.Query)
	}
}

func ArticlesSearch(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		term := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLength)
		result, err := svc.Search(r.Context(), middleware.RequesterFromContext(r.Context()), term, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, result.Items, result.Pagination, result.Query)
	}
}

func ArticleGet(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := svc.GetBySlug(r.Context(), middleware.RequesterFromContext(r.Context()), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, article)
	}
}

func ArticleCreate(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body articles.CreateArticleRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		article, err := svc.Create(r.Context(), middleware.RequesterFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDataMessage(w, http.StatusCreated, article, "Article created")
	}
}

func ArticleUpdate(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body articles.UpdateArticleRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		article, err := svc.Update(r.Context(), middleware.RequesterFromContext(r.Context()), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDataMessage(w, http.StatusOK, article, "Article updated")
	}
}

func ArticleDelete(svc articles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.RequesterFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Article deleted")
	}
}

// ArticleTrack hands a view to the tracker. Recording happens after the response.
func ArticleTrack(svc articles.Service, tracker viewTracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body views.TrackRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		requester := middleware.RequesterFromContext(r.Context())
		if err := svc.EnsureReadable(r.Context(), requester, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tracker.Track(r.Context(), views.NewEvent(id, requester.UserID, body, middleware.ClientIP(r), r.UserAgent()))
		responses.WriteMessage(w, http.StatusOK, "View tracked")
	}
}

func parseListQuery(r *http.Request) (articles.ListQuery, error) {
	var q articles.ListQuery

	page, err := validators.ParseQueryInt(r, "page", pagination.DefaultPage, 1, 1_000_000)
	if err != nil {
		return q, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return q, err
	}
	q.Pagination = pagination.Params{Page: page, Limit: limit}

	premium, err := validators.ParseQueryBool(r, "isPremium")
	if err != nil {
		return q, err
	}
	q.Filters.IsPremium = premium

	values := r.URL.Query()
	if v := upper(values.Get("category")); v != "" {
		c := enums.ArticleCategory(v)
		q.Filters.Category = &c
	}
	if v := upper(values.Get("zone")); v != "" {
		z := enums.Zone(v)
		q.Filters.Zone = &z
	}
	if v := upper(values.Get("status")); v != "" {
		s := enums.ArticleStatus(v)
		q.Filters.Status = &s
	}
	q.Filters.Search = validators.ParseQueryString(r, "search", maxSearchLength)
	q.Sort = articles.Sort{
		By:    articles.SortField(strings.TrimSpace(values.Get("sortBy"))),
		Order: articles.SortOrder(strings.ToLower(strings.TrimSpace(values.Get("sortOrder")))),
	}
	return q, nil
}

func upper(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
