package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"sitecms/internal/logger"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type PostHandler struct {
	svc *services.PostService
}

func NewPostHandler(svc *services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// PublicList
// @Summary      Опубликованные посты
// @Description  Список опубликованных постов с учётом локали (?locale= или Accept-Language)
// @Tags         posts
// @Produce      json
// @Param        category query string false "Slug категории"
// @Param        tag      query string false "Тег"
// @Param        featured query bool   false "Только избранные"
// @Param        q        query string false "Поиск по заголовку и анонсу"
// @Param        locale   query string false "Локаль"
// @Param        page     query int    false "Страница"
// @Param        limit    query int    false "Размер страницы"
// @Success      200 {object} helpers.Response
// @Router       /api/posts [get]
func (h *PostHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.PublicList(r.Context(), postFilter(r), requestLocale(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// PublicGet
// @Summary      Пост по slug
// @Description  Опубликованный пост с отрендеренным HTML; черновики не отдаются
// @Tags         posts
// @Produce      json
// @Param        slug   path  string true  "Slug поста"
// @Param        locale query string false "Локаль"
// @Success      200 {object} helpers.Response{data=models.RenderedPost}
// @Failure      404 {object} helpers.Response
// @Router       /api/posts/{slug} [get]
func (h *PostHandler) PublicGet(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	out, err := h.svc.PublicGet(r.Context(), slug, requestLocale(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Language", out.Locale)
	helpers.JSON(w, http.StatusOK, out)
}

// List
// @Summary      Все посты (админка)
// @Tags         admin-posts
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "draft, published или archived"
// @Param        page   query int    false "Страница"
// @Param        limit  query int    false "Размер страницы"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	f := postFilter(r)
	if f.Status != "" && !f.Status.Valid() {
		helpers.Error(w, http.StatusBadRequest, "Неизвестный статус")
		return
	}
	page, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// Get
// @Summary      Пост целиком (админка)
// @Tags         admin-posts
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID поста"
// @Success      200 {object} helpers.Response{data=models.BlogPost}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Create
// @Summary      Создать пост
// @Description  Пост всегда создаётся черновиком. Slug берётся из заголовка, если не задан.
// @Tags         admin-posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body models.PostInput true "Пост"
// @Success      201 {object} helpers.Response{data=models.BlogPost}
// @Failure      400 {object} helpers.Response
// @Router       /api/admin/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Info("Пост создан", zap.Int64("post_id", p.ID), zap.String("slug", p.Slug))
	helpers.JSON(w, http.StatusCreated, p)
}

// Update
// @Summary      Обновить пост
// @Tags         admin-posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int              true "ID поста"
// @Param        body body models.PostInput true "Пост"
// @Success      200 {object} helpers.Response{data=models.BlogPost}
// @Failure      400 {object} helpers.Response
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.PostInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// SetStatus
// @Summary      Сменить статус поста
// @Tags         admin-posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int                  true "ID поста"
// @Param        body body models.StatusRequest true "Новый статус"
// @Success      200 {object} helpers.Response{data=models.BlogPost}
// @Router       /api/admin/posts/{id}/status [patch]
func (h *PostHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.StatusRequest
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.SetStatus(r.Context(), id, in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Delete
// @Summary      Удалить пост
// @Tags         admin-posts
// @Security     BearerAuth
// @Param        id path int true "ID поста"
// @Success      204
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func postFilter(r *http.Request) models.PostFilter {
	q := r.URL.Query()
	p := pagination.FromRequest(r)
	f := models.PostFilter{
		Status:       models.PostStatus(q.Get("status")),
		CategorySlug: strings.TrimSpace(q.Get("category")),
		Tag:          strings.TrimSpace(q.Get("tag")),
		Query:        strings.TrimSpace(q.Get("q")),
		Page:         p.Page,
		Limit:        p.Limit,
	}
	if v, err := strconv.ParseBool(q.Get("featured")); err == nil {
		f.Featured = &v
	}
	return f
}

// requestLocale: ?locale= важнее Accept-Language. Сервис сам откатится
// к локали по умолчанию, если язык не поддерживается.
func requestLocale(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("locale")); l != "" {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	base, _ := tags[0].Base()
	return base.String()
}
