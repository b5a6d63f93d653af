package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"sitecms/internal/models"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type TaxonomyHandler struct{ svc *services.TaxonomyService }

func NewTaxonomyHandler(s *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{svc: s}
}

// ListCategories
// @Summary      Категории
// @Tags         taxonomy
// @Produce      json
// @Success      200 {object} helpers.Response{data=[]models.Category}
// @Router       /api/categories [get]
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// GetCategory
// @Summary      Категория по slug
// @Tags         taxonomy
// @Produce      json
// @Param        slug path string true "Slug категории"
// @Success      200 {object} helpers.Response{data=models.Category}
// @Failure      404 {object} helpers.Response
// @Router       /api/categories/{slug} [get]
func (h *TaxonomyHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCategory(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// CreateCategory
// @Summary      Создать категорию
// @Tags         admin-taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body models.CategoryInput true "Категория"
// @Success      201 {object} helpers.Response{data=models.Category}
// @Failure      409 {object} helpers.Response
// @Router       /api/admin/categories [post]
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// UpdateCategory
// @Summary      Обновить категорию
// @Tags         admin-taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int                  true "ID категории"
// @Param        body body models.CategoryInput true "Категория"
// @Success      200 {object} helpers.Response{data=models.Category}
// @Router       /api/admin/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), id, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// DeleteCategory
// @Summary      Удалить категорию
// @Description  Посты категории остаются без категории
// @Tags         admin-taxonomy
// @Security     BearerAuth
// @Param        id path int true "ID категории"
// @Success      204
// @Router       /api/admin/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTags
// @Summary      Теги
// @Tags         taxonomy
// @Produce      json
// @Param        used query bool false "Только используемые"
// @Success      200 {object} helpers.Response{data=[]models.Tag}
// @Router       /api/tags [get]
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	onlyUsed, _ := strconv.ParseBool(r.URL.Query().Get("used"))
	list, err := h.svc.ListTags(r.Context(), onlyUsed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// CreateTag
// @Summary      Создать тег
// @Description  Если тег с таким slug уже есть, возвращается он
// @Tags         admin-taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body models.TagInput true "Тег"
// @Success      201 {object} helpers.Response{data=models.Tag}
// @Router       /api/admin/tags [post]
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.svc.CreateTag(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, t)
}

// DeleteTag
// @Summary      Удалить тег
// @Description  Тег снимается со всех постов
// @Tags         admin-taxonomy
// @Security     BearerAuth
// @Param        id path int true "ID тега"
// @Success      204
// @Router       /api/admin/tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteTag(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
