package handlers

import (
	"net/http"

	"sitecms/internal/models"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type FAQHandler struct{ svc *services.FAQService }

func NewFAQHandler(s *services.FAQService) *FAQHandler { return &FAQHandler{svc: s} }

// PublicList
// @Summary      Опубликованные вопросы
// @Tags         faq
// @Produce      json
// @Param        category query string false "Категория"
// @Success      200 {object} helpers.Response{data=[]models.FAQ}
// @Router       /api/faqs [get]
func (h *FAQHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// List
// @Summary      Все вопросы (админка)
// @Tags         admin-faq
// @Security     BearerAuth
// @Produce      json
// @Param        category query string false "Категория"
// @Success      200 {object} helpers.Response{data=[]models.FAQ}
// @Router       /api/admin/faqs [get]
func (h *FAQHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *FAQHandler) list(w http.ResponseWriter, r *http.Request, onlyPublished bool) {
	list, err := h.svc.List(r.Context(), onlyPublished, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.FAQ{}
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Create
// @Summary      Создать вопрос
// @Tags         admin-faq
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body models.FAQInput true "Вопрос"
// @Success      201 {object} helpers.Response{data=models.FAQ}
// @Router       /api/admin/faqs [post]
func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.FAQInput
	if !decode(w, r, &in) {
		return
	}
	f, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, f)
}

// Update
// @Summary      Обновить вопрос
// @Tags         admin-faq
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int             true "ID"
// @Param        body body models.FAQInput true "Вопрос"
// @Success      200 {object} helpers.Response{data=models.FAQ}
// @Router       /api/admin/faqs/{id} [put]
func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.FAQInput
	if !decode(w, r, &in) {
		return
	}
	f, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, f)
}

// Delete
// @Summary      Удалить вопрос
// @Tags         admin-faq
// @Security     BearerAuth
// @Param        id path int true "ID"
// @Success      204
// @Router       /api/admin/faqs/{id} [delete]
func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Reorder
// @Summary      Порядок вопросов
// @Tags         admin-faq
// @Security     BearerAuth
// @Accept       json
// @Param        body body models.FAQReorderRequest true "ID в нужном порядке"
// @Success      204
// @Router       /api/admin/faqs/reorder [post]
func (h *FAQHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var in models.FAQReorderRequest
	if !decode(w, r, &in) {
		return
	}
	if err := h.svc.Reorder(r.Context(), &in); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
