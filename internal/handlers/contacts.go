package handlers

import (
	"net/http"
	"strings"

	"sitecms/internal/middleware"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type ContactHandler struct{ svc *services.ContactService }

func NewContactHandler(s *services.ContactService) *ContactHandler { return &ContactHandler{svc: s} }

// Submit
// @Summary      Заявка с сайта
// @Description  Ограничение по количеству заявок с одного IP
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body body models.ContactRequest true "Заявка"
// @Success      201 {object} helpers.Response
// @Failure      400 {object} helpers.Response
// @Failure      429 {object} helpers.Response
// @Router       /api/contacts [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.ContactRequest
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.Submit(r.Context(), &in, middleware.ClientIP(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	// посетителю не нужны служебные поля заявки
	helpers.JSON(w, http.StatusCreated, map[string]any{"id": c.ID, "message": "Спасибо! Мы свяжемся с вами."})
}

// List
// @Summary      Заявки
// @Tags         admin-contacts
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "new, read, replied, archived"
// @Param        q      query string false "Поиск"
// @Param        page   query int    false "Страница"
// @Param        limit  query int    false "Размер страницы"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/contacts [get]
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	page, err := h.svc.List(r.Context(), models.ContactFilter{
		Status: models.ContactStatus(q.Get("status")),
		Query:  strings.TrimSpace(q.Get("q")),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// Get
// @Summary      Заявка
// @Tags         admin-contacts
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID"
// @Success      200 {object} helpers.Response{data=models.Contact}
// @Router       /api/admin/contacts/{id} [get]
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// SetStatus
// @Summary      Статус заявки
// @Tags         admin-contacts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int                         true "ID"
// @Param        body body models.ContactStatusRequest true "Статус"
// @Success      200 {object} helpers.Response{data=models.Contact}
// @Router       /api/admin/contacts/{id}/status [patch]
func (h *ContactHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.ContactStatusRequest
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.SetStatus(r.Context(), id, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Delete
// @Summary      Удалить заявку
// @Tags         admin-contacts
// @Security     BearerAuth
// @Param        id path int true "ID"
// @Success      204
// @Router       /api/admin/contacts/{id} [delete]
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
