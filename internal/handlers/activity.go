package handlers

import (
	"net/http"
	"strconv"
	"time"

	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type ActivityHandler struct{ svc *services.ActivityService }

func NewActivityHandler(s *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: s}
}

// List
// @Summary      Журнал действий
// @Tags         admin-activity
// @Security     BearerAuth
// @Produce      json
// @Param        userId     query int    false "ID пользователя"
// @Param        action     query string false "Действие"
// @Param        entityType query string false "Тип сущности"
// @Param        from       query string false "С даты (YYYY-MM-DD)"
// @Param        to         query string false "По дату включительно (YYYY-MM-DD)"
// @Param        page       query int    false "Страница"
// @Param        limit      query int    false "Размер страницы"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/activity [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.FromRequest(r)
	f := models.ActivityFilter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		Page:       p.Page,
		Limit:      p.Limit,
	}
	if v := q.Get("userId"); v != "" {
		uid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			helpers.Error(w, http.StatusBadRequest, "Некорректный userId")
			return
		}
		f.UserID = &uid
	}
	for name, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			helpers.Error(w, http.StatusBadRequest, "Дата в формате YYYY-MM-DD: "+name)
			return
		}
		if name == "to" {
			d = d.AddDate(0, 0, 1)
		}
		*dst = &d
	}

	page, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}
