package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type StatsHandler struct{ svc *services.StatsService }

func NewStatsHandler(s *services.StatsService) *StatsHandler { return &StatsHandler{svc: s} }

// Dashboard
// @Summary      Сводка для админки
// @Tags         admin-stats
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} helpers.Response{data=models.DashboardStats}
// @Router       /api/admin/stats [get]
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Pinger — зависимость, которую проверяет /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health
// @Summary      Проверка живости
// @Tags         system
// @Produce      json
// @Success      200 {object} helpers.Response
// @Failure      503 {object} helpers.Response
// @Router       /healthz [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn("Health: зависимость недоступна", zap.String("dep", name), zap.Error(err))
			result[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}
	helpers.JSON(w, status, result)
}
