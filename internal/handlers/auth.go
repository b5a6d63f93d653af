package handlers

import (
	"net/http"

	"sitecms/internal/models"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login
// @Summary      Вход в админку
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body models.LoginRequest true "Логин и пароль"
// @Success      200 {object} helpers.Response{data=models.LoginResponse}
// @Failure      401 {object} helpers.Response
// @Router       /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Me
// @Summary      Текущий пользователь
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} helpers.Response{data=models.User}
// @Router       /api/admin/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, u)
}
