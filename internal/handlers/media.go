package handlers

import (
	"errors"
	"net/http"

	"sitecms/internal/pagination"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type MediaHandler struct{ svc *services.MediaService }

func NewMediaHandler(s *services.MediaService) *MediaHandler { return &MediaHandler{svc: s} }

// Upload
// @Summary      Загрузить изображение
// @Description  JPEG, PNG, GIF или WebP до 10 МБ. Широкие изображения уменьшаются. URL из ответа вставляется в image-блок.
// @Tags         admin-media
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Изображение"
// @Success      201 {object} helpers.Response{data=models.Media}
// @Failure      413 {object} helpers.Response
// @Failure      415 {object} helpers.Response
// @Router       /api/admin/media [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// запас на заголовки multipart
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, services.ErrTooLarge)
			return
		}
		helpers.Error(w, http.StatusBadRequest, "Ожидается multipart/form-data с полем file")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Не передан файл")
		return
	}
	defer file.Close()

	m, err := h.svc.Upload(r.Context(), file, hdr.Filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, m)
}

// List
// @Summary      Загруженные изображения
// @Tags         admin-media
// @Security     BearerAuth
// @Produce      json
// @Param        page  query int false "Страница"
// @Param        limit query int false "Размер страницы"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/media [get]
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// Delete
// @Summary      Удалить изображение
// @Tags         admin-media
// @Security     BearerAuth
// @Param        id path int true "ID"
// @Success      204
// @Router       /api/admin/media/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
