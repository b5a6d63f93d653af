package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

// writeError переводит ошибку сервиса в HTTP-код и сообщение.
// Неизвестные ошибки логируются, клиенту уходит общий текст.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("Ошибка обработки запроса",
			zap.String("path", r.URL.Path), zap.Error(err))
	}
	helpers.Error(w, status, msg)
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "Не найдено"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "Запись с таким slug уже существует"
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Неверный логин или пароль"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "Доступ запрещён"
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, "Слишком много заявок, попробуйте позже"
	case errors.Is(err, services.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, "Поддерживаются только изображения JPEG, PNG, GIF и WebP"
	case errors.Is(err, services.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "Файл больше 10 МБ"
	case errors.Is(err, services.ErrLastBlock):
		return http.StatusConflict, "Последний блок документа не удаляется"
	}
	return http.StatusInternalServerError, "Внутренняя ошибка сервера"
}

// pathID читает числовой параметр маршрута.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		helpers.Error(w, http.StatusBadRequest, "Некорректный "+name)
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := helpers.Decode(r, dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Некорректный JSON", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Некорректный JSON")
		return false
	}
	return true
}
