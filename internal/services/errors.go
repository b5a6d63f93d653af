package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"sitecms/internal/repository"
)

var (
	ErrNotFound         = repository.ErrNotFound
	ErrConflict         = repository.ErrDuplicate
	ErrValidation       = errors.New("некорректные данные")
	ErrUnauthorized     = errors.New("неверный логин или пароль")
	ErrForbidden        = errors.New("доступ запрещён")
	ErrRateLimited      = errors.New("слишком много запросов, попробуйте позже")
	ErrUnsupportedMedia = errors.New("поддерживаются только изображения JPEG, PNG, GIF и WebP")
	ErrTooLarge         = errors.New("файл больше 10 МБ")
	ErrLastBlock        = errors.New("последний блок документа не удаляется")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate проверяет DTO по тегам validate и возвращает ErrValidation
// с перечнем полей.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + ": обязательное поле"
	case "email":
		return field + ": некорректный email"
	case "min":
		return field + ": минимум " + fe.Param()
	case "max":
		return field + ": максимум " + fe.Param()
	case "oneof":
		return field + ": допустимо одно из [" + fe.Param() + "]"
	default:
		return field + ": " + fe.Tag()
	}
}

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrValidation, msg) }
