package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/models"
	"sitecms/internal/repository"
	"sitecms/internal/reqctx"
	"sitecms/internal/utils"
)

type AuthService struct {
	repo      repository.UserRepo
	activity  *ActivityService
	jwtSecret string
	accessTTL time.Duration
}

func NewAuthService(repo repository.UserRepo, activity *ActivityService, jwtSecret string, accessTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, activity: activity, jwtSecret: jwtSecret, accessTTL: accessTTL}
}

func (s *AuthService) Login(ctx context.Context, in *models.LoginRequest) (*models.LoginResponse, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	logger.WithCtx(ctx).Info("Попытка входа", zap.String("username", username))

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.WithCtx(ctx).Error("Ошибка поиска пользователя", zap.Error(err))
			return nil, err
		}
		logger.WithCtx(ctx).Warn("Пользователь не найден", zap.String("username", username))
		return nil, ErrUnauthorized
	}
	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		logger.WithCtx(ctx).Warn("Неверный пароль", zap.String("username", username))
		return nil, ErrUnauthorized
	}

	token, exp, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Username, user.Role, s.accessTTL)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации access-токена", zap.Error(err))
		return nil, err
	}

	actx := reqctx.WithUsername(reqctx.WithUserID(ctx, user.ID), user.Username)
	s.activity.Record(actx, models.ActionLogin, models.EntityUser, idStr(user.ID), nil)
	logger.WithCtx(ctx).Info("Вход выполнен", zap.Int64("user_id", user.ID))
	return &models.LoginResponse{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	uid, ok := reqctx.GetUserID(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return s.repo.GetByID(ctx, uid)
}

// EnsureAdmin создаёт администратора из конфигурации, если такого логина ещё нет.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}
	taken, err := s.repo.IsUsernameTaken(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u, err := s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("Создан администратор", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return nil
}
