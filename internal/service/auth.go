package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tiendaonline-web/internal/domain"
)

type AuthService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewAuthService(users domain.UserRepository, l *zap.Logger) *AuthService {
	return &AuthService{users: users, log: l}
}

// Login 凭据不匹配返回 (nil, nil)；只有数据库错误才返回 error
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil
	}
	id, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		s.log.Error("login query failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if id == nil {
		s.log.Info("login rejected", zap.String("email", email))
		return nil, nil
	}
	if !domain.KnownRole(id.RoleName) {
		s.log.Warn("login with unknown role", zap.Int("user_id", id.ID), zap.String("role", id.RoleName))
	}
	return id, nil
}
