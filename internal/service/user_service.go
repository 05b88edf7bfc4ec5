package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/domain"
)

var ErrEmailRequired = fmt.Errorf("%w: oauth account has no email", domain.ErrIllegalArgument)

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, log: l.Named("users")}
}

// SaveOrUpdate 按 email 匹配：已存在则同步昵称/头像，否则以 GUEST 建档。
// 并发首登撞唯一索引时重试一次，第二次会走更新分支。
func (s *UserService) SaveOrUpdate(ctx context.Context, attrs auth.OAuthAttributes) (*domain.User, error) {
	if strings.TrimSpace(attrs.Email) == "" {
		return nil, ErrEmailRequired
	}
	u, err := s.saveOrUpdate(ctx, attrs)
	if errors.Is(err, domain.ErrDuplicate) {
		s.log.Info("concurrent first login, retrying", zap.String("email", attrs.Email))
		u, err = s.saveOrUpdate(ctx, attrs)
	}
	return u, err
}

func (s *UserService) saveOrUpdate(ctx context.Context, attrs auth.OAuthAttributes) (*domain.User, error) {
	var out *domain.User
	err := s.users.Transaction(ctx, func(r domain.UserRepository) error {
		u, err := r.FindByEmail(ctx, attrs.Email)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			u = attrs.ToEntity()
		case err != nil:
			return err
		default:
			u.Update(attrs.Name, attrs.Picture)
		}
		if err := r.Save(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	return out, err
}

func (s *UserService) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit, q)
}

func (s *UserService) ChangeRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	var out *domain.User
	err := s.users.Transaction(ctx, func(r domain.UserRepository) error {
		u, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		u.Role = role
		if err := r.Save(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("role changed", zap.Int64("id", id), zap.String("role", string(role)))
	return out, nil
}
