package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/domain"
)

var ErrUnknownProvider = fmt.Errorf("%w: unknown oauth provider", domain.ErrIllegalArgument)

// OAuthUserService 登录回调：换取 userinfo -> 归一化 -> saveOrUpdate -> 会话快照
type OAuthUserService struct {
	providers auth.Providers
	users     *UserService
	log       *zap.Logger
}

func NewOAuthUserService(providers auth.Providers, users *UserService, l *zap.Logger) *OAuthUserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &OAuthUserService{providers: providers, users: users, log: l.Named("oauth")}
}

func (s *OAuthUserService) LoadUser(ctx context.Context, registrationID, code string) (*domain.SessionUser, error) {
	p, ok := s.providers.Get(registrationID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, registrationID)
	}
	raw, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	attrs := auth.Of(registrationID, p.UserNameAttribute(), raw)
	s.log.Debug("oauth login", zap.String("provider", registrationID), zap.String("email", attrs.Email))

	u, err := s.users.SaveOrUpdate(ctx, attrs)
	if err != nil {
		return nil, err
	}
	return domain.NewSessionUser(u), nil
}
