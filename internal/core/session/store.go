package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go-gin-blog/internal/core/config"
	"go-gin-blog/internal/domain"
)

var ErrNotFound = errors.New("session: not found")

// Store 服务端会话：cookie 里只放不透明的 session id
type Store interface {
	Create(ctx context.Context, u *domain.SessionUser) (string, error)
	Get(ctx context.Context, id string) (*domain.SessionUser, error)
	Delete(ctx context.Context, id string) error
}

type CookieManager struct {
	Name     string
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

func NewCookieManager(c config.Session) *CookieManager {
	ss := http.SameSiteLaxMode
	switch strings.ToLower(c.SameSite) {
	case "none":
		ss = http.SameSiteNoneMode
	case "strict":
		ss = http.SameSiteStrictMode
	}
	name := c.CookieName
	if name == "" {
		name = "SESSION"
	}
	return &CookieManager{Name: name, TTL: TTL(c), Secure: c.Secure, SameSite: ss}
}

func (m *CookieManager) Set(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name: m.Name, Value: id, Path: "/", HttpOnly: true,
		Secure: m.Secure, SameSite: m.SameSite, MaxAge: int(m.TTL.Seconds()),
	})
}

func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: m.Name, Value: "", Path: "/", HttpOnly: true,
		Secure: m.Secure, SameSite: m.SameSite, MaxAge: -1,
	})
}

func (m *CookieManager) Read(r *http.Request) string {
	c, err := r.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

func TTL(c config.Session) time.Duration {
	if c.TTLMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.TTLMin) * time.Minute
}
