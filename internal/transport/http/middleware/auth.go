package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/core/session"
	"go-gin-blog/internal/domain"
	resp "go-gin-blog/internal/transport/http/response"
)

const (
	KeyLoginUser = "loginUser"
	KeySessionID = "sessionId"
)

// LoginUser 取当前登录用户（会话或 Bearer token）
func LoginUser(c *gin.Context) (*domain.SessionUser, bool) {
	v, ok := c.Get(KeyLoginUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.SessionUser)
	return u, ok && u != nil
}

// Session 读取会话 cookie；无会话时匿名放行
func Session(store session.Store, cookies *session.CookieManager, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := cookies.Read(c.Request)
		if id == "" {
			c.Next()
			return
		}
		u, err := store.Get(c.Request.Context(), id)
		switch {
		case errors.Is(err, session.ErrNotFound):
			cookies.Clear(c.Writer)
		case err != nil:
			l.Warn("load session failed", zap.Error(err))
		default:
			c.Set(KeyLoginUser, u)
			c.Set(KeySessionID, id)
			// 服务端 TTL 已滑动，cookie 的 Max-Age 跟着续期
			cookies.Set(c.Writer, id)
		}
		c.Next()
	}
}

// AuthJWT 解析 Authorization: Bearer；没有该头时交给后续的会话判断
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "unsupported authorization scheme")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		u, err := j.SessionUser(claims)
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		c.Set(KeyLoginUser, u)
		c.Next()
	}
}

// RequireRole 未登录 401，角色不符 403
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := LoginUser(c)
		if !ok {
			resp.Abort(c, resp.CodeUnauthorized, "login required")
			return
		}
		if u.Role != role {
			resp.Abort(c, resp.CodeForbidden, "forbidden: "+role.Key()+" required")
			return
		}
		c.Next()
	}
}
