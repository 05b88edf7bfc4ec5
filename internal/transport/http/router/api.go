package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/core/config"
	"go-gin-blog/internal/core/server"
	"go-gin-blog/internal/core/session"
	"go-gin-blog/internal/domain"
	mdw "go-gin-blog/internal/transport/http/middleware"
	"go-gin-blog/web"
)

type APIDeps struct {
	Logger  *zap.Logger
	Mode    string
	HTTP    config.HTTP
	Store   session.Store
	Cookies *session.CookieManager
	JWT     *auth.JWTer
}

func NewAPIEngine(d APIDeps, reg *Registry) (*gin.Engine, error) {
	r := server.NewEngine(d.Logger, d.Mode)

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// 中间件
	r.Use(common(d.Logger, d.HTTP)...)
	r.Use(mdw.Session(d.Store, d.Cookies, d.Logger))

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	// 静态资源
	for _, dir := range []string{"css", "js", "images"} {
		sub, err := web.Static(dir)
		if err != nil {
			return nil, err
		}
		r.StaticFS("/"+dir, http.FS(sub))
	}

	// 页面 / 登录 / 自检
	reg.MountPublic(r)

	// /api/v1/** 统一要求 ROLE_USER；Bearer token 与会话二选一
	api := r.Group("/api/v1")
	api.Use(mdw.AuthJWT(d.JWT), mdw.RequireRole(domain.RoleUser))
	reg.MountAPI(api)

	return r, nil
}

// common 两个引擎共用的中间件链
func common(l *zap.Logger, h config.HTTP) []gin.HandlerFunc {
	rps, burst := h.RateLimitRPS, h.RateLimitBurst
	if rps <= 0 {
		rps, burst = 200, 400
	}
	maxConc := h.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 300
	}
	maxBody := h.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 16 << 20
	}
	timeout := time.Duration(h.HandlerTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.RateLimit(rate.Limit(rps), burst),
		mdw.Timeout(timeout),
		// 排队最多等一个超时周期的 1/10
		mdw.ConcurrencyLimit(maxConc, timeout/10),
		mdw.MaxBodyBytes(maxBody),
		mdw.Metrics(),
		mdw.AccessLog(l),
	}
}
