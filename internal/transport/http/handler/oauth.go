package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/core/session"
	"go-gin-blog/internal/domain"
	"go-gin-blog/internal/service"
	httpez "go-gin-blog/internal/transport/http/ez"
	mdw "go-gin-blog/internal/transport/http/middleware"
	resp "go-gin-blog/internal/transport/http/response"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 300 // 秒

	loginRPS   = 2
	loginBurst = 10
)

// OAuth 社交登录：发起授权 -> 回调建会话 -> 登出；另提供会话换 JWT
type OAuth struct {
	providers   auth.Providers
	users       *service.OAuthUserService
	store       session.Store
	cookies     *session.CookieManager
	stateSecret string
	jwter       *auth.JWTer
	log         *zap.Logger
}

type OAuthDeps struct {
	Providers   auth.Providers
	Users       *service.OAuthUserService
	Store       session.Store
	Cookies     *session.CookieManager
	StateSecret string
	JWT         *auth.JWTer
	Logger      *zap.Logger
}

func NewOAuth(d OAuthDeps) *OAuth {
	l := d.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &OAuth{
		providers:   d.Providers,
		users:       d.Users,
		store:       d.Store,
		cookies:     d.Cookies,
		stateSecret: d.StateSecret,
		jwter:       d.JWT,
		log:         l.Named("oauth"),
	}
}

func (h *OAuth) MountPublic(r gin.IRouter) {
	// 登录入口按 IP 限速
	login := r.Group("", mdw.RateLimitPerIP(loginRPS, loginBurst))
	login.GET("/oauth2/authorization/:registrationId", h.authorize)
	login.GET("/login/oauth2/code/:registrationId", h.callback)
	r.GET("/logout", h.logout)
	r.POST("/logout", h.logout)
}

func (h *OAuth) MountAPI(api *gin.RouterGroup) {
	type tokenOut struct {
		Token string `json:"token"`
	}
	httpez.RegisterAction(httpez.New(api), httpez.Action[struct{}, tokenOut]{
		Method: http.MethodGet,
		Path:   "/auth/token",
		Binder: httpez.BindNone,
		Roles:  []domain.Role{domain.RoleUser},
		Handler: func(c *gin.Context, _ *struct{}) (tokenOut, error) {
			u, _ := mdw.LoginUser(c)
			tok, err := h.jwter.Issue(u)
			if err != nil {
				return tokenOut{}, httpez.Internal("issue token failed", err)
			}
			return tokenOut{Token: tok}, nil
		},
	})
}

func (h *OAuth) authorize(c *gin.Context) {
	p, ok := h.providers.Get(c.Param("registrationId"))
	if !ok {
		resp.Write(c, resp.Error(resp.CodeNotFound, "unknown provider"))
		return
	}
	state, err := auth.NewRandomString(24)
	if err != nil {
		httpez.WriteError(c, err)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookie,
		Value:    auth.SignState(state, h.stateSecret),
		Path:     "/",
		MaxAge:   stateCookieTTL,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, p.AuthURL(state))
}

func (h *OAuth) callback(c *gin.Context) {
	regID := c.Param("registrationId")
	raw, _ := c.Cookie(stateCookie)
	http.SetCookie(c.Writer, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	// 用户在授权页点了取消
	if e := c.Query("error"); e != "" {
		h.log.Info("oauth denied", zap.String("provider", regID), zap.String("error", e))
		c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(e))
		return
	}

	state, ok := auth.VerifySignedState(raw, h.stateSecret)
	if !ok || state != c.Query("state") {
		resp.Write(c, resp.Error(resp.CodeBadRequest, "invalid oauth state"))
		return
	}
	code := c.Query("code")
	if code == "" {
		resp.Write(c, resp.Error(resp.CodeBadRequest, "missing code"))
		return
	}

	u, err := h.users.LoadUser(c.Request.Context(), regID, code)
	if err != nil {
		h.log.Warn("oauth login failed", zap.String("provider", regID), zap.Error(err))
		httpez.WriteError(c, err)
		return
	}

	// 旧会话作废，换新 id
	if old := h.cookies.Read(c.Request); old != "" {
		_ = h.store.Delete(c.Request.Context(), old)
	}
	sid, err := h.store.Create(c.Request.Context(), u)
	if err != nil {
		httpez.WriteError(c, err)
		return
	}
	h.cookies.Set(c.Writer, sid)
	h.log.Info("login", zap.String("provider", regID), zap.Int64("uid", u.ID))
	c.Redirect(http.StatusFound, "/")
}

func (h *OAuth) logout(c *gin.Context) {
	if sid := h.cookies.Read(c.Request); sid != "" {
		if err := h.store.Delete(c.Request.Context(), sid); err != nil {
			h.log.Warn("delete session failed", zap.Error(err))
		}
	}
	h.cookies.Clear(c.Writer)
	c.Redirect(http.StatusFound, "/")
}
