package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/core/config"
	"go-gin-blog/internal/core/database"
	"go-gin-blog/internal/core/session"
	"go-gin-blog/internal/domain"
	"go-gin-blog/internal/repo"
	"go-gin-blog/internal/service"
	"go-gin-blog/internal/transport/http/handler"
	"go-gin-blog/pkg/utils"
)

const (
	testAdminKey    = "admin-key"
	testStateSecret = "state-secret"
)

type testApp struct {
	api     *gin.Engine
	admin   *gin.Engine
	store   *session.MemoryStore
	cookies *session.CookieManager
}

func newTestApp(t *testing.T, providers auth.Providers) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l := zap.NewNop()

	dsn := "file:router_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: dsn, LogLevel: "silent", Logger: l})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if providers == nil {
		providers = auth.Providers{}
	}
	postSvc := service.NewPostService(repo.NewPostRepo(db), nil, 0, l)
	userSvc := service.NewUserService(repo.NewUserRepo(db), l)
	oauthSvc := service.NewOAuthUserService(providers, userSvc, l)

	store := session.NewMemoryStore(30 * time.Minute)
	cookies := session.NewCookieManager(config.Session{})
	jwter := &auth.JWTer{Secret: []byte("jwt-secret"), Issuer: "go-gin-blog", TTL: time.Hour}

	api, err := NewAPIEngine(APIDeps{
		Logger: l, Mode: gin.TestMode, Store: store, Cookies: cookies, JWT: jwter,
	}, NewRegistry(
		handler.Hello{},
		handler.NewProfileHandler([]string{"oauth", "real1"}),
		handler.NewIndex(postSvc, providers),
		handler.NewPosts(postSvc),
		handler.NewOAuth(handler.OAuthDeps{
			Providers: providers, Users: oauthSvc, Store: store, Cookies: cookies,
			StateSecret: testStateSecret, JWT: jwter, Logger: l,
		}),
	))
	require.NoError(t, err)

	hash, err := utils.HashSecret(testAdminKey)
	require.NoError(t, err)
	admin := NewAdminEngine(AdminDeps{Logger: l, Mode: gin.TestMode, APIKeyHash: hash},
		NewRegistry(handler.NewAdmin(userSvc)))

	return &testApp{api: api, admin: admin, store: store, cookies: cookies}
}

// loginAs 直接写一条会话，返回对应 cookie
func (a *testApp) loginAs(t *testing.T, name string, role domain.Role) *http.Cookie {
	t.Helper()
	id, err := a.store.Create(context.Background(), &domain.SessionUser{ID: 1, Name: name, Email: name + "@example.com", Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: a.cookies.Name, Value: id}
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt { return func(r *http.Request) { r.AddCookie(c) } }

func withHeader(k, v string) reqOpt { return func(r *http.Request) { r.Header.Set(k, v) } }

func call(h http.Handler, method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// fakeGoogle token + userinfo 端点
func fakeGoogle(t *testing.T, userinfo map[string]any) auth.Providers {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userinfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return auth.Providers{"google": auth.NewProvider(auth.Registration{
		ID:           "google",
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/login/oauth2/code/google",
		Scopes:       []string{"profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/authorize",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURI:       srv.URL + "/userinfo",
		UserNameAttribute: "sub",
	})}
}

type apiMod struct {
	name  string
	prio  int
	order *[]string
}

func (m apiMod) MountAPI(*gin.RouterGroup) { *m.order = append(*m.order, m.name) }

func (m apiMod) Priority() int {
	if m.prio < 0 {
		return 100
	}
	return m.prio
}
