package router

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-blog/internal/domain"
	"go-gin-blog/internal/service"
	mdw "go-gin-blog/internal/transport/http/middleware"
)

func TestOpenEndpoints(t *testing.T) {
	app := newTestApp(t, nil)

	w := call(app.api, http.MethodGet, "/hello", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = call(app.api, http.MethodGet, "/hello/dto?name=hello&amount=1000", "")
	assert.JSONEq(t, `{"name":"hello","amount":1000}`, w.Body.String())

	w = call(app.api, http.MethodGet, "/profile", "")
	assert.Equal(t, "real1", w.Body.String())

	w = call(app.api, http.MethodGet, "/health", "")
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())

	w = call(app.api, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	for _, p := range []string{"/css/app.css", "/js/app/index.js", "/images/logo.svg"} {
		assert.Equal(t, http.StatusOK, call(app.api, http.MethodGet, p, "").Code, p)
	}
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t, fakeGoogle(t, nil))

	w := call(app.api, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gin 으로 시작하는 웹 서비스")
	assert.Contains(t, w.Body.String(), "/oauth2/authorization/google")
	assert.NotContains(t, w.Body.String(), "Logged in as")

	w = call(app.api, http.MethodGet, "/", "", withCookie(app.loginAs(t, "kim", domain.RoleUser)))
	assert.Contains(t, w.Body.String(), `Logged in as: <span id="user">kim</span>`)
}

func TestPostsAPIRequiresUserRole(t *testing.T) {
	app := newTestApp(t, nil)

	w := call(app.api, http.MethodGet, "/api/v1/posts", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(app.api, http.MethodPost, "/api/v1/posts", `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	guest := app.loginAs(t, "guest", domain.RoleGuest)
	w = call(app.api, http.MethodGet, "/api/v1/posts/1", "", withCookie(guest))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostsCRUD(t *testing.T) {
	app := newTestApp(t, nil)
	user := withCookie(app.loginAs(t, "kim", domain.RoleUser))

	// 保存
	var created struct{ ID int64 }
	w := call(app.api, http.MethodPost, "/api/v1/posts", `{"title":"title","content":"content","author":"author"}`, user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	require.Positive(t, created.ID)
	path := "/api/v1/posts/" + strconv.FormatInt(created.ID, 10)

	var got service.PostResponse
	decode(t, call(app.api, http.MethodGet, path, "", user), &got)
	assert.Equal(t, service.PostResponse{ID: created.ID, Title: "title", Content: "content", Author: "author"}, got)

	// 只改标题
	w = call(app.api, http.MethodPut, path, `{"title":"title2"}`, user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, call(app.api, http.MethodGet, path, "", user), &got)
	assert.Equal(t, "title2", got.Title)
	assert.Equal(t, "content", got.Content)

	var list []service.PostListResponse
	decode(t, call(app.api, http.MethodGet, "/api/v1/posts", "", user), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "title2", list[0].Title)

	// 删除
	w = call(app.api, http.MethodDelete, path, "", user)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(app.api, http.MethodGet, path, "", user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Msg, "post not found. id = "+strconv.FormatInt(created.ID, 10))

	decode(t, call(app.api, http.MethodGet, "/api/v1/posts", "", user), &list)
	assert.Empty(t, list)
}

func TestPostsValidationAndMissing(t *testing.T) {
	app := newTestApp(t, nil)
	user := withCookie(app.loginAs(t, "kim", domain.RoleUser))

	assert.Equal(t, http.StatusBadRequest, call(app.api, http.MethodPost, "/api/v1/posts", `{"content":"c"}`, user).Code)
	assert.Equal(t, http.StatusBadRequest, call(app.api, http.MethodGet, "/api/v1/posts/abc", "", user).Code)
	assert.Equal(t, http.StatusBadRequest, call(app.api, http.MethodPut, "/api/v1/posts/99", `{"title":"x"}`, user).Code)
	assert.Equal(t, http.StatusBadRequest, call(app.api, http.MethodDelete, "/api/v1/posts/99", "", user).Code)
}

func TestPostAuthorDefaultsToLoginUser(t *testing.T) {
	app := newTestApp(t, nil)
	user := withCookie(app.loginAs(t, "kim", domain.RoleUser))

	var created struct{ ID int64 }
	decode(t, call(app.api, http.MethodPost, "/api/v1/posts", `{"title":"t","content":"c"}`, user), &created)

	var got service.PostResponse
	decode(t, call(app.api, http.MethodGet, "/api/v1/posts/"+strconv.FormatInt(created.ID, 10), "", user), &got)
	assert.Equal(t, "kim", got.Author)

	w := call(app.api, http.MethodGet, "/posts/update/"+strconv.FormatInt(created.ID, 10), "", user)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="t"`)
}

func TestUpdatePageUnknownPost(t *testing.T) {
	app := newTestApp(t, nil)
	user := withCookie(app.loginAs(t, "kim", domain.RoleUser))

	w := call(app.api, http.MethodGet, "/posts/update/999", "", user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w, nil).Msg, "post not found. id = 999")

	w = call(app.api, http.MethodGet, "/posts/update/abc", "", user)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionCookieSlides(t *testing.T) {
	app := newTestApp(t, fakeGoogle(t, map[string]any{
		"sub": "77", "name": "Lee", "email": "lee@example.com",
	}))
	sess := login(t, app)
	assert.Equal(t, 1800, sess.MaxAge)

	w := call(app.api, http.MethodGet, "/", "", withCookie(sess))
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := cookieNamed(w, "SESSION")
	require.NotNil(t, refreshed)
	assert.Equal(t, sess.Value, refreshed.Value)
	assert.Equal(t, 1800, refreshed.MaxAge)
	assert.True(t, refreshed.HttpOnly)

	// 匿名请求不下发会话 cookie
	assert.Nil(t, cookieNamed(call(app.api, http.MethodGet, "/", ""), "SESSION"))
}

func TestSessionTokenThenBearer(t *testing.T) {
	app := newTestApp(t, nil)
	user := withCookie(app.loginAs(t, "kim", domain.RoleUser))

	var tok struct{ Token string }
	w := call(app.api, http.MethodGet, "/api/v1/auth/token", "", user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &tok)
	require.NotEmpty(t, tok.Token)

	w = call(app.api, http.MethodGet, "/api/v1/posts", "", withHeader("Authorization", "Bearer "+tok.Token))
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(app.api, http.MethodGet, "/api/v1/posts", "", withHeader("Authorization", "Bearer nope"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// login 走完一次授权跳转 + 回调，返回会话 cookie
func login(t *testing.T, app *testApp) *http.Cookie {
	t.Helper()
	w := call(app.api, http.MethodGet, "/oauth2/authorization/google", "")
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	stateCookie := cookieNamed(w, "oauth_state")
	require.NotNil(t, stateCookie)

	w = call(app.api, http.MethodGet, "/login/oauth2/code/google?code=good-code&state="+url.QueryEscape(state), "",
		withCookie(stateCookie))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))
	sess := cookieNamed(w, "SESSION")
	require.NotNil(t, sess)
	return sess
}

func TestOAuthLoginPromoteAndLogout(t *testing.T) {
	app := newTestApp(t, fakeGoogle(t, map[string]any{
		"sub": "1234", "name": "Kim", "email": "kim@example.com", "picture": "https://img/kim.png",
	}))

	// 首次登录为 GUEST
	sess := login(t, app)
	w := call(app.api, http.MethodGet, "/api/v1/posts", "", withCookie(sess))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理端提权
	key := withHeader(mdw.HeaderAdminKey, testAdminKey)
	var users struct {
		Total int64
		Items []struct {
			ID    int64
			Email string
			Role  string
		}
	}
	decode(t, call(app.admin, http.MethodGet, "/admin/v1/users?q=kim", "", key), &users)
	require.EqualValues(t, 1, users.Total)
	assert.Equal(t, "GUEST", users.Items[0].Role)

	rolePath := "/admin/v1/users/" + strconv.FormatInt(users.Items[0].ID, 10) + "/role"
	w = call(app.admin, http.MethodPut, rolePath, `{"role":"ROLE_USER"}`, key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 重新登录后会话带上 USER
	sess = login(t, app)
	w = call(app.api, http.MethodPost, "/api/v1/posts", `{"title":"t","content":"c"}`, withCookie(sess))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 登出后会话失效
	w = call(app.api, http.MethodPost, "/logout", "", withCookie(sess))
	assert.Equal(t, http.StatusFound, w.Code)
	w = call(app.api, http.MethodGet, "/api/v1/posts", "", withCookie(sess))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOAuthCallbackRejectsBadState(t *testing.T) {
	app := newTestApp(t, fakeGoogle(t, map[string]any{"sub": "1", "email": "a@b.c"}))

	w := call(app.api, http.MethodGet, "/login/oauth2/code/google?code=good-code&state=forged", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(app.api, http.MethodGet, "/login/oauth2/code/google?error=access_denied", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/?error=access_denied", w.Header().Get("Location"))

	w = call(app.api, http.MethodGet, "/oauth2/authorization/github", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRequiresKey(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, http.StatusUnauthorized, call(app.admin, http.MethodGet, "/admin/v1/users", "").Code)
	assert.Equal(t, http.StatusForbidden,
		call(app.admin, http.MethodGet, "/admin/v1/users", "", withHeader(mdw.HeaderAdminKey, "wrong")).Code)

	key := withHeader(mdw.HeaderAdminKey, testAdminKey)
	assert.Equal(t, http.StatusOK, call(app.admin, http.MethodGet, "/admin/v1/users", "", key).Code)
	assert.Equal(t, http.StatusBadRequest, call(app.admin, http.MethodPut, "/admin/v1/users/1/role", `{"role":"ADMIN"}`, key).Code)
	assert.Equal(t, http.StatusBadRequest, call(app.admin, http.MethodPut, "/admin/v1/users/42/role", `{"role":"USER"}`, key).Code)
}

func TestRegistryPriority(t *testing.T) {
	var order []string
	reg := NewRegistry(
		apiMod{name: "late", prio: 200, order: &order},
		apiMod{name: "default", prio: -1, order: &order},
		apiMod{name: "early", prio: 1, order: &order},
	)
	reg.MountAPI(nil)
	assert.Equal(t, []string{"early", "default", "late"}, order)
}
