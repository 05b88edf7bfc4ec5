package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"go-gin-blog/internal/core/config"
)

var (
	naverEndpoint = oauth2.Endpoint{
		AuthURL:   "https://nid.naver.com/oauth2.0/authorize",
		TokenURL:  "https://nid.naver.com/oauth2.0/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:   "https://kauth.kakao.com/oauth/authorize",
		TokenURL:  "https://kauth.kakao.com/oauth/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
)

type Registration struct {
	ID                string
	ClientID          string
	ClientSecret      string
	RedirectURL       string
	Scopes            []string
	Endpoint          oauth2.Endpoint
	UserInfoURI       string
	UserNameAttribute string // userinfo 中作为主键的字段
}

// Provider 一个 OAuth2 client registration：授权跳转 + code 换 token + 拉 userinfo
type Provider struct {
	reg    Registration
	config *oauth2.Config
}

func NewProvider(reg Registration) *Provider {
	return &Provider{
		reg: reg,
		config: &oauth2.Config{
			ClientID:     reg.ClientID,
			ClientSecret: reg.ClientSecret,
			RedirectURL:  reg.RedirectURL,
			Scopes:       reg.Scopes,
			Endpoint:     reg.Endpoint,
		},
	}
}

func (p *Provider) RegistrationID() string    { return p.reg.ID }
func (p *Provider) UserNameAttribute() string { return p.reg.UserNameAttribute }

func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange code -> access token -> GET userinfo，返回原始 JSON map
func (p *Provider) Exchange(ctx context.Context, code string) (map[string]any, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth %s: exchange code: %w", p.reg.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.reg.UserInfoURI, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth %s: userinfo: %w", p.reg.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth %s: userinfo status %d", p.reg.ID, resp.StatusCode)
	}
	var attrs map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("oauth %s: decode userinfo: %w", p.reg.ID, err)
	}
	return attrs, nil
}

type Providers map[string]*Provider

// NewProviders 只注册配置了 clientId 的 provider
func NewProviders(c config.OAuth) Providers {
	ps := Providers{}
	add := func(reg Registration) {
		if reg.ClientID != "" {
			ps[reg.ID] = NewProvider(reg)
		}
	}
	add(Registration{
		ID: "google", ClientID: c.Google.ClientID, ClientSecret: c.Google.ClientSecret,
		RedirectURL: c.Google.RedirectURL, Scopes: orDefault(c.Google.Scopes, "profile", "email"),
		Endpoint:          google.Endpoint,
		UserInfoURI:       "https://www.googleapis.com/oauth2/v3/userinfo",
		UserNameAttribute: "sub",
	})
	add(Registration{
		ID: "naver", ClientID: c.Naver.ClientID, ClientSecret: c.Naver.ClientSecret,
		RedirectURL: c.Naver.RedirectURL, Scopes: orDefault(c.Naver.Scopes, "name", "email", "profile_image"),
		Endpoint:          naverEndpoint,
		UserInfoURI:       "https://openapi.naver.com/v1/nid/me",
		UserNameAttribute: "response",
	})
	add(Registration{
		ID: "kakao", ClientID: c.Kakao.ClientID, ClientSecret: c.Kakao.ClientSecret,
		RedirectURL: c.Kakao.RedirectURL, Scopes: orDefault(c.Kakao.Scopes, "profile_nickname", "profile_image", "account_email"),
		Endpoint:          kakaoEndpoint,
		UserInfoURI:       "https://kapi.kakao.com/v2/user/me",
		UserNameAttribute: "id",
	})
	return ps
}

func (ps Providers) Get(id string) (*Provider, bool) {
	p, ok := ps[id]
	return p, ok
}

// IDs 排序后的 registrationId，首页登录按钮用
func (ps Providers) IDs() []string {
	ids := make([]string, 0, len(ps))
	for id := range ps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func orDefault(v []string, def ...string) []string {
	if len(v) > 0 {
		return v
	}
	return def
}
