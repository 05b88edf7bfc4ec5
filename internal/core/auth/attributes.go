package auth

import "go-gin-blog/internal/domain"

// OAuthAttributes 各家 userinfo 响应归一化后的结果
type OAuthAttributes struct {
	Attributes       map[string]any
	NameAttributeKey string
	Name             string
	Email            string
	Picture          string
}

// Of 按 registrationId 选择字段路径：
// naver 在 response 下，kakao 在 kakao_account / kakao_account.profile 下，其余按 google 顶层字段
func Of(registrationID, userNameAttributeName string, attrs map[string]any) OAuthAttributes {
	switch registrationID {
	case "naver":
		return ofNaver("id", attrs)
	case "kakao":
		return ofKakao("id", attrs)
	}
	return ofGoogle(userNameAttributeName, attrs)
}

func ofGoogle(key string, attrs map[string]any) OAuthAttributes {
	return OAuthAttributes{
		Attributes:       attrs,
		NameAttributeKey: key,
		Name:             str(attrs, "name"),
		Email:            str(attrs, "email"),
		Picture:          str(attrs, "picture"),
	}
}

func ofNaver(key string, attrs map[string]any) OAuthAttributes {
	resp := sub(attrs, "response")
	return OAuthAttributes{
		Attributes:       resp,
		NameAttributeKey: key,
		Name:             str(resp, "name"),
		Email:            str(resp, "email"),
		Picture:          str(resp, "profile_image"),
	}
}

func ofKakao(key string, attrs map[string]any) OAuthAttributes {
	account := sub(attrs, "kakao_account")
	profile := sub(account, "profile")
	picture := str(profile, "profile_image")
	if picture == "" {
		picture = str(profile, "profile_image_url")
	}
	return OAuthAttributes{
		Attributes:       attrs,
		NameAttributeKey: key,
		Name:             str(profile, "nickname"),
		Email:            str(account, "email"),
		Picture:          picture,
	}
}

// ToEntity 首次登录建档，默认 GUEST
func (a OAuthAttributes) ToEntity() *domain.User {
	return &domain.User{
		Name:    a.Name,
		Email:   a.Email,
		Picture: a.Picture,
		Role:    domain.RoleGuest,
	}
}

func sub(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]any)
	return v
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
