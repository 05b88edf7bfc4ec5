package utils

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptySecret = errors.New("empty secret")

// HashSecret 生成 bcrypt hash（管理端 API key 落配置前先 hash）
func HashSecret(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptySecret
	}
	b, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckSecret(s, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(s)) == nil
}
