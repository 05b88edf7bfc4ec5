package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var realProfiles = []string{"real", "real1", "real2"}

const defaultProfile = "default"

// Profile 无停机部署时用来判断当前实例跑的是哪套配置
func Profile(active []string) string {
	for _, p := range active {
		for _, r := range realProfiles {
			if p == r {
				return p
			}
		}
	}
	if len(active) > 0 {
		return active[0]
	}
	return defaultProfile
}

type ProfileHandler struct{ profiles []string }

func NewProfileHandler(profiles []string) *ProfileHandler {
	return &ProfileHandler{profiles: append([]string(nil), profiles...)}
}

func (h *ProfileHandler) MountPublic(r gin.IRouter) {
	r.GET("/profile", func(c *gin.Context) { c.String(http.StatusOK, Profile(h.profiles)) })
}
