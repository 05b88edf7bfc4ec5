package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-blog/internal/core/config"
	"go-gin-blog/internal/core/server"
	mdw "go-gin-blog/internal/transport/http/middleware"
)

type AdminDeps struct {
	Logger     *zap.Logger
	Mode       string
	HTTP       config.HTTP
	APIKeyHash string
}

func NewAdminEngine(d AdminDeps, reg *Registry) *gin.Engine {
	r := server.NewEngine(d.Logger, d.Mode)
	r.Use(common(d.Logger, d.HTTP)...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	// 管理端 v1（统一要求 X-Admin-Key）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AdminKey(d.APIKeyHash))
	reg.MountAdmin(admin)

	return r
}
