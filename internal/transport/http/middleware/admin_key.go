package middleware

import (
	"github.com/gin-gonic/gin"

	resp "go-gin-blog/internal/transport/http/response"
	"go-gin-blog/pkg/utils"
)

const HeaderAdminKey = "X-Admin-Key"

// AdminKey 校验 X-Admin-Key 与配置中的 bcrypt hash；未配置 hash 时拒绝全部请求
func AdminKey(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderAdminKey)
		if key == "" {
			resp.Abort(c, resp.CodeUnauthorized, "missing admin key")
			return
		}
		if hash == "" || !utils.CheckSecret(key, hash) {
			resp.Abort(c, resp.CodeForbidden, "invalid admin key")
			return
		}
		c.Next()
	}
}
