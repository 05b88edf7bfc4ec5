package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-gin-blog/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；未声明长度的超限 body 在 JSON 绑定时报错，由 handler 返回 400
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
