package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-gin-blog/internal/transport/http/response"
)

type HelloResponse struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type helloQuery struct {
	Name   string `form:"name"   binding:"required"`
	Amount *int   `form:"amount" binding:"required"`
}

// Hello 连通性自检：/hello 返回纯文本，/hello/dto 原样回显参数（不包信封）
type Hello struct{}

func (Hello) MountPublic(r gin.IRouter) {
	r.GET("/hello", func(c *gin.Context) { c.String(http.StatusOK, "hello") })
	r.GET("/hello/dto", func(c *gin.Context) {
		var q helloQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			resp.Write(c, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, HelloResponse{Name: q.Name, Amount: *q.Amount})
	})
}
