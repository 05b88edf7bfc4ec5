package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-blog/internal/core/auth"
	"go-gin-blog/internal/service"
	httpez "go-gin-blog/internal/transport/http/ez"
	mdw "go-gin-blog/internal/transport/http/middleware"
)

const pageTitle = "Gin Blog"

// Index 服务端渲染页面：首页列表 + 发帖/编辑页
type Index struct {
	posts     *service.PostService
	providers auth.Providers
}

func NewIndex(posts *service.PostService, providers auth.Providers) *Index {
	return &Index{posts: posts, providers: providers}
}

func (h *Index) MountPublic(r gin.IRouter) {
	r.GET("/", h.index)
	r.GET("/posts/save", h.save)
	r.GET("/posts/update/:id", h.update)
}

func (h *Index) page(c *gin.Context) gin.H {
	data := gin.H{"Title": pageTitle, "Providers": h.providers.IDs()}
	if u, ok := mdw.LoginUser(c); ok {
		data["User"] = u
	}
	return data
}

func (h *Index) index(c *gin.Context) {
	posts, err := h.posts.FindAllDesc(c.Request.Context())
	if err != nil {
		httpez.WriteError(c, err)
		return
	}
	data := h.page(c)
	data["Posts"] = posts
	c.HTML(http.StatusOK, "index.html", data)
}

func (h *Index) save(c *gin.Context) {
	c.HTML(http.StatusOK, "posts-save.html", h.page(c))
}

func (h *Index) update(c *gin.Context) {
	var in postID
	if err := c.ShouldBindUri(&in); err != nil {
		httpez.WriteError(c, httpez.BadRequest(err.Error()))
		return
	}
	p, err := h.posts.FindByID(c.Request.Context(), in.ID)
	if err != nil {
		httpez.WriteError(c, err)
		return
	}
	data := h.page(c)
	data["Post"] = p
	c.HTML(http.StatusOK, "posts-update.html", data)
}
