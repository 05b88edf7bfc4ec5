package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-blog/internal/domain"
	"go-gin-blog/internal/service"
	httpez "go-gin-blog/internal/transport/http/ez"
	mdw "go-gin-blog/internal/transport/http/middleware"
)

// Posts /api/v1/posts 增删改查
type Posts struct{ svc *service.PostService }

func NewPosts(svc *service.PostService) *Posts { return &Posts{svc: svc} }

func (*Posts) Priority() int { return 10 }

type postID struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type postUpdateIn struct {
	ID int64 `uri:"id" json:"-" binding:"required,min=1"`
	service.PostUpdateRequest
}

type idOut struct {
	ID int64 `json:"id"`
}

func (h *Posts) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)
	roles := []domain.Role{domain.RoleUser}

	httpez.RegisterAction(ez, httpez.Action[service.PostSaveRequest, idOut]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: httpez.BindJSON,
		Roles:  roles,
		Handler: func(c *gin.Context, in *service.PostSaveRequest) (idOut, error) {
			// 作者留空时取当前登录用户
			if strings.TrimSpace(in.Author) == "" {
				if u, ok := mdw.LoginUser(c); ok {
					in.Author = u.Name
				}
			}
			id, err := h.svc.Save(c.Request.Context(), *in)
			return idOut{ID: id}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, []service.PostListResponse]{
		Method: http.MethodGet,
		Path:   "/posts",
		Binder: httpez.BindNone,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.PostListResponse, error) {
			return h.svc.FindAllDesc(c.Request.Context())
		},
	})

	httpez.RegisterAction(ez, httpez.Action[postID, *service.PostResponse]{
		Method: http.MethodGet,
		Path:   "/posts/:id",
		Binder: httpez.BindURI,
		Roles:  roles,
		Handler: func(c *gin.Context, in *postID) (*service.PostResponse, error) {
			return h.svc.FindByID(c.Request.Context(), in.ID)
		},
	})

	httpez.RegisterAction(ez, httpez.Action[postUpdateIn, idOut]{
		Method: http.MethodPut,
		Path:   "/posts/:id",
		Binder: httpez.BindURIJSON,
		Roles:  roles,
		Handler: func(c *gin.Context, in *postUpdateIn) (idOut, error) {
			id, err := h.svc.Update(c.Request.Context(), in.ID, in.PostUpdateRequest)
			return idOut{ID: id}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[postID, idOut]{
		Method: http.MethodDelete,
		Path:   "/posts/:id",
		Binder: httpez.BindURI,
		Roles:  roles,
		Handler: func(c *gin.Context, in *postID) (idOut, error) {
			if err := h.svc.Delete(c.Request.Context(), in.ID); err != nil {
				return idOut{}, err
			}
			return idOut{ID: in.ID}, nil
		},
	})
}
