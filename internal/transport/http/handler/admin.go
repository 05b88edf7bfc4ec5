package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-gin-blog/internal/domain"
	"go-gin-blog/internal/service"
	httpez "go-gin-blog/internal/transport/http/ez"
)

// Admin 管理端：用户列表 / 角色变更（GUEST -> USER 才能发帖）
type Admin struct{ users *service.UserService }

func NewAdmin(users *service.UserService) *Admin { return &Admin{users: users} }

type userRow struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CreatedDate time.Time `json:"createdDate"`
}

func newUserRow(u *domain.User) userRow {
	return userRow{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), CreatedDate: u.CreatedDate}
}

func (h *Admin) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users  用户列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 email/name 模糊搜
	}
	type listOut struct {
		Total int64     `json:"total"`
		Items []userRow `json:"items"`
	}
	httpez.RegisterAction(ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]userRow, 0, len(us))}
			for i := range us {
				out.Items = append(out.Items, newUserRow(&us[i]))
			}
			return out, nil
		},
	})

	// --- PUT /admin/v1/users/:id/role  角色变更 ---
	type roleIn struct {
		ID   int64  `uri:"id" json:"-" binding:"required,min=1"`
		Role string `json:"role" binding:"required"`
	}
	httpez.RegisterAction(ez, httpez.Action[roleIn, userRow]{
		Method: http.MethodPut,
		Path:   "/users/:id/role",
		Binder: httpez.BindURIJSON,
		Handler: func(c *gin.Context, in *roleIn) (userRow, error) {
			role, err := domain.ParseRole(in.Role)
			if err != nil {
				return userRow{}, err
			}
			u, err := h.users.ChangeRole(c.Request.Context(), in.ID, role)
			if err != nil {
				return userRow{}, err
			}
			return newUserRow(u), nil
		},
	})
}
