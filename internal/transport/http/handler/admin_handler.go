package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/ez"
)

// AdminUsers manages accounts under /admin; the group is already restricted to admins.
type AdminUsers struct{ svc *service.UserService }

func NewAdminUsers(svc *service.UserService) *AdminUsers { return &AdminUsers{svc: svc} }

type userList struct {
	Total int64     `json:"total"`
	Items []UserDTO `json:"items"`
}

func (h *AdminUsers) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin)

	ez.RegisterAction(e, ez.Action[domain.Page, userList]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Roles: []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, p *domain.Page) (userList, error) {
			us, total, err := h.svc.List(c.Request.Context(), *p)
			if err != nil {
				return userList{}, err
			}
			return userList{Total: total, Items: mapSlice(us, userDTO)}, nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.UserInput, UserDTO]{
		Method: http.MethodPost, Path: "/users", Binder: ez.BindJSON,
		Roles: []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *service.UserInput) (UserDTO, error) {
			u, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return UserDTO{}, err
			}
			return userDTO(*u), nil
		},
	})
}
