package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	httpez "horti-admin/internal/transport/http/ez"
)

// mountAuth registers /auth/login on the public group and /auth/me behind the token check.
func mountAuth(public, authed *gin.RouterGroup, svc *service.AuthService) {
	httpez.RegisterAction(httpez.New(public), httpez.Action[service.LoginInput, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Status: http.StatusOK,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.LoginResult, error) {
			return svc.SignIn(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(httpez.New(authed), httpez.Action[struct{}, domain.Actor]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Actor, error) {
			return httpez.Identity(c)
		},
	})
}
