package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"horti-admin/internal/core/auth"
	"horti-admin/internal/core/config"
	"horti-admin/internal/core/server"
	"horti-admin/internal/domain"
	"horti-admin/internal/events"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/handler"
	mdw "horti-admin/internal/transport/http/middleware"
	resp "horti-admin/internal/transport/http/response"
)

type Services struct {
	Auth        *service.AuthService
	Users       *service.UserService
	Groups      *service.GroupService
	Categories  *service.CategoryService
	Sorts       *service.SortService
	Plantations *service.PlantationService
	Uploads     *service.UploadService
}

type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Limits   config.Limits
	Mode     string
	Origins  []string
	Services Services
	Hub      *events.Hub
}

// NewAPIEngine wires the middleware chain and every route of the service.
func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(server.Options{Mode: d.Mode, AllowOrigins: d.Origins},
		mdw.RequestID(),
		mdw.Recovery(d.Log),
	)
	// long-lived and probe routes sit outside the request budget
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.Hub != nil {
		r.GET("/events", events.Handler(d.Hub))
	}

	r.Use(
		mdw.RateLimitPerIP(rate.Limit(d.Limits.RPS), d.Limits.Burst, 10*time.Minute),
		mdw.ConcurrencyLimit(d.Limits.Concurrency),
		mdw.MaxBodyBytes(d.Limits.MaxBodyBytes),
		mdw.Timeout(d.Limits.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.NoRoute(func(c *gin.Context) { resp.Error(c, domain.NotFound(domain.CodeNotFound)) })

	s := d.Services
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(d.JWT))
	login := r.Group("", mdw.RateLimit(rate.Limit(d.Limits.LoginRPS), d.Limits.LoginBurst))
	mountAuth(login, authed, s.Auth)

	var reg Registry
	reg.Register(
		handler.NewGroups(s.Groups),
		handler.NewCategories(s.Categories),
		handler.NewSorts(s.Sorts),
		handler.NewPlantations(s.Plantations),
		handler.NewUploads(s.Uploads),
		handler.NewAdminUsers(s.Users),
	)
	reg.MountAPI(authed)

	admin := r.Group("/admin")
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin))
	reg.MountAdmin(admin)
	return r
}
