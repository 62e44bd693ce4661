package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/ez"
	resp "horti-admin/internal/transport/http/response"
)

type Groups struct{ svc *service.GroupService }

func NewGroups(svc *service.GroupService) *Groups { return &Groups{svc: svc} }

type groupQuery struct {
	domain.GroupFilter
	domain.Page
}

func (h *Groups) Priority() int { return 10 }

func (h *Groups) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/groups"))

	ez.RegisterAction(e, ez.Action[none, []GroupDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) ([]GroupDTO, error) {
			gs, err := h.svc.List(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return mapSlice(gs, groupDTO), nil
		},
	})
	ez.RegisterAction(e, ez.Action[groupQuery, []GroupDTO]{
		Method: http.MethodGet, Path: "/search", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *groupQuery) ([]GroupDTO, error) {
			gs, err := h.svc.Search(c.Request.Context(), q.GroupFilter, q.Page)
			if err != nil {
				return nil, err
			}
			return mapSlice(gs, groupDTO), nil
		},
	})
	ez.RegisterAction(e, ez.Action[domain.GroupFilter, gin.H]{
		Method: http.MethodGet, Path: "/search/total", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, f *domain.GroupFilter) (gin.H, error) {
			n, err := h.svc.Total(c.Request.Context(), *f)
			if err != nil {
				return nil, err
			}
			return gin.H{"total": n}, nil
		},
	})
	e.Handle(http.MethodGet, "/excel", func(c *gin.Context) error {
		var f domain.GroupFilter
		if err := c.ShouldBindQuery(&f); err != nil {
			return resp.Validation(err)
		}
		buf, err := h.svc.Excel(c.Request.Context(), f)
		if err != nil {
			return err
		}
		sendExcel(c, "groups", buf)
		return nil
	})
	ez.RegisterAction(e, ez.Action[none, GroupDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (GroupDTO, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return GroupDTO{}, err
			}
			g, err := h.svc.Get(c.Request.Context(), id)
			if err != nil {
				return GroupDTO{}, err
			}
			return groupDTO(*g), nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.GroupInput, gin.H]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.GroupInput) (gin.H, error) {
			g, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return nil, err
			}
			return gin.H{"group": g.ID}, nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.GroupInput, gin.H]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.GroupInput) (gin.H, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			if _, err := h.svc.Update(c.Request.Context(), id, *in); err != nil {
				return nil, err
			}
			return gin.H{"group": id}, nil
		},
	})
	mountLifecycle(e, "group", h.svc)
}
