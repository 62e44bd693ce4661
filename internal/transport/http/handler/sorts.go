package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/ez"
)

type Sorts struct{ svc *service.SortService }

func NewSorts(svc *service.SortService) *Sorts { return &Sorts{svc: svc} }

func (h *Sorts) Priority() int { return 30 }

func (h *Sorts) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/sorts"))

	ez.RegisterAction(e, ez.Action[domain.SortFilter, []SortDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, f *domain.SortFilter) ([]SortDTO, error) {
			ss, err := h.svc.List(c.Request.Context(), *f)
			if err != nil {
				return nil, err
			}
			return mapSlice(ss, sortDTO), nil
		},
	})
	ez.RegisterAction(e, ez.Action[none, SortDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (SortDTO, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return SortDTO{}, err
			}
			s, err := h.svc.Get(c.Request.Context(), id)
			if err != nil {
				return SortDTO{}, err
			}
			return sortDTO(*s), nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.SortInput, gin.H]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SortInput) (gin.H, error) {
			s, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return nil, err
			}
			return gin.H{"sort": s.ID}, nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.SortPatch, gin.H]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.SortPatch) (gin.H, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			if _, err := h.svc.Update(c.Request.Context(), id, *in); err != nil {
				return nil, err
			}
			return gin.H{"sort": id}, nil
		},
	})
	mountLifecycle(e, "sort", h.svc)
}
