package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/ez"
	resp "horti-admin/internal/transport/http/response"
)

type Plantations struct{ svc *service.PlantationService }

func NewPlantations(svc *service.PlantationService) *Plantations {
	return &Plantations{svc: svc}
}

type plantationQuery struct {
	domain.PlantationFilter
	domain.Page
}

func (h *Plantations) Priority() int { return 40 }

func (h *Plantations) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/plantations"))

	ez.RegisterAction(e, ez.Action[none, []PlantationDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) ([]PlantationDTO, error) {
			ps, err := h.svc.List(c.Request.Context())
			if err != nil {
				return nil, err
			}
			return mapSlice(ps, plantationDTO), nil
		},
	})
	ez.RegisterAction(e, ez.Action[plantationQuery, []PlantationThinDTO]{
		Method: http.MethodGet, Path: "/search", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, q *plantationQuery) ([]PlantationThinDTO, error) {
			ps, err := h.svc.Search(c.Request.Context(), q.PlantationFilter, q.Page)
			if err != nil {
				return nil, err
			}
			return mapSlice(ps, plantationThinDTO), nil
		},
	})
	ez.RegisterAction(e, ez.Action[domain.PlantationFilter, gin.H]{
		Method: http.MethodGet, Path: "/search/total", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, f *domain.PlantationFilter) (gin.H, error) {
			n, err := h.svc.Total(c.Request.Context(), *f)
			if err != nil {
				return nil, err
			}
			return gin.H{"total": n}, nil
		},
	})
	e.Handle(http.MethodGet, "/excel", func(c *gin.Context) error {
		var f domain.PlantationFilter
		if err := c.ShouldBindQuery(&f); err != nil {
			return resp.Validation(err)
		}
		buf, err := h.svc.Excel(c.Request.Context(), f)
		if err != nil {
			return err
		}
		sendExcel(c, "fincas", buf)
		return nil
	})
	ez.RegisterAction(e, ez.Action[none, PlantationDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (PlantationDTO, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return PlantationDTO{}, err
			}
			p, err := h.svc.Get(c.Request.Context(), id)
			if err != nil {
				return PlantationDTO{}, err
			}
			return plantationDTO(*p), nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.PlantationInput, gin.H]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.PlantationInput) (gin.H, error) {
			id, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return nil, err
			}
			return gin.H{"plantation": id}, nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.PlantationInput, gin.H]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.PlantationInput) (gin.H, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			if _, err := h.svc.Update(c.Request.Context(), id, *in); err != nil {
				return nil, err
			}
			return gin.H{"plantation": id}, nil
		},
	})
	mountLifecycle(e, "plantation", h.svc)
}
