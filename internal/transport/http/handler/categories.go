package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/ez"
)

type Categories struct{ svc *service.CategoryService }

func NewCategories(svc *service.CategoryService) *Categories { return &Categories{svc: svc} }

func (h *Categories) Priority() int { return 20 }

func (h *Categories) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/categories"))

	ez.RegisterAction(e, ez.Action[domain.CategoryFilter, []CategoryDTO]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, f *domain.CategoryFilter) ([]CategoryDTO, error) {
			cs, err := h.svc.List(c.Request.Context(), *f)
			if err != nil {
				return nil, err
			}
			return mapSlice(cs, categoryDTO), nil
		},
	})
	ez.RegisterAction(e, ez.Action[none, CategoryDTO]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (CategoryDTO, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return CategoryDTO{}, err
			}
			cat, err := h.svc.Get(c.Request.Context(), id)
			if err != nil {
				return CategoryDTO{}, err
			}
			return categoryDTO(*cat), nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.CategoryInput, gin.H]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CategoryInput) (gin.H, error) {
			cat, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return nil, err
			}
			return gin.H{"category": cat.ID}, nil
		},
	})
	ez.RegisterAction(e, ez.Action[service.CategoryPatch, gin.H]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CategoryPatch) (gin.H, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			if _, err := h.svc.Update(c.Request.Context(), id, *in); err != nil {
				return nil, err
			}
			return gin.H{"category": id}, nil
		},
	})
	mountLifecycle(e, "category", h.svc)
}
