package handler

import (
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/service"
	"horti-admin/internal/transport/http/ez"
)

type Uploads struct{ svc *service.UploadService }

func NewUploads(svc *service.UploadService) *Uploads { return &Uploads{svc: svc} }

func (h *Uploads) Priority() int { return 50 }

func (h *Uploads) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/upload"))

	ez.Upload(e, "", "file", func(c *gin.Context, fh *multipart.FileHeader) (*UploadDTO, error) {
		f, err := fh.Open()
		if err != nil {
			return nil, domain.BadRequest(domain.CodeValidationFailed, "file could not be read")
		}
		defer f.Close()
		mt := fh.Header.Get("Content-Type")
		if mt == "" {
			mt = "application/octet-stream"
		}
		u, err := h.svc.Upload(c.Request.Context(), fh.Filename, mt, f)
		if err != nil {
			return nil, err
		}
		return uploadDTO(u), nil
	})
	e.Handle(http.MethodGet, "/:id", func(c *gin.Context) error {
		id, err := ez.ParamID(c)
		if err != nil {
			return err
		}
		u, rc, err := h.svc.Open(c.Request.Context(), id)
		if err != nil {
			return err
		}
		defer rc.Close()
		disp := mime.FormatMediaType("inline", map[string]string{"filename": u.Name})
		c.DataFromReader(http.StatusOK, u.Size, u.Mimetype, rc, map[string]string{"Content-Disposition": disp})
		return nil
	})
	ez.RegisterAction(e, ez.Action[none, gin.H]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (gin.H, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"upload": id}, nil
		},
	})
}
