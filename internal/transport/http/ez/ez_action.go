// Package ez registers typed actions on gin groups: bind the input, run the
// handler, and answer with JSON or the error envelope.
package ez

import (
	"mime/multipart"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"horti-admin/internal/domain"
	mdw "horti-admin/internal/transport/http/middleware"
	resp "horti-admin/internal/transport/http/response"
)

func init() {
	// report json names ("legalEntities[0].name") instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = f.Tag.Get("form")
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Handle registers a raw handler that writes its own success response
// (downloads, streams). A returned error becomes the envelope.
func (e EZ) Handle(method, path string, h func(c *gin.Context) error) {
	e.g.Handle(method, path, func(c *gin.Context) {
		if err := h(c); err != nil {
			resp.Error(c, err)
		}
	})
}

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none"
)

// Action is one endpoint: I is the bound input, O the JSON body on success.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Roles   []domain.Role // empty: any authenticated actor, or public on open groups
	Status  int           // default 200, 201 for POST
	Handler func(c *gin.Context, in *I) (O, error)
}

func (a Action[I, O]) status() int {
	switch {
	case a.Status != 0:
		return a.Status
	case strings.EqualFold(a.Method, http.MethodPost):
		return http.StatusCreated
	}
	return http.StatusOK
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}
	e.g.Handle(method, a.Path, func(c *gin.Context) {
		if len(a.Roles) > 0 {
			actor, ok := mdw.Actor(c)
			if !ok {
				resp.Error(c, domain.Unauthorized(domain.CodeUnauthorized))
				return
			}
			if !slices.Contains(a.Roles, actor.Role) {
				resp.Error(c, domain.Forbidden())
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			resp.Error(c, resp.Validation(bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Error(c, err)
			return
		}
		c.JSON(a.status(), out)
	})
}

// Upload registers a single-file multipart endpoint reading field.
func Upload[O any](e EZ, path, field string, h func(c *gin.Context, fh *multipart.FileHeader) (O, error)) {
	e.g.POST(path, func(c *gin.Context) {
		fh, err := c.FormFile(field)
		if err != nil {
			if e := resp.From(err); e.Code == domain.CodePayloadTooLarge {
				resp.Error(c, e)
				return
			}
			resp.Error(c, domain.BadRequest(domain.CodeValidationFailed, field+" should not be empty"))
			return
		}
		out, err := h(c, fh)
		if err != nil {
			resp.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})
}

// ParamID parses the :id route parameter.
func ParamID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.BadRequest(domain.CodeInvalidID)
	}
	return uint(id), nil
}

// Identity is the authenticated actor; routes behind AuthJWT always have one.
func Identity(c *gin.Context) (domain.Actor, error) {
	a, ok := mdw.Actor(c)
	if !ok {
		return domain.Actor{}, domain.Unauthorized(domain.CodeUnauthorized)
	}
	return a, nil
}
