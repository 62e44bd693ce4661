// Package handler mounts the resource routes on top of the service layer
// and projects domain rows into response DTOs.
package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"horti-admin/internal/domain"
	"horti-admin/internal/export"
	"horti-admin/internal/transport/http/ez"
)

// softDeleter is the lifecycle surface every catalog and plantation service shares.
type softDeleter interface {
	Delete(ctx context.Context, id uint, a domain.Actor) error
	Cancel(ctx context.Context, id uint, a domain.Actor) error
}

type none struct{}

// mountLifecycle registers DELETE /:id and the two cancel routes. key names
// the entity in the {key: id} answer.
func mountLifecycle(e ez.EZ, key string, svc softDeleter) {
	run := func(op func(context.Context, uint, domain.Actor) error) func(*gin.Context, *none) (gin.H, error) {
		return func(c *gin.Context, _ *none) (gin.H, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			actor, err := ez.Identity(c)
			if err != nil {
				return nil, err
			}
			if err := op(c.Request.Context(), id, actor); err != nil {
				return nil, err
			}
			return gin.H{key: id}, nil
		}
	}
	cancel := run(svc.Cancel)
	ez.RegisterAction(e, ez.Action[none, gin.H]{Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, Handler: run(svc.Delete)})
	ez.RegisterAction(e, ez.Action[none, gin.H]{Method: http.MethodPost, Path: "/:id", Binder: ez.BindNone, Status: http.StatusOK, Handler: cancel})
	ez.RegisterAction(e, ez.Action[none, gin.H]{Method: http.MethodPost, Path: "/:id/cancel", Binder: ez.BindNone, Status: http.StatusOK, Handler: cancel})
}

// sendExcel writes an xlsx attachment named <prefix>-<date>.xlsx.
func sendExcel(c *gin.Context, prefix string, buf *bytes.Buffer) {
	name := prefix + "-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
