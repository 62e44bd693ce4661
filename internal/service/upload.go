package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"horti-admin/internal/blob/core"
	"horti-admin/internal/domain"
)

type UploadService struct {
	repo  domain.UploadRepository
	store core.Store
	log   *zap.Logger
	key   func(name string) string
}

func NewUploadService(repo domain.UploadRepository, store core.Store, log *zap.Logger) *UploadService {
	return &UploadService{repo: repo, store: store, log: log, key: blobKey}
}

// blobKey is a random key keeping the original extension.
func blobKey(name string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(name, "\\", "/"))))
	if len(ext) > 16 || strings.ContainsAny(ext, " /") {
		ext = ""
	}
	return uuid.NewString() + ext
}

// Upload stores r and records its descriptor. The blob is removed again when
// the row cannot be written.
func (s *UploadService) Upload(ctx context.Context, name, mimetype string, r io.Reader) (*domain.Upload, error) {
	key := s.key(name)
	info, err := s.store.Put(ctx, key, r, mimetype)
	if err != nil {
		return nil, domain.Internal(err)
	}
	u := &domain.Upload{Name: name, Mimetype: mimetype, Size: info.Size, Path: info.Key}
	if err := s.repo.Create(ctx, u); err != nil {
		if derr := s.store.Delete(ctx, info.Key); derr != nil {
			s.log.Warn("orphan blob", zap.String("key", info.Key), zap.Error(derr))
		}
		return nil, err
	}
	s.log.Info("file uploaded", zap.Uint("id", u.ID), zap.String("key", u.Path),
		zap.Int64("size", u.Size), zap.String("driver", string(s.store.Driver())))
	return u, nil
}

// Open returns the descriptor and a reader over the stored bytes; the caller closes it.
func (s *UploadService) Open(ctx context.Context, id uint) (*domain.Upload, io.ReadCloser, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	_, rc, err := s.store.Get(ctx, u.Path)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil, domain.NotFound(domain.CodeUploadNotFound)
	}
	if err != nil {
		return nil, nil, domain.Internal(err)
	}
	return u, rc, nil
}

func (s *UploadService) Delete(ctx context.Context, id uint) error {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, u.Path); err != nil {
		s.log.Warn("blob delete failed", zap.String("key", u.Path), zap.Error(err))
	}
	return nil
}
