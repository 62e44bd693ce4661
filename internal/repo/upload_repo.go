package repo

import (
	"context"

	"gorm.io/gorm"

	"horti-admin/internal/domain"
)

const modelUpload = "Upload"

type UploadRepo struct{ db *gorm.DB }

var _ domain.UploadRepository = (*UploadRepo)(nil)

func NewUploadRepo(db *gorm.DB) *UploadRepo { return &UploadRepo{db: db} }

func (r *UploadRepo) Create(ctx context.Context, u *domain.Upload) error {
	return translate(modelUpload, r.db.WithContext(ctx).Create(u).Error)
}

func (r *UploadRepo) Get(ctx context.Context, id uint) (*domain.Upload, error) {
	var u domain.Upload
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(modelUpload, err)
	}
	return &u, nil
}

// Delete hard-deletes the row and detaches it from plantation documents.
func (r *UploadRepo) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&domain.PlantationTransferDetails{}, &domain.PlantationChecks{}} {
			if err := tx.Model(m).Where("document_id = ?", id).Update("document_id", nil).Error; err != nil {
				return translate(modelUpload, err)
			}
		}
		res := tx.Delete(&domain.Upload{}, id)
		if res.Error != nil {
			return translate(modelUpload, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(modelUpload)
		}
		return nil
	})
}
