package repo

import (
	"context"

	"gorm.io/gorm"

	"horti-admin/internal/domain"
)

const modelSort = "Sort"

type SortRepo struct {
	Lifecycle[domain.Sort]
	db *gorm.DB
}

func NewSortRepo(db *gorm.DB) *SortRepo {
	return &SortRepo{Lifecycle: NewLifecycle[domain.Sort](db, modelSort, true), db: db}
}

func (r *SortRepo) List(ctx context.Context, f domain.SortFilter) ([]domain.Sort, error) {
	q := r.db.WithContext(ctx).Scopes(active)
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", domain.ContainsPattern(f.Name))
	}
	var out []domain.Sort
	err := q.Order("id ASC").Find(&out).Error
	return out, translate(modelSort, err)
}

func (r *SortRepo) Get(ctx context.Context, id uint) (*domain.Sort, error) {
	var s domain.Sort
	if err := r.db.WithContext(ctx).Scopes(active).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(modelSort, err)
	}
	return &s, nil
}

func (r *SortRepo) Create(ctx context.Context, s *domain.Sort) error {
	return translate(modelSort, r.db.WithContext(ctx).Create(s).Error)
}

func (r *SortRepo) Update(ctx context.Context, id uint, name string, categoryID uint) (*domain.Sort, error) {
	res := r.db.WithContext(ctx).Model(&domain.Sort{}).
		Scopes(active).Where("id = ?", id).
		Updates(map[string]any{"name": name, "category_id": categoryID})
	if res.Error != nil {
		return nil, translate(modelSort, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(modelSort)
	}
	return r.Get(ctx, id)
}
