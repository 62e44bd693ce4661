package repo

import (
	"context"

	"gorm.io/gorm"

	"horti-admin/internal/domain"
)

const modelCategory = "Category"

type CategoryRepo struct {
	Lifecycle[domain.Category]
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{Lifecycle: NewLifecycle[domain.Category](db, modelCategory, false), db: db}
}

func (r *CategoryRepo) List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	q := r.db.WithContext(ctx).Scopes(active)
	if f.GroupID != 0 {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", domain.ContainsPattern(f.Name))
	}
	var out []domain.Category
	err := q.Order("id ASC").Find(&out).Error
	return out, translate(modelCategory, err)
}

func (r *CategoryRepo) Get(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).Scopes(active).
		Preload("Sorts", func(db *gorm.DB) *gorm.DB { return byName(active(db)) }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, translate(modelCategory, err)
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return translate(modelCategory, r.db.WithContext(ctx).Omit("Sorts").Create(c).Error)
}

func (r *CategoryRepo) Update(ctx context.Context, id uint, name string, groupID uint) (*domain.Category, error) {
	res := r.db.WithContext(ctx).Model(&domain.Category{}).
		Scopes(active).Where("id = ?", id).
		Updates(map[string]any{"name": name, "group_id": groupID})
	if res.Error != nil {
		return nil, translate(modelCategory, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(modelCategory)
	}
	return r.Get(ctx, id)
}
