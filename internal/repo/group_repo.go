package repo

import (
	"context"

	"gorm.io/gorm"

	"horti-admin/internal/domain"
)

const modelGroup = "Group"

type GroupRepo struct {
	Lifecycle[domain.Group]
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) *GroupRepo {
	return &GroupRepo{Lifecycle: NewLifecycle[domain.Group](db, modelGroup, true), db: db}
}

// active hides tombstoned rows and pending deletions.
func active(db *gorm.DB) *gorm.DB { return db.Where("deleted = ? AND deleted_at IS NULL", false) }

func byName(db *gorm.DB) *gorm.DB { return db.Order("LOWER(name) ASC").Order("id ASC") }

func (r *GroupRepo) List(ctx context.Context) ([]domain.Group, error) {
	var out []domain.Group
	err := r.db.WithContext(ctx).Scopes(active).Order("id ASC").Find(&out).Error
	return out, translate(modelGroup, err)
}

func (r *GroupRepo) Get(ctx context.Context, id uint) (*domain.Group, error) {
	var g domain.Group
	err := r.db.WithContext(ctx).Scopes(active).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return byName(active(db)) }).
		Preload("Categories.Sorts", func(db *gorm.DB) *gorm.DB { return byName(active(db)) }).
		First(&g, "id = ?", id).Error
	if err != nil {
		return nil, translate(modelGroup, err)
	}
	return &g, nil
}

// groupScope turns a predicate into SQL; nested matches only consider active children.
func groupScope(p domain.GroupPredicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("plant_groups.deleted = ? AND plant_groups.deleted_at IS NULL", false)
		like := domain.ContainsPattern(p.Term)
		switch p.Field {
		case domain.GroupByName:
			db = db.Where("LOWER(plant_groups.name) LIKE ? ESCAPE '!'", like)
		case domain.GroupByCategoryName:
			db = db.Where(`EXISTS (SELECT 1 FROM categories c
				WHERE c.group_id = plant_groups.id AND c.deleted = ? AND c.deleted_at IS NULL
				AND LOWER(c.name) LIKE ? ESCAPE '!')`,
				false, like)
		case domain.GroupBySortName:
			db = db.Where(`EXISTS (SELECT 1 FROM categories c JOIN sorts s ON s.category_id = c.id
				WHERE c.group_id = plant_groups.id AND c.deleted = ? AND c.deleted_at IS NULL
				AND s.deleted = ? AND s.deleted_at IS NULL AND LOWER(s.name) LIKE ? ESCAPE '!')`,
				false, false, like)
		}
		return db
	}
}

func paginate(page domain.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Offset > 0 {
			db = db.Offset(page.Offset)
		}
		if page.Limit > 0 {
			db = db.Limit(page.Limit)
		}
		return db
	}
}

func (r *GroupRepo) Search(ctx context.Context, p domain.GroupPredicate, page domain.Page) ([]domain.Group, error) {
	var out []domain.Group
	err := r.db.WithContext(ctx).Model(&domain.Group{}).
		Scopes(groupScope(p), paginate(page)).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return byName(active(db)) }).
		Preload("Categories.Sorts", func(db *gorm.DB) *gorm.DB { return byName(active(db)) }).
		Order("LOWER(plant_groups.name) ASC").Order("plant_groups.id ASC").
		Find(&out).Error
	return out, translate(modelGroup, err)
}

func (r *GroupRepo) Count(ctx context.Context, p domain.GroupPredicate) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Group{}).Scopes(groupScope(p)).Count(&n).Error
	return n, translate(modelGroup, err)
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	return translate(modelGroup, r.db.WithContext(ctx).Omit("Categories").Create(g).Error)
}

func (r *GroupRepo) Rename(ctx context.Context, id uint, name string) (*domain.Group, error) {
	res := r.db.WithContext(ctx).Model(&domain.Group{}).
		Scopes(active).Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return nil, translate(modelGroup, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(modelGroup)
	}
	return r.Get(ctx, id)
}
