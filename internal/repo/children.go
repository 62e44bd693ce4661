package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horti-admin/internal/domain"
)

// dependent is a table whose rows reference the child table through fk.
type dependent struct {
	model any
	fk    string
}

// ChildTable writes one nested collection of a plantation. Rows are hard-deleted.
type ChildTable[T any] struct {
	db         *gorm.DB
	model      string
	scopeCol   string
	dependents []dependent
}

var _ domain.ChildWriter[domain.PlantationContacts] = ChildTable[domain.PlantationContacts]{}

func (c ChildTable[T]) Create(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return translate(c.model, c.db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error)
}

// Update overwrites every column of row (id taken from the argument) as long as
// the row belongs to scopeID.
func (c ChildTable[T]) Update(ctx context.Context, scopeID, id uint, row *T) error {
	res := c.db.WithContext(ctx).Model(row).
		Where("id = ? AND "+c.scopeCol+" = ?", id, scopeID).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(row)
	if res.Error != nil {
		return translate(c.model, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(c.model)
	}
	return nil
}

// DeleteExcept drops every row of scopeID whose id is not in keep, dependents first.
func (c ChildTable[T]) DeleteExcept(ctx context.Context, scopeID uint, keep []uint) error {
	db := c.db.WithContext(ctx)
	q := db.Model(new(T)).Where(c.scopeCol+" = ?", scopeID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return translate(c.model, err)
	}
	if len(ids) == 0 {
		return nil
	}
	for _, d := range c.dependents {
		if err := db.Where(d.fk+" IN ?", ids).Delete(d.model).Error; err != nil {
			return translate(c.model, err)
		}
	}
	return translate(c.model, db.Where("id IN ?", ids).Delete(new(T)).Error)
}
