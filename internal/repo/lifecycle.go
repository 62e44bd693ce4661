package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"horti-admin/internal/domain"
)

// Lifecycle is the soft-delete state machine over table T.
// Rename frees the unique name slot when a row is tombstoned.
type Lifecycle[T any] struct {
	db     *gorm.DB
	model  string
	rename bool
}

func NewLifecycle[T any](db *gorm.DB, model string, rename bool) Lifecycle[T] {
	return Lifecycle[T]{db: db, model: model, rename: rename}
}

type tombstoneRow struct {
	ID        uint
	Name      string
	DeletedAt *time.Time
	DeletedBy *uint
}

// Remove marks a pending deletion. Re-removing a pending row overwrites the stamp.
func (l Lifecycle[T]) Remove(ctx context.Context, id, userID uint, now time.Time) error {
	res := l.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{"deleted_at": now, "deleted_by": userID})
	if res.Error != nil {
		return translate(l.model, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(l.model)
	}
	return nil
}

func (l Lifecycle[T]) Cancel(ctx context.Context, id uint, p domain.CancelPredicate) error {
	q := l.db.WithContext(ctx).Model(new(T)).Where("id = ? AND deleted = ?", id, false)
	if p.OwnerID != nil {
		q = q.Where("deleted_by = ?", *p.OwnerID)
	}
	res := q.Updates(map[string]any{"deleted_at": nil, "deleted_by": nil})
	if res.Error != nil {
		return translate(l.model, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(l.model)
	}
	return nil
}

func (l Lifecycle[T]) AdminRemove(ctx context.Context, id, adminID uint, now time.Time) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tombstoneRow
		err := tx.Model(new(T)).
			Select("id", "name", "deleted_at", "deleted_by").
			Where("id = ? AND deleted = ?", id, false).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(l.model)
		}
		if err != nil {
			return translate(l.model, err)
		}

		sd := domain.SoftDelete{DeletedAt: row.DeletedAt, DeletedBy: row.DeletedBy}.Tombstone(adminID, now)
		updates := map[string]any{
			"deleted":    true,
			"deleted_at": *sd.DeletedAt,
			"deleted_by": *sd.DeletedBy,
		}
		if l.rename {
			updates["name"] = domain.TombstoneName(row.Name, now)
		}
		return translate(l.model, tx.Model(new(T)).Where("id = ?", id).Updates(updates).Error)
	})
}
