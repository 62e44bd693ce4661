package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horti-admin/internal/domain"
)

const modelUser = "User"

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(modelUser, r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(modelUser, err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(modelUser, err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, translate(modelUser, err)
	}
	if err := tx.Scopes(paginate(domain.Page{Offset: offset, Limit: limit})).
		Order("created_at desc").Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, translate(modelUser, err)
	}
	return users, total, nil
}

// Upsert inserts u or overwrites password and role of the account with the same email.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "role", "updated_at"}),
	}).Create(u).Error
	return translate(modelUser, err)
}
