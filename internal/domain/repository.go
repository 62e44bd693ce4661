package domain

import (
	"context"
	"time"
)

// Lifecycle implements the soft-delete state machine for one table.
type Lifecycle interface {
	Remove(ctx context.Context, id, userID uint, now time.Time) error
	Cancel(ctx context.Context, id uint, p CancelPredicate) error
	AdminRemove(ctx context.Context, id, adminID uint, now time.Time) error
}

type GroupRepository interface {
	Lifecycle
	List(ctx context.Context) ([]Group, error)
	Get(ctx context.Context, id uint) (*Group, error)
	Search(ctx context.Context, p GroupPredicate, page Page) ([]Group, error)
	Count(ctx context.Context, p GroupPredicate) (int64, error)
	Create(ctx context.Context, g *Group) error
	Rename(ctx context.Context, id uint, name string) (*Group, error)
}

type CategoryRepository interface {
	Lifecycle
	List(ctx context.Context, f CategoryFilter) ([]Category, error)
	Get(ctx context.Context, id uint) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, id uint, name string, groupID uint) (*Category, error)
}

type SortRepository interface {
	Lifecycle
	List(ctx context.Context, f SortFilter) ([]Sort, error)
	Get(ctx context.Context, id uint) (*Sort, error)
	Create(ctx context.Context, s *Sort) error
	Update(ctx context.Context, id uint, name string, categoryID uint) (*Sort, error)
}

// ChildWriter writes one nested collection scoped by its parent id.
type ChildWriter[T any] interface {
	Create(ctx context.Context, rows []T) error
	Update(ctx context.Context, scopeID, id uint, row *T) error
	DeleteExcept(ctx context.Context, scopeID uint, keep []uint) error
}

type PlantationRepository interface {
	Lifecycle
	List(ctx context.Context) ([]Plantation, error)
	Get(ctx context.Context, id uint) (*Plantation, error)
	Search(ctx context.Context, p PlantationPredicate, page Page) ([]Plantation, error)
	Count(ctx context.Context, p PlantationPredicate) (int64, error)

	// Tx runs fn atomically. Calling Tx on a repository already inside a
	// transaction opens a savepoint.
	Tx(ctx context.Context, fn func(PlantationRepository) error) error
	Create(ctx context.Context, p *Plantation) error
	UpdateFields(ctx context.Context, p *Plantation) error

	LegalEntities() ChildWriter[PlantationLegalEntity]
	Contacts() ChildWriter[PlantationContacts]
	TransferDetails() ChildWriter[PlantationTransferDetails]
	Checks() ChildWriter[PlantationChecks]
}

type UploadRepository interface {
	Create(ctx context.Context, u *Upload) error
	Get(ctx context.Context, id uint) (*Upload, error)
	Delete(ctx context.Context, id uint) error
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Upsert(ctx context.Context, u *User) error
}
