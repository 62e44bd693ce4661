package service

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"horti-admin/internal/domain"
	"horti-admin/internal/export"
)

type PlantationService struct {
	lifecycle
	repo domain.PlantationRepository
	log  *zap.Logger
}

func NewPlantationService(repo domain.PlantationRepository, log *zap.Logger) *PlantationService {
	return &PlantationService{
		lifecycle: newLifecycle("plantation", repo, nil),
		repo:      repo,
		log:       log,
	}
}

func (s *PlantationService) List(ctx context.Context) ([]domain.Plantation, error) {
	return s.repo.List(ctx)
}

func (s *PlantationService) Get(ctx context.Context, id uint) (*domain.Plantation, error) {
	return s.repo.Get(ctx, id)
}

func (s *PlantationService) Search(ctx context.Context, f domain.PlantationFilter, page domain.Page) ([]domain.Plantation, error) {
	return s.repo.Search(ctx, domain.BuildPlantationPredicate(f), page)
}

func (s *PlantationService) Total(ctx context.Context, f domain.PlantationFilter) (int64, error) {
	return s.repo.Count(ctx, domain.BuildPlantationPredicate(f))
}

func (s *PlantationService) Excel(ctx context.Context, f domain.PlantationFilter) (*bytes.Buffer, error) {
	rows, err := s.repo.Search(ctx, domain.BuildPlantationPredicate(f), domain.Page{})
	if err != nil {
		return nil, err
	}
	buf, err := export.Plantations(rows)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return buf, nil
}

// Create inserts the plantation and its whole tree in one transaction.
func (s *PlantationService) Create(ctx context.Context, in PlantationInput) (uint, error) {
	if err := in.checkNames(); err != nil {
		return 0, err
	}
	if err := in.requireNew(); err != nil {
		return 0, err
	}
	var id uint
	err := s.repo.Tx(ctx, func(tx domain.PlantationRepository) error {
		p := in.plantation()
		if err := tx.Create(ctx, &p); err != nil {
			return err
		}
		id = p.ID
		return s.writeChildren(ctx, tx, p.ID, in)
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("plantation created", zap.Uint("id", id), zap.Int("legalEntities", len(in.LegalEntities)))
	return id, nil
}

// Update overwrites the scalar fields and reconciles every nested collection
// against the payload: children missing from it are deleted.
func (s *PlantationService) Update(ctx context.Context, id uint, in PlantationInput) (uint, error) {
	if err := in.checkNames(); err != nil {
		return 0, err
	}
	err := s.repo.Tx(ctx, func(tx domain.PlantationRepository) error {
		p := in.plantation()
		p.ID = id
		if err := tx.UpdateFields(ctx, &p); err != nil {
			return err
		}
		return s.writeChildren(ctx, tx, id, in)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PlantationService) writeChildren(ctx context.Context, tx domain.PlantationRepository, id uint, in PlantationInput) error {
	leIDs, err := reconcile(ctx, tx.LegalEntities(), id, id, in.LegalEntities)
	if err != nil {
		return err
	}
	if _, err := reconcile(ctx, tx.Contacts(), id, id, in.Contacts); err != nil {
		return err
	}
	return s.writeNested(ctx, tx, id, in.LegalEntities, leIDs)
}

type nestedError struct {
	index int
	err   error
}

func (e nestedError) Error() string { return fmt.Sprintf("legalEntities[%d]: %v", e.index, e.err) }

func (e nestedError) Unwrap() error { return e.err }

// writeNested writes each legal entity's transfer details and checks in its own
// savepoint. Every failure is collected before the caller's transaction is aborted.
func (s *PlantationService) writeNested(ctx context.Context, tx domain.PlantationRepository, plantationID uint, les []LegalEntityInput, leIDs []uint) error {
	var errs error
	for i, le := range les {
		leID := leIDs[i]
		err := tx.Tx(ctx, func(r domain.PlantationRepository) error {
			if _, err := reconcile(ctx, r.TransferDetails(), plantationID, leID, le.TransferDetails); err != nil {
				return err
			}
			_, err := reconcile(ctx, r.Checks(), plantationID, leID, le.Checks)
			return err
		})
		if err != nil {
			errs = multierr.Append(errs, nestedError{index: i, err: err})
		}
	}
	if errs == nil {
		return nil
	}
	failed := multierr.Errors(errs)
	reasons := make([]string, 0, len(failed))
	for _, e := range failed {
		reasons = append(reasons, e.Error())
	}
	s.log.Warn("nested plantation write failed",
		zap.Uint("plantation", plantationID), zap.Strings("reasons", reasons))
	return domain.OperationFailed(reasons)
}

type childInput[T domain.Keyed] interface {
	Ref() ChildRef
	row(plantationID, scopeID uint) T
}

// reconcile syncs one collection of scopeID with items: persisted rows not
// referenced are deleted, existing ones updated, new ones inserted.
// The returned ids are index-aligned with items.
func reconcile[T domain.Keyed, I childInput[T]](ctx context.Context, w domain.ChildWriter[T], plantationID, scopeID uint, items []I) ([]uint, error) {
	var keep []uint
	for _, it := range items {
		if r := it.Ref(); r.Kind == ChildExisting {
			keep = append(keep, r.ID)
		}
	}
	if err := w.DeleteExcept(ctx, scopeID, keep); err != nil {
		return nil, err
	}

	ids := make([]uint, len(items))
	var created []T
	var createdAt []int
	for i, it := range items {
		row := it.row(plantationID, scopeID)
		if r := it.Ref(); r.Kind == ChildExisting {
			if err := w.Update(ctx, scopeID, r.ID, &row); err != nil {
				return nil, err
			}
			ids[i] = r.ID
			continue
		}
		created = append(created, row)
		createdAt = append(createdAt, i)
	}
	if err := w.Create(ctx, created); err != nil {
		return nil, err
	}
	for k, i := range createdAt {
		ids[i] = created[k].Key()
	}
	return ids, nil
}
