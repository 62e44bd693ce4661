package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horti-admin/internal/domain"
)

const (
	modelPlantation      = "Plantation"
	modelLegalEntity     = "PlantationLegalEntity"
	modelContacts        = "PlantationContacts"
	modelTransferDetails = "PlantationTransferDetails"
	modelChecks          = "PlantationChecks"
)

type PlantationRepo struct {
	Lifecycle[domain.Plantation]
	db *gorm.DB
}

var _ domain.PlantationRepository = (*PlantationRepo)(nil)

func NewPlantationRepo(db *gorm.DB) *PlantationRepo {
	return &PlantationRepo{Lifecycle: NewLifecycle[domain.Plantation](db, modelPlantation, true), db: db}
}

func (r *PlantationRepo) Tx(ctx context.Context, fn func(domain.PlantationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPlantationRepo(tx))
	})
}

func byID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// full preloads the whole aggregate; tombstoned roots are excluded by the caller.
func full(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LegalEntities", byID).
		Preload("LegalEntities.TransferDetails", byID).
		Preload("LegalEntities.TransferDetails.Document").
		Preload("LegalEntities.Checks", byID).
		Preload("LegalEntities.Checks.Document").
		Preload("Contacts", byID).
		Preload("TransferDetails", byID).
		Preload("TransferDetails.Document").
		Preload("Checks", byID).
		Preload("Checks.Document")
}

func (r *PlantationRepo) List(ctx context.Context) ([]domain.Plantation, error) {
	var out []domain.Plantation
	err := r.db.WithContext(ctx).Scopes(active, full).Order("id ASC").Find(&out).Error
	return out, translate(modelPlantation, err)
}

func (r *PlantationRepo) Get(ctx context.Context, id uint) (*domain.Plantation, error) {
	var p domain.Plantation
	if err := r.db.WithContext(ctx).Scopes(active, full).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(modelPlantation, err)
	}
	return &p, nil
}

func plantationScope(p domain.PlantationPredicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("plantations.deleted = ? AND plantations.deleted_at IS NULL", false)
		if p.Country != "" {
			db = db.Where("plantations.country = ?", p.Country)
		}
		if len(p.TermsOfPayment) > 0 {
			db = db.Where("plantations.terms_of_payment IN ?", p.TermsOfPayment)
		}
		like := domain.ContainsPattern(p.Term)
		switch p.Field {
		case domain.PlantationByName:
			db = db.Where("LOWER(plantations.name) LIKE ? ESCAPE '!'", like)
		case domain.PlantationByLegalEntityName:
			db = db.Where(`EXISTS (SELECT 1 FROM plantation_legal_entities le
				WHERE le.plantation_id = plantations.id AND LOWER(le.name) LIKE ? ESCAPE '!')`, like)
		}
		return db
	}
}

func (r *PlantationRepo) Search(ctx context.Context, p domain.PlantationPredicate, page domain.Page) ([]domain.Plantation, error) {
	var out []domain.Plantation
	err := r.db.WithContext(ctx).Model(&domain.Plantation{}).
		Scopes(plantationScope(p), paginate(page)).
		Preload("LegalEntities", byID).
		Order("LOWER(plantations.name) ASC").Order("plantations.id ASC").
		Find(&out).Error
	return out, translate(modelPlantation, err)
}

func (r *PlantationRepo) Count(ctx context.Context, p domain.PlantationPredicate) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Plantation{}).Scopes(plantationScope(p)).Count(&n).Error
	return n, translate(modelPlantation, err)
}

func (r *PlantationRepo) Create(ctx context.Context, p *domain.Plantation) error {
	return translate(modelPlantation, r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

var plantationColumns = []string{
	"name", "country", "comments", "delivery_method", "delivery_info",
	"terms_of_payment", "postpaid_credit", "postpaid_days",
}

// UpdateFields writes the scalar columns of p; nested collections are untouched.
// Pending deletions count as missing.
func (r *PlantationRepo) UpdateFields(ctx context.Context, p *domain.Plantation) error {
	res := r.db.WithContext(ctx).Model(p).
		Scopes(active).
		Select(plantationColumns).
		Updates(p)
	if res.Error != nil {
		return translate(modelPlantation, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(modelPlantation)
	}
	return nil
}

func (r *PlantationRepo) LegalEntities() domain.ChildWriter[domain.PlantationLegalEntity] {
	return ChildTable[domain.PlantationLegalEntity]{
		db: r.db, model: modelLegalEntity, scopeCol: "plantation_id",
		dependents: []dependent{
			{model: &domain.PlantationTransferDetails{}, fk: "plantation_legal_entity_id"},
			{model: &domain.PlantationChecks{}, fk: "plantation_legal_entity_id"},
		},
	}
}

func (r *PlantationRepo) Contacts() domain.ChildWriter[domain.PlantationContacts] {
	return ChildTable[domain.PlantationContacts]{db: r.db, model: modelContacts, scopeCol: "plantation_id"}
}

// TransferDetails and Checks are scoped by legal entity.
func (r *PlantationRepo) TransferDetails() domain.ChildWriter[domain.PlantationTransferDetails] {
	return ChildTable[domain.PlantationTransferDetails]{
		db: r.db, model: modelTransferDetails, scopeCol: "plantation_legal_entity_id",
	}
}

func (r *PlantationRepo) Checks() domain.ChildWriter[domain.PlantationChecks] {
	return ChildTable[domain.PlantationChecks]{
		db: r.db, model: modelChecks, scopeCol: "plantation_legal_entity_id",
	}
}
