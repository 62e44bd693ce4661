package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"horti-admin/internal/core/database"
	"horti-admin/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "repo.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func ptr[T any](v T) *T { return &v }

func seedCatalog(t *testing.T, db *gorm.DB) (roses, tulips *domain.Group) {
	t.Helper()
	ctx := context.Background()
	groups, cats, sorts := NewGroupRepo(db), NewCategoryRepo(db), NewSortRepo(db)

	roses = &domain.Group{Name: "Roses"}
	tulips = &domain.Group{Name: "Tulips"}
	require.NoError(t, groups.Create(ctx, roses))
	require.NoError(t, groups.Create(ctx, tulips))

	garden := &domain.Category{Name: "Garden", GroupID: roses.ID}
	spray := &domain.Category{Name: "Spray", GroupID: tulips.ID}
	require.NoError(t, cats.Create(ctx, garden))
	require.NoError(t, cats.Create(ctx, spray))

	require.NoError(t, sorts.Create(ctx, &domain.Sort{Name: "Explorer", CategoryID: garden.ID}))
	require.NoError(t, sorts.Create(ctx, &domain.Sort{Name: "Freedom", CategoryID: garden.ID}))
	require.NoError(t, sorts.Create(ctx, &domain.Sort{Name: "Purple Prince", CategoryID: spray.ID}))
	return roses, tulips
}

func TestGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGroupRepo(db)
	g := &domain.Group{Name: "Fruits"}
	require.NoError(t, repo.Create(ctx, g))

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Remove(ctx, g.ID, 7, now))

	_, err := repo.Get(ctx, g.ID)
	assert.True(t, domain.IsCode(err, domain.CodeGroupNotFound), "pending rows are hidden")
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	var raw domain.Group
	require.NoError(t, db.First(&raw, g.ID).Error)
	assert.Equal(t, domain.StatePendingDeletion, raw.State())
	assert.Equal(t, uint(7), *raw.DeletedBy)

	// re-removing overwrites the stamp
	require.NoError(t, repo.Remove(ctx, g.ID, 7, now.Add(time.Minute)))

	// another user cannot revert it
	err = repo.Cancel(ctx, g.ID, domain.CancelPredicate{OwnerID: ptr(uint(8))})
	assert.True(t, domain.IsCode(err, domain.CodeGroupNotFound))

	require.NoError(t, repo.Cancel(ctx, g.ID, domain.CancelPredicate{OwnerID: ptr(uint(7))}))
	got, err := repo.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, got.State())
}

func TestGroupAdminRemoveKeepsFirstActorAndFreesName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGroupRepo(db)
	g := &domain.Group{Name: "Fruits"}
	require.NoError(t, repo.Create(ctx, g))

	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.Remove(ctx, g.ID, 5, first))
	require.NoError(t, repo.AdminRemove(ctx, g.ID, 1, first.Add(time.Hour)))

	_, err := repo.Get(ctx, g.ID)
	assert.True(t, domain.IsCode(err, domain.CodeGroupNotFound))

	var raw domain.Group
	require.NoError(t, db.First(&raw, g.ID).Error)
	assert.True(t, raw.Deleted)
	assert.Equal(t, uint(5), *raw.DeletedBy)
	assert.True(t, first.Equal(*raw.DeletedAt))
	assert.Equal(t, domain.TombstoneName("Fruits", first.Add(time.Hour)), raw.Name)

	// terminal: neither cancel nor a second admin remove applies
	assert.Error(t, repo.Cancel(ctx, g.ID, domain.CancelPredicate{}))
	assert.Error(t, repo.AdminRemove(ctx, g.ID, 1, time.Now()))

	require.NoError(t, repo.Create(ctx, &domain.Group{Name: "Fruits"}))
}

func TestGroupCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewGroupRepo(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &domain.Group{Name: "Dup"}))
	err := repo.Create(ctx, &domain.Group{Name: "Dup"})
	assert.True(t, domain.IsCode(err, domain.CodeGroupAlreadyExists), "got %v", err)
}

func TestCategoryAdminRemoveKeepsName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	roses, _ := seedCatalog(t, db)
	repo := NewCategoryRepo(db)

	cats, err := repo.List(ctx, domain.CategoryFilter{GroupID: roses.ID})
	require.NoError(t, err)
	require.Len(t, cats, 1)

	require.NoError(t, repo.AdminRemove(ctx, cats[0].ID, 1, time.Now()))
	var raw domain.Category
	require.NoError(t, db.First(&raw, cats[0].ID).Error)
	assert.Equal(t, "Garden", raw.Name)

	cats, err = repo.List(ctx, domain.CategoryFilter{GroupID: roses.ID})
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestGroupSearch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	roses, tulips := seedCatalog(t, db)
	repo := NewGroupRepo(db)

	got, err := repo.Search(ctx, domain.GroupPredicate{Field: domain.GroupBySortName, Term: "PRINCE"}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tulips.ID, got[0].ID)

	got, err = repo.Search(ctx, domain.GroupPredicate{Field: domain.GroupByCategoryName, Term: "gard"}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, roses.ID, got[0].ID)
	require.Len(t, got[0].Categories, 1)
	assert.Len(t, got[0].Categories[0].Sorts, 2)
	assert.Equal(t, "Explorer", got[0].Categories[0].Sorts[0].Name)

	// sorts pending deletion still match; tombstoned ones do not
	sorts := NewSortRepo(db)
	list, err := sorts.List(ctx, domain.SortFilter{Name: "prince"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, sorts.AdminRemove(ctx, list[0].ID, 1, time.Now()))

	got, err = repo.Search(ctx, domain.GroupPredicate{Field: domain.GroupBySortName, Term: "prince"}, domain.Page{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGroupSearchTotalMatchesSearch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCatalog(t, db)
	repo := NewGroupRepo(db)
	require.NoError(t, repo.Create(ctx, &domain.Group{Name: "rosehip"}))

	preds := []domain.GroupPredicate{
		{},
		{Field: domain.GroupByName, Term: "ros"},
		{Field: domain.GroupByName, Term: "zzz"},
		{Field: domain.GroupByCategoryName, Term: "a"},
		{Field: domain.GroupBySortName, Term: "e"},
		{Field: domain.GroupByName, Term: "%"},
	}
	for _, p := range preds {
		list, err := repo.Search(ctx, p, domain.Page{})
		require.NoError(t, err)
		n, err := repo.Count(ctx, p)
		require.NoError(t, err)
		assert.EqualValues(t, len(list), n, "predicate %+v", p)
	}

	page, err := repo.Search(ctx, domain.GroupPredicate{}, domain.Page{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Roses", page[0].Name)
}

func newPlantation(t *testing.T, repo *PlantationRepo, name string) *domain.Plantation {
	t.Helper()
	p := &domain.Plantation{
		Name: name, Country: "ECUADOR",
		DeliveryMethod: domain.DeliveryEmail, TermsOfPayment: domain.TermsPrepaid,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPlantationChildren(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPlantationRepo(db)
	p := newPlantation(t, repo, "Finca Uno")

	les := []domain.PlantationLegalEntity{
		{Name: "Uno SA", Code: "1", PlantationID: p.ID},
		{Name: "Dos SA", Code: "2", PlantationID: p.ID},
	}
	require.NoError(t, repo.LegalEntities().Create(ctx, les))
	require.NotZero(t, les[0].ID)
	require.NotZero(t, les[1].ID)

	doc := &domain.Upload{Name: "a.pdf", Path: "k1"}
	require.NoError(t, NewUploadRepo(db).Create(ctx, doc))
	require.NoError(t, repo.TransferDetails().Create(ctx, []domain.PlantationTransferDetails{{
		Name: "main", Beneficiary: "Uno", Bank: "B", BankAccountNumber: "1",
		BankAccountType: domain.AccountChecking, PlantationID: p.ID,
		PlantationLegalEntityID: les[1].ID, DocumentID: &doc.ID,
	}}))
	require.NoError(t, repo.Checks().Create(ctx, []domain.PlantationChecks{{
		Name: "c", Beneficiary: "Dos", PlantationID: p.ID, PlantationLegalEntityID: les[1].ID,
	}}))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.LegalEntities, 2)
	require.Len(t, got.LegalEntities[1].TransferDetails, 1)
	require.NotNil(t, got.LegalEntities[1].TransferDetails[0].Document)
	assert.Equal(t, "a.pdf", got.LegalEntities[1].TransferDetails[0].Document.Name)
	assert.Len(t, got.Checks, 1)

	// update outside the owning scope is rejected
	row := les[0]
	row.Name = "Renamed"
	err = repo.LegalEntities().Update(ctx, p.ID+100, row.ID, &row)
	assert.True(t, domain.IsCode(err, "PLANTATIONLEGALENTITY_NOT_FOUND"))
	require.NoError(t, repo.LegalEntities().Update(ctx, p.ID, row.ID, &row))

	// dropping the second legal entity drops its nested rows too
	require.NoError(t, repo.LegalEntities().DeleteExcept(ctx, p.ID, []uint{les[0].ID}))
	got, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.LegalEntities, 1)
	assert.Equal(t, "Renamed", got.LegalEntities[0].Name)
	assert.Empty(t, got.TransferDetails)
	assert.Empty(t, got.Checks)
}

func TestPlantationTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPlantationRepo(db)

	err := repo.Tx(ctx, func(tx domain.PlantationRepository) error {
		p := &domain.Plantation{Name: "Ghost", Country: "COLOMBIA"}
		require.NoError(t, tx.Create(ctx, p))
		return domain.OperationFailed([]string{"boom"})
	})
	assert.True(t, domain.IsCode(err, domain.CodeOperationFailed))

	n, err := repo.Count(ctx, domain.PlantationPredicate{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlantationNestedTxIsolatesFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPlantationRepo(db)

	err := repo.Tx(ctx, func(tx domain.PlantationRepository) error {
		p := &domain.Plantation{Name: "Kept", Country: "COLOMBIA"}
		require.NoError(t, tx.Create(ctx, p))
		inner := tx.Tx(ctx, func(sp domain.PlantationRepository) error {
			return sp.Create(ctx, &domain.Plantation{Name: "Kept", Country: "X"})
		})
		assert.True(t, domain.IsCode(inner, domain.CodePlantationExists), "got %v", inner)
		return nil
	})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kept", list[0].Name)
}

func TestPlantationSearch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPlantationRepo(db)
	a := newPlantation(t, repo, "Alpha")
	b := newPlantation(t, repo, "beta")
	require.NoError(t, db.Model(b).Updates(map[string]any{"country": "COLOMBIA", "terms_of_payment": "POSTPAID"}).Error)
	require.NoError(t, repo.LegalEntities().Create(ctx, []domain.PlantationLegalEntity{
		{Name: "Flores del Sur", Code: "9", PlantationID: a.ID},
	}))

	got, err := repo.Search(ctx, domain.PlantationPredicate{Field: domain.PlantationByLegalEntityName, Term: "sur"}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	require.Len(t, got[0].LegalEntities, 1)

	preds := []domain.PlantationPredicate{
		{},
		{Country: "COLOMBIA"},
		{TermsOfPayment: []domain.TermsOfPayment{domain.TermsPrepaid, domain.TermsPostpaid}},
		{TermsOfPayment: []domain.TermsOfPayment{domain.TermsPostpaid}, Field: domain.PlantationByName, Term: "ET"},
	}
	for _, p := range preds {
		list, err := repo.Search(ctx, p, domain.Page{})
		require.NoError(t, err)
		n, err := repo.Count(ctx, p)
		require.NoError(t, err)
		assert.EqualValues(t, len(list), n, "predicate %+v", p)
	}

	all, err := repo.Search(ctx, domain.PlantationPredicate{}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "beta", all[1].Name)
}

func TestPlantationUpdateFieldsSkipsTombstoned(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPlantationRepo(db)
	p := newPlantation(t, repo, "Finca")

	p.Comments = ptr("net 30")
	p.PostpaidDays = ptr(30)
	require.NoError(t, repo.UpdateFields(ctx, p))
	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "net 30", *got.Comments)

	require.NoError(t, repo.AdminRemove(ctx, p.ID, 1, time.Now()))
	err = repo.UpdateFields(ctx, p)
	assert.True(t, domain.IsCode(err, domain.CodePlantationNotFound))
}

func TestUploadDeleteDetachesDocuments(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	uploads := NewUploadRepo(db)
	plantations := NewPlantationRepo(db)
	p := newPlantation(t, plantations, "Finca")
	les := []domain.PlantationLegalEntity{{Name: "LE", Code: "1", PlantationID: p.ID}}
	require.NoError(t, plantations.LegalEntities().Create(ctx, les))

	doc := &domain.Upload{Name: "scan.png", Mimetype: "image/png", Size: 3, Path: "k"}
	require.NoError(t, uploads.Create(ctx, doc))
	require.NoError(t, plantations.Checks().Create(ctx, []domain.PlantationChecks{{
		Name: "c", Beneficiary: "b", PlantationID: p.ID, PlantationLegalEntityID: les[0].ID, DocumentID: &doc.ID,
	}}))

	require.NoError(t, uploads.Delete(ctx, doc.ID))
	_, err := uploads.Get(ctx, doc.ID)
	assert.True(t, domain.IsCode(err, domain.CodeUploadNotFound))
	assert.True(t, domain.IsCode(uploads.Delete(ctx, doc.ID), domain.CodeUploadNotFound))

	var check domain.PlantationChecks
	require.NoError(t, db.First(&check).Error)
	assert.Nil(t, check.DocumentID)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestDB(t))

	u := &domain.User{Email: "a@test.com", Password: "h1", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	assert.True(t, domain.IsCode(repo.Create(ctx, &domain.User{Email: "a@test.com", Password: "x"}), domain.CodeUserAlreadyExists))

	require.NoError(t, repo.Upsert(ctx, &domain.User{Email: "a@test.com", Password: "h2", Role: domain.RoleAdmin}))
	got, err := repo.FindByEmail(ctx, "a@test.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.Password)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, domain.IsCode(err, domain.CodeUserNotFound))

	users, total, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)
}
