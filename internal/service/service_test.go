package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"horti-admin/internal/blob/fs"
	"horti-admin/internal/core/auth"
	"horti-admin/internal/core/cache"
	"horti-admin/internal/core/database"
	"horti-admin/internal/domain"
	"horti-admin/internal/repo"
)

var (
	admin = domain.Actor{ID: 1, Name: "admin@test.com", Role: domain.RoleAdmin}
	alice = domain.Actor{ID: 2, Name: "alice@test.com", Role: domain.RoleUser}
	bob   = domain.Actor{ID: 3, Name: "bob@test.com", Role: domain.RoleUser}
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "svc.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func code(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return domain.AsError(err).Code
}

func names(groups []domain.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

func TestGroupServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupService(repo.NewGroupRepo(newDB(t)), newCache(t), zap.NewNop())

	g, err := svc.Create(ctx, GroupInput{Name: " Fruits "})
	require.NoError(t, err)
	assert.Equal(t, "Fruits", g.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].DeletedAt)

	require.NoError(t, svc.Delete(ctx, g.ID, alice))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "pending deletion is hidden from listings")

	assert.Equal(t, domain.CodeGroupNotFound, code(t, svc.Cancel(ctx, g.ID, bob)))
	require.NoError(t, svc.Cancel(ctx, g.ID, alice))

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fruits"}, names(list))

	assert.Equal(t, domain.CodeForbidden, code(t, svc.AdminRemove(ctx, g.ID, alice)))
}

func TestGroupServiceAdminFinalizesPending(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupService(repo.NewGroupRepo(newDB(t)), nil, zap.NewNop())

	g, err := svc.Create(ctx, GroupInput{Name: "Fruits"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, g.ID, alice))
	require.NoError(t, svc.Delete(ctx, g.ID, admin))

	assert.Equal(t, domain.CodeGroupNotFound, code(t, svc.Cancel(ctx, g.ID, alice)))
	assert.Equal(t, domain.CodeGroupNotFound, code(t, svc.Cancel(ctx, g.ID, admin)))
	assert.Equal(t, domain.CodeGroupNotFound, code(t, svc.Delete(ctx, g.ID, admin)))

	again, err := svc.Create(ctx, GroupInput{Name: "Fruits"})
	require.NoError(t, err, "tombstoned name is free again")
	assert.NotEqual(t, g.ID, again.ID)
}

func TestGroupServiceCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupService(repo.NewGroupRepo(newDB(t)), newCache(t), zap.NewNop())

	_, err := svc.Create(ctx, GroupInput{Name: "Roses"})
	require.NoError(t, err)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	tulips, err := svc.Create(ctx, GroupInput{Name: "Tulips"})
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roses", "Tulips"}, names(list))

	_, err = svc.Update(ctx, tulips.ID, GroupInput{Name: "Lilies"})
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roses", "Lilies"}, names(list))

	_, err = svc.Create(ctx, GroupInput{Name: "Roses"})
	assert.Equal(t, domain.CodeGroupAlreadyExists, code(t, err))
}

func TestGroupServiceSearchAndExcel(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	groups := NewGroupService(repo.NewGroupRepo(db), nil, zap.NewNop())
	cats := NewCategoryService(repo.NewCategoryRepo(db), repo.NewGroupRepo(db), nil)
	sorts := NewSortService(repo.NewSortRepo(db), repo.NewCategoryRepo(db), nil)

	roses, err := groups.Create(ctx, GroupInput{Name: "Roses"})
	require.NoError(t, err)
	_, err = groups.Create(ctx, GroupInput{Name: "Tulips"})
	require.NoError(t, err)
	garden, err := cats.Create(ctx, CategoryInput{Name: "Garden", GroupID: roses.ID})
	require.NoError(t, err)
	_, err = sorts.Create(ctx, SortInput{Name: "Explorer", CategoryID: garden.ID})
	require.NoError(t, err)

	f := domain.GroupFilter{Search: "expl", Type: "sortName"}
	found, err := groups.Search(ctx, f, domain.Page{})
	require.NoError(t, err)
	total, err := groups.Total(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roses"}, names(found))
	assert.Equal(t, int64(len(found)), total)

	buf, err := groups.Excel(ctx, domain.GroupFilter{})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestCategoryAndSortServices(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	groupRepo, catRepo := repo.NewGroupRepo(db), repo.NewCategoryRepo(db)
	groups := NewGroupService(groupRepo, nil, zap.NewNop())
	cats := NewCategoryService(catRepo, groupRepo, nil)
	sorts := NewSortService(repo.NewSortRepo(db), catRepo, nil)

	_, err := cats.Create(ctx, CategoryInput{Name: "Garden", GroupID: 99})
	assert.Equal(t, domain.CodeGroupNotFound, code(t, err))

	roses, err := groups.Create(ctx, GroupInput{Name: "Roses"})
	require.NoError(t, err)
	tulips, err := groups.Create(ctx, GroupInput{Name: "Tulips"})
	require.NoError(t, err)
	garden, err := cats.Create(ctx, CategoryInput{Name: "Garden", GroupID: roses.ID})
	require.NoError(t, err)

	moved, err := cats.Update(ctx, garden.ID, CategoryPatch{GroupID: &tulips.ID})
	require.NoError(t, err)
	assert.Equal(t, tulips.ID, moved.GroupID)
	assert.Equal(t, "Garden", moved.Name)

	byGroup, err := cats.List(ctx, domain.CategoryFilter{GroupID: roses.ID})
	require.NoError(t, err)
	assert.Empty(t, byGroup)

	_, err = sorts.Create(ctx, SortInput{Name: "Explorer", CategoryID: 77})
	assert.Equal(t, domain.CodeCategoryNotFound, code(t, err))

	explorer, err := sorts.Create(ctx, SortInput{Name: "Explorer", CategoryID: garden.ID})
	require.NoError(t, err)
	renamed := "Explorer Red"
	got, err := sorts.Update(ctx, explorer.ID, SortPatch{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, got.Name)

	require.NoError(t, sorts.Delete(ctx, explorer.ID, admin))
	_, err = sorts.Get(ctx, explorer.ID)
	assert.Equal(t, domain.CodeSortNotFound, code(t, err))

	require.NoError(t, cats.Delete(ctx, garden.ID, bob))
	all, err := cats.List(ctx, domain.CategoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func newLE(name string, tds ...TransferDetailsInput) LegalEntityInput {
	if tds == nil {
		tds = []TransferDetailsInput{}
	}
	return LegalEntityInput{
		ChildRef:        ChildRef{Kind: ChildNew},
		Name:            name,
		Code:            "RUC-" + name,
		LegalAddress:    "Quito",
		ActualAddress:   "Cayambe",
		TransferDetails: tds,
		Checks:          []ChecksInput{},
	}
}

func newTD(name string) TransferDetailsInput {
	return TransferDetailsInput{
		ChildRef:          ChildRef{Kind: ChildNew},
		Name:              name,
		Beneficiary:       "Finca SA",
		Bank:              "Pichincha",
		BankAccountNumber: "000123",
		BankAccountType:   domain.AccountChecking,
	}
}

func newContact(name string) ContactInput {
	return ContactInput{
		ChildRef:   ChildRef{Kind: ChildNew},
		Name:       name,
		Email:      strings.ToLower(name) + "@finca.ec",
		Whatsapp:   "+593",
		Telegram:   "@" + name,
		Skype:      name,
		Position:   "Manager",
		Department: domain.DepartmentSales,
	}
}

func plantationInput(name string) PlantationInput {
	return PlantationInput{
		Name:           name,
		Country:        "ECUADOR",
		TermsOfPayment: domain.TermsPrepaid,
		LegalEntities:  []LegalEntityInput{newLE("Alpha", newTD("main")), newLE("Beta", newTD("main"))},
		Contacts:       []ContactInput{newContact("Ana"), newContact("Luis")},
	}
}

func TestPlantationCreateNested(t *testing.T) {
	ctx := context.Background()
	svc := NewPlantationService(repo.NewPlantationRepo(newDB(t)), zap.NewNop())

	id, err := svc.Create(ctx, plantationInput("Rosaprima"))
	require.NoError(t, err)

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, p.LegalEntities, 2)
	for _, le := range p.LegalEntities {
		require.Len(t, le.TransferDetails, 1, le.Name)
		assert.Equal(t, id, le.TransferDetails[0].PlantationID)
		assert.Equal(t, le.ID, le.TransferDetails[0].PlantationLegalEntityID)
	}
	assert.Equal(t, "Alpha", p.LegalEntities[0].Name)
	assert.Len(t, p.Contacts, 2)
}

func TestPlantationCreateRejectsExistingChildren(t *testing.T) {
	in := plantationInput("Rosaprima")
	in.Contacts[1].ChildRef = ChildRef{Kind: ChildExisting, ID: 4}
	svc := NewPlantationService(repo.NewPlantationRepo(newDB(t)), zap.NewNop())

	_, err := svc.Create(context.Background(), in)
	e := domain.AsError(err)
	assert.Equal(t, domain.CodeValidationFailed, e.Code)
	assert.Equal(t, []string{"contacts[1]: only new children can be created"}, e.Messages)
}

func TestPlantationUpdateReconciles(t *testing.T) {
	ctx := context.Background()
	svc := NewPlantationService(repo.NewPlantationRepo(newDB(t)), zap.NewNop())
	id, err := svc.Create(ctx, plantationInput("Rosaprima"))
	require.NoError(t, err)
	before, err := svc.Get(ctx, id)
	require.NoError(t, err)

	alpha := before.LegalEntities[0]
	keptLE := newLE("Alpha Renamed")
	keptLE.ChildRef = ChildRef{Kind: ChildExisting, ID: alpha.ID}
	td := newTD("main updated")
	td.ChildRef = ChildRef{Kind: ChildExisting, ID: alpha.TransferDetails[0].ID}
	keptLE.TransferDetails = []TransferDetailsInput{td, newTD("second")}
	keptLE.Checks = []ChecksInput{{ChildRef: ChildRef{Kind: ChildNew}, Name: "check", Beneficiary: "Finca SA"}}

	contact := newContact("Ana")
	contact.ChildRef = ChildRef{Kind: ChildExisting, ID: before.Contacts[0].ID}
	contact.Department = domain.DepartmentAccounting

	in := plantationInput("Rosaprima")
	in.LegalEntities = []LegalEntityInput{keptLE}
	in.Contacts = []ContactInput{contact}
	in.PostpaidDays = NullableNumber[int]{Value: ptr(30)}

	_, err = svc.Update(ctx, id, in)
	require.NoError(t, err)

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, after.LegalEntities, 1, "Beta was omitted and must be gone")
	le := after.LegalEntities[0]
	assert.Equal(t, alpha.ID, le.ID)
	assert.Equal(t, "Alpha Renamed", le.Name)
	require.Len(t, le.TransferDetails, 2)
	assert.Equal(t, alpha.TransferDetails[0].ID, le.TransferDetails[0].ID)
	assert.Equal(t, "main updated", le.TransferDetails[0].Name)
	assert.Len(t, le.Checks, 1)
	require.Len(t, after.Contacts, 1)
	assert.Equal(t, domain.DepartmentAccounting, after.Contacts[0].Department)
	require.NotNil(t, after.PostpaidDays)
	assert.Equal(t, 30, *after.PostpaidDays)
	assert.Len(t, after.TransferDetails, 2, "Beta's transfer detail was dropped with it")
}

func TestPlantationUpdateAggregatesNestedFailures(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewPlantationService(repo.NewPlantationRepo(newDB(t)), zap.New(core))
	id, err := svc.Create(ctx, plantationInput("Rosaprima"))
	require.NoError(t, err)
	before, err := svc.Get(ctx, id)
	require.NoError(t, err)

	in := plantationInput("Renamed")
	for i := range in.LegalEntities {
		in.LegalEntities[i].ChildRef = ChildRef{Kind: ChildExisting, ID: before.LegalEntities[i].ID}
		in.LegalEntities[i].TransferDetails[0].ChildRef = ChildRef{Kind: ChildExisting, ID: 9000 + uint(i)}
	}

	_, err = svc.Update(ctx, id, in)
	e := domain.AsError(err)
	assert.Equal(t, domain.CodeOperationFailed, e.Code)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	require.Len(t, e.Messages, 2)
	assert.True(t, strings.HasPrefix(e.Messages[0], "legalEntities[0]: PLANTATIONTRANSFERDETAILS_NOT_FOUND"))
	assert.True(t, strings.HasPrefix(e.Messages[1], "legalEntities[1]: PLANTATIONTRANSFERDETAILS_NOT_FOUND"))
	assert.Equal(t, 1, logs.FilterMessage("nested plantation write failed").Len())

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rosaprima", after.Name, "whole update rolled back")
	assert.Len(t, after.Contacts, 2)
}

// failingChecks wraps a repository so every checks insert fails.
type failingChecks struct{ domain.PlantationRepository }

func (f failingChecks) Tx(ctx context.Context, fn func(domain.PlantationRepository) error) error {
	return f.PlantationRepository.Tx(ctx, func(r domain.PlantationRepository) error {
		return fn(failingChecks{r})
	})
}

func (f failingChecks) Checks() domain.ChildWriter[domain.PlantationChecks] { return failWriter{} }

type failWriter struct{}

func (failWriter) Create(context.Context, []domain.PlantationChecks) error {
	return domain.Internal(errors.New("disk full"))
}

func (failWriter) Update(context.Context, uint, uint, *domain.PlantationChecks) error { return nil }

func (failWriter) DeleteExcept(context.Context, uint, []uint) error { return nil }

func TestPlantationCreateRollsBackOnNestedFailure(t *testing.T) {
	ctx := context.Background()
	base := repo.NewPlantationRepo(newDB(t))
	svc := NewPlantationService(failingChecks{base}, zap.NewNop())

	in := plantationInput("Rosaprima")
	in.LegalEntities[1].Checks = []ChecksInput{{ChildRef: ChildRef{Kind: ChildNew}, Name: "c", Beneficiary: "b"}}

	_, err := svc.Create(ctx, in)
	e := domain.AsError(err)
	assert.Equal(t, domain.CodeOperationFailed, e.Code)
	assert.Equal(t, []string{"legalEntities[1]: INTERNAL_SERVER_ERROR: Internal server error"}, e.Messages)

	all, err := base.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "legal entities inserted before the failure are gone too")
	total, err := svc.Total(ctx, domain.PlantationFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlantationSearchTotalAndExcel(t *testing.T) {
	ctx := context.Background()
	svc := NewPlantationService(repo.NewPlantationRepo(newDB(t)), zap.NewNop())
	for _, name := range []string{"Rosaprima", "Flores del Valle", "Rosadex"} {
		_, err := svc.Create(ctx, plantationInput(name))
		require.NoError(t, err)
	}

	f := domain.PlantationFilter{Search: "ROSA", Type: "name", TermsOfPayment: "PREPAID"}
	rows, err := svc.Search(ctx, f, domain.Page{})
	require.NoError(t, err)
	total, err := svc.Total(ctx, f)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Rosadex", rows[0].Name)
	assert.Len(t, rows[0].LegalEntities, 2)

	page, err := svc.Search(ctx, f, domain.Page{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Rosaprima", page[0].Name)

	buf, err := svc.Excel(ctx, f)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func ptr[T any](v T) *T { return &v }

func TestNullableNumber(t *testing.T) {
	type payload struct {
		Credit NullableNumber[float64] `json:"credit"`
		Days   NullableNumber[int]     `json:"days"`
	}
	tests := []struct {
		name    string
		in      string
		credit  *float64
		days    *int
		wantErr bool
	}{
		{"numbers", `{"credit": 1500.5, "days": 30}`, ptr(1500.5), ptr(30), false},
		{"strings", `{"credit": "200", "days": " 15 "}`, ptr(200.0), ptr(15), false},
		{"empty strings", `{"credit": "", "days": ""}`, nil, nil, false},
		{"nulls", `{"credit": null, "days": null}`, nil, nil, false},
		{"missing", `{}`, nil, nil, false},
		{"not a number", `{"credit": "abc"}`, nil, nil, true},
		{"fractional days", `{"days": 1.5}`, nil, nil, true},
		{"nan", `{"credit": "NaN"}`, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := json.Unmarshal([]byte(tt.in), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.credit, p.Credit.Value)
			assert.Equal(t, tt.days, p.Days.Value)
		})
	}
}

func TestUploadService(t *testing.T) {
	ctx := context.Background()
	store, err := fs.New(t.TempDir())
	require.NoError(t, err)
	svc := NewUploadService(repo.NewUploadRepo(newDB(t)), store, zap.NewNop())

	u, err := svc.Upload(ctx, "invoice.PDF", "application/pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.Size)
	assert.True(t, strings.HasSuffix(u.Path, ".pdf"))

	got, rc, err := svc.Open(ctx, u.ID)
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, err = body.ReadFrom(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.7", body.String())
	assert.Equal(t, "application/pdf", got.Mimetype)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, _, err = svc.Open(ctx, u.ID)
	assert.Equal(t, domain.CodeUploadNotFound, code(t, err))
	_, _, err = store.Get(ctx, u.Path)
	assert.Error(t, err)
}

type brokenUploads struct{ domain.UploadRepository }

func (brokenUploads) Create(context.Context, *domain.Upload) error {
	return domain.Internal(errors.New("db down"))
}

func TestUploadServiceRemovesBlobWhenRowFails(t *testing.T) {
	ctx := context.Background()
	store, err := fs.New(t.TempDir())
	require.NoError(t, err)
	svc := NewUploadService(brokenUploads{}, store, zap.NewNop())
	svc.key = func(string) string { return "fixed.txt" }

	_, err = svc.Upload(ctx, "a.txt", "text/plain", strings.NewReader("hi"))
	assert.Equal(t, domain.CodeInternal, code(t, err))
	_, _, err = store.Get(ctx, "fixed.txt")
	assert.Error(t, err)
}

func TestBlobKey(t *testing.T) {
	assert.True(t, strings.HasSuffix(blobKey("scan.JPG"), ".jpg"))
	assert.False(t, strings.Contains(blobKey(`..\..\evil.sh`), ".."))
	assert.Len(t, blobKey("no-extension"), 36)
}

func TestAuthSignIn(t *testing.T) {
	ctx := context.Background()
	users := repo.NewUserRepo(newDB(t))
	jwter := &auth.JWTer{Secret: []byte("s3cret"), Issuer: "horti-admin", TTL: time.Hour}
	_, err := NewUserService(users, zap.NewNop()).Create(ctx, UserInput{
		Email: "Admin@Test.com", Password: "hunter22", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	svc := NewAuthService(users, jwter, zap.NewNop())

	_, err = svc.SignIn(ctx, LoginInput{Email: "nobody@test.com", Password: "x"})
	e := domain.AsError(err)
	assert.Equal(t, domain.CodeUserNotFound, e.Code)
	assert.Equal(t, http.StatusBadRequest, e.Status)

	_, err = svc.SignIn(ctx, LoginInput{Email: "admin@test.com", Password: "wrong"})
	e = domain.AsError(err)
	assert.Equal(t, domain.CodeUserNotFound, e.Code)
	assert.Equal(t, http.StatusUnauthorized, e.Status)

	res, err := svc.SignIn(ctx, LoginInput{Email: "admin@test.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "admin@test.com", res.Email)

	actor, err := jwter.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{ID: res.ID, Name: "admin@test.com", Role: domain.RoleAdmin}, actor)
}

func TestUserServiceSeedAndSave(t *testing.T) {
	ctx := context.Background()
	users := repo.NewUserRepo(newDB(t))
	svc := NewUserService(users, zap.NewNop())

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	n, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Create(ctx, UserInput{Email: "user@test.com", Password: "secret1", Role: domain.RoleUser})
	assert.Equal(t, domain.CodeUserAlreadyExists, code(t, err))

	u, err := svc.Save(ctx, UserInput{Email: "user@test.com", Password: "secret1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	list, total, err := svc.List(ctx, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, list, 4)
}

func TestAdminCancelsAnotherUsersPendingDeletion(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupService(repo.NewGroupRepo(newDB(t)), newCache(t), zap.NewNop())

	g, err := svc.Create(ctx, GroupInput{Name: "Fruits"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, g.ID, alice))

	require.NoError(t, svc.Cancel(ctx, g.ID, admin))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, g.ID, list[0].ID)
	assert.Nil(t, list[0].DeletedAt)
	assert.Nil(t, list[0].DeletedBy)
	assert.False(t, list[0].Deleted)
}

func TestPendingRowsCannotBeUpdated(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	groups := NewGroupService(repo.NewGroupRepo(db), newCache(t), zap.NewNop())
	plantations := NewPlantationService(repo.NewPlantationRepo(db), zap.NewNop())

	g, err := groups.Create(ctx, GroupInput{Name: "Fruits"})
	require.NoError(t, err)
	require.NoError(t, groups.Delete(ctx, g.ID, alice))

	_, err = groups.Update(ctx, g.ID, GroupInput{Name: "Vegetables"})
	assert.Equal(t, domain.CodeGroupNotFound, code(t, err))

	require.NoError(t, groups.Cancel(ctx, g.ID, alice))
	got, err := groups.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fruits", got.Name, "the rejected rename must not be stored")

	id, err := plantations.Create(ctx, plantationInput("Rosaprima"))
	require.NoError(t, err)
	require.NoError(t, plantations.Delete(ctx, id, alice))

	in := plantationInput("Renamed")
	in.LegalEntities = in.LegalEntities[:1]
	_, err = plantations.Update(ctx, id, in)
	assert.Equal(t, domain.CodePlantationNotFound, code(t, err))

	require.NoError(t, plantations.Cancel(ctx, id, admin))
	p, err := plantations.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rosaprima", p.Name)
	assert.Len(t, p.LegalEntities, 2, "children were not reconciled")
}

func TestAdminRemoveLongName(t *testing.T) {
	ctx := context.Background()
	svc := NewGroupService(repo.NewGroupRepo(newDB(t)), nil, zap.NewNop())

	long := strings.Repeat("r", domain.NameMaxLen)
	g, err := svc.Create(ctx, GroupInput{Name: long})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, g.ID, admin))

	again, err := svc.Create(ctx, GroupInput{Name: long})
	require.NoError(t, err, "the tombstone no longer holds the name")
	assert.NotEqual(t, g.ID, again.ID)
}

func TestBlankNamesRejected(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	groupRepo, catRepo := repo.NewGroupRepo(db), repo.NewCategoryRepo(db)
	groups := NewGroupService(groupRepo, nil, zap.NewNop())
	cats := NewCategoryService(catRepo, groupRepo, nil)
	sorts := NewSortService(repo.NewSortRepo(db), catRepo, nil)
	plantations := NewPlantationService(repo.NewPlantationRepo(db), zap.NewNop())

	_, err := groups.Create(ctx, GroupInput{Name: "   "})
	e := domain.AsError(err)
	require.NotNil(t, e)
	assert.Equal(t, domain.CodeValidationFailed, e.Code)
	assert.Equal(t, []string{"name should not be empty"}, e.Messages)

	roses, err := groups.Create(ctx, GroupInput{Name: "Roses"})
	require.NoError(t, err)
	_, err = groups.Update(ctx, roses.ID, GroupInput{Name: "\t"})
	assert.Equal(t, domain.CodeValidationFailed, code(t, err))

	_, err = cats.Create(ctx, CategoryInput{Name: " ", GroupID: roses.ID})
	assert.Equal(t, domain.CodeValidationFailed, code(t, err))
	garden, err := cats.Create(ctx, CategoryInput{Name: "Garden", GroupID: roses.ID})
	require.NoError(t, err)
	blank := "  "
	_, err = cats.Update(ctx, garden.ID, CategoryPatch{Name: &blank})
	assert.Equal(t, domain.CodeValidationFailed, code(t, err))

	_, err = sorts.Create(ctx, SortInput{Name: " ", CategoryID: garden.ID})
	assert.Equal(t, domain.CodeValidationFailed, code(t, err))
	explorer, err := sorts.Create(ctx, SortInput{Name: "Explorer", CategoryID: garden.ID})
	require.NoError(t, err)
	_, err = sorts.Update(ctx, explorer.ID, SortPatch{Name: &blank})
	assert.Equal(t, domain.CodeValidationFailed, code(t, err))

	in := plantationInput(" ")
	in.Contacts[0].Name = " "
	_, err = plantations.Create(ctx, in)
	e = domain.AsError(err)
	require.NotNil(t, e)
	assert.Equal(t, []string{"name should not be empty", "contacts[0].name should not be empty"}, e.Messages)

	list, err := groups.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Roses"}, names(list))
}
