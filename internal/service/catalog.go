package service

import (
	"bytes"
	"context"
	"strings"

	"go.uber.org/zap"

	"horti-admin/internal/core/cache"
	"horti-admin/internal/domain"
	"horti-admin/internal/export"
)

// Dictionary cache keys. Any catalog mutation drops all of them.
const (
	keyGroups     = "dict:groups"
	keyCategories = "dict:categories"
	keySorts      = "dict:sorts"
)

func invalidateCatalog(c *cache.Cache) func(context.Context) {
	return func(ctx context.Context) { c.Invalidate(ctx, keyGroups, keyCategories, keySorts) }
}

type GroupInput struct {
	Name string `json:"name" binding:"required,max=191"`
}

type GroupService struct {
	lifecycle
	repo  domain.GroupRepository
	cache *cache.Cache
	log   *zap.Logger
}

func NewGroupService(repo domain.GroupRepository, c *cache.Cache, log *zap.Logger) *GroupService {
	return &GroupService{
		lifecycle: newLifecycle("group", repo, invalidateCatalog(c)),
		repo:      repo,
		cache:     c,
		log:       log,
	}
}

func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyGroups, s.repo.List)
}

func (s *GroupService) Search(ctx context.Context, f domain.GroupFilter, page domain.Page) ([]domain.Group, error) {
	return s.repo.Search(ctx, domain.BuildGroupPredicate(f), page)
}

func (s *GroupService) Total(ctx context.Context, f domain.GroupFilter) (int64, error) {
	return s.repo.Count(ctx, domain.BuildGroupPredicate(f))
}

// Excel renders the whole filtered hierarchy, unpaginated.
func (s *GroupService) Excel(ctx context.Context, f domain.GroupFilter) (*bytes.Buffer, error) {
	groups, err := s.repo.Search(ctx, domain.BuildGroupPredicate(f), domain.Page{})
	if err != nil {
		return nil, err
	}
	buf, err := export.Groups(groups)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return buf, nil
}

func (s *GroupService) Get(ctx context.Context, id uint) (*domain.Group, error) {
	return s.repo.Get(ctx, id)
}

func (s *GroupService) Create(ctx context.Context, in GroupInput) (*domain.Group, error) {
	name, err := domain.CleanName("name", in.Name)
	if err != nil {
		return nil, err
	}
	g := &domain.Group{Name: name}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.changed(ctx)
	s.log.Info("group created", zap.Uint("id", g.ID), zap.String("name", g.Name))
	return g, nil
}

func (s *GroupService) Update(ctx context.Context, id uint, in GroupInput) (*domain.Group, error) {
	name, err := domain.CleanName("name", in.Name)
	if err != nil {
		return nil, err
	}
	g, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return g, nil
}

type CategoryInput struct {
	Name    string `json:"name" binding:"required,max=191"`
	GroupID uint   `json:"groupId" binding:"required"`
}

// CategoryPatch changes only the fields that are present.
type CategoryPatch struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=191"`
	GroupID *uint   `json:"groupId" binding:"omitempty,min=1"`
}

type CategoryService struct {
	lifecycle
	repo   domain.CategoryRepository
	groups domain.GroupRepository
	cache  *cache.Cache
}

func NewCategoryService(repo domain.CategoryRepository, groups domain.GroupRepository, c *cache.Cache) *CategoryService {
	return &CategoryService{
		lifecycle: newLifecycle("category", repo, invalidateCatalog(c)),
		repo:      repo,
		groups:    groups,
		cache:     c,
	}
}

// List caches the unfiltered dictionary only.
func (s *CategoryService) List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f == (domain.CategoryFilter{}) {
		return cache.GetOrLoadJSON(s.cache, ctx, keyCategories, func(ctx context.Context) ([]domain.Category, error) {
			return s.repo.List(ctx, f)
		})
	}
	return s.repo.List(ctx, f)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*domain.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name, err := domain.CleanName("name", in.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.groups.Get(ctx, in.GroupID); err != nil {
		return nil, err
	}
	c := &domain.Category{Name: name, GroupID: in.GroupID}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryPatch) (*domain.Category, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, groupID := cur.Name, cur.GroupID
	if in.Name != nil {
		if name, err = domain.CleanName("name", *in.Name); err != nil {
			return nil, err
		}
	}
	if in.GroupID != nil && *in.GroupID != groupID {
		if _, err := s.groups.Get(ctx, *in.GroupID); err != nil {
			return nil, err
		}
		groupID = *in.GroupID
	}
	c, err := s.repo.Update(ctx, id, name, groupID)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return c, nil
}

type SortInput struct {
	Name       string `json:"name" binding:"required,max=191"`
	CategoryID uint   `json:"categoryId" binding:"required"`
}

type SortPatch struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=191"`
	CategoryID *uint   `json:"categoryId" binding:"omitempty,min=1"`
}

type SortService struct {
	lifecycle
	repo       domain.SortRepository
	categories domain.CategoryRepository
	cache      *cache.Cache
}

func NewSortService(repo domain.SortRepository, categories domain.CategoryRepository, c *cache.Cache) *SortService {
	return &SortService{
		lifecycle:  newLifecycle("sort", repo, invalidateCatalog(c)),
		repo:       repo,
		categories: categories,
		cache:      c,
	}
}

func (s *SortService) List(ctx context.Context, f domain.SortFilter) ([]domain.Sort, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f == (domain.SortFilter{}) {
		return cache.GetOrLoadJSON(s.cache, ctx, keySorts, func(ctx context.Context) ([]domain.Sort, error) {
			return s.repo.List(ctx, f)
		})
	}
	return s.repo.List(ctx, f)
}

func (s *SortService) Get(ctx context.Context, id uint) (*domain.Sort, error) {
	return s.repo.Get(ctx, id)
}

func (s *SortService) Create(ctx context.Context, in SortInput) (*domain.Sort, error) {
	name, err := domain.CleanName("name", in.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	sort := &domain.Sort{Name: name, CategoryID: in.CategoryID}
	if err := s.repo.Create(ctx, sort); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return sort, nil
}

func (s *SortService) Update(ctx context.Context, id uint, in SortPatch) (*domain.Sort, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, categoryID := cur.Name, cur.CategoryID
	if in.Name != nil {
		if name, err = domain.CleanName("name", *in.Name); err != nil {
			return nil, err
		}
	}
	if in.CategoryID != nil && *in.CategoryID != categoryID {
		if _, err := s.categories.Get(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		categoryID = *in.CategoryID
	}
	sort, err := s.repo.Update(ctx, id, name, categoryID)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return sort, nil
}
