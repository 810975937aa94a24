package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type catalogRepository interface {
	ListCourses(ctx context.Context, filter models.CatalogFilter) ([]models.Course, int, error)
	ListFaculty(ctx context.Context, filter models.CatalogFilter) ([]models.Faculty, int, error)
	ListRooms(ctx context.Context, filter models.CatalogFilter) ([]models.Room, int, error)
}

// CatalogPage is one cached page of a catalog listing.
type CatalogPage[T any] struct {
	Items      []T               `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

// CatalogService lists the records the solver schedules.
type CatalogService struct {
	repo      catalogRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo catalogRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, validator: validate, logger: logger, ttl: ttl}
}

// Courses lists courses.
func (s *CatalogService) Courses(ctx context.Context, filter models.CatalogFilter) (*CatalogPage[models.Course], bool, error) {
	return listCatalog(ctx, s, "courses", filter, s.repo.ListCourses)
}

// Faculty lists faculty.
func (s *CatalogService) Faculty(ctx context.Context, filter models.CatalogFilter) (*CatalogPage[models.Faculty], bool, error) {
	return listCatalog(ctx, s, "faculty", filter, s.repo.ListFaculty)
}

// Rooms lists rooms.
func (s *CatalogService) Rooms(ctx context.Context, filter models.CatalogFilter) (*CatalogPage[models.Room], bool, error) {
	return listCatalog(ctx, s, "rooms", filter, s.repo.ListRooms)
}

func listCatalog[T any](
	ctx context.Context,
	s *CatalogService,
	kind string,
	filter models.CatalogFilter,
	load func(context.Context, models.CatalogFilter) ([]T, int, error),
) (*CatalogPage[T], bool, error) {
	filter.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)
	if err := s.validator.Var(filter.Type, "omitempty,max=64"); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid type filter")
	}

	key := catalogCacheKey(kind, filter)
	var cached CatalogPage[T]
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	items, total, err := load(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list %s", kind))
	}
	if items == nil {
		items = []T{}
	}
	page := &CatalogPage[T]{
		Items:      items,
		Pagination: models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total},
	}
	s.cache.Set(ctx, key, page, s.ttl)
	return page, false, nil
}

func catalogCacheKey(kind string, filter models.CatalogFilter) string {
	return fmt.Sprintf("catalog:%s:%s:%s:%d:%d", kind, strings.ToLower(filter.Type), strings.ToLower(filter.Search), filter.Page, filter.PageSize)
}
