package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// CatalogRepository lists courses, faculty and rooms.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCourses returns courses matching the filter along with the total count.
func (r *CatalogRepository) ListCourses(ctx context.Context, filter models.CatalogFilter) ([]models.Course, int, error) {
	var courses []models.Course
	total, err := r.list(ctx, &courses, "course", "id, code, title, type, enrollment", []string{"code", "title"}, true, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return courses, total, nil
}

// ListFaculty returns faculty matching the filter along with the total count.
func (r *CatalogRepository) ListFaculty(ctx context.Context, filter models.CatalogFilter) ([]models.Faculty, int, error) {
	var faculty []models.Faculty
	total, err := r.list(ctx, &faculty, "faculty", "id, name, department", []string{"name", "department"}, false, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, total, nil
}

// ListRooms returns rooms matching the filter along with the total count.
func (r *CatalogRepository) ListRooms(ctx context.Context, filter models.CatalogFilter) ([]models.Room, int, error) {
	var rooms []models.Room
	total, err := r.list(ctx, &rooms, "room", "id, name, capacity, type", []string{"name"}, true, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, total, nil
}

func (r *CatalogRepository) list(ctx context.Context, dest interface{}, table, columns string, searchable []string, typed bool, filter models.CatalogFilter) (int, error) {
	filter.Normalize()

	base := "FROM " + table + " WHERE 1=1"
	var args []interface{}
	if typed && filter.Type != "" {
		args = append(args, filter.Type)
		base += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Search != "" && len(searchable) > 0 {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		clauses := make([]string, len(searchable))
		for i, column := range searchable {
			clauses[i] = fmt.Sprintf("LOWER(COALESCE(%s, '')) LIKE $%d", column, len(args))
		}
		base += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY id LIMIT %d OFFSET %d", columns, base, filter.PageSize, filter.Offset())
	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		return 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}
