package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestCatalogRepositoryListCoursesWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, title, type, enrollment FROM course WHERE 1=1 AND type = $1 AND (LOWER(COALESCE(code, '')) LIKE $2 OR LOWER(COALESCE(title, '')) LIKE $2) ORDER BY id LIMIT 10 OFFSET 10")).
		WithArgs("lab", "%chem%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "title", "type", "enrollment"}).
			AddRow(11, "CH201", "Chemistry Lab", "lab", 18))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course WHERE 1=1 AND type = $1")).
		WithArgs("lab", "%chem%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	courses, total, err := repo.ListCourses(context.Background(), models.CatalogFilter{Type: "lab", Search: "Chem", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, courses, 1)
	assert.Equal(t, "Chemistry Lab", courses[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListFacultyIgnoresType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, department FROM faculty WHERE 1=1 ORDER BY id LIMIT 50 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "department"}).AddRow(1, "Ada", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM faculty WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	faculty, total, err := repo.ListFaculty(context.Background(), models.CatalogFilter{Type: "lab"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, faculty, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListRooms(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, capacity, type FROM room WHERE 1=1 ORDER BY id LIMIT 500 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "type"}).AddRow(10, "A-101", 30, "lecture"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM room")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rooms, total, err := repo.ListRooms(context.Background(), models.CatalogFilter{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []models.Room{{ID: 10, Name: "A-101", Capacity: 30, Type: "lecture"}}, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
