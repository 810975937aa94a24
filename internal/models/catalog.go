package models

// Course is a persisted course offering.
type Course struct {
	ID         int64  `db:"id" json:"id" csv:"id"`
	Code       string `db:"code" json:"code" csv:"code"`
	Title      string `db:"title" json:"name" csv:"title"`
	Type       string `db:"type" json:"type" csv:"type"`
	Enrollment int    `db:"enrollment" json:"enrollment" csv:"enrollment"`
}

// Faculty is a persisted instructor.
type Faculty struct {
	ID         int64   `db:"id" json:"id" csv:"id"`
	Name       string  `db:"name" json:"name" csv:"name"`
	Department *string `db:"department" json:"department,omitempty" csv:"department"`
}

// Room is a persisted teaching space.
type Room struct {
	ID       int64  `db:"id" json:"id" csv:"id"`
	Name     string `db:"name" json:"name" csv:"name"`
	Capacity int    `db:"capacity" json:"capacity" csv:"capacity"`
	Type     string `db:"type" json:"type" csv:"type"`
}

// CatalogFilter narrows catalog listings.
type CatalogFilter struct {
	Type     string `form:"type"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Normalize clamps paging parameters.
func (f *CatalogFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	if f.PageSize > 500 {
		f.PageSize = 500
	}
}

// Offset returns the row offset of the requested page.
func (f CatalogFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
