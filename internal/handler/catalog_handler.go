package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type catalogLister interface {
	Courses(ctx context.Context, filter models.CatalogFilter) (*service.CatalogPage[models.Course], bool, error)
	Faculty(ctx context.Context, filter models.CatalogFilter) (*service.CatalogPage[models.Faculty], bool, error)
	Rooms(ctx context.Context, filter models.CatalogFilter) (*service.CatalogPage[models.Room], bool, error)
}

// CatalogHandler lists the records the solver schedules.
type CatalogHandler struct {
	service catalogLister
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Courses godoc
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Param type query string false "Course type"
// @Param search query string false "Code or title contains"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /api/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	filter, ok := bindCatalogFilter(c)
	if !ok {
		return
	}
	page, cached, err := h.service.Courses(c.Request.Context(), filter)
	writeCatalogPage(c, page, cached, err)
}

// Faculty godoc
// @Summary List faculty
// @Tags Catalog
// @Produce json
// @Param search query string false "Name or department contains"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /api/faculty [get]
func (h *CatalogHandler) Faculty(c *gin.Context) {
	filter, ok := bindCatalogFilter(c)
	if !ok {
		return
	}
	page, cached, err := h.service.Faculty(c.Request.Context(), filter)
	writeCatalogPage(c, page, cached, err)
}

// Rooms godoc
// @Summary List rooms
// @Tags Catalog
// @Produce json
// @Param type query string false "Room type"
// @Param search query string false "Name contains"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /api/rooms [get]
func (h *CatalogHandler) Rooms(c *gin.Context) {
	filter, ok := bindCatalogFilter(c)
	if !ok {
		return
	}
	page, cached, err := h.service.Rooms(c.Request.Context(), filter)
	writeCatalogPage(c, page, cached, err)
}

func bindCatalogFilter(c *gin.Context) (models.CatalogFilter, bool) {
	var filter models.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return filter, false
	}
	return filter, true
}

func writeCatalogPage[T any](c *gin.Context, page *service.CatalogPage[T], cached bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	internalmiddleware.SetCacheHit(c, cached)
	pagination := page.Pagination
	response.JSON(c, http.StatusOK, page.Items, &pagination, internalmiddleware.ExtractMeta(c))
}
