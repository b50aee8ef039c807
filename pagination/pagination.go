package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	DefaultPage = 0
	DefaultSize = 10
	MaxSize     = 100
)

// PageRequest carries zero-based page coordinates and an ordering clause.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Last          bool  `json:"last"`
}

// FromContext reads page, size and sort query parameters, falling back to
// defaults and clamping size.
func FromContext(c echo.Context, defaultSort string) PageRequest {
	req := PageRequest{Page: DefaultPage, Size: DefaultSize, Sort: defaultSort}

	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 0 {
			req.Page = page
		}
	}
	if raw := c.QueryParam("size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			req.Size = size
		}
	}
	if req.Size > MaxSize {
		req.Size = MaxSize
	}
	if sort := c.QueryParam("sort"); sort != "" {
		req.Sort = sort
	}

	return req
}

// Scope applies offset, limit and ordering to a GORM query.
func (r PageRequest) Scope(db *gorm.DB) *gorm.DB {
	query := db.Offset(r.Page * r.Size).Limit(r.Size)
	if r.Sort != "" {
		query = query.Order(r.Sort)
	}
	return query
}

func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if content == nil {
		content = []T{}
	}

	return Page[T]{
		Content:       content,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          req.Page >= totalPages-1,
	}
}
