package handlers

import (
	"errors"
	"net/http"

	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/services/catalog"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService}
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category := &catalog.Category{Name: req.Name, Description: req.Description}
	if err := h.catalog.CreateCategory(category); err != nil {
		if errors.Is(err, catalog.ErrNameTaken) {
			return fail(c, http.StatusConflict, "Category name is already in use")
		}
		return fail(c, http.StatusInternalServerError, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	category, err := h.catalog.FindCategory(id)
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return fail(c, http.StatusNotFound, "Category not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load category")
	}
	return c.JSON(http.StatusOK, category)
}

type updateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.catalog.UpdateCategory(id, catalog.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			return fail(c, http.StatusNotFound, "Category not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	page, err := h.catalog.ListCategories(c.QueryParam("name"), pagination.FromContext(c, "name asc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list categories")
	}
	return c.JSON(http.StatusOK, page)
}

type createArticleRequest struct {
	Name          string    `json:"name" validate:"required,max=100"`
	Description   string    `json:"description" validate:"max=500"`
	PurchasePrice float64   `json:"purchase_price" validate:"gte=0"`
	SalePrice     float64   `json:"sale_price" validate:"gte=0"`
	Stock         int       `json:"stock" validate:"gte=0"`
	CategoryID    uuid.UUID `json:"category_id" validate:"required"`
}

func (h *CatalogHandler) CreateArticle(c echo.Context) error {
	var req createArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article := &catalog.Article{
		Name:          req.Name,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
	}
	if err := h.catalog.CreateArticle(article); err != nil {
		switch {
		case errors.Is(err, catalog.ErrCategoryNotFound):
			return fail(c, http.StatusNotFound, "Category not found")
		case errors.Is(err, catalog.ErrNameTaken):
			return fail(c, http.StatusConflict, "Article name is already in use")
		default:
			return fail(c, http.StatusInternalServerError, "Failed to create article")
		}
	}
	return c.JSON(http.StatusCreated, article)
}

func (h *CatalogHandler) GetArticle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	article, err := h.catalog.FindArticle(id)
	if err != nil {
		if errors.Is(err, catalog.ErrArticleNotFound) {
			return fail(c, http.StatusNotFound, "Article not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to load article")
	}
	return c.JSON(http.StatusOK, article)
}

type updateArticleRequest struct {
	Name          *string    `json:"name" validate:"omitempty,max=100"`
	Description   *string    `json:"description" validate:"omitempty,max=500"`
	PurchasePrice *float64   `json:"purchase_price" validate:"omitempty,gte=0"`
	SalePrice     *float64   `json:"sale_price" validate:"omitempty,gte=0"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

func (h *CatalogHandler) UpdateArticle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.catalog.UpdateArticle(id, catalog.ArticlePatch{
		Name:          req.Name,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		CategoryID:    req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrArticleNotFound):
			return fail(c, http.StatusNotFound, "Article not found")
		case errors.Is(err, catalog.ErrCategoryNotFound):
			return fail(c, http.StatusNotFound, "Category not found")
		default:
			return fail(c, http.StatusInternalServerError, "Failed to update article")
		}
	}
	return c.JSON(http.StatusOK, article)
}

func (h *CatalogHandler) ListArticles(c echo.Context) error {
	page, err := h.catalog.ListArticles(c.QueryParam("name"), pagination.FromContext(c, "name asc"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to list articles")
	}
	return c.JSON(http.StatusOK, page)
}
