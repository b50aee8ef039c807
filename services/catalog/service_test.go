package catalog

import (
	"fmt"
	"testing"

	"github.com/OliveroJ16/inventory-system-api/pagination"
	"github.com/OliveroJ16/inventory-system-api/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t, &Category{}, &Article{})
	return NewService(db, nil), db
}

func createCategory(t *testing.T, service *Service, name string) *Category {
	t.Helper()
	category := &Category{Name: name, Description: name + " items"}
	require.NoError(t, service.CreateCategory(category))
	return category
}

func createArticle(t *testing.T, service *Service, name string, categoryID uuid.UUID, stock int) *Article {
	t.Helper()
	article := &Article{
		Name:          name,
		PurchasePrice: 10,
		SalePrice:     15,
		Stock:         stock,
		CategoryID:    categoryID,
	}
	require.NoError(t, service.CreateArticle(article))
	return article
}

func TestService_CreateCategory(t *testing.T) {
	service, _ := newTestService(t)

	t.Run("assigns id", func(t *testing.T) {
		category := createCategory(t, service, "Beverages")
		assert.NotEqual(t, uuid.Nil, category.ID)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := service.CreateCategory(&Category{Name: "Beverages"})
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestService_UpdateCategory(t *testing.T) {
	service, _ := newTestService(t)
	category := createCategory(t, service, "Snacks")

	t.Run("partial update", func(t *testing.T) {
		newDesc := "Salty snacks"
		updated, err := service.UpdateCategory(category.ID, CategoryPatch{Description: &newDesc})

		require.NoError(t, err)
		assert.Equal(t, "Snacks", updated.Name)
		assert.Equal(t, "Salty snacks", updated.Description)
	})

	t.Run("unknown category", func(t *testing.T) {
		name := "X"
		_, err := service.UpdateCategory(uuid.New(), CategoryPatch{Name: &name})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestService_ListCategories(t *testing.T) {
	service, _ := newTestService(t)
	for i := 0; i < 12; i++ {
		createCategory(t, service, fmt.Sprintf("Category %02d", i))
	}

	t.Run("paginated", func(t *testing.T) {
		page, err := service.ListCategories("", pagination.PageRequest{Page: 0, Size: 10, Sort: "name asc"})

		require.NoError(t, err)
		assert.Len(t, page.Content, 10)
		assert.Equal(t, int64(12), page.TotalElements)
	})

	t.Run("name filter", func(t *testing.T) {
		page, err := service.ListCategories("Category 03", pagination.PageRequest{Page: 0, Size: 10, Sort: "name asc"})

		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Category 03", page.Content[0].Name)
	})
}

func TestService_CreateArticle(t *testing.T) {
	service, _ := newTestService(t)
	category := createCategory(t, service, "Dairy")

	t.Run("valid article", func(t *testing.T) {
		article := createArticle(t, service, "Milk 1L", category.ID, 50)

		assert.NotEqual(t, uuid.Nil, article.ID)

		stored, err := service.FindArticle(article.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, stored.Stock)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		err := service.CreateArticle(&Article{Name: "Orphan", CategoryID: uuid.New()})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := service.CreateArticle(&Article{Name: "Milk 1L", CategoryID: category.ID})
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestService_UpdateArticle(t *testing.T) {
	service, _ := newTestService(t)
	category := createCategory(t, service, "Bakery")
	article := createArticle(t, service, "Bread", category.ID, 20)

	t.Run("price update", func(t *testing.T) {
		newPrice := 18.5
		updated, err := service.UpdateArticle(article.ID, ArticlePatch{SalePrice: &newPrice})

		require.NoError(t, err)
		assert.Equal(t, 18.5, updated.SalePrice)
		assert.Equal(t, "Bread", updated.Name)
	})

	t.Run("move to unknown category rejected", func(t *testing.T) {
		ghost := uuid.New()
		_, err := service.UpdateArticle(article.ID, ArticlePatch{CategoryID: &ghost})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestService_ListArticles(t *testing.T) {
	service, _ := newTestService(t)
	category := createCategory(t, service, "Produce")
	for i := 0; i < 5; i++ {
		createArticle(t, service, fmt.Sprintf("Item %d", i), category.ID, 10)
	}

	page, err := service.ListArticles("Item", pagination.PageRequest{Page: 0, Size: 3, Sort: "name asc"})

	require.NoError(t, err)
	assert.Len(t, page.Content, 3)
	assert.Equal(t, int64(5), page.TotalElements)
	require.NotNil(t, page.Content[0].Category)
	assert.Equal(t, "Produce", page.Content[0].Category.Name)
}

func TestService_AdjustStock(t *testing.T) {
	service, db := newTestService(t)
	category := createCategory(t, service, "Frozen")
	article := createArticle(t, service, "Ice Cream", category.ID, 10)

	t.Run("decrement", func(t *testing.T) {
		adjusted, err := service.AdjustStock(db, article.ID, -4)

		require.NoError(t, err)
		assert.Equal(t, 6, adjusted.Stock)
	})

	t.Run("increment", func(t *testing.T) {
		adjusted, err := service.AdjustStock(db, article.ID, 14)

		require.NoError(t, err)
		assert.Equal(t, 20, adjusted.Stock)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		_, err := service.AdjustStock(db, article.ID, -100)

		assert.ErrorIs(t, err, ErrInsufficientStock)

		stored, err := service.FindArticle(article.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, stored.Stock)
	})

	t.Run("unknown article", func(t *testing.T) {
		_, err := service.AdjustStock(db, uuid.New(), 1)
		assert.ErrorIs(t, err, ErrArticleNotFound)
	})
}
