package products

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/audiohive/audiohive-backend/pkg/db/models"
	"github.com/audiohive/audiohive-backend/pkg/enums"
	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  price NUMERIC NOT NULL,
  sku TEXT,
  main_category TEXT NOT NULL,
  sub_category TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '{}',
  features_summary TEXT NOT NULL DEFAULT '{}',
  images TEXT NOT NULL DEFAULT '{}',
  ratings_average REAL NOT NULL DEFAULT 0,
  ratings_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	uniqueTitle := `
CREATE UNIQUE INDEX IF NOT EXISTS uq_products_title ON products (title);`

	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(uniqueTitle).Error)
	require.NoError(t, db.Exec(`DELETE FROM products`).Error)
	return db
}

// staticReviewLoader feeds the product detail endpoint a canned review set.
type staticReviewLoader struct {
	reviews []models.Review
}

func (l staticReviewLoader) ListByProduct(context.Context, uuid.UUID) ([]models.Review, error) {
	return l.reviews, nil
}

func newProductsService(t *testing.T, loader staticReviewLoader) (Service, *gorm.DB) {
	t.Helper()
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db), loader)
	require.NoError(t, err)
	return svc, db
}

func createInputFixture(title string) CreateProductInput {
	return CreateProductInput{
		Title:           title,
		Price:           decimal.RequireFromString("129.50"),
		MainCategory:    enums.MainCategoryWireless,
		SubCategory:     enums.SubCategoryTWS,
		Description:     []string{"Bluetooth 5.3", "30h battery"},
		FeaturesSummary: []string{"ANC"},
		Images:          []string{"https://cdn.audiohive.shop/p/aria-buds.jpg"},
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	review := models.Review{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Rating:    5,
		Body:      "Superb isolation",
		CreatedAt: time.Now().UTC(),
	}
	svc, _ := newProductsService(t, staticReviewLoader{reviews: []models.Review{review}})
	ctx := context.Background()

	created, err := svc.Create(ctx, createInputFixture("Aria Buds Pro"))
	require.NoError(t, err)
	assert.Equal(t, "Aria Buds Pro", created.Title)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("129.50")))
	assert.Equal(t, enums.MainCategoryWireless, created.MainCategory)

	detail, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)
	assert.Equal(t, []string{"Bluetooth 5.3", "30h battery"}, detail.Description)
	require.Len(t, detail.Reviews, 1)
	assert.Equal(t, "Superb isolation", detail.Reviews[0].Body)
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})

	input := createInputFixture("Aria Buds Pro")
	input.MainCategory = "vinyl"
	_, err := svc.Create(context.Background(), input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	input = createInputFixture("Aria Buds Pro")
	input.SubCategory = "gramophones"
	_, err = svc.Create(context.Background(), input)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateProductRejectsDuplicateTitle(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})
	ctx := context.Background()

	_, err := svc.Create(ctx, createInputFixture("Aria Buds Pro"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createInputFixture("Aria Buds Pro"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDuplicate, typed.Code())
	assert.Equal(t, "Duplicate field value: title. Please use another value!", typed.Message())
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Product not found", typed.Message())
}

func TestListProductsFilterAndSort(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})
	ctx := context.Background()

	prices := map[string]string{
		"Aria Buds":     "59.00",
		"Aria Buds Pro": "129.50",
		"Hive Max Over": "249.00",
	}
	for title, price := range prices {
		input := createInputFixture(title)
		input.Price = decimal.RequireFromString(price)
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	query := url.Values{
		"price[gte]": {"100"},
		"sort":       {"-price"},
	}
	list, err := svc.List(ctx, query)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Hive Max Over", list[0].Title)
	assert.Equal(t, "Aria Buds Pro", list[1].Title)
}

func TestListProductsRejectsUnknownFilter(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})

	_, err := svc.List(context.Background(), url.Values{"password": {"x"}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})
	ctx := context.Background()

	created, err := svc.Create(ctx, createInputFixture("Aria Buds Pro"))
	require.NoError(t, err)

	title := "Aria Buds Pro 2"
	price := decimal.RequireFromString("149.00")
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Aria Buds Pro 2", updated.Title)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, enums.SubCategoryTWS, updated.SubCategory)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newProductsService(t, staticReviewLoader{})

	title := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Title: &title})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "No product found with the requested id.", typed.Message())
}

func TestDeleteProduct(t *testing.T) {
	svc, db := newProductsService(t, staticReviewLoader{})
	ctx := context.Background()

	created, err := svc.Create(ctx, createInputFixture("Aria Buds Pro"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var count int64
	require.NoError(t, db.Table("products").Count(&count).Error)
	assert.Equal(t, int64(0), count)

	err = svc.Delete(ctx, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
