package main

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/platform/config"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/testutil"
)

func TestRunLoadsCatalogForLocation(t *testing.T) {
	backend := testutil.NewBackend(t, testutil.WithProducts(
		domain.CatalogItem{ProductID: 1, ProductName: "Mug", Price: decimal.RequireFromString("1234.5"), Quantity: 3, CategoryID: 5},
		domain.CatalogItem{ProductID: 2, ProductName: "Lamp", Price: decimal.RequireFromString("30"), Quantity: 40, CategoryID: 6},
	))

	dir := t.TempDir()
	store, err := persist.NewFileStore(persist.FileConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, store.Save(persist.KeyCartItems, []domain.CartLine{{ProductID: 2, ProductName: "Lamp", Price: decimal.RequireFromString("30"), Quantity: 1}}))

	cfg := config.Config{
		API:        config.APIConfig{BaseURL: backend.BaseURL(), Timeout: 5 * time.Second},
		State:      config.StateConfig{Dir: dir},
		Checkout:   config.CheckoutConfig{LogoutSyncBudget: time.Second},
		Pagination: config.PaginationConfig{ProductsPageSize: 12, OrdersPageSize: 10},
	}

	params, err := locationParams([]string{"?page=1&category=5"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, zap.NewNop(), params, &out))

	call, ok := backend.LastCall("GET", "/public/products")
	require.True(t, ok)
	query, err := url.ParseQuery(call.Query)
	require.NoError(t, err)
	require.Equal(t, "0", query.Get("pageNumber"))
	require.Equal(t, "12", query.Get("pageSize"))
	require.Equal(t, "5", query.Get("category"))
	require.Empty(t, call.Authorization)

	printed := out.String()
	require.Contains(t, printed, "page 1 of 1 (1 products)")
	require.Contains(t, printed, "$1,234.50")
	require.Contains(t, printed, "Only 3 left")
	require.Contains(t, printed, "cart: 1 lines, subtotal $30.00, tax $2.40, shipping $5.99, total $38.39")
}

func TestLocationParams(t *testing.T) {
	params, err := locationParams(nil)
	require.NoError(t, err)
	require.Empty(t, params)

	params, err = locationParams([]string{"keyword=mug&page=2"})
	require.NoError(t, err)
	require.Equal(t, "mug", params.Get("keyword"))

	_, err = locationParams([]string{"%zz"})
	require.Error(t, err)
}
