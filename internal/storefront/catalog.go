package storefront

import (
	"context"
	"net/http"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

// LoadCatalogItems loads one page of the public catalog for the encoded query.
func (s *Service) LoadCatalogItems(ctx context.Context, query string) error {
	return s.loadProducts(ctx, withQuery("/public/products", query), "Failed to fetch products")
}

// LoadDashboardCatalog loads one page of the admin product list for the encoded query.
func (s *Service) LoadDashboardCatalog(ctx context.Context, query string) error {
	return s.loadProducts(ctx, withQuery("/admin/products", query), "Failed to fetch dashboard products")
}

func (s *Service) loadProducts(ctx context.Context, endpoint, fallback string) error {
	s.begin(state.ScopeCatalog)
	var page domain.Page[domain.CatalogItem]
	if err := s.api.Send(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return s.failQuietly(ctx, state.ScopeCatalog, "fetch products", apiclient.MessageOr(err, fallback), err)
	}
	s.store.Dispatch(state.ProductsLoaded{Page: page})
	s.succeed(state.ScopeCatalog)
	return nil
}

// LoadCategoryList loads the first page of categories.
func (s *Service) LoadCategoryList(ctx context.Context) error {
	return s.FetchAllDashboardCategories(ctx, "")
}

// FetchAllDashboardCategories loads one page of categories for the encoded query.
func (s *Service) FetchAllDashboardCategories(ctx context.Context, query string) error {
	s.begin(state.ScopeCategories)
	var page domain.Page[domain.Category]
	if err := s.api.Send(ctx, http.MethodGet, withQuery("/public/categories", query), nil, &page); err != nil {
		return s.failQuietly(ctx, state.ScopeCategories, "fetch categories", apiclient.MessageOr(err, "Failed to fetch categories"), err)
	}
	s.store.Dispatch(state.CategoriesLoaded{Page: page})
	s.succeed(state.ScopeCategories)
	return nil
}
