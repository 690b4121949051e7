package storefront

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

const customerOrdersPageSize = 10

// CreateDashboardProduct adds product to its category and reloads the admin catalog.
func (s *Service) CreateDashboardProduct(ctx context.Context, product domain.CatalogItem, done func()) error {
	if err := s.checkProduct(product); err != nil {
		return err
	}
	if product.CategoryID == 0 {
		return s.invalid("Please select a category")
	}
	endpoint := fmt.Sprintf("/admin/categories/%d/product", product.CategoryID)
	if err := s.api.Send(ctx, http.MethodPost, endpoint, product, nil); err != nil {
		return s.failLoudly(ctx, state.ScopeCatalog, "create product", apiclient.FieldOr(err, "Product creation failed", "description"), err)
	}
	s.notifier.Success("Product created successfully")
	closeModalFunc(done)
	s.reloadDashboardCatalog(ctx)
	return nil
}

// ModifyDashboardProduct updates product and reloads the admin catalog.
func (s *Service) ModifyDashboardProduct(ctx context.Context, product domain.CatalogItem, done func()) error {
	if product.ProductID == 0 {
		return s.invalid("Product id is required")
	}
	if err := s.checkProduct(product); err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/admin/products/%d", product.ProductID)
	if err := s.api.Send(ctx, http.MethodPut, endpoint, product, nil); err != nil {
		return s.failLoudly(ctx, state.ScopeCatalog, "update product", apiclient.FieldOr(err, "Product update failed", "description"), err)
	}
	s.notifier.Success("Product update successful")
	closeModalFunc(done)
	s.reloadDashboardCatalog(ctx)
	return nil
}

// RemoveCatalogItem deletes a product and reloads the admin catalog.
func (s *Service) RemoveCatalogItem(ctx context.Context, productID int64, done func()) error {
	if err := s.api.Send(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", productID), nil, nil); err != nil {
		return s.failLoudly(ctx, state.ScopeCatalog, "delete product", apiclient.MessageOr(err, "Some Error Occured"), err)
	}
	s.notifier.Success("Product deleted successfully")
	closeModalFunc(done)
	s.reloadDashboardCatalog(ctx)
	return nil
}

// UploadProductImage replaces the product image and reloads the admin catalog.
func (s *Service) UploadProductImage(ctx context.Context, productID int64, filename string, content io.Reader, done func()) error {
	if content == nil || strings.TrimSpace(filename) == "" {
		return s.invalid("Please choose an image to upload")
	}
	endpoint := fmt.Sprintf("/admin/products/%d/image", productID)
	if err := s.api.SendMultipart(ctx, http.MethodPut, endpoint, "image", filename, content, nil); err != nil {
		return s.failLoudly(ctx, state.ScopeCatalog, "upload product image", apiclient.FieldOr(err, "Product Image upload failed", "description"), err)
	}
	s.notifier.Success("Image upload successful")
	closeModalFunc(done)
	s.reloadDashboardCatalog(ctx)
	return nil
}

func (s *Service) checkProduct(product domain.CatalogItem) error {
	if strings.TrimSpace(product.ProductName) == "" {
		return s.invalid("Product name is required")
	}
	if product.Price.IsNegative() {
		return s.invalid("Price cannot be negative")
	}
	if product.Quantity < 0 {
		return s.invalid("Quantity cannot be negative")
	}
	return nil
}

func (s *Service) reloadDashboardCatalog(ctx context.Context) {
	query := pageQuery(s.State().Catalog.Pagination.PageNumber)
	if err := s.LoadDashboardCatalog(ctx, query); err != nil {
		s.log(ctx).Warn("admin catalog not reloaded", zap.Error(err))
	}
}

// AddNewCategory creates a category and reloads the category list.
func (s *Service) AddNewCategory(ctx context.Context, category domain.Category, done func()) error {
	if strings.TrimSpace(category.CategoryName) == "" {
		return s.invalid("Category name is required")
	}
	return s.mutateCategory(ctx, http.MethodPost, "/admin/categories", category, done,
		"Category Created Successful", "Failed to create new category")
}

// ModifyCategory renames a category and reloads the category list.
func (s *Service) ModifyCategory(ctx context.Context, category domain.Category, done func()) error {
	if category.CategoryID == 0 {
		return s.invalid("Category id is required")
	}
	if strings.TrimSpace(category.CategoryName) == "" {
		return s.invalid("Category name is required")
	}
	endpoint := fmt.Sprintf("/admin/categories/%d", category.CategoryID)
	return s.mutateCategory(ctx, http.MethodPut, endpoint, category, done,
		"Category Update Successful", "Failed to update category")
}

// RemoveCategory deletes a category and reloads the category list.
func (s *Service) RemoveCategory(ctx context.Context, categoryID int64, done func()) error {
	endpoint := fmt.Sprintf("/admin/categories/%d", categoryID)
	s.begin(state.ScopeCategories)
	if err := s.api.Send(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		s.notifier.Error(apiclient.MessageOr(err, "Failed to delete category"))
		return s.failQuietly(ctx, state.ScopeCategories, "delete category", apiclient.MessageOr(err, "Internal Server Error"), err)
	}
	s.succeed(state.ScopeCategories)
	s.notifier.Success("Category Delete Successful")
	closeModalFunc(done)
	s.reloadCategories(ctx)
	return nil
}

func (s *Service) mutateCategory(ctx context.Context, method, endpoint string, category domain.Category, done func(), success, fallback string) error {
	s.begin(state.ScopeCategories)
	if err := s.api.Send(ctx, method, endpoint, category, nil); err != nil {
		s.notifier.Error(apiclient.FieldOr(err, fallback, "categoryName"))
		return s.failQuietly(ctx, state.ScopeCategories, "save category", apiclient.MessageOr(err, "Internal Server Error"), err)
	}
	s.succeed(state.ScopeCategories)
	s.notifier.Success(success)
	closeModalFunc(done)
	s.reloadCategories(ctx)
	return nil
}

func (s *Service) reloadCategories(ctx context.Context) {
	query := pageQuery(s.State().Catalog.CategoryPagination.PageNumber)
	if err := s.FetchAllDashboardCategories(ctx, query); err != nil {
		s.log(ctx).Warn("categories not reloaded", zap.Error(err))
	}
}

// LoadAnalytics loads the dashboard figures.
func (s *Service) LoadAnalytics(ctx context.Context) error {
	s.begin(state.ScopeAdmin)
	var analytics domain.Analytics
	if err := s.api.Send(ctx, http.MethodGet, "/admin/app/analytics", nil, &analytics); err != nil {
		return s.failQuietly(ctx, state.ScopeAdmin, "fetch analytics", apiclient.MessageOr(err, "Failed to fetch analytics data"), err)
	}
	s.store.Dispatch(state.AnalyticsLoaded{Analytics: analytics})
	s.succeed(state.ScopeAdmin)
	return nil
}

// GetOrdersForDashboard loads one page of all orders for the encoded query.
func (s *Service) GetOrdersForDashboard(ctx context.Context, query string) error {
	s.begin(state.ScopeOrders)
	var page domain.Page[domain.Order]
	if err := s.api.Send(ctx, http.MethodGet, withQuery("/admin/orders", query), nil, &page); err != nil {
		return s.failQuietly(ctx, state.ScopeOrders, "fetch admin orders", apiclient.MessageOr(err, "Failed to fetch orders data"), err)
	}
	s.store.Dispatch(state.AdminOrdersLoaded{Page: page})
	s.succeed(state.ScopeOrders)
	return nil
}

// UpdateOrderStatusFromDashboard changes an order's status and reloads the current page of orders.
func (s *Service) UpdateOrderStatusFromDashboard(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return s.invalid(fmt.Sprintf("Unknown order status %q", status))
	}

	return s.withButton(func() error {
		var resp messageResponse
		body := map[string]string{"status": string(status)}
		if err := s.api.Send(ctx, http.MethodPut, orderStatusEndpoint(orderID), body, &resp); err != nil {
			return s.failLoudly(ctx, state.ScopeOrders, "update order status", apiclient.MessageOr(err, "Internal Server Error"), err)
		}
		s.notifier.Success(nonEmpty(resp.Message, "Order updated successfully"))

		query := pageQuery(s.State().Orders.Pagination.PageNumber)
		if err := s.GetOrdersForDashboard(ctx, query); err != nil {
			s.log(ctx).Warn("admin orders not reloaded", zap.Error(err))
		}
		return nil
	})
}

// GetAllCustomersDashboard loads one page of customers for the encoded query.
func (s *Service) GetAllCustomersDashboard(ctx context.Context, query string) error {
	s.begin(state.ScopeCustomers)
	var page domain.Page[domain.Customer]
	if err := s.api.Send(ctx, http.MethodGet, withQuery("/auth/customers", query), nil, &page); err != nil {
		return s.failQuietly(ctx, state.ScopeCustomers, "fetch customers", apiclient.MessageOr(err, "Failed to fetch customers"), err)
	}
	s.store.Dispatch(state.CustomersLoaded{Page: page})
	s.succeed(state.ScopeCustomers)
	return nil
}

// GetCustomerDetails fetches the customer's addresses, cards and latest orders concurrently.
// Nothing is stored unless all three succeed.
func (s *Service) GetCustomerDetails(ctx context.Context, userID int64) (domain.CustomerDetails, error) {
	s.begin(state.ScopeCustomers)

	details := domain.CustomerDetails{UserID: userID}
	var orders domain.Page[domain.Order]

	ordersQuery := url.Values{}
	ordersQuery.Set("pageNumber", "0")
	ordersQuery.Set("pageSize", strconv.Itoa(customerOrdersPageSize))
	ordersQuery.Set("sortBy", "orderId")
	ordersQuery.Set("sortOrder", "desc")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.api.Send(gctx, http.MethodGet, fmt.Sprintf("/admin/addresses/user/%d", userID), nil, &details.Addresses)
	})
	g.Go(func() error {
		return s.api.Send(gctx, http.MethodGet, fmt.Sprintf("/admin/payment-cards/user/%d", userID), nil, &details.PaymentCards)
	})
	g.Go(func() error {
		endpoint := withQuery(fmt.Sprintf("/admin/orders/user/%d", userID), ordersQuery.Encode())
		return s.api.Send(gctx, http.MethodGet, endpoint, nil, &orders)
	})
	if err := g.Wait(); err != nil {
		return domain.CustomerDetails{}, s.failQuietly(ctx, state.ScopeCustomers, "fetch customer details", apiclient.MessageOr(err, "Failed to fetch customer details"), err)
	}

	details.Orders = orders.Content
	s.store.Dispatch(state.CustomerDetailsLoaded{Details: details})
	s.succeed(state.ScopeCustomers)
	return details, nil
}

func pageQuery(pageNumber int) string {
	if pageNumber < 0 {
		pageNumber = 0
	}
	return url.Values{"pageNumber": []string{strconv.Itoa(pageNumber)}}.Encode()
}
