// Package querysync binds location query parameters to list loads. A Hook turns the visible
// parameters (1-based "page", "sortby", "category", "keyword") into the backend query and runs
// the matching load every time the parameters change.
package querysync

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

const (
	paramPage     = "page"
	paramSort     = "sortby"
	paramCategory = "category"
	paramKeyword  = "keyword"

	defaultSortField = "price"
	defaultSortOrder = "asc"
)

// Builder maps location parameters to an encoded backend query.
type Builder func(params url.Values) string

// Loader is a list-loading action creator taking an encoded query.
type Loader func(ctx context.Context, query string) error

// CatalogQuery builds the storefront product query: 0-based pageNumber, price sort in the
// requested order, and the optional category and keyword filters.
func CatalogQuery(params url.Values) string {
	q := pageValues(params)
	q.Set("sortBy", defaultSortField)
	q.Set("sortOrder", firstNonEmpty(params.Get(paramSort), defaultSortOrder))
	if category := strings.TrimSpace(params.Get(paramCategory)); category != "" {
		q.Set("category", category)
	}
	if keyword := strings.TrimSpace(params.Get(paramKeyword)); keyword != "" {
		q.Set("keyword", keyword)
	}
	return q.Encode()
}

// AdminCatalogQuery builds the admin product list query.
func AdminCatalogQuery(params url.Values) string { return pageValues(params).Encode() }

// CustomersQuery builds the admin customer list query.
func CustomersQuery(params url.Values) string { return pageValues(params).Encode() }

// AdminOrdersQuery builds the admin order list query.
func AdminOrdersQuery(params url.Values) string { return pageValues(params).Encode() }

// CategoriesQuery builds the category list query.
func CategoriesQuery(params url.Values) string { return pageValues(params).Encode() }

// WithPageSize wraps build so the query also requests size items per page.
// A non-positive size leaves the page size to the backend.
func WithPageSize(build Builder, size int) Builder {
	if size <= 0 {
		return build
	}
	return func(params url.Values) string {
		q, err := url.ParseQuery(build(params))
		if err != nil {
			q = pageValues(params)
		}
		q.Set("pageSize", strconv.Itoa(size))
		return q.Encode()
	}
}

// PageNumber returns the 0-based page encoded by the 1-based "page" parameter.
// Missing, malformed and non-positive values select the first page.
func PageNumber(params url.Values) int {
	page, err := strconv.Atoi(strings.TrimSpace(params.Get(paramPage)))
	if err != nil || page < 1 {
		return 0
	}
	return page - 1
}

func pageValues(params url.Values) url.Values {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(PageNumber(params)))
	return q
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Hook runs Load with the query built from the current parameters. It holds no state besides
// its collaborators, so one Hook may serve any number of views.
type Hook struct {
	name   string
	build  Builder
	load   Loader
	runner *state.Runner
}

// New constructs a Hook. A nil runner runs loads inline.
func New(name string, build Builder, load Loader, runner *state.Runner) Hook {
	return Hook{name: name, build: build, load: load, runner: runner}
}

// Catalog binds the storefront product list.
func Catalog(load Loader, runner *state.Runner) Hook {
	return New("catalog", CatalogQuery, load, runner)
}

// AdminCatalog binds the admin product list.
func AdminCatalog(load Loader, runner *state.Runner) Hook {
	return New("admin-catalog", AdminCatalogQuery, load, runner)
}

// Customers binds the admin customer list.
func Customers(load Loader, runner *state.Runner) Hook {
	return New("customers", CustomersQuery, load, runner)
}

// AdminOrders binds the admin order list.
func AdminOrders(load Loader, runner *state.Runner) Hook {
	return New("admin-orders", AdminOrdersQuery, load, runner)
}

// Categories binds the category list.
func Categories(load Loader, runner *state.Runner) Hook {
	return New("categories", CategoriesQuery, load, runner)
}

// Sync starts one load for params and returns the query it was given. Inline hooks return the
// load error; runner-backed hooks leave it to the runner's log.
func (h Hook) Sync(ctx context.Context, params url.Values) (string, error) {
	query := h.build(params)
	if h.load == nil {
		return query, nil
	}
	if h.runner == nil {
		return query, h.load(ctx, query)
	}
	h.runner.Go(ctx, h.name, func(ctx context.Context) error {
		return h.load(ctx, query)
	})
	return query, nil
}

// Watch syncs once per value received on changes until the channel closes or ctx ends.
func (h Hook) Watch(ctx context.Context, changes <-chan url.Values) {
	for {
		select {
		case <-ctx.Done():
			return
		case params, ok := <-changes:
			if !ok {
				return
			}
			_, _ = h.Sync(ctx, params)
		}
	}
}
