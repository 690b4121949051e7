package storefront

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/testutil"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type toasts struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *toasts) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *toasts) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

type navigation struct {
	mu     sync.Mutex
	routes []string
}

func (n *navigation) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *navigation) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

type harness struct {
	svc       *Service
	store     *state.Store
	persisted *persist.MemoryStore
	backend   *testutil.Backend
	toasts    *toasts
	nav       *navigation
}

type harnessConfig struct {
	initial state.State
	budget  time.Duration
	backend []testutil.BackendOption
}

type harnessOption func(*harnessConfig)

func withInitialState(st state.State) harnessOption {
	return func(c *harnessConfig) { c.initial = st }
}

func withSyncBudget(d time.Duration) harnessOption {
	return func(c *harnessConfig) { c.budget = d }
}

func withBackend(opts ...testutil.BackendOption) harnessOption {
	return func(c *harnessConfig) { c.backend = append(c.backend, opts...) }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	cfg := harnessConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	backend := testutil.NewBackend(t, cfg.backend...)
	store := state.NewStore(cfg.initial)
	client, err := apiclient.New(backend.BaseURL(), apiclient.WithCredentials(apiclient.CredentialFunc(func() string {
		if session := store.GetState().Auth.Session; session.Valid() {
			return session.Credential
		}
		return ""
	})))
	require.NoError(t, err)

	h := &harness{
		store:     store,
		persisted: persist.NewMemoryStore(),
		backend:   backend,
		toasts:    &toasts{},
		nav:       &navigation{},
	}
	h.svc, err = New(Deps{
		Store:            store,
		API:              client,
		Persist:          h.persisted,
		Notifier:         h.toasts,
		Navigator:        h.nav,
		Clock:            func() time.Time { return fixedNow },
		LogoutSyncBudget: cfg.budget,
		PaymentIDs:       func() string { return "PG-TEST" },
	})
	require.NoError(t, err)
	return h
}

var shopper = testutil.Account{
	User:     domain.User{ID: 7, Username: "ada", Email: "ada@example.com", Roles: []string{domain.RoleUser}},
	Password: "secret-pass",
}

var admin = testutil.Account{
	User:     domain.User{ID: 1, Username: "root", Email: "root@example.com", Roles: []string{domain.RoleUser, domain.RoleAdmin}},
	Password: "admin-pass",
}

func sessionFor(account testutil.Account) *domain.Session {
	user := account.User
	return &domain.Session{Credential: account.Token(), User: &user}
}

func signedIn(account testutil.Account) state.State {
	var st state.State
	st.Auth.Session = sessionFor(account)
	return st
}

func mug() domain.CatalogItem {
	return domain.CatalogItem{
		ProductID:   11,
		ProductName: "Mug",
		Price:       decimal.RequireFromString("9.50"),
		Quantity:    5,
		CategoryID:  3,
	}
}

func lamp() domain.CatalogItem {
	return domain.CatalogItem{
		ProductID:   12,
		ProductName: "Lamp",
		Price:       decimal.RequireFromString("30.00"),
		Quantity:    2,
		CategoryID:  3,
	}
}

func home() domain.Address {
	return domain.Address{
		AddressID:    21,
		BuildingName: "Flat 4",
		Street:       "King Street",
		City:         "Toronto",
		State:        "ON",
		Country:      "Canada",
		Pincode:      "M5V1A1",
	}
}

func visa() domain.PaymentCard {
	return domain.PaymentCard{
		CardID:         31,
		CardNumber:     "4111111111111111",
		CardholderName: "Ada Lovelace",
		ExpiryMonth:    12,
		ExpiryYear:     2030,
		CVV:            "123",
	}
}
