// Package storefront holds the action creators: each one orchestrates backend calls,
// dispatches the resulting state changes, and writes through to the persisted store.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/platform/observability"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

const (
	defaultLogoutSyncBudget = 3 * time.Second
	defaultOrdersPageSize   = 10
)

// ErrValidation wraps failures detected before any request is issued.
var ErrValidation = errors.New("storefront: validation failed")

// API is the backend gateway. *apiclient.Client satisfies it.
type API interface {
	Send(ctx context.Context, method, endpoint string, body, out any) error
	SendMultipart(ctx context.Context, method, endpoint, field, filename string, content io.Reader, out any) error
}

// Notifier shows transient success and error toasts.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(route string) { f(route) }

// Deps wires the collaborators of Service.
type Deps struct {
	Store     *state.Store
	API       API
	Persist   persist.Store
	Notifier  Notifier
	Navigator Navigator
	Logger    *zap.Logger
	Clock     func() time.Time
	// LogoutSyncBudget bounds the cart sync attempted before logout.
	LogoutSyncBudget time.Duration
	// PaymentIDs synthesises gateway transaction ids for card orders.
	PaymentIDs     func() string
	OrdersPageSize int
}

// Service exposes every action creator.
type Service struct {
	store      *state.Store
	api        API
	persist    persist.Store
	notifier   Notifier
	navigator  Navigator
	logger     *zap.Logger
	clock      func() time.Time
	syncBudget time.Duration
	paymentIDs func() string
	ordersSize int
}

// New validates deps and constructs a Service.
func New(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("storefront: state store is required")
	}
	if deps.API == nil {
		return nil, errors.New("storefront: api client is required")
	}
	if deps.Persist == nil {
		return nil, errors.New("storefront: persisted store is required")
	}

	svc := &Service{
		store:      deps.Store,
		api:        deps.API,
		persist:    deps.Persist,
		notifier:   deps.Notifier,
		navigator:  deps.Navigator,
		logger:     deps.Logger,
		clock:      deps.Clock,
		syncBudget: deps.LogoutSyncBudget,
		paymentIDs: deps.PaymentIDs,
		ordersSize: deps.OrdersPageSize,
	}
	if svc.notifier == nil {
		svc.notifier = silentNotifier{}
	}
	if svc.navigator == nil {
		svc.navigator = NavigatorFunc(func(string) {})
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.syncBudget <= 0 {
		svc.syncBudget = defaultLogoutSyncBudget
	}
	if svc.ordersSize <= 0 {
		svc.ordersSize = defaultOrdersPageSize
	}
	if svc.paymentIDs == nil {
		svc.paymentIDs = func() string {
			return "PG-" + ulid.Make().String()
		}
	}
	return svc, nil
}

// State returns the current tree.
func (s *Service) State() state.State { return s.store.GetState() }

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Error(string)   {}

func (s *Service) begin(scope state.Scope) {
	s.store.Dispatch(state.RequestStarted{Scope: scope})
}

func (s *Service) succeed(scope state.Scope) {
	s.store.Dispatch(state.RequestSucceeded{Scope: scope})
}

// log returns the logger carried by ctx, falling back to the service logger.
func (s *Service) log(ctx context.Context) *zap.Logger {
	return observability.FromContextOr(ctx, s.logger)
}

// failQuietly records a failed load on scope without a toast.
func (s *Service) failQuietly(ctx context.Context, scope state.Scope, op string, message string, err error) error {
	s.store.Dispatch(state.RequestFailed{Scope: scope, Message: message})
	s.log(ctx).Warn("request failed", zap.String("op", op), zap.String("scope", string(scope)), zap.Error(err))
	return fmt.Errorf("storefront: %s: %w", op, err)
}

// failLoudly records the failure on scope and shows message as an error toast.
func (s *Service) failLoudly(ctx context.Context, scope state.Scope, op string, message string, err error) error {
	s.notifier.Error(message)
	return s.failQuietly(ctx, scope, op, message, err)
}

func (s *Service) invalid(message string) error {
	s.notifier.Error(message)
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

func (s *Service) withButton(fn func() error) error {
	s.store.Dispatch(state.ButtonLoadingSet{Loading: true})
	defer s.store.Dispatch(state.ButtonLoadingSet{Loading: false})
	return fn()
}

func (s *Service) save(key string, value any) {
	if err := s.persist.Save(key, value); err != nil {
		s.logger.Error("persist value", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) remove(keys ...string) {
	if err := s.persist.Remove(keys...); err != nil {
		s.logger.Error("remove persisted values", zap.Strings("keys", keys), zap.Error(err))
	}
}

func withQuery(endpoint, query string) string {
	if query == "" {
		return endpoint
	}
	return endpoint + "?" + query
}
