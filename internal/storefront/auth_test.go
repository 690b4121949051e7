package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/routes"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/testutil"
)

func TestAuthenticateUserLoginStoresSessionAndAdoptsCart(t *testing.T) {
	h := newHarness(t, withBackend(
		testutil.WithAccount(shopper),
		testutil.WithServerCart(5, mug().AsCartLine(1)),
	))

	err := h.svc.AuthenticateUserLogin(context.Background(), domain.Credentials{Username: "ada", Password: "secret-pass"})
	require.NoError(t, err)

	st := h.svc.State()
	require.True(t, st.Auth.Authenticated())
	require.Equal(t, shopper.Token(), st.Auth.Session.Credential)
	require.Equal(t, "ada", st.Auth.Session.User.Username)
	require.Len(t, st.Cart.Lines, 1)
	require.False(t, st.Status.ButtonLoading)

	var persisted domain.Session
	require.NoError(t, h.persisted.Load(persist.KeyAuth, &persisted))
	require.True(t, persisted.Valid())

	call, ok := h.backend.LastCall(http.MethodGet, "/carts/users/cart")
	require.True(t, ok)
	require.Equal(t, "Bearer "+shopper.Token(), call.Authorization)
	require.Equal(t, []string{"Login Success"}, h.toasts.successes)
	require.Equal(t, routes.Home, h.nav.last())
}

func TestAuthenticateUserLoginMergesGuestCart(t *testing.T) {
	var guest state.State
	guest.Cart.Lines = []domain.CartLine{mug().AsCartLine(3)}
	h := newHarness(t, withInitialState(guest), withBackend(
		testutil.WithAccount(shopper),
		testutil.WithProducts(mug(), lamp()),
		testutil.WithServerCart(5, mug().AsCartLine(1), lamp().AsCartLine(1)),
	))

	err := h.svc.AuthenticateUserLogin(context.Background(), domain.Credentials{Username: "ada", Password: "secret-pass"})
	require.NoError(t, err)

	server := h.backend.ServerCart()
	require.Len(t, server, 2)
	quantities := map[int64]int{}
	for _, line := range server {
		quantities[line.ProductID] = line.Quantity
	}
	require.Equal(t, map[int64]int{mug().ProductID: 3, lamp().ProductID: 1}, quantities)

	cart := h.svc.State().Cart
	require.Len(t, cart.Lines, 2)
	require.NotNil(t, cart.BasketID)
	require.Equal(t, int64(5), *cart.BasketID)
	require.Equal(t, 1, h.backend.CallCount(http.MethodPost, "/cart/create"))
}

func TestAuthenticateUserLoginPushesGuestCartWithoutServerCart(t *testing.T) {
	var guest state.State
	guest.Cart.Lines = []domain.CartLine{lamp().AsCartLine(2)}
	h := newHarness(t, withInitialState(guest), withBackend(
		testutil.WithAccount(shopper),
		testutil.WithProducts(mug(), lamp()),
	))

	require.NoError(t, h.svc.AuthenticateUserLogin(context.Background(), domain.Credentials{Username: "ada", Password: "secret-pass"}))

	server := h.backend.ServerCart()
	require.Len(t, server, 1)
	require.Equal(t, 2, server[0].Quantity)
	require.Len(t, h.svc.State().Cart.Lines, 1)
}

func TestAuthenticateUserLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t, withBackend(testutil.WithAccount(shopper)))

	err := h.svc.AuthenticateUserLogin(context.Background(), domain.Credentials{Username: "ada", Password: "wrong"})
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)

	st := h.svc.State()
	require.False(t, st.Auth.Authenticated())
	require.Equal(t, "Bad credentials", st.Auth.ErrorMessage)
	require.False(t, h.persisted.Has(persist.KeyAuth))
	require.Equal(t, []string{"Bad credentials"}, h.toasts.errors)
	require.Empty(t, h.nav.routes)
}

func TestAuthenticateUserLoginValidatesInput(t *testing.T) {
	h := newHarness(t)

	require.ErrorIs(t, h.svc.AuthenticateUserLogin(context.Background(), domain.Credentials{Username: " "}), ErrValidation)
	require.Empty(t, h.backend.Calls())
}

func TestRegisterNewUserNavigatesToLogin(t *testing.T) {
	h := newHarness(t)

	err := h.svc.RegisterNewUser(context.Background(), domain.Registration{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "hopper-pass",
	})
	require.NoError(t, err)
	require.Equal(t, routes.Login, h.nav.last())
	require.Equal(t, []string{"User registered successfully!"}, h.toasts.successes)
}

func TestRegisterNewUserSurfacesFieldError(t *testing.T) {
	h := newHarness(t)

	err := h.svc.RegisterNewUser(context.Background(), domain.Registration{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "abc",
	})
	require.Error(t, err)
	require.Equal(t, []string{"size must be between 6 and 40"}, h.toasts.errors)
	require.Empty(t, h.nav.routes)
}

func TestRegisterNewUserValidatesCardBeforeSending(t *testing.T) {
	h := newHarness(t)
	card := visa()
	card.ExpiryYear = 2020

	err := h.svc.RegisterNewUser(context.Background(), domain.Registration{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "hopper-pass",
		Card:     &card,
	})
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, domain.ErrInvalidCard)
	require.Empty(t, h.backend.Calls())
}

func TestPerformUserLogoutSyncsCartThenClearsEverything(t *testing.T) {
	h := newHarness(t,
		withInitialState(signedIn(shopper)),
		withBackend(testutil.WithAccount(shopper), testutil.WithProducts(mug())),
	)
	require.NoError(t, h.svc.AddItemToCart(mug().AsCartLine(1), 2))
	h.svc.SetCheckoutDeliveryAddress(home())
	h.svc.SelectPaymentCard(visa())
	require.NoError(t, h.persisted.Save(persist.KeyAuth, sessionFor(shopper)))

	result := h.svc.PerformUserLogout(context.Background())
	require.True(t, result.CartSynced)
	require.NoError(t, result.SyncErr)

	call, ok := h.backend.LastCall(http.MethodPost, "/cart/create")
	require.True(t, ok)
	var refs []domain.CartItemRef
	require.NoError(t, json.Unmarshal(call.Body, &refs))
	require.Equal(t, []domain.CartItemRef{{ProductID: mug().ProductID, Quantity: 2}}, refs)

	assertLoggedOut(t, h)
}

func TestPerformUserLogoutCompletesWhenSyncFails(t *testing.T) {
	h := newHarness(t,
		withInitialState(signedIn(shopper)),
		withBackend(testutil.WithAccount(shopper)),
	)
	h.backend.Fail(http.MethodPost, "/cart/create", testutil.Failure{Status: http.StatusBadGateway})
	require.NoError(t, h.svc.AddItemToCart(mug().AsCartLine(1), 1))
	h.svc.SetCheckoutDeliveryAddress(home())

	result := h.svc.PerformUserLogout(context.Background())
	require.False(t, result.CartSynced)
	require.Error(t, result.SyncErr)

	assertLoggedOut(t, h)
}

func TestPerformUserLogoutBoundsTheSync(t *testing.T) {
	h := newHarness(t,
		withInitialState(signedIn(shopper)),
		withSyncBudget(50*time.Millisecond),
		withBackend(testutil.WithAccount(shopper)),
	)
	h.backend.Fail(http.MethodPost, "/cart/create", testutil.Failure{Status: http.StatusOK, Delay: 5 * time.Second})
	require.NoError(t, h.svc.AddItemToCart(mug().AsCartLine(1), 1))

	started := time.Now()
	result := h.svc.PerformUserLogout(context.Background())
	require.Less(t, time.Since(started), 2*time.Second)
	require.ErrorIs(t, result.SyncErr, apiclient.ErrUnreachable)

	assertLoggedOut(t, h)
}

func TestPerformUserLogoutSkipsSyncForEmptyCart(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))

	result := h.svc.PerformUserLogout(context.Background())
	require.False(t, result.CartSynced)
	require.NoError(t, result.SyncErr)
	require.Empty(t, h.backend.Calls())

	assertLoggedOut(t, h)
}

func assertLoggedOut(t *testing.T, h *harness) {
	t.Helper()

	st := h.svc.State()
	require.False(t, st.Auth.Authenticated())
	require.Nil(t, st.Auth.CheckoutAddress)
	require.Empty(t, st.Cart.Lines)
	require.Equal(t, domain.PaymentSelection{}, st.Payment.Selection)
	for _, key := range persist.AllKeys {
		require.False(t, h.persisted.Has(key), "key %s should be purged", key)
	}
	require.Equal(t, routes.Login, h.nav.last())
}

func TestUpdateUserDisplayNameRenamesOnSuccess(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))

	require.NoError(t, h.svc.UpdateUserDisplayName(context.Background(), "  ada.l "))

	st := h.svc.State()
	require.Equal(t, "ada.l", st.Auth.Session.User.Username)
	require.Equal(t, shopper.Token(), st.Auth.Session.Credential)

	var persisted domain.Session
	require.NoError(t, h.persisted.Load(persist.KeyAuth, &persisted))
	require.Equal(t, "ada.l", persisted.User.Username)
	require.Equal(t, []string{"Username updated successfully"}, h.toasts.successes)
}

func TestUpdateUserDisplayNameKeepsNameOnFailure(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))
	h.backend.Fail(http.MethodPut, "/auth/user/username", testutil.Failure{Status: http.StatusConflict, Body: map[string]string{"message": "Username is already taken"}})

	require.Error(t, h.svc.UpdateUserDisplayName(context.Background(), "grace"))
	require.Equal(t, "ada", h.svc.State().Auth.Session.User.Username)
	require.Equal(t, []string{"Username is already taken"}, h.toasts.errors)
}

func TestUpdateUserDisplayNameRequiresSession(t *testing.T) {
	h := newHarness(t)

	require.ErrorIs(t, h.svc.UpdateUserDisplayName(context.Background(), "grace"), ErrValidation)
	require.Empty(t, h.backend.Calls())
}
