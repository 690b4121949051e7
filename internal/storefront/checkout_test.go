package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/testutil"
)

func TestFetchUserAddressList(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper), testutil.WithAddresses(home())))

	require.NoError(t, h.svc.FetchUserAddressList(context.Background()))
	require.Equal(t, []domain.Address{home()}, h.svc.State().Auth.Addresses)
}

func TestSaveUserAddressDataCreatesAndUpdates(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))
	closed := 0
	closeModal := func() { closed++ }

	address := home()
	address.AddressID = 0
	require.NoError(t, h.svc.SaveUserAddressData(context.Background(), address, closeModal))
	require.Equal(t, 1, h.backend.CallCount(http.MethodPost, "/addresses"))

	saved := h.svc.State().Auth.Addresses
	require.Len(t, saved, 1)
	require.NotZero(t, saved[0].AddressID)

	update := saved[0]
	update.City = "Ottawa"
	require.NoError(t, h.svc.SaveUserAddressData(context.Background(), update, closeModal))
	require.Equal(t, 1, h.backend.CallCount(http.MethodPut, "/addresses/{addressID}"))
	require.Equal(t, "Ottawa", h.svc.State().Auth.Addresses[0].City)

	require.Equal(t, 2, closed)
	require.Equal(t, []string{"Address saved successfully", "Address saved successfully"}, h.toasts.successes)
}

func TestSaveUserAddressDataClosesModalOnFailure(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))
	closed := false

	address := home()
	address.AddressID = 0
	address.Street = ""
	err := h.svc.SaveUserAddressData(context.Background(), address, func() { closed = true })
	require.Error(t, err)
	require.True(t, closed)
	require.Equal(t, []string{"Street name must not be blank"}, h.toasts.errors)
	require.False(t, h.svc.State().Status.ButtonLoading)
}

func TestRemoveUserAddressResetsMatchingCheckoutAddress(t *testing.T) {
	other := home()
	other.AddressID = 22
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper), testutil.WithAddresses(home(), other)))

	h.svc.SetCheckoutDeliveryAddress(home())
	require.True(t, h.persisted.Has(persist.KeyCheckoutAddress))

	require.NoError(t, h.svc.RemoveUserAddress(context.Background(), other.AddressID, nil))
	require.NotNil(t, h.svc.State().Auth.CheckoutAddress)

	require.NoError(t, h.svc.RemoveUserAddress(context.Background(), home().AddressID, nil))
	require.Nil(t, h.svc.State().Auth.CheckoutAddress)
	require.False(t, h.persisted.Has(persist.KeyCheckoutAddress))
	require.Empty(t, h.svc.State().Auth.Addresses)
}

func TestGetUserPaymentCardsEmptiesListOnFailure(t *testing.T) {
	st := signedIn(shopper)
	st.Payment.Cards = []domain.PaymentCard{visa()}
	h := newHarness(t, withInitialState(st), withBackend(testutil.WithAccount(shopper)))
	h.backend.Fail(http.MethodGet, "/users/payment-cards", testutil.Failure{Status: http.StatusInternalServerError})

	require.Error(t, h.svc.GetUserPaymentCards(context.Background()))

	payment := h.svc.State().Payment
	require.Empty(t, payment.Cards)
	require.Equal(t, "Failed to fetch payment cards", payment.ErrorMessage)
}

func TestAddUpdateUserPaymentCardValidatesBeforeSending(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))
	closed := false
	card := visa()
	card.CardNumber = "4111"

	err := h.svc.AddUpdateUserPaymentCard(context.Background(), card, func() { closed = true })
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, domain.ErrInvalidCard)
	require.False(t, closed)
	require.Empty(t, h.backend.Calls())
	require.Equal(t, []string{"Failed to save payment card. Please check your details."}, h.toasts.errors)
}

func TestAddUpdateUserPaymentCardSavesAndRefreshes(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper)))
	closed := false
	card := visa()
	card.CardID = 0

	require.NoError(t, h.svc.AddUpdateUserPaymentCard(context.Background(), card, func() { closed = true }))
	require.True(t, closed)

	cards := h.svc.State().Payment.Cards
	require.Len(t, cards, 1)
	require.True(t, cards[0].IsDefault)
	require.Equal(t, []string{"Payment card saved successfully"}, h.toasts.successes)
}

func TestAddUpdateUserPaymentCardReportsExpiredSession(t *testing.T) {
	st := signedIn(shopper)
	st.Auth.Session.Credential = "stale"
	h := newHarness(t, withInitialState(st), withBackend(testutil.WithAccount(shopper)))

	err := h.svc.AddUpdateUserPaymentCard(context.Background(), visa(), nil)
	require.Error(t, err)
	require.Equal(t, []string{"You are not authorized. Please log in again."}, h.toasts.errors)
}

func TestDeleteUserPaymentCardClearsMatchingSelection(t *testing.T) {
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper), testutil.WithCards(visa())))

	h.svc.SelectPaymentCard(visa())
	require.True(t, h.persisted.Has(persist.KeyCheckoutCard))

	closed := false
	require.NoError(t, h.svc.DeleteUserPaymentCard(context.Background(), visa().CardID, func() { closed = true }))
	require.True(t, closed)

	payment := h.svc.State().Payment
	require.Empty(t, payment.Cards)
	require.Equal(t, domain.PaymentSelection{}, payment.Selection)
	require.False(t, h.persisted.Has(persist.KeyCheckoutCard))
}

func TestSetDefaultPaymentCard(t *testing.T) {
	second := visa()
	second.CardID = 32
	h := newHarness(t, withInitialState(signedIn(shopper)), withBackend(testutil.WithAccount(shopper), testutil.WithCards(visa(), second)))

	require.NoError(t, h.svc.SetDefaultPaymentCard(context.Background(), second.CardID))

	cards := h.svc.State().Payment.Cards
	require.Len(t, cards, 2)
	require.False(t, cards[0].IsDefault)
	require.True(t, cards[1].IsDefault)

	require.Error(t, h.svc.SetDefaultPaymentCard(context.Background(), 999))
	require.Equal(t, []string{"Payment card not found"}, h.toasts.errors)
}

func TestPaymentSelectionWritesThrough(t *testing.T) {
	h := newHarness(t)

	h.svc.SelectPaymentCard(visa())
	sel := h.svc.State().Payment.Selection
	require.Equal(t, domain.PaymentMethodSavedCard, sel.Method)
	require.NotNil(t, sel.SelectedCard)
	require.True(t, h.persisted.Has(persist.KeyCheckoutCard))

	require.NoError(t, h.svc.SelectPaymentMethod(domain.PaymentMethodCOD))
	sel = h.svc.State().Payment.Selection
	require.Equal(t, domain.PaymentMethodCOD, sel.Method)
	require.Nil(t, sel.SelectedCard)
	require.False(t, h.persisted.Has(persist.KeyCheckoutCard))

	draft := visa()
	draft.CardID = 0
	h.svc.SetNewCardDetails(draft)
	sel = h.svc.State().Payment.Selection
	require.Equal(t, domain.PaymentMethodNewCard, sel.Method)
	require.NotNil(t, sel.NewCardDraft)
	require.False(t, h.persisted.Has(persist.KeyCheckoutCard), "drafts are never persisted")

	require.ErrorIs(t, h.svc.SelectPaymentMethod("BITCOIN"), ErrValidation)
	require.Equal(t, domain.PaymentMethodNewCard, h.svc.State().Payment.Selection.Method)

	h.svc.ClearPaymentSelection()
	require.Equal(t, domain.PaymentSelection{}, h.svc.State().Payment.Selection)
}
