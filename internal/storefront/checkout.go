package storefront

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

// FetchUserAddressList loads the signed-in user's addresses.
func (s *Service) FetchUserAddressList(ctx context.Context) error {
	s.begin(state.ScopeAuth)
	var addresses []domain.Address
	if err := s.api.Send(ctx, http.MethodGet, "/addresses", nil, &addresses); err != nil {
		return s.failQuietly(ctx, state.ScopeAuth, "fetch addresses", apiclient.MessageOr(err, "Failed to fetch user addresses"), err)
	}
	s.store.Dispatch(state.AddressesLoaded{Addresses: addresses})
	s.succeed(state.ScopeAuth)
	return nil
}

// SaveUserAddressData creates the address when it has no id and updates it otherwise, then
// reloads the list. closeModal runs whatever the outcome.
func (s *Service) SaveUserAddressData(ctx context.Context, address domain.Address, closeModal func()) error {
	defer closeModalFunc(closeModal)

	return s.withButton(func() error {
		method, endpoint := http.MethodPost, "/addresses"
		if address.AddressID != 0 {
			method, endpoint = http.MethodPut, fmt.Sprintf("/addresses/%d", address.AddressID)
		}
		if err := s.api.Send(ctx, method, endpoint, address, nil); err != nil {
			return s.failLoudly(ctx, state.ScopeAuth, "save address", apiclient.MessageOr(err, "Internal Server Error"), err)
		}
		s.refreshAddresses(ctx)
		s.notifier.Success("Address saved successfully")
		return nil
	})
}

// RemoveUserAddress deletes the address, reloads the list and drops it from checkout if selected.
func (s *Service) RemoveUserAddress(ctx context.Context, addressID int64, closeModal func()) error {
	defer closeModalFunc(closeModal)

	return s.withButton(func() error {
		if err := s.api.Send(ctx, http.MethodDelete, fmt.Sprintf("/addresses/%d", addressID), nil, nil); err != nil {
			return s.failLoudly(ctx, state.ScopeAuth, "remove address", apiclient.MessageOr(err, "Some Error Occured"), err)
		}
		s.refreshAddresses(ctx)
		if selected := s.State().Auth.CheckoutAddress; selected != nil && selected.AddressID == addressID {
			s.ResetCheckoutAddress()
		}
		s.notifier.Success("Address deleted successfully")
		return nil
	})
}

// SetCheckoutDeliveryAddress records the address chosen for the in-progress order.
func (s *Service) SetCheckoutDeliveryAddress(address domain.Address) {
	s.save(persist.KeyCheckoutAddress, address)
	s.store.Dispatch(state.CheckoutAddressSelected{Address: address})
}

// ResetCheckoutAddress forgets the checkout address.
func (s *Service) ResetCheckoutAddress() {
	s.remove(persist.KeyCheckoutAddress)
	s.store.Dispatch(state.CheckoutAddressReset{})
}

// GetUserPaymentCards loads the saved cards. On failure the list is emptied.
func (s *Service) GetUserPaymentCards(ctx context.Context) error {
	s.begin(state.ScopePayment)
	var cards []domain.PaymentCard
	if err := s.api.Send(ctx, http.MethodGet, "/users/payment-cards", nil, &cards); err != nil {
		s.store.Dispatch(state.PaymentCardsLoaded{Cards: nil})
		return s.failQuietly(ctx, state.ScopePayment, "fetch payment cards", apiclient.MessageOr(err, "Failed to fetch payment cards"), err)
	}
	s.store.Dispatch(state.PaymentCardsLoaded{Cards: cards})
	s.succeed(state.ScopePayment)
	return nil
}

// AddUpdateUserPaymentCard validates card, then creates it when it has no id and updates it
// otherwise, and reloads the cards. closeModal runs once the card passed validation.
func (s *Service) AddUpdateUserPaymentCard(ctx context.Context, card domain.PaymentCard, closeModal func()) error {
	if err := card.Validate(s.clock()); err != nil {
		s.notifier.Error("Failed to save payment card. Please check your details.")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	defer closeModalFunc(closeModal)

	return s.withButton(func() error {
		method, endpoint := http.MethodPost, "/payment-cards"
		if card.CardID != 0 {
			method, endpoint = http.MethodPut, fmt.Sprintf("/payment-cards/%d", card.CardID)
		}
		if err := s.api.Send(ctx, method, endpoint, card, nil); err != nil {
			message := apiclient.MessageOr(err, "Failed to save payment card. Please check your details.")
			if apiclient.IsUnauthorized(err) {
				message = "You are not authorized. Please log in again."
			}
			return s.failLoudly(ctx, state.ScopePayment, "save payment card", message, err)
		}
		s.refreshCards(ctx)
		s.notifier.Success("Payment card saved successfully")
		return nil
	})
}

// DeleteUserPaymentCard deletes the card, reloads the list and clears the selection if it held the card.
func (s *Service) DeleteUserPaymentCard(ctx context.Context, cardID int64, closeModal func()) error {
	defer closeModalFunc(closeModal)

	return s.withButton(func() error {
		if err := s.api.Send(ctx, http.MethodDelete, fmt.Sprintf("/payment-cards/%d", cardID), nil, nil); err != nil {
			return s.failLoudly(ctx, state.ScopePayment, "delete payment card", apiclient.MessageOr(err, "Some Error Occurred"), err)
		}
		s.refreshCards(ctx)
		if selected := s.State().Payment.Selection.SelectedCard; selected != nil && selected.CardID == cardID {
			s.ClearPaymentSelection()
		}
		s.notifier.Success("Payment card deleted successfully")
		return nil
	})
}

// SetDefaultPaymentCard marks the card as default and reloads the list.
func (s *Service) SetDefaultPaymentCard(ctx context.Context, cardID int64) error {
	endpoint := fmt.Sprintf("/payment-cards/%d/set-default", cardID)
	if err := s.api.Send(ctx, http.MethodPut, endpoint, nil, nil); err != nil {
		return s.failLoudly(ctx, state.ScopePayment, "set default card", apiclient.MessageOr(err, "Failed to set default card"), err)
	}
	s.refreshCards(ctx)
	s.notifier.Success("Default card updated")
	return nil
}

// SelectPaymentCard pays the in-progress order with a saved card.
func (s *Service) SelectPaymentCard(card domain.PaymentCard) {
	s.save(persist.KeyCheckoutCard, card)
	s.store.Dispatch(state.PaymentCardSelected{Card: card})
}

// SelectPaymentMethod switches the payment method, dropping the choices that no longer apply.
func (s *Service) SelectPaymentMethod(method domain.PaymentMethod) error {
	if !method.Valid() {
		return s.invalid("Please select a payment method.")
	}
	if method != domain.PaymentMethodSavedCard {
		s.remove(persist.KeyCheckoutCard)
	}
	s.store.Dispatch(state.PaymentMethodSelected{Method: method})
	return nil
}

// SetNewCardDetails records a card typed at checkout. The draft is held in memory only.
func (s *Service) SetNewCardDetails(draft domain.PaymentCard) {
	s.remove(persist.KeyCheckoutCard)
	s.store.Dispatch(state.NewCardDraftSet{Draft: draft})
}

// ClearPaymentSelection forgets the payment choice.
func (s *Service) ClearPaymentSelection() {
	s.remove(persist.KeyCheckoutCard)
	s.store.Dispatch(state.PaymentSelectionCleared{})
}

func (s *Service) refreshAddresses(ctx context.Context) {
	if err := s.FetchUserAddressList(ctx); err != nil {
		s.log(ctx).Warn("address list not refreshed", zap.Error(err))
	}
}

func (s *Service) refreshCards(ctx context.Context) {
	if err := s.GetUserPaymentCards(ctx); err != nil {
		s.log(ctx).Warn("payment cards not refreshed", zap.Error(err))
	}
}

func closeModalFunc(fn func()) {
	if fn != nil {
		fn()
	}
}
