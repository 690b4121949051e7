package storefront

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/routes"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
)

type signinResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	JWTToken string   `json:"jwtToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// LogoutResult reports the outcome of the best-effort cart sync made before logout.
// The logout itself always completes.
type LogoutResult struct {
	CartSynced bool
	SyncErr    error
}

// AuthenticateUserLogin signs in, stores the session, merges any guest cart into the user's
// server cart and goes home.
func (s *Service) AuthenticateUserLogin(ctx context.Context, creds domain.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return s.invalid("Username and password are required")
	}
	guest := s.State().Cart.Lines

	return s.withButton(func() error {
		s.begin(state.ScopeAuth)
		var resp signinResponse
		if err := s.api.Send(ctx, http.MethodPost, "/auth/signin", creds, &resp); err != nil {
			return s.failLoudly(ctx, state.ScopeAuth, "sign in", apiclient.MessageOr(err, "Internal Server Error"), err)
		}
		session := domain.Session{
			Credential: resp.JWTToken,
			User:       &domain.User{ID: resp.ID, Username: resp.Username, Email: resp.Email, Roles: resp.Roles},
		}
		if !session.Valid() {
			err := errors.New("sign-in response carried no credential")
			return s.failLoudly(ctx, state.ScopeAuth, "sign in", "Internal Server Error", err)
		}

		s.store.Dispatch(state.SessionStarted{Session: session})
		s.save(persist.KeyAuth, session)

		if err := s.mergeGuestCart(ctx, guest); err != nil {
			s.log(ctx).Warn("cart not loaded after sign in", zap.Error(err))
		}
		s.succeed(state.ScopeAuth)
		s.notifier.Success("Login Success")
		s.navigator.Navigate(routes.Home)
		return nil
	})
}

// RegisterNewUser creates an account, optionally with a first address and card, then opens login.
func (s *Service) RegisterNewUser(ctx context.Context, reg domain.Registration) error {
	if strings.TrimSpace(reg.Username) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return s.invalid("Username, email and password are required")
	}
	if reg.Card != nil {
		if err := reg.Card.Validate(s.clock()); err != nil {
			s.notifier.Error("Please check your payment card details")
			return errors.Join(ErrValidation, err)
		}
	}

	return s.withButton(func() error {
		s.begin(state.ScopeAuth)
		var resp messageResponse
		if err := s.api.Send(ctx, http.MethodPost, "/auth/signup", reg, &resp); err != nil {
			message := apiclient.FieldOr(err, "Internal Server Error", "message", "password")
			return s.failLoudly(ctx, state.ScopeAuth, "sign up", message, err)
		}
		s.succeed(state.ScopeAuth)
		s.notifier.Success(nonEmpty(resp.Message, "User Registered Successfully"))
		s.navigator.Navigate(routes.Login)
		return nil
	})
}

// PerformUserLogout tries once, within the configured budget, to push a non-empty cart, then
// clears the session, cart and payment selection and purges every persisted key whatever happened.
func (s *Service) PerformUserLogout(ctx context.Context) LogoutResult {
	var result LogoutResult
	if lines := s.State().Cart.Lines; len(lines) > 0 {
		result.SyncErr = s.syncCartBeforeLogout(ctx, lines)
		result.CartSynced = result.SyncErr == nil
		if result.SyncErr != nil {
			s.log(ctx).Warn("cart sync before logout failed", zap.Error(result.SyncErr))
		}
	}

	s.store.Dispatch(state.SessionEnded{})
	s.store.Dispatch(state.CartCleared{})
	s.store.Dispatch(state.PaymentSelectionCleared{})
	s.remove(persist.AllKeys...)
	s.navigator.Navigate(routes.Login)
	return result
}

func (s *Service) syncCartBeforeLogout(ctx context.Context, lines []domain.CartLine) error {
	ctx, cancel := context.WithTimeout(ctx, s.syncBudget)
	defer cancel()
	return s.api.Send(ctx, http.MethodPost, "/cart/create", domain.CartItemRefs(lines), nil)
}

// UpdateUserDisplayName renames the signed-in user once the server confirms.
func (s *Service) UpdateUserDisplayName(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return s.invalid("Username cannot be empty")
	}
	if !s.State().Auth.Authenticated() {
		return s.invalid("Please login to update your username")
	}

	return s.withButton(func() error {
		s.begin(state.ScopeAuth)
		var resp messageResponse
		body := map[string]string{"username": username}
		if err := s.api.Send(ctx, http.MethodPut, "/auth/user/username", body, &resp); err != nil {
			return s.failLoudly(ctx, state.ScopeAuth, "update username", apiclient.MessageOr(err, "Failed to update username"), err)
		}

		s.store.Dispatch(state.UsernameUpdated{Username: username})
		if session := s.State().Auth.Session; session != nil {
			s.save(persist.KeyAuth, session)
		}
		s.notifier.Success(nonEmpty(resp.Message, "Username updated successfully"))
		s.succeed(state.ScopeAuth)
		return nil
	})
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
