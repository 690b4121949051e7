package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/domain"
)

func TestPageDecodesFlatEnvelope(t *testing.T) {
	t.Parallel()

	raw := `{"content":[{"categoryId":1,"categoryName":"Books"}],"pageNumber":2,"pageSize":10,"totalElements":41,"totalPages":5,"lastPage":false}`

	var page domain.Page[domain.Category]
	require.NoError(t, json.Unmarshal([]byte(raw), &page))
	require.Len(t, page.Content, 1)
	require.Equal(t, "Books", page.Content[0].CategoryName)
	require.Equal(t, domain.PageInfo{PageNumber: 2, PageSize: 10, TotalElements: 41, TotalPages: 5}, page.PageInfo)
}

func TestLinesTotal(t *testing.T) {
	t.Parallel()

	lines := []domain.CartLine{
		{ProductID: 1, Price: decimal.RequireFromString("2.50"), Quantity: 3},
		{ProductID: 2, Price: decimal.RequireFromString("10"), Quantity: 1},
	}
	require.True(t, decimal.RequireFromString("17.50").Equal(domain.LinesTotal(lines)))
	require.True(t, domain.LinesTotal(nil).IsZero())
}

func TestSessionValid(t *testing.T) {
	t.Parallel()

	var nilSession *domain.Session
	require.False(t, nilSession.Valid())
	require.False(t, (&domain.Session{Credential: "tok"}).Valid())
	require.True(t, (&domain.Session{Credential: "tok", User: &domain.User{ID: 1}}).Valid())
}

func TestUserIsAdmin(t *testing.T) {
	t.Parallel()

	require.True(t, domain.User{Roles: []string{domain.RoleUser, domain.RoleAdmin}}.IsAdmin())
	require.False(t, domain.User{Roles: []string{domain.RoleUser}}.IsAdmin())
}

func TestPaymentCardValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	card := domain.PaymentCard{
		CardNumber:     "4111 1111 1111 1111",
		CardholderName: "Ada Lovelace",
		ExpiryMonth:    7,
		ExpiryYear:     2026,
		CVV:            "123",
	}
	require.NoError(t, card.Validate(now))
	require.Equal(t, "1111", card.Last4())

	expired := card
	expired.ExpiryMonth = 5
	require.ErrorIs(t, expired.Validate(now), domain.ErrInvalidCard)

	badMonth := card
	badMonth.ExpiryMonth = 13
	require.ErrorIs(t, badMonth.Validate(now), domain.ErrInvalidCard)

	short := card
	short.CardNumber = "4111"
	require.ErrorIs(t, short.Validate(now), domain.ErrInvalidCard)
}

func TestOrderStatusValid(t *testing.T) {
	t.Parallel()

	require.True(t, domain.OrderStatusShipped.Valid())
	require.False(t, domain.OrderStatus("Lost").Valid())
}
