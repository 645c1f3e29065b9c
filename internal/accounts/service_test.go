package accounts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyportal/internal/accounts/domain"
	accountstore "energyportal/internal/accounts/store"
	paydomain "energyportal/internal/payments/domain"
	paymentstore "energyportal/internal/payments/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingAccounts struct{}

func (failingAccounts) Fetch(context.Context) ([]domain.Account, error) {
	return nil, errors.New("accounts upstream unavailable")
}

type failingCharges struct{}

func (failingCharges) Fetch(context.Context) ([]paydomain.DueCharge, error) {
	return nil, errors.New("charges upstream unavailable")
}

func newTestService() *Service {
	return NewService(accountstore.New(0), paymentstore.NewCharges(0), testLogger())
}

func TestListWithBalances_ComputesFromDueCharges(t *testing.T) {
	svc := newTestService()

	accts, err := svc.ListWithBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, accts, 9)

	byID := make(map[string]domain.Account, len(accts))
	for _, a := range accts {
		byID[a.ID] = a
	}

	tests := []struct {
		accountID string
		want      float64
	}{
		{accountID: "A-0001", want: 30},  // 10 + 20
		{accountID: "A-0002", want: 0},   // no charges
		{accountID: "A-0003", want: 40},  // 15 + 25
		{accountID: "A-0004", want: 50},  // 20 + 15 + 15
		{accountID: "A-0007", want: 0},   // no charges
		{accountID: "A-0008", want: 120}, // 40 + 40 + 40
		{accountID: "A-0009", want: 60},  // 30 + 30
	}

	for _, tt := range tests {
		t.Run(tt.accountID, func(t *testing.T) {
			account, ok := byID[tt.accountID]
			require.True(t, ok)
			assert.Equal(t, tt.want, account.Balance)
		})
	}
}

func TestListWithBalances_PropagatesAccountFetchFailure(t *testing.T) {
	svc := NewService(failingAccounts{}, paymentstore.NewCharges(0), testLogger())

	_, err := svc.ListWithBalances(context.Background())

	assert.Error(t, err)
}

func TestListWithBalances_PropagatesChargeFetchFailure(t *testing.T) {
	svc := NewService(accountstore.New(0), failingCharges{}, testLogger())

	_, err := svc.ListWithBalances(context.Background())

	assert.Error(t, err)
}

func TestGet_ReturnsAccountAsSourceReportsIt(t *testing.T) {
	svc := newTestService()

	account, err := svc.Get(context.Background(), "A-0001")
	require.NoError(t, err)

	assert.Equal(t, "A-0001", account.ID)
	assert.Equal(t, "ELEC-0001", account.AccountNumber)
	assert.Equal(t, domain.EnergyTypeElectricity, account.Product.EnergyType())
	// Get does not recompute the balance; it reports the source value.
	assert.Equal(t, float64(30), account.Balance)
}

func TestGet_UnknownAccount(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "A-9999")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
