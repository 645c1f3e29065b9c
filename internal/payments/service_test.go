package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyportal/internal/common/events"
	"energyportal/internal/payments/domain"
	"energyportal/internal/payments/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturePublisher records every published event.
type capturePublisher struct {
	events []*events.Event
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event *events.Event) error {
	p.events = append(p.events, event)
	return nil
}

// failingCharges simulates an upstream outage.
type failingCharges struct{}

func (failingCharges) Fetch(context.Context) ([]domain.DueCharge, error) {
	return nil, errors.New("upstream unavailable")
}

func testNow() time.Time {
	return time.Date(2025, 5, 6, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *store.Ledger, *capturePublisher) {
	t.Helper()
	ledger := store.NewLedger(store.SeedPayments()...)
	publisher := &capturePublisher{}
	svc := NewService(store.NewCharges(0), ledger, publisher, testLogger(), WithClock(testNow))
	return svc, ledger, publisher
}

func validCard() *domain.CreditCardDetails {
	return &domain.CreditCardDetails{
		CardNumber:     "4111111111111111",
		CardholderName: "Test User",
		ExpiryDate:     "12/30",
		CVV:            "123",
	}
}

func TestProcess_CompletesCardPayment(t *testing.T) {
	svc, ledger, publisher := newTestService(t)
	before := ledger.Len()

	payment, err := svc.Process(context.Background(), "A-0001", 30, domain.MethodCard, validCard())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(payment.ID, "payment_"))
	assert.Equal(t, "A-0001", payment.AccountID)
	assert.Equal(t, float64(30), payment.Amount)
	assert.Equal(t, domain.StatusCompleted, payment.Status)
	assert.Equal(t, domain.MethodCard, payment.Method)
	assert.True(t, strings.HasPrefix(payment.Reference, "PAY-"))
	require.NotNil(t, payment.CardDetails)
	assert.Equal(t, "xxxx-xxxx-xxxx-1111", payment.CardDetails.CardNumber)
	assert.Equal(t, "Test User", payment.CardDetails.CardholderName)

	assert.Equal(t, before+1, ledger.Len())

	// The new payment is the most recent entry in the account's history.
	history, err := svc.History(context.Background(), "A-0001")
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, payment.ID, history[0].ID)

	// A completed-payment event went out.
	require.Len(t, publisher.events, 1)
	assert.Equal(t, EventPaymentCompleted, publisher.events[0].Type)
	assert.Equal(t, payment.ID, publisher.events[0].AggregateID)
}

func TestProcess_RejectsNonCardMethods(t *testing.T) {
	svc, ledger, publisher := newTestService(t)
	before := ledger.Len()

	for _, method := range []domain.Method{domain.MethodBankTransfer, domain.MethodDirectDebit} {
		_, err := svc.Process(context.Background(), "A-0001", 30, method, validCard())
		assert.EqualError(t, err, "Only card payments are supported")
	}

	assert.Equal(t, before, ledger.Len())
	assert.Empty(t, publisher.events)
}

func TestProcess_RejectsMissingCardDetails(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	before := ledger.Len()

	_, err := svc.Process(context.Background(), "A-0001", 30, domain.MethodCard, nil)

	assert.EqualError(t, err, "Only card payments are supported")
	assert.Equal(t, before, ledger.Len())
}

func TestProcess_Preconditions(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	before := ledger.Len()

	tests := []struct {
		name      string
		accountID string
		amount    float64
		wantErr   string
	}{
		{name: "missing account", accountID: "", amount: 30, wantErr: "Account ID is required"},
		{name: "zero amount", accountID: "A-0001", amount: 0, wantErr: "Payment amount must be greater than zero"},
		{name: "negative amount", accountID: "A-0001", amount: -10, wantErr: "Payment amount must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Process(context.Background(), tt.accountID, tt.amount, domain.MethodCard, validCard())
			assert.EqualError(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, before, ledger.Len())
}

func TestProcess_RejectsInvalidCard(t *testing.T) {
	svc, ledger, _ := newTestService(t)
	before := ledger.Len()

	card := validCard()
	card.ExpiryDate = "01/25"

	_, err := svc.Process(context.Background(), "A-0001", 30, domain.MethodCard, card)

	var fieldErrs domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Card has expired", fieldErrs["expiryDate"])
	assert.Equal(t, before, ledger.Len())
}

func TestHistory_FiltersAndSortsDescending(t *testing.T) {
	ledger := store.NewLedger(
		domain.Payment{ID: "p-old", AccountID: "A-0001", Amount: 10, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Status: domain.StatusCompleted},
		domain.Payment{ID: "p-other", AccountID: "A-0002", Amount: 99, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Status: domain.StatusCompleted},
		domain.Payment{ID: "p-new", AccountID: "A-0001", Amount: 20, Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Status: domain.StatusCompleted},
		domain.Payment{ID: "p-mid", AccountID: "A-0001", Amount: 15, Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Status: domain.StatusCompleted},
	)
	svc := NewService(store.NewCharges(0), ledger, events.NopPublisher{}, testLogger())

	history, err := svc.History(context.Background(), "A-0001")
	require.NoError(t, err)

	require.Len(t, history, 3)
	for _, p := range history {
		assert.Equal(t, "A-0001", p.AccountID)
	}
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Date.After(history[i-1].Date),
			"history must be non-increasing by date")
	}
}

func TestHistory_UnknownAccountIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	history, err := svc.History(context.Background(), "A-0002")

	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDueCharges_FiltersByAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	charges, err := svc.DueCharges(context.Background(), "A-0001")
	require.NoError(t, err)
	require.Len(t, charges, 2)
	for _, charge := range charges {
		assert.Equal(t, "A-0001", charge.AccountID)
	}

	// An account with no charges gets an empty list, not an error.
	none, err := svc.DueCharges(context.Background(), "A-0002")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBalance_SumsChargeAmounts(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		accountID string
		want      float64
	}{
		{accountID: "A-0001", want: 30},
		{accountID: "A-0002", want: 0},
		{accountID: "A-0004", want: 50},
		{accountID: "A-0008", want: 120},
	}

	for _, tt := range tests {
		t.Run(tt.accountID, func(t *testing.T) {
			balance, err := svc.Balance(context.Background(), tt.accountID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, balance)
		})
	}
}

func TestBalance_PropagatesFetchFailure(t *testing.T) {
	svc := NewService(failingCharges{}, store.NewLedger(), events.NopPublisher{}, testLogger())

	_, err := svc.Balance(context.Background(), "A-0001")

	assert.Error(t, err)
}

func TestProcess_CancelledContextLeavesLedgerUntouched(t *testing.T) {
	ledger := store.NewLedger()
	svc := NewService(store.NewCharges(0), ledger, events.NopPublisher{}, testLogger(),
		WithClock(testNow),
		WithProcessingDelay(time.Minute),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Process(ctx, "A-0001", 30, domain.MethodCard, validCard())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ledger.Len())
}
