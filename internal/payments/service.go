// Package payments implements the payment workflow: card validation,
// processing into the append-only ledger, and the due-charge and history
// queries.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"energyportal/internal/common/events"
	"energyportal/internal/common/middleware"
	"energyportal/internal/payments/domain"
	"energyportal/internal/payments/store"
)

// EventPaymentCompleted is the subject completed payments are published on.
const EventPaymentCompleted = "payments.completed"

// ChargeSource supplies the full due-charge set.
type ChargeSource interface {
	Fetch(ctx context.Context) ([]domain.DueCharge, error)
}

// Service owns the payment ledger and the processing workflow.
type Service struct {
	charges   ChargeSource
	ledger    *store.Ledger
	publisher events.Publisher
	logger    *slog.Logger

	validator       domain.CardValidator
	now             func() time.Time
	processingDelay time.Duration
	historyDelay    time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock fixes the clock used for timestamps, references and card expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.validator = domain.CardValidator{Now: now}
	}
}

// WithProcessingDelay sets the simulated processor round-trip.
func WithProcessingDelay(d time.Duration) Option {
	return func(s *Service) { s.processingDelay = d }
}

// WithHistoryDelay sets the simulated history read latency.
func WithHistoryDelay(d time.Duration) Option {
	return func(s *Service) { s.historyDelay = d }
}

// NewService creates a payment service. Delays default to zero.
func NewService(charges ChargeSource, ledger *store.Ledger, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		charges:   charges,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
		validator: domain.NewCardValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DueCharges returns the due charges for one account, in source order.
func (s *Service) DueCharges(ctx context.Context, accountID string) ([]domain.DueCharge, error) {
	all, err := s.charges.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching due charges for %s: %w", accountID, err)
	}

	charges := make([]domain.DueCharge, 0)
	for _, charge := range all {
		if charge.AccountID == accountID {
			charges = append(charges, charge)
		}
	}
	return charges, nil
}

// Balance returns the sum of the account's due-charge amounts, 0 when none
// match. A fetch failure propagates; it is never reported as a zero balance.
func (s *Service) Balance(ctx context.Context, accountID string) (float64, error) {
	all, err := s.charges.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("computing balance for %s: %w", accountID, err)
	}

	var balance float64
	for _, charge := range all {
		if charge.AccountID == accountID {
			balance += charge.Amount
		}
	}
	return balance, nil
}

// History returns the account's payments, most recent first. It works on a
// ledger snapshot, so callers cannot mutate the canonical store.
func (s *Service) History(ctx context.Context, accountID string) ([]domain.Payment, error) {
	if err := s.wait(ctx, s.historyDelay); err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0)
	for _, p := range s.ledger.Snapshot() {
		if p.AccountID == accountID {
			payments = append(payments, p)
		}
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].Date.After(payments[j].Date)
	})
	return payments, nil
}

// Process validates and executes a card payment. On success the payment is
// appended to the ledger with status COMPLETED and returned with masked card
// details only. Any validation failure leaves the ledger untouched.
func (s *Service) Process(ctx context.Context, accountID string, amount float64, method domain.Method, card *domain.CreditCardDetails) (*domain.Payment, error) {
	if accountID == "" {
		return nil, domain.ErrAccountIDRequired
	}
	if amount <= 0 {
		return nil, domain.ErrAmountNotPositive
	}
	if method != domain.MethodCard || card == nil {
		return nil, domain.ErrUnsupportedMethod
	}
	if errs := s.validator.Validate(amount, *card); errs != nil {
		return nil, errs
	}

	masked := card.Mask()
	now := s.now()
	payment := domain.Payment{
		ID:          "payment_" + uuid.NewString()[:8],
		AccountID:   accountID,
		Amount:      amount,
		Date:        now.UTC(),
		Method:      domain.MethodCard,
		Status:      domain.StatusCompleted,
		Reference:   fmt.Sprintf("PAY-%d", now.UnixMilli()),
		CardDetails: &masked,
	}

	// Simulated processor round-trip. Nothing is recorded if the caller
	// goes away before it completes.
	if err := s.wait(ctx, s.processingDelay); err != nil {
		return nil, err
	}

	s.ledger.Append(payment)
	s.publish(ctx, payment)

	s.logger.Info("payment completed",
		"payment_id", payment.ID,
		"account_id", payment.AccountID,
		"amount", payment.Amount,
		"reference", payment.Reference,
	)
	return &payment, nil
}

// publish emits the completed-payment event. Publication is best effort and
// never fails the payment.
func (s *Service) publish(ctx context.Context, payment domain.Payment) {
	event, err := events.New(EventPaymentCompleted, "payment", payment.ID, payment)
	if err != nil {
		s.logger.Warn("building payment event", "payment_id", payment.ID, "error", err)
		return
	}
	event.WithCorrelation(middleware.GetCorrelationID(ctx))

	if err := s.publisher.Publish(ctx, EventPaymentCompleted, event); err != nil {
		s.logger.Warn("publishing payment event", "payment_id", payment.ID, "error", err)
	}
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
