// Package store holds the in-memory payment ledger and the seeded due-charge
// source. The due-charge source stands in for the upstream billing API; the
// ledger is the process-wide append-only record of completed payments.
package store

import (
	"context"
	"sync"
	"time"

	"energyportal/internal/payments/domain"
)

// Charges serves the fixed due-charge dataset with simulated latency.
type Charges struct {
	delay   time.Duration
	charges []domain.DueCharge
}

// NewCharges creates a source over the seed dataset.
func NewCharges(delay time.Duration) *Charges {
	return &Charges{delay: delay, charges: seedCharges()}
}

// Fetch returns a copy of every due charge.
func (c *Charges) Fetch(ctx context.Context) ([]domain.DueCharge, error) {
	if err := wait(ctx, c.delay); err != nil {
		return nil, err
	}
	out := make([]domain.DueCharge, len(c.charges))
	copy(out, c.charges)
	return out, nil
}

// Ledger is the append-only collection of completed payments. A single mutex
// serialises appends and snapshot reads; payments are never mutated or
// removed once stored.
type Ledger struct {
	mu       sync.Mutex
	payments []domain.Payment
}

// NewLedger creates a ledger holding the given seed payments.
func NewLedger(seed ...domain.Payment) *Ledger {
	payments := make([]domain.Payment, len(seed))
	copy(payments, seed)
	return &Ledger{payments: payments}
}

// Append stores a payment. There is no update or delete.
func (l *Ledger) Append(p domain.Payment) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payments = append(l.payments, p)
}

// Snapshot returns a copy of the full ledger so callers can filter and sort
// without touching the canonical store.
func (l *Ledger) Snapshot() []domain.Payment {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Payment, len(l.payments))
	copy(out, l.payments)
	return out
}

// Len returns the number of stored payments.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.payments)
}

func wait(ctx context.Context, d time.Duration) error {
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

func seedCharges() []domain.DueCharge {
	return []domain.DueCharge{
		{ID: "D-0001", AccountID: "A-0001", Amount: 10, Date: "2025-04-01", DueDate: "2025-04-01", Description: "Electricity usage - March 2025", Paid: false},
		{ID: "D-0002", AccountID: "A-0001", Amount: 20, Date: "2025-04-08", DueDate: "2025-04-08", Description: "Service fee - Q2 2025", Paid: false},
		{ID: "D-0003", AccountID: "A-0003", Amount: 15, Date: "2025-03-25", DueDate: "2025-03-25", Description: "Electricity usage - February 2025", Paid: true},
		{ID: "D-0004", AccountID: "A-0003", Amount: 25, Date: "2025-04-05", DueDate: "2025-04-05", Description: "Electricity usage - March 2025", Paid: true},
		{ID: "D-0005", AccountID: "A-0004", Amount: 20, Date: "2025-03-30", DueDate: "2025-03-30", Description: "Electricity usage - March 2025", Paid: false},
		{ID: "D-0006", AccountID: "A-0004", Amount: 15, Date: "2025-04-06", DueDate: "2025-04-06", Description: "Service fee - Q2 2025", Paid: false},
		{ID: "D-0007", AccountID: "A-0004", Amount: 15, Date: "2025-04-13", DueDate: "2025-04-13", Description: "Late payment fee", Paid: false},
		{ID: "D-0008", AccountID: "A-0005", Amount: 10, Date: "2025-04-04", DueDate: "2025-04-04", Description: "Gas usage - March 2025", Paid: false},
		{ID: "D-0009", AccountID: "A-0005", Amount: 15, Date: "2025-04-11", DueDate: "2025-04-11", Description: "Service fee - Q2 2025", Paid: false},
		{ID: "D-0010", AccountID: "A-0006", Amount: 5, Date: "2025-04-01", DueDate: "2025-04-01", Description: "Electricity usage - March 2025", Paid: true},
		{ID: "D-0011", AccountID: "A-0006", Amount: 10, Date: "2025-04-09", DueDate: "2025-04-09", Description: "Service fee - Q2 2025", Paid: true},
		{ID: "D-0012", AccountID: "A-0008", Amount: 40, Date: "2025-03-31", DueDate: "2025-03-31", Description: "Electricity usage - March 2025", Paid: false},
		{ID: "D-0013", AccountID: "A-0008", Amount: 40, Date: "2025-04-07", DueDate: "2025-04-07", Description: "Service fee - Q2 2025", Paid: false},
		{ID: "D-0014", AccountID: "A-0008", Amount: 40, Date: "2025-04-14", DueDate: "2025-04-14", Description: "Late payment fee", Paid: false},
		{ID: "D-0015", AccountID: "A-0009", Amount: 30, Date: "2025-04-02", DueDate: "2025-04-02", Description: "Gas usage - March 2025", Paid: true},
		{ID: "D-0016", AccountID: "A-0009", Amount: 30, Date: "2025-04-12", DueDate: "2025-04-12", Description: "Service fee - Q2 2025", Paid: true},
	}
}

// SeedPayments returns the historical payments the ledger starts with.
func SeedPayments() []domain.Payment {
	return []domain.Payment{
		{
			ID:        "payment_12345678",
			AccountID: "A-0001",
			Amount:    30,
			Date:      time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
			Method:    domain.MethodCard,
			Status:    domain.StatusCompleted,
			Reference: "PAY-1234567890",
			CardDetails: &domain.MaskedCardDetails{
				CardNumber:     "xxxx-xxxx-xxxx-1234",
				CardholderName: "John Smith",
			},
		},
		{
			ID:        "payment_23456789",
			AccountID: "A-0004",
			Amount:    50,
			Date:      time.Date(2025, 4, 28, 14, 15, 0, 0, time.UTC),
			Method:    domain.MethodCard,
			Status:    domain.StatusCompleted,
			Reference: "PAY-2345678901",
			CardDetails: &domain.MaskedCardDetails{
				CardNumber:     "xxxx-xxxx-xxxx-5678",
				CardholderName: "Michael Brown",
			},
		},
		{
			ID:        "payment_34567890",
			AccountID: "A-0008",
			Amount:    120,
			Date:      time.Date(2025, 4, 25, 11, 45, 0, 0, time.UTC),
			Method:    domain.MethodCard,
			Status:    domain.StatusCompleted,
			Reference: "PAY-3456789012",
			CardDetails: &domain.MaskedCardDetails{
				CardNumber:     "xxxx-xxxx-xxxx-9012",
				CardholderName: "Matthew Anderson",
			},
		},
	}
}
