// Package accounts provides account queries with computed balances.
package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"energyportal/internal/accounts/domain"
	paydomain "energyportal/internal/payments/domain"
)

// Source supplies the raw account set.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Account, error)
}

// ChargeSource supplies the full due-charge set.
type ChargeSource interface {
	Fetch(ctx context.Context) ([]paydomain.DueCharge, error)
}

// Service answers account queries.
type Service struct {
	accounts Source
	charges  ChargeSource
	logger   *slog.Logger
}

// NewService creates an account service.
func NewService(accounts Source, charges ChargeSource, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, charges: charges, logger: logger}
}

// ListWithBalances fetches accounts and due charges concurrently and
// annotates each account with the sum of its charges. An account with no
// charges gets balance 0. Either fetch failing fails the whole call.
func (s *Service) ListWithBalances(ctx context.Context) ([]domain.Account, error) {
	var (
		accounts []domain.Account
		charges  []paydomain.DueCharge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.Fetch(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		charges, err = s.charges.Fetch(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching accounts with balances: %w", err)
	}

	totals := make(map[string]float64, len(accounts))
	for _, charge := range charges {
		totals[charge.AccountID] += charge.Amount
	}

	for i := range accounts {
		accounts[i].Balance = totals[accounts[i].ID]
	}
	return accounts, nil
}

// Get returns the account with the given ID as the source reports it, or
// domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Account, error) {
	accounts, err := s.accounts.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching account %s: %w", id, err)
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
