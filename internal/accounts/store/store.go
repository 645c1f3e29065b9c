// Package store provides the in-memory energy account source. It stands in
// for the upstream accounts API: a fixed dataset served with simulated
// latency.
package store

import (
	"context"
	"time"

	"energyportal/internal/accounts/domain"
)

// Source serves the seeded account set.
type Source struct {
	delay    time.Duration
	accounts []domain.Account
}

// New creates a source over the seed dataset. A zero delay answers
// immediately, which tests rely on.
func New(delay time.Duration) *Source {
	return &Source{delay: delay, accounts: seedAccounts()}
}

// Fetch returns a copy of every account. The copy keeps callers from
// mutating the seed set.
func (s *Source) Fetch(ctx context.Context) ([]domain.Account, error) {
	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}
	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
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

func seedAccounts() []domain.Account {
	return []domain.Account{
		{
			ID:            "A-0001",
			AccountNumber: "ELEC-0001",
			Product:       domain.Electricity{},
			Address:       "1 Greville Ct, Thomastown, 3076, Victoria",
			Balance:       30,
			FirstName:     "John",
			LastName:      "Smith",
			Email:         "john.smith@email.com",
			PhoneNumber:   "0412345678",
		},
		{
			ID:            "A-0002",
			AccountNumber: "GAS-0002",
			Product:       domain.Gas{},
			Address:       "74 Taltarni Rd, Yawong Hills, 3478, Victoria",
			Balance:       0,
			FirstName:     "Jane",
			LastName:      "Doe",
			Email:         "jane.doe@email.com",
			PhoneNumber:   "0423456789",
		},
		{
			ID:            "A-0003",
			AccountNumber: "ELEC-0003",
			Product:       domain.Electricity{},
			Address:       "44 William Road, Cresswell Downs, 0862, Northern Territory",
			Balance:       -40,
			FirstName:     "Emily",
			LastName:      "Johnson",
			Email:         "emily.johnson@email.com",
			PhoneNumber:   "0434567890",
		},
		{
			ID:            "A-0004",
			AccountNumber: "ELEC-0004",
			Product:       domain.Electricity{},
			Address:       "87 Carolina Park Road, Forresters Beach, 2260, New South Wales",
			Balance:       50,
			FirstName:     "Michael",
			LastName:      "Brown",
			Email:         "michael.brown@email.com",
			PhoneNumber:   "0445678901",
		},
		{
			ID:            "A-0005",
			AccountNumber: "GAS-0005",
			Product:       domain.Gas{},
			Address:       "12 Sunset Blvd, Redcliffe, 4020, Queensland",
			Balance:       25,
			FirstName:     "Sarah",
			LastName:      "Wilson",
			Email:         "sarah.wilson@email.com",
			PhoneNumber:   "0456789012",
		},
		{
			ID:            "A-0006",
			AccountNumber: "ELEC-0006",
			Product:       domain.Electricity{},
			Address:       "3 Ocean View Dr, Torquay, 3228, Victoria",
			Balance:       -15,
			FirstName:     "David",
			LastName:      "Lee",
			Email:         "david.lee@email.com",
			PhoneNumber:   "0467890123",
		},
		{
			ID:            "A-0007",
			AccountNumber: "GAS-0007",
			Product:       domain.Gas{},
			Address:       "150 Greenway Cres, Mawson Lakes, 5095, South Australia",
			Balance:       0,
			FirstName:     "Jessica",
			LastName:      "Taylor",
			Email:         "jessica.taylor@email.com",
			PhoneNumber:   "0478901234",
		},
		{
			ID:            "A-0008",
			AccountNumber: "ELEC-0008",
			Product:       domain.Electricity{},
			Address:       "88 Harbour St, Sydney, 2000, New South Wales",
			Balance:       120,
			FirstName:     "Matthew",
			LastName:      "Anderson",
			Email:         "matthew.anderson@email.com",
			PhoneNumber:   "0489012345",
		},
		{
			ID:            "A-0009",
			AccountNumber: "GAS-0009",
			Product:       domain.Gas{},
			Address:       "22 Boulder Rd, Kalgoorlie, 6430, Western Australia",
			Balance:       -60,
			FirstName:     "Olivia",
			LastName:      "Martin",
			Email:         "olivia.martin@email.com",
			PhoneNumber:   "0490123456",
		},
	}
}
