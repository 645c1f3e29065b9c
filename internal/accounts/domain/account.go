// Package domain contains the energy account model.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EnergyType identifies the product an account is billed for.
type EnergyType string

const (
	EnergyTypeElectricity EnergyType = "ELECTRICITY"
	EnergyTypeGas         EnergyType = "GAS"
)

// ErrNotFound is returned when no account matches the requested ID.
var ErrNotFound = errors.New("account not found")

// Product carries the attributes specific to one energy type. Exactly two
// implementations exist: Electricity and Gas.
type Product interface {
	EnergyType() EnergyType
}

// Electricity is the product detail for an ELECTRICITY account.
type Electricity struct {
	MeterNumber string
}

// EnergyType implements Product.
func (Electricity) EnergyType() EnergyType { return EnergyTypeElectricity }

// Gas is the product detail for a GAS account.
type Gas struct {
	Volume float64
}

// EnergyType implements Product.
func (Gas) EnergyType() EnergyType { return EnergyTypeGas }

// Account represents an energy customer account. Balance is derived from the
// account's due charges; the value held here is only what the upstream source
// reported and is overwritten on any balance-annotated read.
type Account struct {
	ID            string
	AccountNumber string
	Address       string
	Product       Product
	Balance       float64
	FirstName     string
	LastName      string
	Email         string
	PhoneNumber   string
}

// accountWire is the flattened JSON shape consumed by existing clients.
type accountWire struct {
	ID            string     `json:"id"`
	AccountNumber string     `json:"accountNumber,omitempty"`
	Type          EnergyType `json:"type"`
	Address       string     `json:"address"`
	MeterNumber   string     `json:"meterNumber,omitempty"`
	Volume        *float64   `json:"volume,omitempty"`
	Balance       float64    `json:"balance"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Email         string     `json:"email,omitempty"`
	PhoneNumber   string     `json:"phoneNumber,omitempty"`
}

// MarshalJSON flattens the product variant into the legacy wire format.
func (a Account) MarshalJSON() ([]byte, error) {
	w := accountWire{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Address:       a.Address,
		Balance:       a.Balance,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		PhoneNumber:   a.PhoneNumber,
	}

	switch p := a.Product.(type) {
	case Electricity:
		w.Type = EnergyTypeElectricity
		w.MeterNumber = p.MeterNumber
	case Gas:
		w.Type = EnergyTypeGas
		if p.Volume != 0 {
			v := p.Volume
			w.Volume = &v
		}
	default:
		return nil, fmt.Errorf("account %s: unknown product %T", a.ID, a.Product)
	}

	return json.Marshal(w)
}

// UnmarshalJSON reconstructs the product variant from the wire format.
func (a *Account) UnmarshalJSON(data []byte) error {
	var w accountWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch w.Type {
	case EnergyTypeElectricity:
		a.Product = Electricity{MeterNumber: w.MeterNumber}
	case EnergyTypeGas:
		var volume float64
		if w.Volume != nil {
			volume = *w.Volume
		}
		a.Product = Gas{Volume: volume}
	default:
		return fmt.Errorf("account %s: unknown energy type %q", w.ID, w.Type)
	}

	a.ID = w.ID
	a.AccountNumber = w.AccountNumber
	a.Address = w.Address
	a.Balance = w.Balance
	a.FirstName = w.FirstName
	a.LastName = w.LastName
	a.Email = w.Email
	a.PhoneNumber = w.PhoneNumber
	return nil
}
