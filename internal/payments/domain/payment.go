// Package domain contains the payment and due-charge models plus the card
// validation rules shared by every entry point.
package domain

import (
	"errors"
	"time"
)

// Method is how a payment is funded. Only CARD is processable.
type Method string

const (
	MethodCard         Method = "CARD"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodDirectDebit  Method = "DIRECT_DEBIT"
)

// Status is the lifecycle state of a payment. Failed attempts are never
// stored, so a persisted payment is always COMPLETED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Processing precondition errors. The messages are part of the API contract.
var (
	ErrAccountIDRequired = errors.New("Account ID is required")
	ErrAmountNotPositive = errors.New("Payment amount must be greater than zero")
	ErrUnsupportedMethod = errors.New("Only card payments are supported")
)

// DueCharge is a billable line item against an account. The set is fixed seed
// data; charges are never created or updated here.
type DueCharge struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"accountId"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	DueDate     string  `json:"dueDate,omitempty"`
	Description string  `json:"description,omitempty"`
	Paid        bool    `json:"paid"`
}

// CreditCardDetails is the transient card input for a single payment. It is
// never persisted and must never be logged.
type CreditCardDetails struct {
	CardNumber     string `json:"cardNumber"`
	CardholderName string `json:"cardholderName"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
}

// MaskedCardDetails is the storable form of card data: last four digits and
// the holder name only.
type MaskedCardDetails struct {
	CardNumber     string `json:"cardNumber"`
	CardholderName string `json:"cardholderName"`
}

// Payment is one completed payment in the ledger.
type Payment struct {
	ID          string             `json:"id"`
	AccountID   string             `json:"accountId"`
	Amount      float64            `json:"amount"`
	Date        time.Time          `json:"date"`
	Method      Method             `json:"method"`
	Status      Status             `json:"status"`
	Reference   string             `json:"reference"`
	CardDetails *MaskedCardDetails `json:"cardDetails,omitempty"`
}

// MaskCardNumber reduces a card number to the xxxx-xxxx-xxxx-<last4> form.
func MaskCardNumber(cardNumber string) string {
	last4 := cardNumber
	if len(cardNumber) > 4 {
		last4 = cardNumber[len(cardNumber)-4:]
	}
	return "xxxx-xxxx-xxxx-" + last4
}

// Mask converts raw card details to their storable form.
func (c CreditCardDetails) Mask() MaskedCardDetails {
	return MaskedCardDetails{
		CardNumber:     MaskCardNumber(c.CardNumber),
		CardholderName: c.CardholderName,
	}
}
