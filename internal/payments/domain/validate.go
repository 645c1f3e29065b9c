package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// fieldOrder fixes the order in which field errors are joined into a single
// message.
var fieldOrder = []string{"amount", "cardNumber", "cardholderName", "expiryDate", "cvv"}

// FieldErrors maps a field name to a human-readable validation message.
type FieldErrors map[string]string

// Error joins the messages in field order so the aggregate reads the same way
// the form renders them.
func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, field := range fieldOrder {
		if msg, ok := e[field]; ok {
			msgs = append(msgs, msg)
		}
	}
	// Defensive: include anything outside the known field set.
	if len(msgs) < len(e) {
		known := make(map[string]bool, len(fieldOrder))
		for _, f := range fieldOrder {
			known[f] = true
		}
		var extra []string
		for field, msg := range e {
			if !known[field] {
				extra = append(extra, msg)
			}
		}
		sort.Strings(extra)
		msgs = append(msgs, extra...)
	}
	return strings.Join(msgs, "; ")
}

// CardValidator checks a proposed amount and card details. The clock is
// injected so expiry checks are deterministic in tests.
type CardValidator struct {
	Now func() time.Time
}

// NewCardValidator returns a validator running on the wall clock.
func NewCardValidator() CardValidator {
	return CardValidator{Now: time.Now}
}

// Validate evaluates every rule independently and reports all failures at
// once. A nil return means the input is valid.
func (v CardValidator) Validate(amount float64, card CreditCardDetails) FieldErrors {
	errs := FieldErrors{}

	if amount <= 0 {
		errs["amount"] = "Amount must be greater than 0"
	}

	cardNumber := strings.TrimSpace(card.CardNumber)
	if cardNumber == "" {
		errs["cardNumber"] = "Card number is required"
	} else if !cardNumberPattern.MatchString(cardNumber) {
		errs["cardNumber"] = "Invalid card number format"
	}

	if strings.TrimSpace(card.CardholderName) == "" {
		errs["cardholderName"] = "Cardholder name is required"
	}

	expiry := strings.TrimSpace(card.ExpiryDate)
	switch {
	case expiry == "":
		errs["expiryDate"] = "Expiry date is required"
	case !expiryPattern.MatchString(expiry):
		errs["expiryDate"] = "Invalid expiry date format (MM/YY)"
	case v.expired(expiry):
		errs["expiryDate"] = "Card has expired"
	}

	cvv := strings.TrimSpace(card.CVV)
	if cvv == "" {
		errs["cvv"] = "CVV is required"
	} else if !cvvPattern.MatchString(cvv) {
		errs["cvv"] = "CVV must be 3 or 4 digits"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// expired interprets MM/YY as the first instant of that month in 20YY and
// reports whether it is strictly before now. Out-of-range months normalise
// forward, matching how the original form evaluated them.
func (v CardValidator) expired(expiry string) bool {
	parts := strings.SplitN(expiry, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])

	now := v.Now()
	firstOfMonth := time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	return firstOfMonth.Before(now)
}
