package payment

import (
	"fmt"

	"ecofix/models"
)

// ValidationError reports a malformed payment field. The gateway is never reached.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate applies the payment step's form rules in the order the fields appear.
func Validate(details models.PaymentDetails) error {
	switch {
	case details.CardholderName == "":
		return &ValidationError{Field: "cardholderName", Message: "Cardholder name is required"}
	case !ValidateCardNumber(details.CardNumber):
		return &ValidationError{Field: "cardNumber", Message: "Invalid card number"}
	case !ValidateExpiryDate(details.ExpiryDate):
		return &ValidationError{Field: "expiryDate", Message: "Invalid expiry date (MM/YY)"}
	case !ValidateCVV(details.CVV):
		return &ValidationError{Field: "cvv", Message: "Invalid CVV"}
	case details.Amount <= 0:
		return &ValidationError{Field: "amount", Message: "Payment amount must be positive"}
	}
	return nil
}
