package payment

import (
	"context"

	"ecofix/models"
)

// Processor charges a card. A declined card is a successful call with
// result.Success == false; the returned error is reserved for invalid input
// (*ValidationError) and infrastructure failures. Refund reverses a successful
// charge by its transaction id.
type Processor interface {
	ProcessPayment(ctx context.Context, details models.PaymentDetails) (models.PaymentResult, error)
	Refund(ctx context.Context, transactionID string) error
}
