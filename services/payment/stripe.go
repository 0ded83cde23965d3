package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"ecofix/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// StripeProcessor charges through a Stripe PaymentIntent. Raw card data never
// leaves the service; the configured payment method token is charged and the
// card is only referenced by brand, last four digits and fingerprint.
type StripeProcessor struct {
	api           *client.API
	logger        *zap.Logger
	currency      string
	paymentMethod string
	secret        []byte
}

func NewStripeProcessor(logger *zap.Logger, secretKey, currency, paymentMethod string, fingerprintSecret []byte) *StripeProcessor {
	return &StripeProcessor{
		api:           client.New(secretKey, nil),
		logger:        logger,
		currency:      currency,
		paymentMethod: paymentMethod,
		secret:        fingerprintSecret,
	}
}

func (p *StripeProcessor) ProcessPayment(ctx context.Context, details models.PaymentDetails) (models.PaymentResult, error) {
	if err := Validate(details); err != nil {
		return models.PaymentResult{Success: false, Error: err.Error()}, err
	}

	digits := digitsOnly(details.CardNumber)
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(math.Round(details.Amount * 100))),
		Currency:      stripe.String(p.currency),
		PaymentMethod: stripe.String(p.paymentMethod),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("card_brand", DetectCardType(digits))
	params.AddMetadata("card_last4", digits[len(digits)-4:])
	params.AddMetadata("card_fingerprint", Fingerprint(p.secret, digits))
	params.AddMetadata("cardholder_name", details.CardholderName)

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			p.logger.Info("Stripe card declined", zap.String("code", string(stripeErr.Code)), zap.String("message", stripeErr.Msg))
			return models.PaymentResult{Success: false, Error: stripeErr.Msg}, nil
		}
		p.logger.Error("Stripe payment failed", zap.Error(err))
		return models.PaymentResult{Success: false, Error: "Payment network error"}, fmt.Errorf("stripe payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		p.logger.Warn("Stripe payment not completed", zap.String("paymentIntent", pi.ID), zap.String("status", string(pi.Status)))
		return models.PaymentResult{Success: false, Error: "Card declined by issuer"}, nil
	}

	p.logger.Info("Stripe payment successful", zap.String("paymentIntent", pi.ID), zap.Float64("amount", details.Amount))
	return models.PaymentResult{Success: true, TransactionID: pi.ID}, nil
}

func (p *StripeProcessor) Refund(ctx context.Context, transactionID string) error {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(transactionID)}
	params.Context = ctx
	r, err := p.api.Refunds.New(params)
	if err != nil {
		p.logger.Error("Stripe refund failed", zap.String("paymentIntent", transactionID), zap.Error(err))
		return fmt.Errorf("stripe refund: %w", err)
	}
	p.logger.Info("Stripe payment refunded", zap.String("paymentIntent", transactionID), zap.String("refund", r.ID))
	return nil
}
