package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"ecofix/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FailureReasons are the decline messages a simulated gateway can return.
var FailureReasons = []string{
	"Insufficient funds",
	"Card declined by issuer",
	"Payment network error",
	"Card expired",
}

// SimulatedConfig tunes the fake gateway.
type SimulatedConfig struct {
	Delay       time.Duration
	SuccessRate float64
	Rand        *rand.Rand
}

// SimulatedProcessor models a flaky gateway: fixed latency and a random
// outcome that does not depend on the card beyond the format checks.
type SimulatedProcessor struct {
	logger      *zap.Logger
	delay       time.Duration
	successRate float64
	secret      []byte

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedProcessor(logger *zap.Logger, cfg SimulatedConfig, fingerprintSecret []byte) *SimulatedProcessor {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulatedProcessor{
		logger:      logger,
		delay:       cfg.Delay,
		successRate: cfg.SuccessRate,
		secret:      fingerprintSecret,
		rng:         rng,
	}
}

func (p *SimulatedProcessor) ProcessPayment(ctx context.Context, details models.PaymentDetails) (models.PaymentResult, error) {
	if err := Validate(details); err != nil {
		return models.PaymentResult{Success: false, Error: err.Error()}, err
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.PaymentResult{Success: false, Error: "Payment cancelled"}, ctx.Err()
		case <-timer.C:
		}
	}

	roll, reason := p.roll()
	fields := []zap.Field{
		zap.String("card", MaskCardNumber(details.CardNumber)),
		zap.String("brand", DetectCardType(details.CardNumber)),
		zap.String("fingerprint", Fingerprint(p.secret, details.CardNumber)),
		zap.Float64("amount", details.Amount),
	}

	if roll >= p.successRate {
		p.logger.Info("Simulated payment declined", append(fields, zap.String("reason", reason))...)
		return models.PaymentResult{Success: false, Error: reason}, nil
	}

	txnID := "txn_" + uuid.New().String()
	p.logger.Info("Simulated payment successful", append(fields, zap.String("transactionId", txnID))...)
	return models.PaymentResult{Success: true, TransactionID: txnID}, nil
}

func (p *SimulatedProcessor) Refund(_ context.Context, transactionID string) error {
	p.logger.Info("Simulated payment refunded", zap.String("transactionId", transactionID))
	return nil
}

func (p *SimulatedProcessor) roll() (float64, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64(), FailureReasons[p.rng.Intn(len(FailureReasons))]
}
