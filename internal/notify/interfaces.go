package notify

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"iter"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
)

// Sender доставляет одно письмо.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Reporter источник данных для рассылок.
type Reporter interface {
	ExpiringRentalDigest(ctx context.Context, asOf time.Time) (iter.Seq[domain.RentalDigest], error)
	ReportUsers(ctx context.Context) ([]domain.User, error)
	MonthlyPaymentReport(ctx context.Context, users []domain.User, month time.Time) ([]domain.PaymentReport, error)
}
