package repoargs

import (
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionCreate struct {
	UserID    int64
	CourseID  *int64
	Type      domain.TransactionType
	Amount    decimal.Decimal
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Period полуоткрытый или закрытый интервал дат, в зависимости от запроса репозитория.
type Period struct {
	From time.Time
	To   time.Time
}
