package service

import (
	"context"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	LockByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type CourseRepository interface {
	Create(ctx context.Context, args repoargs.CourseUpsert) (*domain.Course, error)
	Update(ctx context.Context, code string, args repoargs.CourseUpsert) (*domain.Course, error)
	Delete(ctx context.Context, code string) error
	FindByCode(ctx context.Context, code string) (*domain.Course, error)
	FindAll(ctx context.Context) ([]domain.Course, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error)
	FindExistingPurchase(ctx context.Context, userID int64, courseID int64) (*domain.Transaction, error)
	FindByUser(
		ctx context.Context,
		userID int64,
		filter domain.TransactionFilter,
		now time.Time,
	) ([]domain.Transaction, error)
	FindExpiringBetween(ctx context.Context, period repoargs.Period) ([]domain.ExpiringRental, error)
	FindPaymentsBetween(ctx context.Context, userID int64, period repoargs.Period) ([]domain.PaymentReportLine, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, userID int64, token string, validUntil time.Time) (*domain.RefreshToken, error)
	Find(ctx context.Context, token string) (*domain.RefreshToken, error)
}
