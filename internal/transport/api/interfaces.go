package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/shopspring/decimal"
)

type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, *service.AuthTokens, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*service.AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*service.AuthTokens, error)
	Current(ctx context.Context, userID int64) (*domain.User, error)
}

type PaymentServicer interface {
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*service.Receipt, error)
	PayCourse(ctx context.Context, userID int64, courseCode string) (*service.Receipt, error)
}

type TransactionServicer interface {
	ListTransactions(ctx context.Context, userID int64, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

type CourseServicer interface {
	List(ctx context.Context) ([]domain.Course, error)
	GetByCode(ctx context.Context, code string) (*domain.Course, error)
	Create(ctx context.Context, args service.CourseArgs) (*domain.Course, error)
	Update(ctx context.Context, code string, args service.CourseArgs) (*domain.Course, error)
	Delete(ctx context.Context, code string) error
}
