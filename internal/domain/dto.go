package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CourseType string

const (
	CourseTypeRent CourseType = "rent"
	CourseTypeBuy  CourseType = "buy"
	CourseTypeFree CourseType = "free"
)

// ParseCourseType возвращает тип курса по его имени или ErrInvalidCourseType.
func ParseCourseType(name string) (CourseType, error) {
	switch t := CourseType(name); t {
	case CourseTypeRent, CourseTypeBuy, CourseTypeFree:
		return t, nil
	default:
		return "", ErrInvalidCourseType
	}
}

// Label человекочитаемое название типа курса для отчетов.
func (t CourseType) Label() string {
	switch t {
	case CourseTypeRent:
		return "Аренда"
	case CourseTypeBuy:
		return "Покупка"
	case CourseTypeFree:
		return "Бесплатный"
	default:
		return "Неизвестно"
	}
}

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeDeposit TransactionType = "deposit"
)

func ParseTransactionType(name string) (TransactionType, error) {
	switch t := TransactionType(name); t {
	case TransactionTypePayment, TransactionTypeDeposit:
		return t, nil
	default:
		return "", ErrInvalidInput
	}
}

const (
	RoleUser       = "ROLE_USER"
	RoleSuperAdmin = "ROLE_SUPER_ADMIN"
)

// TransactionFilter фильтры выборки истории транзакций. Все поля опциональны и комбинируются через AND.
type TransactionFilter struct {
	Type        *TransactionType
	CourseCode  string
	SkipExpired bool
}

// ExpiringRental строка выборки арендованных курсов, срок которых подходит к концу.
type ExpiringRental struct {
	UserID     int64
	UserEmail  string
	CourseName string
	ExpiresAt  time.Time
}

type ExpiringCourse struct {
	Name      string
	ExpiresAt time.Time
}

// RentalDigest группа курсов одного пользователя для одного уведомления.
type RentalDigest struct {
	UserID  int64
	Email   string
	Courses []ExpiringCourse
}

type PaymentReportLine struct {
	CourseName string
	CourseType CourseType
	CreatedAt  time.Time
	Amount     decimal.Decimal
}

// PaymentReport отчет об оплатах пользователя за период.
type PaymentReport struct {
	UserID    int64
	Email     string
	StartDate time.Time
	EndDate   time.Time
	Lines     []PaymentReportLine
	Total     decimal.Decimal
}
