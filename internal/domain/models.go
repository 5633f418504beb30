package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string
	Password  string
	Roles     []string
	Balance   decimal.Decimal
}

func (u *User) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleSuperAdmin)
}

type Course struct {
	ID    int64
	Code  string
	Name  string
	Type  CourseType
	Price decimal.Decimal
}

// Денежные колонки хранятся как NUMERIC(12, 2).
const MoneyScale = 2

// MaxMoney наибольшая сумма, которая помещается в денежную колонку.
var MaxMoney = decimal.New(1, 10).Sub(decimal.New(1, -MoneyScale))

// FitsMoney помещается ли сумма в денежную колонку без округления.
func FitsMoney(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyScale)) && amount.Abs().LessThanOrEqual(MaxMoney)
}

// ValidateAmount проверяет сумму пополнения: строго больше 0, не больше двух знаков после запятой,
// не больше MaxMoney.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !FitsMoney(amount) {
		return ErrInvalidAmount
	}
	return nil
}

// Validate проверяет согласованность типа курса и цены: у бесплатного курса цена 0,
// у платных - строго больше 0.
func (c *Course) Validate() error {
	if _, err := ParseCourseType(string(c.Type)); err != nil {
		return err
	}
	if c.Price.IsNegative() || !FitsMoney(c.Price) {
		return ErrInvalidPrice
	}
	if c.Type == CourseTypeFree && !c.Price.IsZero() {
		return ErrInvalidPrice
	}
	if c.Type != CourseTypeFree && !c.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

type Transaction struct {
	ID         int64
	CreatedAt  time.Time
	UserID     int64
	CourseID   *int64
	CourseCode string
	Type       TransactionType
	Amount     decimal.Decimal
	ExpiresAt  *time.Time
}

type RefreshToken struct {
	Token      string
	UserID     int64
	ValidUntil time.Time
}
