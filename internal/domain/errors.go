package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrForeignKey        = errors.New("foreign key violation")
	ErrUnknown           = errors.New("unknown error")

	ErrCourseNotFound = fmt.Errorf("%w: course", ErrRecordNotFound)

	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	ErrInvalidCourseType = fmt.Errorf("%w: course type must be one of rent, buy, free", ErrInvalidInput)
	ErrInvalidPrice      = fmt.Errorf("%w: price does not match course type", ErrInvalidInput)

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyPurchased  = errors.New("course already purchased")
	ErrCourseInUse       = errors.New("course has transactions")
	ErrRefreshExpired    = errors.New("refresh token expired")
)

// PaymentError сохраняет код курса, на котором оборвалась оплата. Оборачивает одну из
// бизнес-ошибок (ErrInsufficientFunds, ErrAlreadyPurchased).
type PaymentError struct {
	CourseCode string
	Err        error
}

func NewPaymentError(courseCode string, err error) error {
	return &PaymentError{CourseCode: courseCode, Err: err}
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("paying course `%s`: %s", e.CourseCode, e.Err.Error())
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}
