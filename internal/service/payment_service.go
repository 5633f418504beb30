package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/shopspring/decimal"
)

// RentalPeriod срок аренды курса с момента оплаты.
const RentalPeriod = 7 * 24 * time.Hour

// Receipt результат операции с балансом: созданная транзакция и баланс юзера после коммита.
type Receipt struct {
	Transaction *domain.Transaction
	Course      *domain.Course
	Balance     decimal.Decimal
}

// PaymentService изменяет баланс юзеров и пишет журнал транзакций. Каждая операция выполняется в одной
// транзакции uow: либо сохраняются и запись журнала, и новый баланс, либо ничего.
type PaymentService struct {
	uow            uow.UOW
	initialDeposit decimal.Decimal
	clock          Clock
}

func NewPaymentService(u uow.UOW, initialDeposit decimal.Decimal, clock Clock) *PaymentService {
	if clock == nil {
		clock = SystemClock
	}
	return &PaymentService{
		uow:            u,
		initialDeposit: initialDeposit,
		clock:          clock,
	}
}

// Deposit пополняет баланс юзера на amount. Для amount <= 0, сумм с более чем двумя знаками после запятой
// и сумм больше domain.MaxMoney возвращает domain.ErrInvalidAmount, обращения к базе при этом не происходит.
func (p *PaymentService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*Receipt, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err //nolint:wrapcheck
	}

	var receipt *Receipt
	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var err error
		receipt, err = p.depositTx(c, tx, userID, amount)
		return err
	})
	if txErr != nil {
		return nil, fmt.Errorf("deposit: %w", txErr)
	}
	return receipt, nil
}

// PayCourse оплачивает курс с кодом courseCode с баланса юзера.
//
// Проверки выполняются строго в порядке:
//  1. баланс не меньше цены курса, иначе domain.ErrInsufficientFunds;
//  2. курс еще не оплачен этим юзером, иначе domain.ErrAlreadyPurchased.
//
// Неизвестный курс - domain.ErrCourseNotFound, неизвестный юзер - domain.ErrRecordNotFound.
//
// Для курсов типа аренда транзакции выставляется срок окончания CreatedAt + RentalPeriod. Строка юзера
// блокируется до конца транзакции, а уникальный индекс на оплату страхует от гонки двух одновременных
// оплат одного курса.
func (p *PaymentService) PayCourse(ctx context.Context, userID int64, courseCode string) (*Receipt, error) {
	var receipt *Receipt
	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var err error
		receipt, err = p.payCourseTx(c, tx, userID, courseCode)
		return err
	})
	if txErr != nil {
		return nil, fmt.Errorf("pay course: %w", txErr)
	}
	return receipt, nil
}

// InitializeUserBalance начисляет юзеру стартовый депозит из конфигурации.
func (p *PaymentService) InitializeUserBalance(ctx context.Context, userID int64) (*Receipt, error) {
	return p.Deposit(ctx, userID, p.initialDeposit)
}

// InitializeUserBalanceTx то же, что InitializeUserBalance, но внутри уже открытой транзакции.
// При нулевом стартовом депозите ничего не делает и возвращает nil.
func (p *PaymentService) InitializeUserBalanceTx(ctx context.Context, tx uow.TX, userID int64) (*Receipt, error) {
	if p.initialDeposit.IsZero() {
		return nil, nil //nolint:nilnil
	}
	if err := domain.ValidateAmount(p.initialDeposit); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return p.depositTx(ctx, tx, userID, p.initialDeposit)
}

// DepositTx то же, что Deposit, но внутри уже открытой транзакции.
func (p *PaymentService) DepositTx(
	ctx context.Context,
	tx uow.TX,
	userID int64,
	amount decimal.Decimal,
) (*Receipt, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return p.depositTx(ctx, tx, userID, amount)
}

func (p *PaymentService) depositTx(
	ctx context.Context,
	tx uow.TX,
	userID int64,
	amount decimal.Decimal,
) (*Receipt, error) {
	userRepo, transRepo, repoErr := p.repositories(tx)
	if repoErr != nil {
		return nil, repoErr
	}

	user, lockErr := userRepo.LockByID(ctx, userID)
	if lockErr != nil {
		return nil, lockErr //nolint:wrapcheck
	}

	newBalance := user.Balance.Add(amount)
	if newBalance.GreaterThan(domain.MaxMoney) {
		return nil, domain.ErrInvalidAmount
	}

	transaction, createErr := transRepo.Create(ctx, repoargs.TransactionCreate{
		UserID:    user.ID,
		Type:      domain.TransactionTypeDeposit,
		Amount:    amount,
		CreatedAt: p.clock(),
	})
	if createErr != nil {
		return nil, createErr //nolint:wrapcheck
	}

	updated, updErr := userRepo.UpdateBalance(ctx, user.ID, newBalance)
	if updErr != nil {
		return nil, updErr //nolint:wrapcheck
	}

	return &Receipt{Transaction: transaction, Balance: updated.Balance}, nil
}

func (p *PaymentService) payCourseTx(
	ctx context.Context,
	tx uow.TX,
	userID int64,
	courseCode string,
) (*Receipt, error) {
	userRepo, transRepo, repoErr := p.repositories(tx)
	if repoErr != nil {
		return nil, repoErr
	}
	courseRepo, courseRepoErr := uow.GetAs[CourseRepository](tx, uow.RepositoryName(repoargs.CourseRepoName))
	if courseRepoErr != nil {
		return nil, courseRepoErr //nolint:wrapcheck
	}

	course, courseErr := courseRepo.FindByCode(ctx, courseCode)
	if courseErr != nil {
		if errors.Is(courseErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w `%s`", domain.ErrCourseNotFound, courseCode)
		}
		return nil, courseErr //nolint:wrapcheck
	}

	user, lockErr := userRepo.LockByID(ctx, userID)
	if lockErr != nil {
		return nil, lockErr //nolint:wrapcheck
	}

	if user.Balance.LessThan(course.Price) {
		return nil, domain.NewPaymentError(course.Code, domain.ErrInsufficientFunds)
	}

	_, purchaseErr := transRepo.FindExistingPurchase(ctx, user.ID, course.ID)
	switch {
	case purchaseErr == nil:
		return nil, domain.NewPaymentError(course.Code, domain.ErrAlreadyPurchased)
	case !errors.Is(purchaseErr, domain.ErrRecordNotFound):
		return nil, purchaseErr //nolint:wrapcheck
	}

	createdAt := p.clock()
	var expiresAt *time.Time
	if course.Type == domain.CourseTypeRent {
		exp := createdAt.Add(RentalPeriod)
		expiresAt = &exp
	}

	courseID := course.ID
	transaction, createErr := transRepo.Create(ctx, repoargs.TransactionCreate{
		UserID:    user.ID,
		CourseID:  &courseID,
		Type:      domain.TransactionTypePayment,
		Amount:    course.Price,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	})
	if createErr != nil {
		// конкурентная оплата прошла проверку раньше нас и уже закоммичена.
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			return nil, domain.NewPaymentError(course.Code, domain.ErrAlreadyPurchased)
		}
		return nil, createErr //nolint:wrapcheck
	}

	updated, updErr := userRepo.UpdateBalance(ctx, user.ID, user.Balance.Sub(course.Price))
	if updErr != nil {
		return nil, updErr //nolint:wrapcheck
	}

	return &Receipt{Transaction: transaction, Course: course, Balance: updated.Balance}, nil
}

func (p *PaymentService) repositories(tx uow.TX) (UserRepository, TransactionRepository, error) {
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, nil, userRepoErr //nolint:wrapcheck
	}
	transRepo, transRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
	if transRepoErr != nil {
		return nil, nil, transRepoErr //nolint:wrapcheck
	}
	return userRepo, transRepo, nil
}
