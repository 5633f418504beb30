package service

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/shopspring/decimal"
)

// ReportService строит выборки для периодических рассылок: уведомления об окончании аренды и
// ежемесячные отчеты об оплатах.
type ReportService struct {
	transRepo TransactionRepository
	userRepo  UserRepository
}

func NewReportService(u uow.UOW) (*ReportService, error) {
	transRepo, transRepoErr := uow.GetRepositoryAs[TransactionRepository](
		u,
		uow.RepositoryName(repoargs.TransactionRepoName),
	)
	if transRepoErr != nil {
		return nil, transRepoErr //nolint:wrapcheck
	}
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	return &ReportService{
		transRepo: transRepo,
		userRepo:  userRepo,
	}, nil
}

// ExpiringRentalDigest выбирает оплаты, срок аренды которых истекает завтра относительно asOf, то есть в
// полуинтервале [завтра 00:00:00, послезавтра 00:00:00) в часовом поясе asOf, и группирует их по юзерам.
//
// Последовательность ленивая и одноразовая: повторный обход ничего не вернет. Каждый вызов метода заново
// читает данные из базы.
func (r *ReportService) ExpiringRentalDigest(ctx context.Context, asOf time.Time) (iter.Seq[domain.RentalDigest], error) {
	period := ExpiringWindow(asOf)
	rentals, err := r.transRepo.FindExpiringBetween(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("expiring rental digest: %w", err)
	}

	var consumed atomic.Bool
	return func(yield func(domain.RentalDigest) bool) {
		if !consumed.CompareAndSwap(false, true) {
			return
		}
		var current *domain.RentalDigest
		for _, rental := range rentals {
			if current != nil && current.UserID != rental.UserID {
				if !yield(*current) {
					return
				}
				current = nil
			}
			if current == nil {
				current = &domain.RentalDigest{UserID: rental.UserID, Email: rental.UserEmail}
			}
			current.Courses = append(current.Courses, domain.ExpiringCourse{
				Name:      rental.CourseName,
				ExpiresAt: rental.ExpiresAt,
			})
		}
		if current != nil {
			yield(*current)
		}
	}, nil
}

// MonthlyPaymentReport строит отчеты об оплатах за месяц, в который попадает month: с первого дня 00:00:00
// по последний день 23:59:59 включительно. Юзеры без оплат за период в результат не попадают.
func (r *ReportService) MonthlyPaymentReport(
	ctx context.Context,
	users []domain.User,
	month time.Time,
) ([]domain.PaymentReport, error) {
	period := MonthWindow(month)

	reports := make([]domain.PaymentReport, 0, len(users))
	for _, user := range users {
		lines, err := r.transRepo.FindPaymentsBetween(ctx, user.ID, period)
		if err != nil {
			return nil, fmt.Errorf("monthly payment report: %w", err)
		}
		if len(lines) == 0 {
			continue
		}
		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.Amount)
		}
		reports = append(reports, domain.PaymentReport{
			UserID:    user.ID,
			Email:     user.Email,
			StartDate: period.From,
			EndDate:   period.To,
			Lines:     lines,
			Total:     total,
		})
	}
	return reports, nil
}

// ReportUsers возвращает всех юзеров для рассылки отчетов.
func (r *ReportService) ReportUsers(ctx context.Context) ([]domain.User, error) {
	users, err := r.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return users, nil
}

// ExpiringWindow полуинтервал [завтра 00:00:00, послезавтра 00:00:00) относительно asOf.
func ExpiringWindow(asOf time.Time) repoargs.Period {
	y, m, d := asOf.Date()
	from := time.Date(y, m, d+1, 0, 0, 0, 0, asOf.Location())
	return repoargs.Period{From: from, To: from.AddDate(0, 0, 1)}
}

// MonthWindow закрытый интервал [первый день месяца 00:00:00, последний день 23:59:59].
func MonthWindow(month time.Time) repoargs.Period {
	y, m, _ := month.Date()
	return repoargs.Period{
		From: time.Date(y, m, 1, 0, 0, 0, 0, month.Location()),
		To:   time.Date(y, m+1, 0, 23, 59, 59, 0, month.Location()),
	}
}

// PreviousMonth любой момент предыдущего относительно now месяца.
func PreviousMonth(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m-1, 1, 0, 0, 0, 0, now.Location())
}
