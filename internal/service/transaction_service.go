package service

import (
	"context"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
)

type TransactionService struct {
	transRepo TransactionRepository
	clock     Clock
}

func NewTransactionService(u uow.UOW, clock Clock) (*TransactionService, error) {
	rName := uow.RepositoryName(repoargs.TransactionRepoName)
	transRepo, err := uow.GetRepositoryAs[TransactionRepository](u, rName)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if clock == nil {
		clock = SystemClock
	}
	return &TransactionService{
		transRepo: transRepo,
		clock:     clock,
	}, nil
}

// ListTransactions возвращает историю транзакций юзера от новых к старым. При filter.SkipExpired исключаются
// транзакции, срок аренды которых истек к текущему моменту, транзакции без срока остаются.
func (t *TransactionService) ListTransactions(
	ctx context.Context,
	userID int64,
	filter domain.TransactionFilter,
) ([]domain.Transaction, error) {
	transactions, err := t.transRepo.FindByUser(ctx, userID, filter, t.clock())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}
