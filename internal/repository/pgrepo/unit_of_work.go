package pgrepo

import (
	"fmt"

	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewUnitOfWork создает uow поверх пула со всеми репозиториями биллинга. Транзакции открываются
// в READ COMMITTED: конкурентные изменения баланса сериализуются блокировкой строки юзера.
func NewUnitOfWork(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn, uow.WithTxOptions(pgx.TxOptions{
		IsoLevel: pgx.ReadCommitted,
	}))

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return NewUserRepository(dbtx)
		},
		repoargs.CourseRepoName: func(dbtx uow.DBTX) uow.Repository {
			return NewCourseRepository(dbtx)
		},
		repoargs.TransactionRepoName: func(dbtx uow.DBTX) uow.Repository {
			return NewTransactionRepository(dbtx)
		},
		repoargs.RefreshTokenRepoName: func(dbtx uow.DBTX) uow.Repository {
			return NewRefreshTokenRepository(dbtx)
		},
	}
	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
