package service

import (
	"context"
	"time"

	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/internal/service/mocks"
	"github.com/fsdevblog/study-billing/pkg/uow"
	uowmocks "github.com/fsdevblog/study-billing/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

// repoMocks набор моков uow и репозиториев, общий для тестов сервисов.
type repoMocks struct {
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockUserRepo    *mocks.MockUserRepository
	mockCourseRepo  *mocks.MockCourseRepository
	mockTransRepo   *mocks.MockTransactionRepository
	mockRefreshRepo *mocks.MockRefreshTokenRepository
}

func newRepoMocks(ctrl *gomock.Controller) *repoMocks {
	m := &repoMocks{
		mockUOW:         uowmocks.NewMockUOW(ctrl),
		mockTX:          uowmocks.NewMockTX(ctrl),
		mockUserRepo:    mocks.NewMockUserRepository(ctrl),
		mockCourseRepo:  mocks.NewMockCourseRepository(ctrl),
		mockTransRepo:   mocks.NewMockTransactionRepository(ctrl),
		mockRefreshRepo: mocks.NewMockRefreshTokenRepository(ctrl),
	}

	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.UserRepoName:         m.mockUserRepo,
		repoargs.CourseRepoName:       m.mockCourseRepo,
		repoargs.TransactionRepoName:  m.mockTransRepo,
		repoargs.RefreshTokenRepoName: m.mockRefreshRepo,
	}
	for name, repo := range repos {
		m.mockUOW.EXPECT().GetRepository(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
		m.mockTX.EXPECT().Get(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
	}

	// Do просто выполняет fn с моком транзакции.
	m.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, m.mockTX)
		}).AnyTimes()

	return m
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type decimalMatcher struct {
	want decimal.Decimal
}

// decimalEq сравнивает decimal по значению, а не по внутреннему представлению.
func decimalEq(s string) gomock.Matcher {
	return decimalMatcher{want: dec(s)}
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is equal to decimal " + m.want.String()
}
