package fixtures

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/fsdevblog/study-billing/internal/service/mocks"
	"github.com/fsdevblog/study-billing/pkg/uow"
	uowmocks "github.com/fsdevblog/study-billing/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type FixturesTestSuite struct {
	suite.Suite
	mockUOW        *uowmocks.MockUOW
	mockTX         *uowmocks.MockTX
	mockUserRepo   *mocks.MockUserRepository
	mockCourseRepo *mocks.MockCourseRepository
	mockPsswd      *mocks.MockPasswordHasher
	depositor      *fakeDepositor
	loader         *Loader
}

type deposit struct {
	userID int64
	amount decimal.Decimal
}

type fakeDepositor struct {
	deposits []deposit
}

func (f *fakeDepositor) DepositTx(_ context.Context, _ uow.TX, userID int64, amount decimal.Decimal) (*service.Receipt, error) {
	f.deposits = append(f.deposits, deposit{userID: userID, amount: amount})
	return &service.Receipt{Balance: amount}, nil
}

func TestFixturesSuite(t *testing.T) {
	suite.Run(t, new(FixturesTestSuite))
}

func (s *FixturesTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(ctrl)
	s.mockTX = uowmocks.NewMockTX(ctrl)
	s.mockUserRepo = mocks.NewMockUserRepository(ctrl)
	s.mockCourseRepo = mocks.NewMockCourseRepository(ctrl)
	s.mockPsswd = mocks.NewMockPasswordHasher(ctrl)
	s.depositor = new(fakeDepositor)

	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CourseRepoName)).Return(s.mockCourseRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)
	s.loader = NewLoader(s.mockUOW, s.mockPsswd, s.depositor, l)
}

func (s *FixturesTestSuite) TestDefault() {
	fx, err := Default()
	s.Require().NoError(err)
	s.Len(fx.Users, 2)
	s.Len(fx.Courses, 3)
	s.Equal("5000.10", fx.Users[1].Balance.StringFixed(2))
	s.Equal([]string{domain.RoleSuperAdmin}, fx.Users[1].Roles)
	s.Equal("rent", fx.Courses[0].Type)
}

func (s *FixturesTestSuite) TestParseInvalidCourse() {
	_, err := Parse(strings.NewReader(`
courses:
  - code: bad
    name: Bad
    type: free
    price: "10"
`))
	s.Require().ErrorIs(err, domain.ErrInvalidPrice)

	_, err = Parse(strings.NewReader("courses: [{code: x, name: x, type: lease, price: '1'}]"))
	s.Require().ErrorIs(err, domain.ErrInvalidCourseType)
}

func (s *FixturesTestSuite) TestLoad() {
	fx := &Fixtures{
		Users: []User{
			{Email: "new@example.com", Password: "pass", Balance: decimal.RequireFromString("1000")},
			{Email: "old@example.com", Password: "pass"},
			{Email: "broke@example.com", Password: "pass"},
		},
		Courses: []Course{
			{Code: "new", Name: "New", Type: "buy", Price: decimal.RequireFromString("10")},
			{Code: "old", Name: "Old", Type: "free"},
		},
	}

	s.mockCourseRepo.EXPECT().FindByCode(gomock.Any(), "new").Return(nil, domain.ErrRecordNotFound)
	s.mockCourseRepo.EXPECT().FindByCode(gomock.Any(), "old").Return(&domain.Course{Code: "old"}, nil)
	s.mockCourseRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.Course{ID: 1, Code: "new"}, nil)

	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), "new@example.com").Return(nil, domain.ErrRecordNotFound)
	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), "old@example.com").Return(&domain.User{ID: 2}, nil)
	s.mockUserRepo.EXPECT().FindByEmail(gomock.Any(), "broke@example.com").Return(nil, domain.ErrRecordNotFound)
	s.mockPsswd.EXPECT().HashPassword("pass").Return("hash", nil).Times(2)
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), repoargs.CreateUser{
		Email:    "new@example.com",
		Password: "hash",
		Roles:    []string{domain.RoleUser},
	}).Return(&domain.User{ID: 10}, nil)
	s.mockUserRepo.EXPECT().CreateUser(gomock.Any(), repoargs.CreateUser{
		Email:    "broke@example.com",
		Password: "hash",
		Roles:    []string{domain.RoleUser},
	}).Return(&domain.User{ID: 11}, nil)

	s.Require().NoError(s.loader.Load(s.T().Context(), fx))

	// депозит только для юзера с положительным балансом.
	s.Require().Len(s.depositor.deposits, 1)
	s.Equal(int64(10), s.depositor.deposits[0].userID)
	s.Equal("1000.00", s.depositor.deposits[0].amount.StringFixed(2))
}

func (s *FixturesTestSuite) TestLoadFailsOnRepoError() {
	fx := &Fixtures{Courses: []Course{{Code: "c", Name: "C", Type: "free"}}}
	s.mockCourseRepo.EXPECT().FindByCode(gomock.Any(), "c").Return(nil, domain.ErrUnknown)

	s.Require().ErrorIs(s.loader.Load(s.T().Context(), fx), domain.ErrUnknown)
}
