package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	*repoMocks
	now          time.Time
	transService *TransactionService
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.repoMocks = newRepoMocks(gomock.NewController(s.T()))
	s.now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, err := NewTransactionService(s.mockUOW, fixedClock(s.now))
	s.Require().NoError(err)
	s.transService = svc
}

func (s *TransactionServiceTestSuite) TestListTransactionsPassesFilterAndClock() {
	payment := domain.TransactionTypePayment
	filter := domain.TransactionFilter{Type: &payment, CourseCode: "go-basics", SkipExpired: true}
	want := []domain.Transaction{{ID: 2}, {ID: 1}}

	s.mockTransRepo.EXPECT().FindByUser(gomock.Any(), int64(1), filter, s.now).Return(want, nil)

	got, err := s.transService.ListTransactions(s.T().Context(), 1, filter)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *TransactionServiceTestSuite) TestListTransactionsError() {
	s.mockTransRepo.EXPECT().FindByUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrUnknown)

	_, err := s.transService.ListTransactions(s.T().Context(), 1, domain.TransactionFilter{})
	s.Require().ErrorIs(err, domain.ErrUnknown)
}
