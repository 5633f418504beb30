package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ReportServiceTestSuite struct {
	suite.Suite
	*repoMocks
	reportService *ReportService
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.repoMocks = newRepoMocks(gomock.NewController(s.T()))
	svc, err := NewReportService(s.mockUOW)
	s.Require().NoError(err)
	s.reportService = svc
}

func (s *ReportServiceTestSuite) TestExpiringWindow() {
	asOf := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	period := ExpiringWindow(asOf)
	s.Equal(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), period.From)
	s.Equal(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), period.To)

	// переход через конец месяца.
	period = ExpiringWindow(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))
	s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), period.From)
}

func (s *ReportServiceTestSuite) TestMonthWindow() {
	period := MonthWindow(time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC))
	s.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), period.From)
	s.Equal(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), period.To)

	s.Equal(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), PreviousMonth(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
}

func (s *ReportServiceTestSuite) TestExpiringRentalDigestGroupsByUser() {
	asOf := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	rentals := []domain.ExpiringRental{
		{UserID: 1, UserEmail: "a@example.com", CourseName: "Go", ExpiresAt: tomorrow},
		{UserID: 1, UserEmail: "a@example.com", CourseName: "K8s", ExpiresAt: tomorrow.Add(time.Hour)},
		{UserID: 2, UserEmail: "b@example.com", CourseName: "Go", ExpiresAt: tomorrow},
	}
	s.mockTransRepo.EXPECT().FindExpiringBetween(gomock.Any(), ExpiringWindow(asOf)).Return(rentals, nil)

	digest, err := s.reportService.ExpiringRentalDigest(s.T().Context(), asOf)
	s.Require().NoError(err)

	var groups []domain.RentalDigest
	for group := range digest {
		groups = append(groups, group)
	}
	s.Require().Len(groups, 2)
	s.Equal("a@example.com", groups[0].Email)
	s.Len(groups[0].Courses, 2)
	s.Equal("K8s", groups[0].Courses[1].Name)
	s.Equal("b@example.com", groups[1].Email)
	s.Len(groups[1].Courses, 1)

	// последовательность одноразовая.
	var again int
	for range digest {
		again++
	}
	s.Zero(again)
}

func (s *ReportServiceTestSuite) TestExpiringRentalDigestEarlyStop() {
	rentals := []domain.ExpiringRental{
		{UserID: 1, UserEmail: "a@example.com", CourseName: "Go"},
		{UserID: 2, UserEmail: "b@example.com", CourseName: "Go"},
	}
	s.mockTransRepo.EXPECT().FindExpiringBetween(gomock.Any(), gomock.Any()).Return(rentals, nil)

	digest, err := s.reportService.ExpiringRentalDigest(s.T().Context(), time.Now())
	s.Require().NoError(err)

	var seen int
	for range digest {
		seen++
		break
	}
	s.Equal(1, seen)
}

func (s *ReportServiceTestSuite) TestExpiringRentalDigestEmpty() {
	s.mockTransRepo.EXPECT().FindExpiringBetween(gomock.Any(), gomock.Any()).Return(nil, nil)

	digest, err := s.reportService.ExpiringRentalDigest(s.T().Context(), time.Now())
	s.Require().NoError(err)
	for range digest {
		s.Fail("unexpected group")
	}
}

func (s *ReportServiceTestSuite) TestMonthlyPaymentReport() {
	month := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	period := MonthWindow(month)
	users := []domain.User{
		{ID: 1, Email: "a@example.com"},
		{ID: 2, Email: "b@example.com"},
	}
	lines := []domain.PaymentReportLine{
		{CourseName: "Go", CourseType: domain.CourseTypeBuy, Amount: dec("99.90")},
		{CourseName: "K8s", CourseType: domain.CourseTypeRent, Amount: dec("20.10")},
	}
	s.mockTransRepo.EXPECT().FindPaymentsBetween(gomock.Any(), int64(1), period).Return(lines, nil)
	s.mockTransRepo.EXPECT().FindPaymentsBetween(gomock.Any(), int64(2), period).
		Return([]domain.PaymentReportLine{}, nil)

	reports, err := s.reportService.MonthlyPaymentReport(s.T().Context(), users, month)
	s.Require().NoError(err)
	s.Require().Len(reports, 1)
	s.Equal("a@example.com", reports[0].Email)
	s.Equal("120.00", reports[0].Total.StringFixed(2))
	s.Equal(period.From, reports[0].StartDate)
	s.Equal(period.To, reports[0].EndDate)
}

func (s *ReportServiceTestSuite) TestReportUsers() {
	users := []domain.User{{ID: 1}, {ID: 2}}
	s.mockUserRepo.EXPECT().FindAll(gomock.Any()).Return(users, nil)

	got, err := s.reportService.ReportUsers(s.T().Context())
	s.Require().NoError(err)
	s.Equal(users, got)
}
