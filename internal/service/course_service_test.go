package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type CourseServiceTestSuite struct {
	suite.Suite
	*repoMocks
	courseService *CourseService
}

func TestCourseServiceSuite(t *testing.T) {
	suite.Run(t, new(CourseServiceTestSuite))
}

func (s *CourseServiceTestSuite) SetupTest() {
	s.repoMocks = newRepoMocks(gomock.NewController(s.T()))
	svc, err := NewCourseService(s.mockUOW)
	s.Require().NoError(err)
	s.courseService = svc
}

func (s *CourseServiceTestSuite) TestCreateValidation() {
	cases := []struct {
		name    string
		args    CourseArgs
		wantErr error
	}{
		{name: "unknown type", args: CourseArgs{Code: "c", Name: "n", Type: "lease", Price: dec("1")}, wantErr: domain.ErrInvalidCourseType},
		{name: "free with price", args: CourseArgs{Code: "c", Name: "n", Type: "free", Price: dec("1")}, wantErr: domain.ErrInvalidPrice},
		{name: "buy without price", args: CourseArgs{Code: "c", Name: "n", Type: "buy", Price: dec("0")}, wantErr: domain.ErrInvalidPrice},
		{name: "negative price", args: CourseArgs{Code: "c", Name: "n", Type: "rent", Price: dec("-1")}, wantErr: domain.ErrInvalidPrice},
	}
	s.mockCourseRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.courseService.Create(s.T().Context(), t.args)
			s.Require().ErrorIs(err, t.wantErr)
			s.Require().ErrorIs(err, domain.ErrInvalidInput)
		})
	}
}

func (s *CourseServiceTestSuite) TestCreate() {
	args := CourseArgs{Code: "go-basics", Name: "Go", Type: "buy", Price: dec("99.90")}
	created := &domain.Course{ID: 1, Code: args.Code, Name: args.Name, Type: domain.CourseTypeBuy, Price: args.Price}
	s.mockCourseRepo.EXPECT().Create(gomock.Any(), repoargs.CourseUpsert{
		Code:  args.Code,
		Name:  args.Name,
		Type:  domain.CourseTypeBuy,
		Price: args.Price,
	}).Return(created, nil)

	course, err := s.courseService.Create(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(created, course)
}

func (s *CourseServiceTestSuite) TestCreateDuplicate() {
	s.mockCourseRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey)

	_, err := s.courseService.Create(s.T().Context(), CourseArgs{Code: "c", Name: "n", Type: "free"})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *CourseServiceTestSuite) TestUpdateKeepsCode() {
	s.mockCourseRepo.EXPECT().Update(gomock.Any(), "go-basics", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, args repoargs.CourseUpsert) (*domain.Course, error) {
			return &domain.Course{ID: 1, Code: args.Code, Name: args.Name, Type: args.Type, Price: args.Price}, nil
		})

	course, err := s.courseService.Update(
		s.T().Context(),
		"go-basics",
		CourseArgs{Code: "other", Name: "Go 2", Type: "rent", Price: dec("5")},
	)
	s.Require().NoError(err)
	s.Equal("go-basics", course.Code)
	s.Equal(domain.CourseTypeRent, course.Type)
}

func (s *CourseServiceTestSuite) TestDelete() {
	s.mockCourseRepo.EXPECT().Delete(gomock.Any(), "ok").Return(nil)
	s.mockCourseRepo.EXPECT().Delete(gomock.Any(), "used").Return(domain.ErrForeignKey)
	s.mockCourseRepo.EXPECT().Delete(gomock.Any(), "missing").Return(domain.ErrRecordNotFound)

	s.Require().NoError(s.courseService.Delete(s.T().Context(), "ok"))
	s.Require().ErrorIs(s.courseService.Delete(s.T().Context(), "used"), domain.ErrCourseInUse)
	s.Require().ErrorIs(s.courseService.Delete(s.T().Context(), "missing"), domain.ErrRecordNotFound)
}

func (s *CourseServiceTestSuite) TestGetByCode() {
	course := &domain.Course{ID: 1, Code: "go"}
	s.mockCourseRepo.EXPECT().FindByCode(gomock.Any(), "go").Return(course, nil)
	s.mockCourseRepo.EXPECT().FindByCode(gomock.Any(), "nope").Return(nil, domain.ErrRecordNotFound)

	got, err := s.courseService.GetByCode(s.T().Context(), "go")
	s.Require().NoError(err)
	s.Equal(course, got)

	_, err = s.courseService.GetByCode(s.T().Context(), "nope")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
