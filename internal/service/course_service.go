package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/shopspring/decimal"
)

type CourseService struct {
	courseRepo CourseRepository
}

func NewCourseService(u uow.UOW) (*CourseService, error) {
	courseRepo, err := uow.GetRepositoryAs[CourseRepository](u, uow.RepositoryName(repoargs.CourseRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &CourseService{courseRepo: courseRepo}, nil
}

type CourseArgs struct {
	Code  string
	Name  string
	Type  string
	Price decimal.Decimal
}

func (c *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	courses, err := c.courseRepo.FindAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return courses, nil
}

// GetByCode возвращает курс или domain.ErrRecordNotFound.
func (c *CourseService) GetByCode(ctx context.Context, code string) (*domain.Course, error) {
	course, err := c.courseRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return course, nil
}

// Create создает курс. Ошибки: domain.ErrInvalidCourseType, domain.ErrInvalidPrice, domain.ErrDuplicateKey.
func (c *CourseService) Create(ctx context.Context, args CourseArgs) (*domain.Course, error) {
	upsert, err := courseUpsert(args)
	if err != nil {
		return nil, err
	}
	course, createErr := c.courseRepo.Create(ctx, upsert)
	if createErr != nil {
		return nil, fmt.Errorf("creating course: %w", createErr)
	}
	return course, nil
}

// Update меняет название, тип и цену курса с кодом code. Сам код не меняется.
func (c *CourseService) Update(ctx context.Context, code string, args CourseArgs) (*domain.Course, error) {
	args.Code = code
	upsert, err := courseUpsert(args)
	if err != nil {
		return nil, err
	}
	course, updErr := c.courseRepo.Update(ctx, code, upsert)
	if updErr != nil {
		return nil, fmt.Errorf("updating course: %w", updErr)
	}
	return course, nil
}

// Delete удаляет курс. Курс, по которому уже есть транзакции, удалить нельзя: domain.ErrCourseInUse.
func (c *CourseService) Delete(ctx context.Context, code string) error {
	if err := c.courseRepo.Delete(ctx, code); err != nil {
		if errors.Is(err, domain.ErrForeignKey) {
			return fmt.Errorf("deleting course: %w", domain.ErrCourseInUse)
		}
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

func courseUpsert(args CourseArgs) (repoargs.CourseUpsert, error) {
	courseType, typeErr := domain.ParseCourseType(args.Type)
	if typeErr != nil {
		return repoargs.CourseUpsert{}, typeErr
	}
	course := domain.Course{Code: args.Code, Name: args.Name, Type: courseType, Price: args.Price}
	if err := course.Validate(); err != nil {
		return repoargs.CourseUpsert{}, err
	}
	return repoargs.CourseUpsert{
		Code:  course.Code,
		Name:  course.Name,
		Type:  course.Type,
		Price: course.Price,
	}, nil
}
