package pgrepo

import (
	"context"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const courseColumns = `id, code, name, type::text, price`

type CourseRepository struct {
	conn uow.DBTX
}

func NewCourseRepository(conn uow.DBTX) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Create создает курс. При дубликате кода возвращает domain.ErrDuplicateKey.
func (c *CourseRepository) Create(ctx context.Context, args repoargs.CourseUpsert) (*domain.Course, error) {
	row := c.conn.QueryRow(ctx,
		`INSERT INTO courses (code, name, type, price) VALUES ($1, $2, $3::course_type, $4) RETURNING `+courseColumns,
		args.Code, args.Name, string(args.Type), args.Price,
	)
	course, err := scanCourse(row)
	if err != nil {
		return nil, convertErr(err, "creating course with code `%s`", args.Code)
	}
	return course, nil
}

// Update обновляет название, тип и цену курса с кодом code.
func (c *CourseRepository) Update(ctx context.Context, code string, args repoargs.CourseUpsert) (*domain.Course, error) {
	row := c.conn.QueryRow(ctx,
		`UPDATE courses SET name = $2, type = $3::course_type, price = $4 WHERE code = $1 RETURNING `+courseColumns,
		code, args.Name, string(args.Type), args.Price,
	)
	course, err := scanCourse(row)
	if err != nil {
		return nil, convertErr(err, "updating course with code `%s`", code)
	}
	return course, nil
}

// Delete удаляет курс. Если на курс ссылаются транзакции, вернется domain.ErrForeignKey.
func (c *CourseRepository) Delete(ctx context.Context, code string) error {
	tag, err := c.conn.Exec(ctx, `DELETE FROM courses WHERE code = $1`, code)
	if err != nil {
		return convertErr(err, "deleting course with code `%s`", code)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting course with code `%s`", code)
	}
	return nil
}

func (c *CourseRepository) FindByCode(ctx context.Context, code string) (*domain.Course, error) {
	row := c.conn.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE code = $1`, code)
	course, err := scanCourse(row)
	if err != nil {
		return nil, convertErr(err, "finding course by code `%s`", code)
	}
	return course, nil
}

func (c *CourseRepository) FindAll(ctx context.Context) ([]domain.Course, error) {
	rows, err := c.conn.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "getting all courses")
	}
	courses, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Course, error) {
		course, scanErr := scanCourse(row)
		if scanErr != nil {
			return domain.Course{}, scanErr
		}
		return *course, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting courses")
	}
	return courses, nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var course domain.Course
	var courseType string
	if err := row.Scan(&course.ID, &course.Code, &course.Name, &courseType, &course.Price); err != nil {
		return nil, err //nolint:wrapcheck
	}
	course.Type = domain.CourseType(courseType)
	return &course, nil
}
