// Package fixtures заполняет базу тестовыми юзерами и курсами из yaml файла.
package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultFixtures []byte

type User struct {
	Email    string          `yaml:"email"`
	Password string          `yaml:"password"`
	Roles    []string        `yaml:"roles"`
	Balance  decimal.Decimal `yaml:"balance"`
}

type Course struct {
	Code  string          `yaml:"code"`
	Name  string          `yaml:"name"`
	Type  string          `yaml:"type"`
	Price decimal.Decimal `yaml:"price"`
}

type Fixtures struct {
	Users   []User   `yaml:"users"`
	Courses []Course `yaml:"courses"`
}

// Parse читает фикстуры из r и проверяет курсы.
func Parse(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for _, c := range fx.Courses {
		courseType, typeErr := domain.ParseCourseType(c.Type)
		if typeErr != nil {
			return nil, fmt.Errorf("course `%s`: %w", c.Code, typeErr)
		}
		course := domain.Course{Code: c.Code, Name: c.Name, Type: courseType, Price: c.Price}
		if err := course.Validate(); err != nil {
			return nil, fmt.Errorf("course `%s`: %w", c.Code, err)
		}
	}
	return &fx, nil
}

// Default встроенный набор фикстур.
func Default() (*Fixtures, error) {
	return Parse(bytes.NewReader(defaultFixtures))
}

// Depositor начисляет баланс юзеру внутри транзакции.
type Depositor interface {
	DepositTx(ctx context.Context, tx uow.TX, userID int64, amount decimal.Decimal) (*service.Receipt, error)
}

// Loader записывает фикстуры в базу.
type Loader struct {
	uow       uow.UOW
	hasher    service.PasswordHasher
	depositor Depositor
	l         *logrus.Entry
}

func NewLoader(u uow.UOW, hasher service.PasswordHasher, depositor Depositor, l *logrus.Logger) *Loader {
	return &Loader{
		uow:       u,
		hasher:    hasher,
		depositor: depositor,
		l:         l.WithField("component", "fixtures"),
	}
}

// Load записывает курсы и юзеров в одной транзакции. Уже существующие записи (по коду курса и email)
// пропускаются. Баланс юзера начисляется депозитом, чтобы он совпадал с журналом транзакций.
func (f *Loader) Load(ctx context.Context, fx *Fixtures) error {
	txErr := f.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		if err := f.loadCourses(c, tx, fx.Courses); err != nil {
			return err
		}
		return f.loadUsers(c, tx, fx.Users)
	})
	if txErr != nil {
		return fmt.Errorf("load fixtures: %w", txErr)
	}
	return nil
}

func (f *Loader) loadCourses(ctx context.Context, tx uow.TX, courses []Course) error {
	courseRepo, repoErr := uow.GetAs[service.CourseRepository](tx, uow.RepositoryName(repoargs.CourseRepoName))
	if repoErr != nil {
		return repoErr //nolint:wrapcheck
	}
	for _, c := range courses {
		_, findErr := courseRepo.FindByCode(ctx, c.Code)
		if findErr == nil {
			f.l.WithField("code", c.Code).Info("course exists, skip")
			continue
		}
		if !errors.Is(findErr, domain.ErrRecordNotFound) {
			return findErr //nolint:wrapcheck
		}
		if _, err := courseRepo.Create(ctx, repoargs.CourseUpsert{
			Code:  c.Code,
			Name:  c.Name,
			Type:  domain.CourseType(c.Type),
			Price: c.Price,
		}); err != nil {
			return fmt.Errorf("course `%s`: %w", c.Code, err)
		}
		f.l.WithField("code", c.Code).Info("course created")
	}
	return nil
}

func (f *Loader) loadUsers(ctx context.Context, tx uow.TX, users []User) error {
	userRepo, repoErr := uow.GetAs[service.UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if repoErr != nil {
		return repoErr //nolint:wrapcheck
	}
	for _, u := range users {
		_, findErr := userRepo.FindByEmail(ctx, u.Email)
		if findErr == nil {
			f.l.WithField("email", u.Email).Info("user exists, skip")
			continue
		}
		if !errors.Is(findErr, domain.ErrRecordNotFound) {
			return findErr //nolint:wrapcheck
		}

		password, hashErr := f.hasher.HashPassword(u.Password)
		if hashErr != nil {
			return fmt.Errorf("user `%s`: %w", u.Email, hashErr)
		}
		roles := u.Roles
		if len(roles) == 0 {
			roles = []string{domain.RoleUser}
		}
		user, createErr := userRepo.CreateUser(ctx, repoargs.CreateUser{
			Email:    u.Email,
			Password: password,
			Roles:    roles,
		})
		if createErr != nil {
			return fmt.Errorf("user `%s`: %w", u.Email, createErr)
		}

		if u.Balance.IsPositive() {
			if _, err := f.depositor.DepositTx(ctx, tx, user.ID, u.Balance); err != nil {
				return fmt.Errorf("user `%s`: %w", u.Email, err)
			}
		}
		f.l.WithField("email", u.Email).Info("user created")
	}
	return nil
}
