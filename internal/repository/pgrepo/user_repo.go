package pgrepo

import (
	"context"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, created_at, updated_at, email, password, roles, balance`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера в базе данных. В случае конфликта email возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	roles := user.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	row := u.conn.QueryRow(ctx,
		`INSERT INTO billing_users (email, password, roles) VALUES ($1, $2, $3) RETURNING `+userColumns,
		user.Email, user.Password, roles,
	)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return dbUser, nil
}

// FindByEmail ищет юзера по email. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена.
func (u *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM billing_users WHERE email = $1`, email)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by email %s", email)
	}
	return dbUser, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM billing_users WHERE id = $1`, id)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return dbUser, nil
}

// LockByID выбирает юзера с блокировкой строки до конца транзакции. Имеет смысл только внутри uow.TX:
// конкурентные изменения баланса того же юзера будут ждать коммита или отката.
func (u *UserRepository) LockByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM billing_users WHERE id = $1 FOR UPDATE`, id)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "locking user by id %d", id)
	}
	return dbUser, nil
}

// UpdateBalance записывает новое значение баланса.
func (u *UserRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		`UPDATE billing_users SET balance = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, balance,
	)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating balance of user %d", id)
	}
	return dbUser, nil
}

// FindAll возвращает всех юзеров, отсортированных по id.
func (u *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := u.conn.Query(ctx, `SELECT `+userColumns+` FROM billing_users ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "getting all users")
	}
	users, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		dbUser, scanErr := scanUser(row)
		if scanErr != nil {
			return domain.User{}, scanErr
		}
		return *dbUser, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting users")
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Email,
		&user.Password,
		&user.Roles,
		&user.Balance,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
