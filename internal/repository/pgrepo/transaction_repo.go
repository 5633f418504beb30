package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `t.id, t.created_at, t.user_id, t.course_id, c.code, t.type::text, t.amount, t.expires_at`

// TransactionRepository журнал транзакций. Записи только добавляются, изменение и удаление не предусмотрены.
type TransactionRepository struct {
	conn uow.DBTX
}

func NewTransactionRepository(conn uow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

// Create добавляет транзакцию в журнал. Повторная оплата того же курса тем же юзером нарушает уникальный
// индекс и возвращается как domain.ErrDuplicateKey.
func (t *TransactionRepository) Create(
	ctx context.Context,
	args repoargs.TransactionCreate,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `
		WITH t AS (
			INSERT INTO transactions (user_id, course_id, type, amount, created_at, expires_at)
			VALUES ($1, $2, $3::transaction_type, $4, $5, $6)
			RETURNING *
		)
		SELECT `+transactionColumns+` FROM t LEFT JOIN courses c ON c.id = t.course_id`,
		args.UserID, args.CourseID, string(args.Type), args.Amount, args.CreatedAt, args.ExpiresAt,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating %s transaction for user %d", args.Type, args.UserID)
	}
	return transaction, nil
}

// FindExistingPurchase ищет оплату курса courseID юзером userID. Возвращает domain.ErrRecordNotFound если
// оплаты нет.
func (t *TransactionRepository) FindExistingPurchase(
	ctx context.Context,
	userID int64,
	courseID int64,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t LEFT JOIN courses c ON c.id = t.course_id
		WHERE t.user_id = $1 AND t.course_id = $2 AND t.type = 'payment'
		LIMIT 1`,
		userID, courseID,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "finding purchase of course %d by user %d", courseID, userID)
	}
	return transaction, nil
}

// FindByUser возвращает транзакции юзера, отсортированные по дате создания по убыванию. Фильтры
// применяются только если заданы. now - момент, относительно которого аренда считается истекшей.
func (t *TransactionRepository) FindByUser(
	ctx context.Context,
	userID int64,
	filter domain.TransactionFilter,
	now time.Time,
) ([]domain.Transaction, error) {
	var txType, courseCode *string
	if filter.Type != nil {
		s := string(*filter.Type)
		txType = &s
	}
	if filter.CourseCode != "" {
		courseCode = &filter.CourseCode
	}

	rows, err := t.conn.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t LEFT JOIN courses c ON c.id = t.course_id
		WHERE t.user_id = $1
			AND ($2::text IS NULL OR t.type::text = $2::text)
			AND ($3::text IS NULL OR c.code = $3::text)
			AND (NOT $4::boolean OR t.expires_at IS NULL OR t.expires_at > $5)
		ORDER BY t.created_at DESC, t.id DESC`,
		userID, txType, courseCode, filter.SkipExpired, now,
	)
	if err != nil {
		return nil, convertErr(err, "getting transactions of user %d", userID)
	}
	transactions, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		transaction, scanErr := scanTransaction(row)
		if scanErr != nil {
			return domain.Transaction{}, scanErr
		}
		return *transaction, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting transactions of user %d", userID)
	}
	return transactions, nil
}

// FindExpiringBetween возвращает оплаты, срок аренды которых попадает в полуинтервал [period.From, period.To).
// Результат отсортирован по юзеру и сроку окончания, что позволяет группировать его потоково.
func (t *TransactionRepository) FindExpiringBetween(
	ctx context.Context,
	period repoargs.Period,
) ([]domain.ExpiringRental, error) {
	rows, err := t.conn.Query(ctx, `
		SELECT u.id, u.email, c.name, t.expires_at
		FROM transactions t
			JOIN billing_users u ON u.id = t.user_id
			JOIN courses c ON c.id = t.course_id
		WHERE t.type = 'payment' AND t.expires_at >= $1 AND t.expires_at < $2
		ORDER BY u.id, t.expires_at, t.id`,
		period.From, period.To,
	)
	if err != nil {
		return nil, convertErr(err, "getting expiring rentals")
	}
	rentals, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExpiringRental, error) {
		var r domain.ExpiringRental
		scanErr := row.Scan(&r.UserID, &r.UserEmail, &r.CourseName, &r.ExpiresAt)
		return r, scanErr //nolint:wrapcheck
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting expiring rentals")
	}
	return rentals, nil
}

// FindPaymentsBetween возвращает оплаты юзера, созданные в закрытом интервале [period.From, period.To].
func (t *TransactionRepository) FindPaymentsBetween(
	ctx context.Context,
	userID int64,
	period repoargs.Period,
) ([]domain.PaymentReportLine, error) {
	rows, err := t.conn.Query(ctx, `
		SELECT c.name, c.type::text, t.created_at, t.amount
		FROM transactions t
			LEFT JOIN courses c ON c.id = t.course_id
		WHERE t.user_id = $1 AND t.type = 'payment' AND t.created_at BETWEEN $2 AND $3
		ORDER BY t.created_at, t.id`,
		userID, period.From, period.To,
	)
	if err != nil {
		return nil, convertErr(err, "getting payments of user %d", userID)
	}
	lines, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentReportLine, error) {
		var line domain.PaymentReportLine
		var name, courseType *string
		if scanErr := row.Scan(&name, &courseType, &line.CreatedAt, &line.Amount); scanErr != nil {
			return line, scanErr //nolint:wrapcheck
		}
		if name != nil {
			line.CourseName = *name
		}
		if courseType != nil {
			line.CourseType = domain.CourseType(*courseType)
		}
		return line, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "collecting payments of user %d", userID)
	}
	return lines, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var courseCode *string
	var txType string
	if err := row.Scan(
		&transaction.ID,
		&transaction.CreatedAt,
		&transaction.UserID,
		&transaction.CourseID,
		&courseCode,
		&txType,
		&transaction.Amount,
		&transaction.ExpiresAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if courseCode != nil {
		transaction.CourseCode = *courseCode
	}
	transaction.Type = domain.TransactionType(txType)
	return &transaction, nil
}
