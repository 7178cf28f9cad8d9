package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
)

const (
	uniqueViolation      = "23505"
	emailUniqueIndexName = "users_email_key"

	userColumns = "uuid, name, lastname, email, password_hash, role, is_active, created_at, updated_at"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) UserRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindOne(ctx context.Context, filter models.UserFilter) (*models.User, error) {
	if filter.IsEmpty() {
		return nil, customerrors.ErrUserNotFound
	}

	where, args := filterClause(filter, 1)
	query := "SELECT " + userColumns + " FROM users WHERE " + where + " LIMIT 1"

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerrors.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at, uuid"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, user models.User) error {
	query := "INSERT INTO users (" + userColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)"

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.UUID,
		user.Name,
		user.Lastname,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err)
	}

	return nil
}

func (r *PostgresRepository) MergeUpdate(ctx context.Context, filter models.UserFilter, patch models.UserPatch) (*models.User, error) {
	if filter.IsEmpty() {
		return nil, customerrors.ErrUserNotFound
	}

	where, args := filterClause(filter, 6)
	query := "UPDATE users SET " +
		"name = COALESCE($1, name), " +
		"lastname = COALESCE($2, lastname), " +
		"email = COALESCE($3, email), " +
		"is_active = COALESCE($4, is_active), " +
		"updated_at = COALESCE($5, updated_at) " +
		"WHERE " + where + " RETURNING " + userColumns

	params := append([]any{
		patch.Name,
		patch.Lastname,
		patch.Email,
		patch.IsActive,
		patch.UpdatedAt,
	}, args...)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, params...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerrors.ErrUserNotFound
		}
		return nil, translateWriteError(err)
	}

	return user, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		switch {
		case isSSLerror(err):
			return customerrors.ErrDbSSLHandshakeFailed
		case errors.Is(err, context.DeadlineExceeded), ctx.Err() == context.DeadlineExceeded:
			return customerrors.ErrDbTimeout
		default:
			return customerrors.ErrDbUnreacheable
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UUID,
		&user.Name,
		&user.Lastname,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// filterClause renders the non-empty filter fields as a conjunction of
// placeholders numbered from first.
func filterClause(filter models.UserFilter, first int) (string, []any) {
	var conds []string
	var args []any

	if filter.UUID != "" {
		conds = append(conds, fmt.Sprintf("uuid = $%d", first+len(args)))
		args = append(args, filter.UUID)
	}
	if filter.Email != "" {
		conds = append(conds, fmt.Sprintf("email = $%d", first+len(args)))
		args = append(args, filter.Email)
	}

	return strings.Join(conds, " AND "), args
}

func translateWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == emailUniqueIndexName {
		return customerrors.ErrEmailAlreadyExists
	}
	return err
}

func isSSLerror(err error) bool {
	return strings.Contains(err.Error(), "SSL") ||
		strings.Contains(err.Error(), "certificate") ||
		strings.Contains(err.Error(), "TLS")
}
