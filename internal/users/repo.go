package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new user. The caller assigns nothing; id and created_at are
// set here.
func (r *Repository) Insert(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, department, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.CreatedAt)
	if err != nil {
		// two concurrent signups can both pass the duplicate pre-check;
		// the unique index is the real arbiter
		if isUniqueViolation(err) {
			return User{}, ErrExists
		}
		return User{}, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetByEmail returns the user with that email, or nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, department, created_at
		FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

// GetByID returns the user with that id, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, department, created_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// ListStudents returns every user with role STUDENT, newest signup first.
func (r *Repository) ListStudents(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash, role, department, created_at
		FROM users WHERE role = $1
		ORDER BY created_at DESC
	`, RoleStudent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
