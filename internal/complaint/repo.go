package complaint

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Repository persists complaints in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new complaint. id and created_at are assigned here; the
// store's clock is the only ordering authority.
func (r *Repository) Insert(ctx context.Context, cmp Complaint) (Complaint, error) {
	if cmp.ID == "" {
		cmp.ID = uuid.NewString()
	}
	if cmp.CreatedAt.IsZero() {
		cmp.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO complaints (id, student_id, reason, photo, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, cmp.ID, cmp.StudentID, cmp.Reason, cmp.Photo, cmp.CreatedAt)
	if err != nil {
		return Complaint{}, err
	}
	return cmp, nil
}

// ListByStudent returns a student's complaints newest-first. No complaints is
// an empty result, not an error.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, reason, photo, created_at
		FROM complaints
		WHERE student_id = $1
		ORDER BY created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// ListAll returns every complaint newest-first.
func (r *Repository) ListAll(ctx context.Context) ([]Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, reason, photo, created_at
		FROM complaints
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func scanComplaints(rows *sql.Rows) ([]Complaint, error) {
	var out []Complaint
	for rows.Next() {
		var cmp Complaint
		if err := rows.Scan(&cmp.ID, &cmp.StudentID, &cmp.Reason, &cmp.Photo, &cmp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cmp)
	}
	return out, rows.Err()
}
