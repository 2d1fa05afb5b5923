package kyc

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the submission does not exist.
var ErrNotFound = errors.New("kyc submission not found")

// Repository persists KYC submissions.
type Repository interface {
	Create(ctx context.Context, submission Submission) error
	Get(ctx context.Context, id string) (Submission, error)
	LatestByUser(ctx context.Context, userID string) (Submission, error)
	ListPending(ctx context.Context, limit int) ([]Submission, error)
	CountPending(ctx context.Context) (int64, error)
	Update(ctx context.Context, submission Submission) error
}

const submissionColumns = `id, user_id, doc_type, doc_number, status, note, created_at, reviewed_at, reviewed_by`

// PostgresRepository stores submissions in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL submission repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanSubmission(row pgx.Row) (Submission, error) {
	var s Submission
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.DocType,
		&s.DocNumber,
		&s.Status,
		&s.Note,
		&s.CreatedAt,
		&s.ReviewedAt,
		&s.ReviewedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	return s, err
}

// Create inserts a submission.
func (r *PostgresRepository) Create(ctx context.Context, submission Submission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO kyc_submissions (id, user_id, doc_type, doc_number, status, note, created_at, reviewed_at, reviewed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, submission.ID, submission.UserID, submission.DocType, submission.DocNumber, submission.Status, submission.Note, submission.CreatedAt, submission.ReviewedAt, submission.ReviewedBy)
	return err
}

// Get fetches one submission by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Submission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM kyc_submissions WHERE id = $1`, id)
	return scanSubmission(row)
}

// LatestByUser fetches the user's most recent submission.
func (r *PostgresRepository) LatestByUser(ctx context.Context, userID string) (Submission, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+submissionColumns+` FROM kyc_submissions
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1
	`, userID)
	return scanSubmission(row)
}

// ListPending returns the oldest pending submissions first.
func (r *PostgresRepository) ListPending(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+submissionColumns+` FROM kyc_submissions
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2
	`, StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountPending counts open submissions.
func (r *PostgresRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM kyc_submissions WHERE status = $1`, StatusPending).Scan(&count)
	return count, err
}

// Update rewrites the mutable review fields.
func (r *PostgresRepository) Update(ctx context.Context, submission Submission) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE kyc_submissions SET status = $2, note = $3, reviewed_at = $4, reviewed_by = $5 WHERE id = $1
	`, submission.ID, submission.Status, submission.Note, submission.ReviewedAt, submission.ReviewedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
