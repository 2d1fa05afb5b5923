package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no payment matches the lookup.
var ErrNotFound = errors.New("payment not found")

// Repository persists payment records.
type Repository interface {
	Create(ctx context.Context, payment Payment) error
	Get(ctx context.Context, id string) (Payment, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	// ListByWallet returns payments involving the wallet, newest first.
	ListByWallet(ctx context.Context, walletID string, page, limit int) ([]Payment, error)
	// Counterparties returns wallet IDs this wallet has transacted with.
	Counterparties(ctx context.Context, walletID string, limit int) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// PostgresRepository stores payments in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed payments repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const paymentColumns = `id, kind, from_wallet_id, to_wallet_id, amount, description, status, client_tx_id, created_at, updated_at`

// Create inserts a payment record.
func (r *PostgresRepository) Create(ctx context.Context, payment Payment) error {
	id, err := uuid.Parse(payment.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO payments (id, kind, from_wallet_id, to_wallet_id, amount, description, status, client_tx_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, payment.Kind, payment.FromWalletID, payment.ToWalletID, payment.Amount, payment.Description, payment.Status, payment.ClientTxID, payment.CreatedAt.UTC(), payment.UpdatedAt.UTC())
	return err
}

// Get fetches a payment by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return Payment{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID)
	return scanPayment(row)
}

// UpdateStatus transitions a payment's status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3`, status, at.UTC(), paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByWallet returns payments involving the wallet, newest first.
func (r *PostgresRepository) ListByWallet(ctx context.Context, walletID string, page, limit int) ([]Payment, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments
        WHERE from_wallet_id = $1 OR to_wallet_id = $1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`, walletID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Counterparties lists distinct wallet IDs this wallet has transacted with.
func (r *PostgresRepository) Counterparties(ctx context.Context, walletID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `SELECT DISTINCT CASE WHEN from_wallet_id = $1 THEN to_wallet_id ELSE from_wallet_id END
        FROM payments WHERE from_wallet_id = $1 OR to_wallet_id = $1 LIMIT $2`, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the total number of payment records.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&n)
	return n, err
}

func scanPayment(row pgx.Row) (Payment, error) {
	var (
		id                   uuid.UUID
		p                    Payment
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &p.Kind, &p.FromWalletID, &p.ToWalletID, &p.Amount, &p.Description, &p.Status, &p.ClientTxID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	p.ID = id.String()
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
