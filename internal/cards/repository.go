package cards

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the card does not exist.
var ErrNotFound = errors.New("card not found")

// Repository persists virtual cards.
type Repository interface {
	Create(ctx context.Context, card Card) error
	Get(ctx context.Context, id string) (Card, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Card, error)
	SetFrozen(ctx context.Context, id string, frozen bool, at time.Time) error
}

const cardColumns = `id, owner_id, label, masked_number, last4, expiry_month, expiry_year, frozen, created_at, updated_at`

// PostgresRepository stores cards in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL card repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanCard(row pgx.Row) (Card, error) {
	var card Card
	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.Label,
		&card.MaskedNumber,
		&card.Last4,
		&card.ExpiryMonth,
		&card.ExpiryYear,
		&card.Frozen,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Card{}, ErrNotFound
	}
	return card, err
}

// Create inserts a card record.
func (r *PostgresRepository) Create(ctx context.Context, card Card) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cards (id, owner_id, label, masked_number, last4, expiry_month, expiry_year, frozen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, card.ID, card.OwnerID, card.Label, card.MaskedNumber, card.Last4, card.ExpiryMonth, card.ExpiryYear, card.Frozen, card.CreatedAt, card.UpdatedAt)
	return err
}

// Get fetches one card by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Card, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)
	return scanCard(row)
}

// ListByOwner returns the owner's cards, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Card, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cardColumns+` FROM cards WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// SetFrozen updates the frozen flag.
func (r *PostgresRepository) SetFrozen(ctx context.Context, id string, frozen bool, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cards SET frozen = $2, updated_at = $3 WHERE id = $1`, id, frozen, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
