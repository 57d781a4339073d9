package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

const selectPurchases = `
	SELECT id, username, user_id, price, timestamp, created_at
	FROM purchases
`

// Repository implements PurchaseRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the purchases table. Ids are UUIDv7 strings, so ordering
// by id follows insertion order.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS purchases (
		id String,
		username String,
		user_id String,
		price Float64,
		timestamp DateTime64(3, 'UTC'),
		created_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (user_id, created_at, id)
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create purchases table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertPurchase inserts a single record with a freshly generated id
func (r *Repository) InsertPurchase(ctx context.Context, record *domain.PurchaseRecord) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate purchase id: %w", err)
	}

	err = r.client.Conn().Exec(ctx,
		"INSERT INTO purchases (id, username, user_id, price, timestamp, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(),
		record.Username,
		record.UserID,
		record.Price,
		record.Timestamp,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	record.ID = id.String()
	return nil
}

// FindByUser returns the purchases of one user, newest first
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error) {
	query := selectPurchases + "WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	return r.query(ctx, query, userID)
}

// FindAll returns at most limit purchases, newest first
func (r *Repository) FindAll(ctx context.Context, limit int) ([]*domain.PurchaseRecord, error) {
	query := selectPurchases + fmt.Sprintf("ORDER BY created_at DESC, id DESC LIMIT %d", limit)
	return r.query(ctx, query)
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.PurchaseRecord, error) {
	rows, err := r.client.Conn().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func(rows driver.Rows) {
		err := rows.Close()
		if err != nil {
			r.log.Error("Failed to close purchase rows", zap.Error(err))
		}
	}(rows)

	records := make([]*domain.PurchaseRecord, 0)
	for rows.Next() {
		var (
			record    domain.PurchaseRecord
			timestamp time.Time
			createdAt time.Time
		)
		if err := rows.Scan(&record.ID, &record.Username, &record.UserID, &record.Price, &timestamp, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase row: %w", err)
		}
		record.Timestamp = timestamp.UTC()
		record.CreatedAt = createdAt.UTC()
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase rows: %w", err)
	}

	return records, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}
